package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barbook/database"
	"barbook/models"
)

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo returns a Mongo-backed schedule repository.
func NewMongoScheduleRepo() ScheduleRepository {
	return &mongoScheduleRepo{coll: database.Collection("schedules")}
}

func (r *mongoScheduleRepo) GetByBarberID(ctx context.Context, barberID string) (*models.WeeklySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.WeeklySchedule
	if err := r.coll.FindOne(ctx, bson.M{"barberId": barberID}).Decode(&schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *mongoScheduleRepo) Upsert(ctx context.Context, schedule *models.WeeklySchedule) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"barberId": schedule.BarberID}
	update := bson.M{"$set": schedule}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return nil
}
