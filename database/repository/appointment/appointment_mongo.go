package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barbook/database"
	"barbook/models"
)

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a Mongo-backed appointment repository.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &mongoAppointmentRepo{coll: database.Collection("appointments")}
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) GetActiveByBarberAndDate(ctx context.Context, barberID, date string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"barberId": barberID,
		"date":     date,
		"status":   bson.M{"$ne": models.StatusCancelled},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) UpdateSchedule(ctx context.Context, id, date string, start int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"date":      date,
		"start":     start,
		"updatedAt": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment schedule: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAppointmentRepo) ListByCustomer(ctx context.Context, customerID, date string, startMinute int, upcoming bool, page, size int) ([]models.Appointment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cutoff bson.M
	sortOrder := 1
	if upcoming {
		cutoff = bson.M{"$or": bson.A{
			bson.M{"date": bson.M{"$gt": date}},
			bson.M{"date": date, "start": bson.M{"$gte": startMinute}},
		}}
	} else {
		cutoff = bson.M{"$or": bson.A{
			bson.M{"date": bson.M{"$lt": date}},
			bson.M{"date": date, "start": bson.M{"$lt": startMinute}},
		}}
		sortOrder = -1
	}
	filter := bson.M{
		"customerId": customerID,
		"status":     bson.M{"$ne": models.StatusCancelled},
		"$and":       bson.A{cutoff},
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: sortOrder}, {Key: "start", Value: sortOrder}}).
		SetSkip(int64(page * size)).
		SetLimit(int64(size))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}
