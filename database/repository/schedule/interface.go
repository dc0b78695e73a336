package scheduleRepo

import (
	"context"

	"barbook/models"
)

// ScheduleRepository defines persistence for barber weekly schedules.
type ScheduleRepository interface {
	// GetByBarberID returns the stored schedule, or mongo.ErrNoDocuments
	// when the barber has none configured.
	GetByBarberID(ctx context.Context, barberID string) (*models.WeeklySchedule, error)
	Upsert(ctx context.Context, schedule *models.WeeklySchedule) error
}
