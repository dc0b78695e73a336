package appointment

import (
	"context"

	"barbook/models"
)

// AppointmentService owns appointment persistence operations: the finalize
// calls the booking workflow invokes (create, reschedule), cancellation, and
// the customer-facing listings. Create and Reschedule re-check the slot at
// submission time and fail with a ConflictError when it was taken in the
// meantime.
type AppointmentService interface {
	Create(ctx context.Context, req models.CreateAppointmentRequest) (*models.AppointmentRecord, error)
	Reschedule(ctx context.Context, appointmentID, newDate string, newStart int) (*models.AppointmentRecord, error)
	Cancel(ctx context.Context, appointmentID string) error
	GetRecord(ctx context.Context, appointmentID string) (*models.AppointmentRecord, error)
	Upcoming(ctx context.Context, customerID string, page, size int) (*models.Page[models.AppointmentRecord], error)
	Past(ctx context.Context, customerID string, page, size int) (*models.Page[models.AppointmentRecord], error)
}
