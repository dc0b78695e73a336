package appointmentRepo

import (
	"context"

	"barbook/models"
)

// AppointmentRepository defines persistence for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// GetActiveByBarberAndDate returns non-cancelled appointments for one
	// barber on one date, used for slot collision detection.
	GetActiveByBarberAndDate(ctx context.Context, barberID, date string) ([]models.Appointment, error)
	// UpdateSchedule moves an appointment to a new date/start time.
	UpdateSchedule(ctx context.Context, id, date string, start int) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	// ListByCustomer pages through a customer's non-cancelled appointments.
	// When upcoming is true only appointments at or after the (date, start)
	// cursor are returned in ascending order; otherwise earlier ones in
	// descending order.
	ListByCustomer(ctx context.Context, customerID, date string, startMinute int, upcoming bool, page, size int) ([]models.Appointment, int64, error)
}
