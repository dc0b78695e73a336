package booking

import (
	"context"

	"barbook/models"
)

// BookingSessionService drives the workflow that turns a customer's
// selections into a persisted appointment. A fresh booking walks
// Service -> Barber -> Time -> Confirm -> Success; a reschedule session
// starts directly in Time with its services and barber fixed.
type BookingSessionService interface {
	Initiate(ctx context.Context, customerID, shopID string) (*models.BookingSession, error)
	InitiateReschedule(ctx context.Context, customerID, appointmentID string) (*models.BookingSession, error)
	SelectServices(ctx context.Context, sessionID string, serviceIDs []string) (*models.BookingSession, error)
	SelectBarber(ctx context.Context, sessionID, barberID string) (*models.BookingSession, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, *models.DayAvailability, error)
	SelectSlot(ctx context.Context, sessionID string, start int) (*models.BookingSession, error)
	Back(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Confirm(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Cancel(ctx context.Context, sessionID string) error
}
