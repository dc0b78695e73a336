package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appointmentRepo "barbook/database/repository/appointment"
	scheduleRepo "barbook/database/repository/schedule"
	"barbook/models"
	"barbook/services/schedule"
	"barbook/utils"
)

// LocalSource computes availability from the schedule and appointment stores,
// obeying the same slot-generation contract a remote availability endpoint
// would. Barbers without a stored schedule fall back to the default weekly
// pattern.
type LocalSource struct {
	Schedules    scheduleRepo.ScheduleRepository
	Appointments appointmentRepo.AppointmentRepository
	Now          func() time.Time
}

// NewLocalSource wires a LocalSource against the given repositories.
func NewLocalSource(schedules scheduleRepo.ScheduleRepository, appointments appointmentRepo.AppointmentRepository) *LocalSource {
	return &LocalSource{Schedules: schedules, Appointments: appointments, Now: time.Now}
}

func (s *LocalSource) FetchDayAvailability(ctx context.Context, barberID string, serviceIDs []string, date string) (*models.DayAvailability, error) {
	sched, err := s.Schedules.GetByBarberID(ctx, barberID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.GetLogger().Debug("no stored schedule, using default pattern",
			zap.String("barberId", barberID))
		sched = models.DefaultSchedule(barberID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load schedule for barber %s: %w", barberID, err)
	}

	existing, err := s.Appointments.GetActiveByBarberAndDate(ctx, barberID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments for barber %s on %s: %w", barberID, date, err)
	}

	slots, err := schedule.GenerateSlots(date, sched, existing, barberID, s.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate slots: %w", err)
	}

	day := &models.DayAvailability{Date: date, AvailableSlots: []models.Slot{}, BookedSlots: []models.Slot{}}
	for _, slot := range slots {
		switch {
		case slot.Available:
			day.AvailableSlots = append(day.AvailableSlots, slot)
		case slot.Booked:
			day.BookedSlots = append(day.BookedSlots, slot)
		}
	}
	return day, nil
}
