// Package appointment implements the persistence side of the booking engine:
// creating, rescheduling, cancelling, and listing appointments.
package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appointmentRepo "barbook/database/repository/appointment"
	catalogRepo "barbook/database/repository/catalog"
	scheduleRepo "barbook/database/repository/schedule"
	"barbook/models"
	"barbook/services/schedule"
	"barbook/services/tasks"
	"barbook/utils"
)

// TaskEnqueuer is the slice of asynq.Client the service needs; kept narrow so
// tests can substitute it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Appointments appointmentRepo.AppointmentRepository
	Catalog      catalogRepo.CatalogRepository
	Schedules    scheduleRepo.ScheduleRepository
	Tasks        TaskEnqueuer // optional; nil disables the deferred status sweep
	Now          func() time.Time
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create validates the request, re-checks that the slot is still open, and
// persists a PENDING appointment.
func (s *DefaultAppointmentService) Create(ctx context.Context, req models.CreateAppointmentRequest) (*models.AppointmentRecord, error) {
	shop, err := s.Catalog.GetShopByID(ctx, req.ShopID)
	if err != nil {
		return nil, fmt.Errorf("shop %s not found: %w", req.ShopID, err)
	}
	barber, err := s.Catalog.GetBarberByID(ctx, req.BarberID)
	if err != nil {
		return nil, fmt.Errorf("barber %s not found: %w", req.BarberID, err)
	}
	if barber.ShopID != shop.ID {
		return nil, fmt.Errorf("barber %s does not belong to shop %s", barber.ID, shop.ID)
	}
	services, err := s.Catalog.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve services: %w", err)
	}

	if err := s.checkSlotOpen(ctx, req.BarberID, req.Date, req.Start, ""); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		CustomerID:      req.CustomerID,
		BarberID:        req.BarberID,
		ShopID:          req.ShopID,
		ServiceIDs:      req.ServiceIDs,
		Date:            req.Date,
		Start:           req.Start,
		DurationMinutes: models.TotalDuration(services),
		TotalPrice:      models.TotalPrice(services),
		Status:          models.StatusPending,
	}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.enqueueSweep(appt)

	return s.buildRecord(appt, barber, shop, services), nil
}

// Reschedule moves an existing appointment to a new time. The result keeps
// the same appointment identifier with an updated scheduled time.
func (s *DefaultAppointmentService) Reschedule(ctx context.Context, appointmentID, newDate string, newStart int) (*models.AppointmentRecord, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointment %s not found: %w", appointmentID, err)
	}
	if appt.Status != models.StatusPending && appt.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("appointment %s is %s and cannot be rescheduled", appointmentID, appt.Status)
	}

	// The appointment being moved must not collide with itself when it is
	// pushed to a different slot on the same day.
	if err := s.checkSlotOpen(ctx, appt.BarberID, newDate, newStart, appt.ID); err != nil {
		return nil, err
	}

	if err := s.Appointments.UpdateSchedule(ctx, appointmentID, newDate, newStart); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	appt.Date = newDate
	appt.Start = newStart

	s.enqueueSweep(appt)

	return s.GetRecord(ctx, appointmentID)
}

// Cancel marks the appointment CANCELLED, freeing its slot.
func (s *DefaultAppointmentService) Cancel(ctx context.Context, appointmentID string) error {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("appointment %s not found: %w", appointmentID, err)
	}
	if appt.Status == models.StatusCancelled || appt.Status == models.StatusCompleted {
		return fmt.Errorf("appointment %s is already %s", appointmentID, appt.Status)
	}
	if err := s.Appointments.UpdateStatus(ctx, appointmentID, models.StatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}

// GetRecord assembles the enriched view of one appointment.
func (s *DefaultAppointmentService) GetRecord(ctx context.Context, appointmentID string) (*models.AppointmentRecord, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointment %s not found: %w", appointmentID, err)
	}
	return s.recordFor(ctx, appt)
}

func (s *DefaultAppointmentService) Upcoming(ctx context.Context, customerID string, page, size int) (*models.Page[models.AppointmentRecord], error) {
	return s.list(ctx, customerID, true, page, size)
}

func (s *DefaultAppointmentService) Past(ctx context.Context, customerID string, page, size int) (*models.Page[models.AppointmentRecord], error) {
	return s.list(ctx, customerID, false, page, size)
}

func (s *DefaultAppointmentService) list(ctx context.Context, customerID string, upcoming bool, page, size int) (*models.Page[models.AppointmentRecord], error) {
	now := s.now()
	date := now.Format(models.DateLayout)
	minute := now.Hour()*60 + now.Minute()

	appts, total, err := s.Appointments.ListByCustomer(ctx, customerID, date, minute, upcoming, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	records := make([]models.AppointmentRecord, 0, len(appts))
	for i := range appts {
		record, err := s.recordFor(ctx, &appts[i])
		if err != nil {
			utils.GetLogger().Warn("skipping appointment with unresolvable references",
				zap.String("appointmentId", appts[i].ID), zap.Error(err))
			continue
		}
		records = append(records, *record)
	}
	return models.NewPage(records, page, size, total), nil
}

// checkSlotOpen regenerates the day's slots and verifies the requested start
// is offered. excludeID removes the appointment being rescheduled from
// collision detection.
func (s *DefaultAppointmentService) checkSlotOpen(ctx context.Context, barberID, date string, start int, excludeID string) error {
	sched, err := s.Schedules.GetByBarberID(ctx, barberID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		sched = models.DefaultSchedule(barberID)
	} else if err != nil {
		return fmt.Errorf("failed to load schedule for barber %s: %w", barberID, err)
	}

	existing, err := s.Appointments.GetActiveByBarberAndDate(ctx, barberID, date)
	if err != nil {
		return fmt.Errorf("failed to load appointments: %w", err)
	}
	if excludeID != "" {
		kept := existing[:0]
		for _, a := range existing {
			if a.ID != excludeID {
				kept = append(kept, a)
			}
		}
		existing = kept
	}

	slots, err := schedule.GenerateSlots(date, sched, existing, barberID, s.now())
	if err != nil {
		return fmt.Errorf("failed to generate slots: %w", err)
	}
	for _, slot := range slots {
		if slot.Start == start {
			if !slot.Available {
				return NewSlotConflictError(fmt.Sprintf("slot %s on %s is no longer available", slot.Label, date))
			}
			return nil
		}
	}
	return NewSlotConflictError(fmt.Sprintf("no bookable slot at minute %d on %s", start, date))
}

func (s *DefaultAppointmentService) enqueueSweep(appt *models.Appointment) {
	if s.Tasks == nil {
		return
	}
	fireAt := appt.EndTime(s.now().Location())
	task, opts, err := tasks.NewStatusSweepTask(appt.ID, fireAt)
	if err == nil {
		_, err = s.Tasks.Enqueue(task, opts...)
	}
	if err != nil {
		// The sweep is housekeeping; a failed enqueue never blocks a booking.
		utils.GetLogger().Warn("failed to enqueue status sweep",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func (s *DefaultAppointmentService) recordFor(ctx context.Context, appt *models.Appointment) (*models.AppointmentRecord, error) {
	barber, err := s.Catalog.GetBarberByID(ctx, appt.BarberID)
	if err != nil {
		return nil, fmt.Errorf("barber %s not found: %w", appt.BarberID, err)
	}
	shop, err := s.Catalog.GetShopByID(ctx, appt.ShopID)
	if err != nil {
		return nil, fmt.Errorf("shop %s not found: %w", appt.ShopID, err)
	}
	services, err := s.Catalog.GetServicesByIDs(ctx, appt.ServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve services: %w", err)
	}
	return s.buildRecord(appt, barber, shop, services), nil
}

func (s *DefaultAppointmentService) buildRecord(appt *models.Appointment, barber *models.Barber, shop *models.Shop, services []models.Service) *models.AppointmentRecord {
	return &models.AppointmentRecord{
		AppointmentID:        appt.ID,
		CustomerID:           appt.CustomerID,
		BarberID:             barber.ID,
		BarberName:           barber.Name,
		ShopID:               shop.ID,
		ShopName:             shop.Name,
		Services:             services,
		TotalPrice:           appt.TotalPrice,
		TotalDurationMinutes: appt.DurationMinutes,
		Status:               appt.Status,
		ScheduledTime:        appt.ScheduledTime(s.now().Location()),
		CreatedAt:            appt.CreatedAt,
	}
}
