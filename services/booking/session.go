// Package booking implements the appointment booking workflow: a step-ordered
// session controller coordinating catalog data, availability answers, and the
// finalize operations.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogRepo "barbook/database/repository/catalog"
	"barbook/models"
	"barbook/services/appointment"
	"barbook/services/availability"
	"barbook/utils"
)

// DefaultBookingSessionService is the production workflow controller.
type DefaultBookingSessionService struct {
	Store        SessionStore
	Catalog      catalogRepo.CatalogRepository
	Availability *availability.Query
	Appointments appointment.AppointmentService

	SessionTTL  time.Duration
	WindowDays  int
	Now         func() time.Time
}

func (s *DefaultBookingSessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Initiate creates a fresh booking session for the shop, starting at the
// service-selection step.
func (s *DefaultBookingSessionService) Initiate(ctx context.Context, customerID, shopID string) (*models.BookingSession, error) {
	if _, err := s.Catalog.GetShopByID(ctx, shopID); err != nil {
		return nil, fmt.Errorf("shop %s not found: %w", shopID, err)
	}

	session := &models.BookingSession{
		SessionID:  uuid.New().String(),
		CustomerID: customerID,
		ShopID:     shopID,
		Mode:       models.ModeNewBooking,
		Step:       models.StepService,
	}
	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	utils.GetLogger().Debug("booking session initiated",
		zap.String("sessionId", session.SessionID), zap.String("shopId", shopID))
	return session, nil
}

// InitiateReschedule creates a session for moving an existing appointment.
// Services and barber are preloaded from the appointment and no transition
// exposes a way to change them; the session starts directly in Time.
func (s *DefaultBookingSessionService) InitiateReschedule(ctx context.Context, customerID, appointmentID string) (*models.BookingSession, error) {
	record, err := s.Appointments.GetRecord(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if record.CustomerID != customerID {
		return nil, fmt.Errorf("appointment %s does not belong to customer %s", appointmentID, customerID)
	}
	if record.Status != models.StatusPending && record.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("appointment %s is %s and cannot be rescheduled", appointmentID, record.Status)
	}

	session := &models.BookingSession{
		SessionID:           uuid.New().String(),
		CustomerID:          customerID,
		ShopID:              record.ShopID,
		Mode:                models.ModeReschedule,
		Step:                models.StepTime,
		SourceAppointmentID: appointmentID,
		SelectedServices:    record.Services,
		SelectedBarber:      &models.Barber{ID: record.BarberID, ShopID: record.ShopID, Name: record.BarberName},
	}
	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	utils.GetLogger().Debug("reschedule session initiated",
		zap.String("sessionId", session.SessionID), zap.String("appointmentId", appointmentID))
	return session, nil
}

// SelectServices applies the Service -> Barber transition. At least one
// service must be chosen; combined duration and price are frozen from here.
func (s *DefaultBookingSessionService) SelectServices(ctx context.Context, sessionID string, serviceIDs []string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Mode == models.ModeReschedule {
		return nil, newTransitionError("a reschedule session cannot change services")
	}
	if session.Step != models.StepService {
		return nil, newTransitionError(fmt.Sprintf("cannot select services while on step %q", session.Step))
	}
	if len(serviceIDs) == 0 {
		return nil, newTransitionError("at least one service must be selected")
	}

	services, err := s.Catalog.GetServicesByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve services: %w", err)
	}
	for _, svc := range services {
		if svc.ShopID != session.ShopID {
			return nil, newTransitionError(fmt.Sprintf("service %s does not belong to shop %s", svc.ID, session.ShopID))
		}
	}

	session.SelectedServices = services
	session.Step = models.StepBarber
	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectBarber applies the Barber -> Time transition.
func (s *DefaultBookingSessionService) SelectBarber(ctx context.Context, sessionID, barberID string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Mode == models.ModeReschedule {
		return nil, newTransitionError("a reschedule session cannot change the barber")
	}
	if session.Step != models.StepBarber {
		return nil, newTransitionError(fmt.Sprintf("cannot select a barber while on step %q", session.Step))
	}

	barber, err := s.Catalog.GetBarberByID(ctx, barberID)
	if err != nil {
		return nil, fmt.Errorf("barber %s not found: %w", barberID, err)
	}
	if barber.ShopID != session.ShopID {
		return nil, newTransitionError(fmt.Sprintf("barber %s does not belong to shop %s", barberID, session.ShopID))
	}

	session.SelectedBarber = barber
	session.Step = models.StepTime
	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectDate sets the queried date while in Time, clears any slot chosen for
// a previous date, and fetches availability for the new selection key. A
// response that arrives after the session's key has moved on is discarded
// silently: the session is returned with no availability attached.
func (s *DefaultBookingSessionService) SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, *models.DayAvailability, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Step != models.StepTime {
		return nil, nil, newTransitionError(fmt.Sprintf("cannot select a date while on step %q", session.Step))
	}
	if err := s.checkWindow(date); err != nil {
		return nil, nil, err
	}

	// A slot from a different date is never valid, and availability fetched
	// for the abandoned key must not be reused.
	if session.CurrentKey != "" {
		s.Availability.Invalidate(ctx, session.AvailabilityKeyFor(session.SelectedDate))
	}
	session.SelectedDate = date
	session.SelectedSlot = nil
	key := session.AvailabilityKeyFor(date)
	session.CurrentKey = key.String()
	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, nil, err
	}

	day, err := s.Availability.Get(ctx, key)
	if err != nil {
		// The session stays in Time; the user may retry the same query.
		return session, nil, fmt.Errorf("failed to load availability: %w", err)
	}

	// Apply the response against the key active now, not the key active when
	// the request was issued.
	current, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if current.CurrentKey != key.String() {
		utils.GetLogger().Debug("stale availability response dropped",
			zap.String("sessionId", sessionID),
			zap.String("fetchedKey", key.String()),
			zap.String("currentKey", current.CurrentKey))
		return current, nil, nil
	}
	return current, day, nil
}

// SelectSlot applies the Time -> Confirm transition. The slot must come from
// the availability currently valid for the session's key.
func (s *DefaultBookingSessionService) SelectSlot(ctx context.Context, sessionID string, start int) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepTime {
		return nil, newTransitionError(fmt.Sprintf("cannot select a slot while on step %q", session.Step))
	}
	if session.SelectedDate == "" {
		return nil, newTransitionError("a date must be selected before a slot")
	}

	key := session.AvailabilityKeyFor(session.SelectedDate)
	day, err := s.Availability.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	var chosen *models.Slot
	for i := range day.AvailableSlots {
		if day.AvailableSlots[i].Start == start {
			chosen = &day.AvailableSlots[i]
			break
		}
	}
	if chosen == nil {
		return nil, newTransitionError(fmt.Sprintf("no available slot at minute %d on %s", start, session.SelectedDate))
	}

	slot := *chosen
	session.SelectedSlot = &slot
	session.Step = models.StepConfirm
	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// Back moves the session to its immediate predecessor step, clearing only the
// state owned by the step being left.
func (s *DefaultBookingSessionService) Back(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.FinalizePending {
		return nil, newTransitionError("cannot go back while a finalize call is in flight")
	}

	switch session.Step {
	case models.StepConfirm:
		session.SelectedSlot = nil
		session.Step = models.StepTime
	case models.StepTime:
		if session.Mode == models.ModeReschedule {
			return nil, newTransitionError("a reschedule session starts at the time step")
		}
		if session.CurrentKey != "" {
			s.Availability.Invalidate(ctx, session.AvailabilityKeyFor(session.SelectedDate))
		}
		session.SelectedSlot = nil
		session.SelectedDate = ""
		session.CurrentKey = ""
		session.Step = models.StepBarber
	case models.StepBarber:
		session.SelectedBarber = nil
		session.Step = models.StepService
	default:
		return nil, newTransitionError(fmt.Sprintf("cannot go back from step %q", session.Step))
	}

	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm runs the finalize operation for the session's mode: create for a
// fresh booking, reschedule for a reschedule session. While the call is in
// flight the session refuses a second Confirm. A slot conflict sends the
// session back to Time so the user picks another slot; the identical
// submission is never retried automatically.
func (s *DefaultBookingSessionService) Confirm(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepConfirm {
		return nil, newTransitionError(fmt.Sprintf("cannot confirm while on step %q", session.Step))
	}
	if session.SelectedSlot == nil {
		return nil, newTransitionError("a slot must be selected before confirming")
	}
	if session.FinalizePending {
		return nil, newTransitionError("a finalize call is already in flight")
	}

	session.FinalizePending = true
	if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
		return nil, err
	}

	record, finalizeErr := s.finalize(ctx, session)
	session.FinalizePending = false

	if finalizeErr != nil {
		if appointment.IsSlotConflict(finalizeErr) {
			// The slot was taken between fetch and submit. Drop the stale
			// availability and return the user to slot selection.
			s.Availability.Invalidate(ctx, session.AvailabilityKeyFor(session.SelectedDate))
			session.SelectedSlot = nil
			session.Step = models.StepTime
		}
		if err := s.Store.Save(ctx, session, s.SessionTTL); err != nil {
			utils.GetLogger().Warn("failed to persist session after finalize failure",
				zap.String("sessionId", sessionID), zap.Error(err))
		}
		return session, finalizeErr
	}

	session.Result = record
	session.Step = models.StepSuccess
	// Terminal: the session holds no persistent identity and is discarded.
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		utils.GetLogger().Warn("failed to delete finished session",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
	return session, nil
}

// Cancel discards the session without finalizing.
func (s *DefaultBookingSessionService) Cancel(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

func (s *DefaultBookingSessionService) finalize(ctx context.Context, session *models.BookingSession) (*models.AppointmentRecord, error) {
	slot := session.SelectedSlot
	if session.Mode == models.ModeReschedule {
		return s.Appointments.Reschedule(ctx, session.SourceAppointmentID, slot.Date, slot.Start)
	}

	ids := make([]string, 0, len(session.SelectedServices))
	for _, svc := range session.SelectedServices {
		ids = append(ids, svc.ID)
	}
	return s.Appointments.Create(ctx, models.CreateAppointmentRequest{
		CustomerID: session.CustomerID,
		BarberID:   session.SelectedBarber.ID,
		ShopID:     session.ShopID,
		ServiceIDs: ids,
		Date:       slot.Date,
		Start:      slot.Start,
	})
}

// checkWindow restricts booking to the short forward window the workflow
// allows.
func (s *DefaultBookingSessionService) checkWindow(date string) error {
	day, err := time.ParseInLocation(models.DateLayout, date, s.now().Location())
	if err != nil {
		return newTransitionError(fmt.Sprintf("invalid date %q", date))
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return newTransitionError("cannot book a past date")
	}
	if day.After(today.AddDate(0, 0, s.WindowDays)) {
		return newTransitionError(fmt.Sprintf("date %s is beyond the %d-day booking window", date, s.WindowDays))
	}
	return nil
}
