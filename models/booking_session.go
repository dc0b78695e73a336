package models

// BookingStep identifies the workflow step a session is on.
type BookingStep string

const (
	StepService BookingStep = "service"
	StepBarber  BookingStep = "barber"
	StepTime    BookingStep = "time"
	StepConfirm BookingStep = "confirm"
	StepSuccess BookingStep = "success"
)

// WorkflowMode tags a session as a fresh booking or a reschedule of an
// existing appointment. The two flows share state but differ in their initial
// step, the transitions they expose, and the finalize operation.
type WorkflowMode string

const (
	ModeNewBooking WorkflowMode = "new"
	ModeReschedule WorkflowMode = "reschedule"
)

// BookingSession holds one user's in-progress selections between steps.
// Sessions are single-owner and hold no persistent identity; a fresh session
// starts clean and is discarded on exit.
type BookingSession struct {
	SessionID  string       `json:"sessionId"`
	CustomerID string       `json:"customerId"`
	ShopID     string       `json:"shopId"`
	Mode       WorkflowMode `json:"mode"`
	Step       BookingStep  `json:"step"`

	// Reschedule sessions carry the appointment being moved; its services and
	// barber are preloaded and never mutated for the session's lifetime.
	SourceAppointmentID string `json:"sourceAppointmentId,omitempty"`

	SelectedServices []Service `json:"selectedServices,omitempty"`
	SelectedBarber   *Barber   `json:"selectedBarber,omitempty"`
	SelectedDate     string    `json:"selectedDate,omitempty"`
	SelectedSlot     *Slot     `json:"selectedSlot,omitempty"`

	// CurrentKey is the availability key active for this session. An
	// availability response is applied only while the session's key still
	// equals the one the response was fetched for; anything else is stale
	// and dropped.
	CurrentKey string `json:"currentKey,omitempty"`

	// FinalizePending disables Confirm while a finalize call is in flight.
	FinalizePending bool `json:"finalizePending,omitempty"`

	Result *AppointmentRecord `json:"result,omitempty"`
}

// AvailabilityKeyFor builds the key for the session's current selections.
func (s *BookingSession) AvailabilityKeyFor(date string) AvailabilityKey {
	ids := make([]string, 0, len(s.SelectedServices))
	for _, svc := range s.SelectedServices {
		ids = append(ids, svc.ID)
	}
	barberID := ""
	if s.SelectedBarber != nil {
		barberID = s.SelectedBarber.ID
	}
	return AvailabilityKey{BarberID: barberID, ServiceIDs: ids, Date: date}
}
