package models

import "time"

// AppointmentStatus is the lifecycle state of a persisted appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

// Appointment is the persisted booking record. DurationMinutes is stored for
// every appointment even though slot collision is detected by exact start-time
// match only.
type Appointment struct {
	ID              string            `bson:"id" json:"id"`
	CustomerID      string            `bson:"customerId" json:"customerId"`
	BarberID        string            `bson:"barberId" json:"barberId"`
	ShopID          string            `bson:"shopId" json:"shopId"`
	ServiceIDs      []string          `bson:"serviceIds" json:"serviceIds"`
	Date            string            `bson:"date" json:"date"`   // e.g., "2025-02-25"
	Start           int               `bson:"start" json:"start"` // minutes from midnight
	DurationMinutes int               `bson:"durationMinutes" json:"durationMinutes"`
	TotalPrice      float64           `bson:"totalPrice" json:"totalPrice"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// ScheduledTime returns the appointment start as an absolute wall-clock time.
func (a *Appointment) ScheduledTime(loc *time.Location) time.Time {
	day, _ := time.ParseInLocation(DateLayout, a.Date, loc)
	return day.Add(time.Duration(a.Start) * time.Minute)
}

// EndTime returns the appointment end as an absolute wall-clock time.
func (a *Appointment) EndTime(loc *time.Location) time.Time {
	return a.ScheduledTime(loc).Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// AppointmentRecord is the enriched view returned to clients after a booking,
// reschedule, or listing. The workflow treats it as opaque display data.
type AppointmentRecord struct {
	AppointmentID        string            `json:"appointmentId"`
	CustomerID           string            `json:"customerId"`
	BarberID             string            `json:"barberId"`
	BarberName           string            `json:"barberName"`
	ShopID               string            `json:"shopId"`
	ShopName             string            `json:"shopName"`
	Services             []Service         `json:"services"`
	TotalPrice           float64           `json:"totalPrice"`
	TotalDurationMinutes int               `json:"totalDurationMinutes"`
	Status               AppointmentStatus `json:"status"`
	ScheduledTime        time.Time         `json:"scheduledTime"`
	CreatedAt            time.Time         `json:"createdAt"`
}

// CreateAppointmentRequest is the payload for the create-booking operation.
type CreateAppointmentRequest struct {
	CustomerID string   `json:"customerId" binding:"required"`
	BarberID   string   `json:"barberId" binding:"required"`
	ShopID     string   `json:"shopId" binding:"required"`
	ServiceIDs []string `json:"serviceIds" binding:"required,min=1"`
	Date       string   `json:"date" binding:"required"`
	Start      int      `json:"start"`
}
