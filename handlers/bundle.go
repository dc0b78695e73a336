package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking workflow endpoints.
	InitiateSession    gin.HandlerFunc
	InitiateReschedule gin.HandlerFunc
	SelectServices     gin.HandlerFunc
	SelectBarber       gin.HandlerFunc
	SelectDate         gin.HandlerFunc
	SelectSlot         gin.HandlerFunc
	BackSession        gin.HandlerFunc
	ConfirmSession     gin.HandlerFunc
	CancelSession      gin.HandlerFunc

	// Availability and schedule endpoints.
	GetDayAvailability gin.HandlerFunc
	GetBookableDates   gin.HandlerFunc
	UpsertSchedule     gin.HandlerFunc

	// Catalog endpoints.
	GetShopHandler      gin.HandlerFunc
	ListServicesHandler gin.HandlerFunc
	ListBarbersHandler  gin.HandlerFunc

	// Appointment endpoints.
	GetAppointmentHandler    gin.HandlerFunc
	ListUpcomingHandler      gin.HandlerFunc
	ListPastHandler          gin.HandlerFunc
	CancelAppointmentHandler gin.HandlerFunc
}
