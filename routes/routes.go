package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"barbook/handlers"
)

// RegisterBookingRoutes sets up the endpoints for the booking workflow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/session", hb.InitiateSession)
		bookingGroup.POST("/reschedule", hb.InitiateReschedule)
		bookingGroup.PUT("/session/:sessionID/services", hb.SelectServices)
		bookingGroup.PUT("/session/:sessionID/barber", hb.SelectBarber)
		bookingGroup.PUT("/session/:sessionID/date", hb.SelectDate)
		bookingGroup.PUT("/session/:sessionID/slot", hb.SelectSlot)
		bookingGroup.POST("/session/:sessionID/back", hb.BackSession)
		bookingGroup.POST("/session/:sessionID/confirm", hb.ConfirmSession)
		bookingGroup.DELETE("/session/:sessionID", hb.CancelSession)
	}
}

// RegisterAvailabilityRoutes sets up the public calendar endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/barbers")
	{
		api.GET("/:barberID/availability", hb.GetDayAvailability)
		api.GET("/:barberID/dates", hb.GetBookableDates)
		api.PUT("/:barberID/schedule", hb.UpsertSchedule)
	}
}

// RegisterCatalogRoutes sets up the browse endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/shops")
	{
		api.GET("/:shopID", hb.GetShopHandler)
		api.GET("/:shopID/services", hb.ListServicesHandler)
		api.GET("/:shopID/barbers", hb.ListBarbersHandler)
	}
}

// RegisterAppointmentRoutes sets up the appointment listing endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/appointments/:appointmentID", hb.GetAppointmentHandler)
		api.DELETE("/appointments/:appointmentID", hb.CancelAppointmentHandler)
		api.GET("/customers/:customerID/appointments/upcoming", hb.ListUpcomingHandler)
		api.GET("/customers/:customerID/appointments/past", hb.ListPastHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
}
