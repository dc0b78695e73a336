package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"barbook/services/appointment"
)

// AppointmentHandler serves the appointment listings plus direct cancel.
// Creating and moving appointments happens through the booking workflow, not
// here.
type AppointmentHandler struct {
	Appointments appointment.AppointmentService
	Logger       *zap.Logger
}

func NewAppointmentHandler(appointments appointment.AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments, Logger: logger}
}

// GetAppointment returns the enriched record for one appointment.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id := c.Param("appointmentID")
	record, err := h.Appointments.GetRecord(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListUpcoming pages through a customer's future appointments, soonest first.
func (h *AppointmentHandler) ListUpcoming(c *gin.Context) {
	customerID := c.Param("customerID")
	page, size := pageParams(c)

	result, err := h.Appointments.Upcoming(c.Request.Context(), customerID, page, size)
	if err != nil {
		h.Logger.Error("failed to list upcoming appointments",
			zap.String("customerId", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListPast pages through a customer's past appointments, most recent first.
func (h *AppointmentHandler) ListPast(c *gin.Context) {
	customerID := c.Param("customerID")
	page, size := pageParams(c)

	result, err := h.Appointments.Past(c.Request.Context(), customerID, page, size)
	if err != nil {
		h.Logger.Error("failed to list past appointments",
			zap.String("customerId", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelAppointment marks an appointment cancelled, freeing its slot.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id := c.Param("appointmentID")
	if err := h.Appointments.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
