package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barbook/services/appointment"
	"barbook/services/booking"
)

// BookingHandler exposes the booking workflow over HTTP. Every endpoint
// operates on a session held server-side; the client only carries the
// session ID.
type BookingHandler struct {
	Sessions booking.BookingSessionService
	Logger   *zap.Logger
}

func NewBookingHandler(sessions booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Sessions: sessions, Logger: logger}
}

// InitiateSession creates a new booking session for a shop.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var input struct {
		CustomerID string `json:"customerId" binding:"required"`
		ShopID     string `json:"shopId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.Initiate(c.Request.Context(), input.CustomerID, input.ShopID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// InitiateReschedule creates a session that moves an existing appointment.
func (h *BookingHandler) InitiateReschedule(c *gin.Context) {
	var input struct {
		CustomerID    string `json:"customerId" binding:"required"`
		AppointmentID string `json:"appointmentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.InitiateReschedule(c.Request.Context(), input.CustomerID, input.AppointmentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectServices sets the session's services and advances to barber selection.
func (h *BookingHandler) SelectServices(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		ServiceIDs []string `json:"serviceIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.SelectServices(c.Request.Context(), sessionID, input.ServiceIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectBarber sets the session's barber and advances to time selection.
func (h *BookingHandler) SelectBarber(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		BarberID string `json:"barberId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.SelectBarber(c.Request.Context(), sessionID, input.BarberID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectDate sets the queried date and returns availability for it. When the
// response comes back for a date the session has already moved past, the
// availability field is null and the client should wait for the newer query.
func (h *BookingHandler) SelectDate(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, day, err := h.Sessions.SelectDate(c.Request.Context(), sessionID, input.Date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "availability": day})
}

// SelectSlot picks a start time from the current availability and advances to
// confirmation.
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Start *int `json:"start" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.SelectSlot(c.Request.Context(), sessionID, *input.Start)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// BackSession steps the session to its previous step.
func (h *BookingHandler) BackSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Sessions.Back(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ConfirmSession finalizes the booking or reschedule. On a slot conflict the
// session is returned alongside the error so the client can render the time
// step again.
func (h *BookingHandler) ConfirmSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Sessions.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		if appointment.IsSlotConflict(err) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "session": session})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "appointment": session.Result})
}

// CancelSession discards the session without booking anything.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Sessions.Cancel(c.Request.Context(), sessionID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking session not found or expired"})
	case booking.IsInvalidTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("booking request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
