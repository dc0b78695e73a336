package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	scheduleRepo "barbook/database/repository/schedule"
	"barbook/models"
	"barbook/services/availability"
	"barbook/services/schedule"
	"barbook/utils"
)

// AvailabilityHandler answers slot availability queries outside of a booking
// session, e.g. for a barber's public calendar view.
type AvailabilityHandler struct {
	Availability *availability.Query
	Schedules    scheduleRepo.ScheduleRepository
	WindowDays   int
	Logger       *zap.Logger
}

func NewAvailabilityHandler(query *availability.Query, schedules scheduleRepo.ScheduleRepository, windowDays int, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		Availability: query,
		Schedules:    schedules,
		WindowDays:   windowDays,
		Logger:       logger,
	}
}

// GetDayAvailability returns the available and booked slots for one barber on
// one date. Services are passed as a comma-separated list and only influence
// the cache key.
func (h *AvailabilityHandler) GetDayAvailability(c *gin.Context) {
	barberID := c.Param("barberID")
	date := c.Query("date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing date, expected YYYY-MM-DD"})
		return
	}

	var serviceIDs []string
	if raw := c.Query("services"); raw != "" {
		serviceIDs = strings.Split(raw, ",")
	}

	day, err := h.Availability.Get(c.Request.Context(), models.AvailabilityKey{
		BarberID:   barberID,
		ServiceIDs: serviceIDs,
		Date:       date,
	})
	if err != nil {
		h.Logger.Error("availability query failed",
			zap.String("barberId", barberID), zap.String("date", date), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, day)
}

// UpsertSchedule stores a barber's weekly pattern. The barber ID comes from
// the path; a stale cached availability entry ages out within its TTL.
func (h *AvailabilityHandler) UpsertSchedule(c *gin.Context) {
	barberID := c.Param("barberID")

	var sched models.WeeklySchedule
	if err := c.ShouldBindJSON(&sched); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	sched.BarberID = barberID
	if err := sched.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Schedules.Upsert(c.Request.Context(), &sched); err != nil {
		h.Logger.Error("failed to store schedule", zap.String("barberId", barberID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to store schedule", err.Error())
		return
	}
	h.Logger.Info("schedule updated", zap.String("barberId", barberID))
	c.JSON(http.StatusOK, sched)
}

// GetBookableDates returns the dates inside the booking window on which the
// barber works at all.
func (h *AvailabilityHandler) GetBookableDates(c *gin.Context) {
	barberID := c.Param("barberID")

	sched, err := h.Schedules.GetByBarberID(c.Request.Context(), barberID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		sched = models.DefaultSchedule(barberID)
	} else if err != nil {
		h.Logger.Error("failed to load schedule", zap.String("barberId", barberID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load schedule", err.Error())
		return
	}

	dates := schedule.BookableDates(sched, time.Now(), h.WindowDays)
	c.JSON(http.StatusOK, gin.H{"barberId": barberID, "dates": dates})
}
