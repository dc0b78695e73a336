package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"barbook/models"
)

type fakeScheduleRepo struct {
	stored map[string]models.WeeklySchedule
}

func (r *fakeScheduleRepo) GetByBarberID(ctx context.Context, barberID string) (*models.WeeklySchedule, error) {
	sched, ok := r.stored[barberID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &sched, nil
}

func (r *fakeScheduleRepo) Upsert(ctx context.Context, sched *models.WeeklySchedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}
	if r.stored == nil {
		r.stored = make(map[string]models.WeeklySchedule)
	}
	r.stored[sched.BarberID] = *sched
	return nil
}

func scheduleRouter(repo *fakeScheduleRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAvailabilityHandler(nil, repo, 3, zap.NewNop())
	r := gin.New()
	r.PUT("/api/barbers/:barberID/schedule", h.UpsertSchedule)
	r.GET("/api/barbers/:barberID/dates", h.GetBookableDates)
	return r
}

func TestUpsertSchedule_StoresPatternForPathBarber(t *testing.T) {
	repo := &fakeScheduleRepo{}
	router := scheduleRouter(repo)

	body, _ := json.Marshal(models.WeeklySchedule{
		BarberID:    "ignored", // the path wins
		WorkingDays: []time.Weekday{time.Monday, time.Tuesday},
		DayStart:    9 * 60,
		DayEnd:      17 * 60,
		SlotMinutes: 30,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/barbers/b1/schedule", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	stored, ok := repo.stored["b1"]
	if !ok {
		t.Fatal("schedule must be stored under the path barber ID")
	}
	if stored.BarberID != "b1" || stored.DayEnd != 17*60 {
		t.Fatalf("unexpected stored schedule: %+v", stored)
	}
}

func TestUpsertSchedule_RejectsInvalidPattern(t *testing.T) {
	repo := &fakeScheduleRepo{}
	router := scheduleRouter(repo)

	body, _ := json.Marshal(models.WeeklySchedule{
		WorkingDays: []time.Weekday{time.Monday},
		DayStart:    17 * 60,
		DayEnd:      9 * 60, // end before start
		SlotMinutes: 30,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/barbers/b1/schedule", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(repo.stored) != 0 {
		t.Fatal("an invalid schedule must not be stored")
	}
}

func TestGetBookableDates_UsesStoredSchedule(t *testing.T) {
	repo := &fakeScheduleRepo{stored: map[string]models.WeeklySchedule{
		"b1": *models.DefaultSchedule("b1"),
	}}
	router := scheduleRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/barbers/b1/dates", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		BarberID string   `json:"barberId"`
		Dates    []string `json:"dates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.BarberID != "b1" {
		t.Fatalf("barberId = %q", resp.BarberID)
	}
	// A Mon-Sat pattern offers at least 3 of the 4 window days.
	if len(resp.Dates) < 3 {
		t.Fatalf("expected at least 3 bookable dates, got %v", resp.Dates)
	}
}
