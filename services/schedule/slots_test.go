package schedule

import (
	"testing"
	"time"

	"barbook/models"
)

func weekdaySchedule() *models.WeeklySchedule {
	return &models.WeeklySchedule{
		BarberID: "b1",
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
		DayStart:    9 * 60,
		DayEnd:      18 * 60,
		Breaks:      []models.BreakWindow{{Start: 12 * 60, End: 13 * 60}},
		SlotMinutes: 30,
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", value, err)
	}
	return ts
}

// 2025-03-04 is a Tuesday, 2025-03-09 a Sunday.
const (
	tuesday = "2025-03-04"
	sunday  = "2025-03-09"
)

func TestGenerateSlots_NonWorkingDay(t *testing.T) {
	now := mustTime(t, "2025-03-01 08:00")

	slots, err := GenerateSlots(sunday, weekdaySchedule(), nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a non-working day, got %d", len(slots))
	}
}

func TestGenerateSlots_OffDay(t *testing.T) {
	sched := weekdaySchedule()
	sched.OffDays = []string{tuesday}
	now := mustTime(t, "2025-03-01 08:00")

	slots, err := GenerateSlots(tuesday, sched, nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on an off-day, got %d", len(slots))
	}
}

func TestGenerateSlots_FullWorkingDay(t *testing.T) {
	// 09:00-18:00 with a 12:00-13:00 break at 30-minute granularity:
	// 18 raw slots, of which the two break slots are withheld -> 16 available.
	now := mustTime(t, "2025-03-01 08:00")

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}

	available := 0
	for _, s := range slots {
		if s.Available {
			available++
		}
	}
	if available != 16 {
		t.Fatalf("expected 16 available slots, got %d", available)
	}

	if first := slots[0]; first.Start != 9*60 || first.Label != "9:00 AM" {
		t.Errorf("unexpected first slot: %+v", first)
	}
	if last := slots[len(slots)-1]; last.Start != 17*60+30 {
		t.Errorf("expected last slot at 17:30, got %d", last.Start)
	}
}

func TestGenerateSlots_OrderedAndGapFree(t *testing.T) {
	now := mustTime(t, "2025-03-01 08:00")
	sched := weekdaySchedule()

	slots, err := GenerateSlots(tuesday, sched, nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Start != slots[i-1].Start+sched.SlotMinutes {
			t.Fatalf("gap between slot %d (%d) and slot %d (%d)", i-1, slots[i-1].Start, i, slots[i].Start)
		}
	}
}

func TestGenerateSlots_PartialTrailingSlotDropped(t *testing.T) {
	sched := weekdaySchedule()
	sched.Breaks = nil
	sched.DayEnd = 17*60 + 45 // 9:00-17:45 at 30 min -> final 15 minutes dropped
	now := mustTime(t, "2025-03-01 08:00")

	slots, err := GenerateSlots(tuesday, sched, nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(slots))
	}
	if last := slots[len(slots)-1]; last.Start != 17*60 {
		t.Errorf("expected last slot at 17:00, got %d", last.Start)
	}
}

func TestGenerateSlots_BreakBoundaries(t *testing.T) {
	now := mustTime(t, "2025-03-01 08:00")

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byStart := make(map[int]models.Slot)
	for _, s := range slots {
		byStart[s.Start] = s
	}

	if s := byStart[12*60]; !s.IsBreak || s.Available {
		t.Errorf("slot at break start must be a break slot: %+v", s)
	}
	if s := byStart[12*60+30]; !s.IsBreak {
		t.Errorf("slot inside break must be a break slot: %+v", s)
	}
	if s := byStart[13*60]; s.IsBreak || !s.Available {
		t.Errorf("slot at break end must not be a break slot: %+v", s)
	}
}

func TestGenerateSlots_PastCutoffOnToday(t *testing.T) {
	now := mustTime(t, "2025-03-04 10:00") // queried date is today

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byStart := make(map[int]models.Slot)
	for _, s := range slots {
		byStart[s.Start] = s
	}

	if s := byStart[9*60+30]; !s.IsPast || s.Available {
		t.Errorf("9:30 slot must be past at 10:00: %+v", s)
	}
	if s := byStart[10 * 60]; s.IsPast {
		t.Errorf("slot starting exactly at now must not be past: %+v", s)
	}
	if s := byStart[10*60+30]; s.IsPast || !s.Available {
		t.Errorf("10:30 slot must be bookable at 10:00: %+v", s)
	}
}

func TestGenerateSlots_PastCutoffCountsSeconds(t *testing.T) {
	// 30 seconds past 10:00: the 10:00 slot has already started.
	now := mustTime(t, "2025-03-04 10:00").Add(30 * time.Second)

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byStart := make(map[int]models.Slot)
	for _, s := range slots {
		byStart[s.Start] = s
	}

	if s := byStart[10 * 60]; !s.IsPast || s.Available {
		t.Errorf("slot started 30s ago must be past: %+v", s)
	}
	if s := byStart[10*60+30]; s.IsPast || !s.Available {
		t.Errorf("10:30 slot must still be bookable: %+v", s)
	}
}

func TestGenerateSlots_NoPastCutoffOnFutureDay(t *testing.T) {
	now := mustTime(t, "2025-03-03 23:00")

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), nil, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.IsPast {
			t.Fatalf("no slot on a future day may be past: %+v", s)
		}
	}
}

func TestGenerateSlots_BookedCollision(t *testing.T) {
	now := mustTime(t, "2025-03-01 08:00")
	existing := []models.Appointment{
		{ID: "a1", BarberID: "b1", Date: tuesday, Start: 10 * 60, DurationMinutes: 60, Status: models.StatusConfirmed},
	}

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), existing, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range slots {
		switch s.Start {
		case 10 * 60:
			if !s.Booked || s.Available {
				t.Errorf("10:00 slot must be booked: %+v", s)
			}
		case 10*60 + 30:
			// Collision is by exact start-time match: the appointment's own
			// 60-minute duration does not block the following slot.
			if s.Booked || !s.Available {
				t.Errorf("10:30 slot must stay available under exact-match collision: %+v", s)
			}
		default:
			if s.Booked {
				t.Errorf("unexpected booked slot: %+v", s)
			}
		}
	}
}

func TestGenerateSlots_CollisionIsPerBarber(t *testing.T) {
	now := mustTime(t, "2025-03-01 08:00")
	existing := []models.Appointment{
		{ID: "a1", BarberID: "b2", Date: tuesday, Start: 10 * 60, Status: models.StatusConfirmed},
	}

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), existing, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.Booked {
			t.Fatalf("another barber's appointment must not block slots: %+v", s)
		}
	}
}

func TestGenerateSlots_CancelledAppointmentIgnored(t *testing.T) {
	now := mustTime(t, "2025-03-01 08:00")
	existing := []models.Appointment{
		{ID: "a1", BarberID: "b1", Date: tuesday, Start: 10 * 60, Status: models.StatusCancelled},
	}

	slots, err := GenerateSlots(tuesday, weekdaySchedule(), existing, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.Booked {
			t.Fatalf("cancelled appointments must not block slots: %+v", s)
		}
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	now := mustTime(t, "2025-03-04 11:15")
	existing := []models.Appointment{
		{ID: "a1", BarberID: "b1", Date: tuesday, Start: 14 * 60, Status: models.StatusPending},
	}

	first, err := GenerateSlots(tuesday, weekdaySchedule(), existing, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateSlots(tuesday, weekdaySchedule(), existing, "b1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("slot counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("slot %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateSlots_InvalidSchedule(t *testing.T) {
	now := mustTime(t, "2025-03-01 08:00")

	bad := weekdaySchedule()
	bad.SlotMinutes = 0
	if _, err := GenerateSlots(tuesday, bad, nil, "b1", now); err == nil {
		t.Fatal("expected error for zero slot duration")
	}

	bad = weekdaySchedule()
	bad.Breaks = []models.BreakWindow{{Start: 13 * 60, End: 12 * 60}}
	if _, err := GenerateSlots(tuesday, bad, nil, "b1", now); err == nil {
		t.Fatal("expected error for inverted break window")
	}

	bad = weekdaySchedule()
	bad.Breaks = []models.BreakWindow{{Start: 8 * 60, End: 10 * 60}}
	if _, err := GenerateSlots(tuesday, bad, nil, "b1", now); err == nil {
		t.Fatal("expected error for break outside working hours")
	}
}
