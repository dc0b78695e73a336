package models

import (
	"fmt"
	"time"
)

// BreakWindow is a sub-window within working hours during which no slot is offered.
// Start and End are minutes from midnight; the window is half-open [Start, End).
type BreakWindow struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// WeeklySchedule describes a barber's recurring availability pattern plus
// explicit date exceptions. It is read-only once loaded.
type WeeklySchedule struct {
	BarberID    string         `bson:"barberId" json:"barberId"`
	WorkingDays []time.Weekday `bson:"workingDays" json:"workingDays"` // 0 = Sunday .. 6 = Saturday
	DayStart    int            `bson:"dayStart" json:"dayStart"`       // minutes from midnight (e.g., 540 for 9:00 AM)
	DayEnd      int            `bson:"dayEnd" json:"dayEnd"`           // minutes from midnight (e.g., 1080 for 6:00 PM)
	Breaks      []BreakWindow  `bson:"breaks,omitempty" json:"breaks,omitempty"`
	SlotMinutes int            `bson:"slotMinutes" json:"slotMinutes"`
	OffDays     []string       `bson:"offDays,omitempty" json:"offDays,omitempty"` // e.g., "2025-02-25"
}

const minutesPerDay = 24 * 60

// Validate rejects malformed schedules so the engine never generates an
// incorrect slot sequence from bad data.
func (s *WeeklySchedule) Validate() error {
	if s.SlotMinutes <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", s.SlotMinutes)
	}
	if s.DayStart < 0 || s.DayEnd > minutesPerDay || s.DayStart >= s.DayEnd {
		return fmt.Errorf("invalid working hours [%d, %d)", s.DayStart, s.DayEnd)
	}
	for _, d := range s.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}
	prevEnd := -1
	for i, b := range s.Breaks {
		if b.Start >= b.End {
			return fmt.Errorf("break %d has invalid range [%d, %d)", i, b.Start, b.End)
		}
		if b.Start < s.DayStart || b.End > s.DayEnd {
			return fmt.Errorf("break %d [%d, %d) is outside working hours [%d, %d)", i, b.Start, b.End, s.DayStart, s.DayEnd)
		}
		if b.Start < prevEnd {
			return fmt.Errorf("break %d overlaps the previous break", i)
		}
		prevEnd = b.End
	}
	for _, d := range s.OffDays {
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("invalid off-day %q: %w", d, err)
		}
	}
	return nil
}

// IsWorkingDay reports whether the weekday is part of the recurring pattern.
func (s *WeeklySchedule) IsWorkingDay(day time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

// IsOffDay reports whether the date is an explicit exception.
func (s *WeeklySchedule) IsOffDay(date string) bool {
	for _, d := range s.OffDays {
		if d == date {
			return true
		}
	}
	return false
}

// DefaultSchedule is applied when a barber has no stored schedule:
// Monday through Saturday, 9:00 AM to 6:00 PM, lunch 12:00 to 1:00 PM,
// 30-minute slots.
func DefaultSchedule(barberID string) *WeeklySchedule {
	return &WeeklySchedule{
		BarberID: barberID,
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
		DayStart:    9 * 60,
		DayEnd:      18 * 60,
		Breaks:      []BreakWindow{{Start: 12 * 60, End: 13 * 60}},
		SlotMinutes: 30,
	}
}
