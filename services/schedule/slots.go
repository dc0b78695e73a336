// Package schedule holds the pure scheduling core: slot generation from a
// barber's weekly pattern and the bookable-date check used by date pickers.
package schedule

import (
	"time"

	"barbook/models"
)

// GenerateSlots turns a barber's recurring pattern, break windows, and the
// day's existing appointments into the ordered slot sequence for one date.
//
// The sequence is gap-free and ascending by construction. A trailing period
// shorter than one slot is dropped, not clipped. Break windows are half-open:
// a slot starting exactly at a break's end is offered, one starting at the
// break's start is not. On the current day a slot starting strictly before
// now is past; one starting exactly at now is not. A slot collides with an
// existing appointment only when its start equals the appointment's start for
// the same barber and date.
func GenerateSlots(date string, sched *models.WeeklySchedule, existing []models.Appointment, barberID string, now time.Time) ([]models.Slot, error) {
	if err := sched.Validate(); err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return nil, err
	}

	// Non-working weekdays and explicit off-days produce no slots at all,
	// which is distinct from a day whose slots are all unavailable.
	if !sched.IsWorkingDay(day.Weekday()) || sched.IsOffDay(date) {
		return nil, nil
	}

	booked := make(map[int]bool)
	for _, appt := range existing {
		if appt.BarberID == barberID && appt.Date == date && appt.Status != models.StatusCancelled {
			booked[appt.Start] = true
		}
	}

	isToday := sameDay(day, now)

	var slots []models.Slot
	for cursor := sched.DayStart; cursor+sched.SlotMinutes <= sched.DayEnd; cursor += sched.SlotMinutes {
		isBreak := false
		for _, b := range sched.Breaks {
			if cursor >= b.Start && cursor < b.End {
				isBreak = true
				break
			}
		}
		// Full-instant comparison: a slot whose start passed seconds ago is
		// already past.
		isPast := isToday && day.Add(time.Duration(cursor)*time.Minute).Before(now)
		isBooked := booked[cursor]

		slots = append(slots, models.Slot{
			Date:      date,
			Start:     cursor,
			Label:     models.FormatClock(cursor),
			Available: !isBreak && !isPast && !isBooked,
			IsPast:    isPast,
			IsBreak:   isBreak,
			Booked:    isBooked,
		})
	}
	return slots, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
