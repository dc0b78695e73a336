package schedule

import (
	"time"

	"barbook/models"
)

// IsDateBookable reports whether a date picker should offer the date at all:
// it must lie within [today, today+maxLeadDays], fall on a working weekday,
// and not be an explicit off-day. Dates failing here never reach slot
// generation.
func IsDateBookable(date string, sched *models.WeeklySchedule, today time.Time, maxLeadDays int) bool {
	day, err := time.ParseInLocation(models.DateLayout, date, today.Location())
	if err != nil {
		return false
	}

	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if day.Before(start) {
		return false
	}
	if day.After(start.AddDate(0, 0, maxLeadDays)) {
		return false
	}
	if !sched.IsWorkingDay(day.Weekday()) {
		return false
	}
	return !sched.IsOffDay(date)
}

// BookableDates lists the dates within the forward window that pass
// IsDateBookable, for pre-filtering date pickers.
func BookableDates(sched *models.WeeklySchedule, today time.Time, maxLeadDays int) []string {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	var dates []string
	for i := 0; i <= maxLeadDays; i++ {
		date := start.AddDate(0, 0, i).Format(models.DateLayout)
		if IsDateBookable(date, sched, today, maxLeadDays) {
			dates = append(dates, date)
		}
	}
	return dates
}
