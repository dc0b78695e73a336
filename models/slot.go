package models

import (
	"fmt"
	"sort"
	"strings"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Slot is a fixed-width time interval either offered to or withheld from the user.
type Slot struct {
	Date      string `json:"date"`  // e.g., "2025-02-25"
	Start     int    `json:"start"` // minutes from midnight
	Label     string `json:"label"` // e.g., "9:00 AM"
	Available bool   `json:"available"`
	IsPast    bool   `json:"isPast"`
	IsBreak   bool   `json:"isBreak"`
	Booked    bool   `json:"booked"`
}

// DayAvailability is the availability answer for one barber/service-set/date.
type DayAvailability struct {
	Date           string `json:"date"`
	AvailableSlots []Slot `json:"availableSlots"`
	BookedSlots    []Slot `json:"bookedSlots"`
}

// AvailabilityKey identifies one availability query. Two requests with the
// same key must share one fetch, and a response is only applied while the
// session's current key still equals the one it was issued for.
type AvailabilityKey struct {
	BarberID   string   `json:"barberId"`
	ServiceIDs []string `json:"serviceIds"`
	Date       string   `json:"date"`
}

// String renders the canonical cache/coalescing key. Service IDs are sorted
// so that selection order does not produce distinct keys.
func (k AvailabilityKey) String() string {
	ids := make([]string, len(k.ServiceIDs))
	copy(ids, k.ServiceIDs)
	sort.Strings(ids)
	return fmt.Sprintf("availability:%s:%s:%s", k.BarberID, strings.Join(ids, ","), k.Date)
}

// FormatClock converts minutes from midnight into a display string such as "9:00 AM".
func FormatClock(minutes int) string {
	hour := minutes / 60
	minute := minutes % 60
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, ampm)
}
