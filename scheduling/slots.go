// Package scheduling implements the shop's slot-availability and
// service-status rules as pure functions. Callers fetch the booked set and
// persist results; nothing in this package performs I/O, so the same logic is
// exercised against an in-memory fake store in tests.
package scheduling

import (
	"fmt"
	"time"
)

// Hours is the daily operating window. Slots are generated hourly from Start
// (inclusive) to End (exclusive): Start 9, End 17 yields eight slots, the last
// starting at 16:00.
type Hours struct {
	Start int
	End   int
}

// DefaultHours is the conventional day-shift window used when no
// configuration overrides it.
var DefaultHours = Hours{Start: 9, End: 17}

// TimeSlot is one bookable hour. Time is the canonical booking key; Display
// is the human-readable form shown to customers.
type TimeSlot struct {
	Hour    int    `json:"hour"`
	Time    string `json:"time"`    // "09:00"
	Display string `json:"display"` // "9:00 AM - 10:00 AM"
}

// DayAvailability is the result of one slot-availability query.
type DayAvailability struct {
	Date           string     `json:"date"`
	DayOfWeek      string     `json:"day_of_week"`
	BusinessHours  string     `json:"business_hours"`
	AvailableSlots []TimeSlot `json:"available_slots"`
	TotalSlots     int        `json:"total_slots"`
	BookedSlots    int        `json:"booked_slots"`
	Message        string     `json:"message,omitempty"`
}

// ComputeAvailableSlots returns the ordered list of bookable slots for the
// given date. booked holds the canonical slot keys ("09:00") of existing
// non-cancelled appointments on that date; the caller is responsible for
// fetching them. The result only advises on availability at read time - the
// booking write must re-check inside its transaction.
func ComputeAvailableSlots(date time.Time, booked []string, hours Hours) DayAvailability {
	result := DayAvailability{
		Date:           date.Format("2006-01-02"),
		DayOfWeek:      date.Weekday().String(),
		BusinessHours:  fmt.Sprintf("%s - %s", formatHour12(hours.Start), formatHour12(hours.End)),
		AvailableSlots: []TimeSlot{},
	}

	if date.Weekday() == time.Sunday {
		result.Message = "Closed on Sundays"
		return result
	}

	bookedSet := make(map[string]bool, len(booked))
	for _, t := range booked {
		bookedSet[t] = true
	}

	for hour := hours.Start; hour < hours.End; hour++ {
		result.TotalSlots++
		slot := SlotForHour(hour)
		if bookedSet[slot.Time] {
			result.BookedSlots++
			continue
		}
		result.AvailableSlots = append(result.AvailableSlots, slot)
	}

	if len(result.AvailableSlots) == 0 {
		result.Message = "Fully booked for this day"
	}

	return result
}

// SlotForHour builds the slot value for a given starting hour.
func SlotForHour(hour int) TimeSlot {
	return TimeSlot{
		Hour:    hour,
		Time:    fmt.Sprintf("%02d:00", hour),
		Display: fmt.Sprintf("%s - %s", formatHour12(hour), formatHour12(hour+1)),
	}
}

// IsValidSlot reports whether the canonical time key names a slot inside the
// operating window.
func IsValidSlot(timeKey string, hours Hours) bool {
	for hour := hours.Start; hour < hours.End; hour++ {
		if SlotForHour(hour).Time == timeKey {
			return true
		}
	}
	return false
}

// formatHour12 renders an hour on the 24h clock as "9:00 AM" / "5:00 PM".
func formatHour12(hour int) string {
	h := hour % 24
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:00 %s", display, suffix)
}
