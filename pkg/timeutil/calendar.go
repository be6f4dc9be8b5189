// Package timeutil holds the calendar arithmetic shared by the scheduling
// engine and its API surface: week boundaries, day keys, clock parsing and
// slot-grid snapping. All computations are done in UTC.
package timeutil

import (
	"fmt"
	"time"
)

// DayKeyLayout formats a calendar day as its ISO date.
const DayKeyLayout = "2006-01-02"

// WeekStart returns midnight UTC of the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := DayStart(t)
	return day.AddDate(0, 0, -(weekday - 1))
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns the ISO date key for t's calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// MinuteOfDay returns the minutes elapsed since midnight UTC.
func MinuteOfDay(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

// At combines a calendar day with a minute-of-day offset.
func At(day time.Time, minuteOfDay int) time.Time {
	return DayStart(day).Add(time.Duration(minuteOfDay) * time.Minute)
}

// ParseClock parses an "HH:MM" wall-clock string into a minute-of-day offset.
func ParseClock(raw string) (int, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", raw, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// FormatClock renders a minute-of-day offset as "HH:MM".
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// SnapToGrid rounds t down to the nearest slot boundary. The calendar UI and
// the validator must agree on the same grid, so both use this helper.
func SnapToGrid(t time.Time, slotMinutes int) time.Time {
	if slotMinutes <= 0 {
		return t.UTC()
	}
	minute := MinuteOfDay(t)
	snapped := (minute / slotMinutes) * slotMinutes
	return At(t, snapped)
}

// SlotIndex returns the zero-based slot of t within its day for the given grid.
func SlotIndex(t time.Time, slotMinutes int) int {
	if slotMinutes <= 0 {
		return 0
	}
	return MinuteOfDay(t) / slotMinutes
}

// TimeForSlot is the inverse of SlotIndex for a given day.
func TimeForSlot(day time.Time, slot, slotMinutes int) time.Time {
	return At(day, slot*slotMinutes)
}

// DayOffset returns the number of whole days from the start of a's day to b's.
func DayOffset(a, b time.Time) int {
	return int(DayStart(b).Sub(DayStart(a)).Hours() / 24)
}
