package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// RecurringRule is a weekly template expanded on demand into concrete
// schedule entries. Rules never expire on their own; an exhausted
// valid_until simply stops producing candidates.
type RecurringRule struct {
	ID              string     `db:"id" json:"id"`
	EngineerID      string     `db:"engineer_id" json:"engineer_id"`
	JobID           *string    `db:"job_id" json:"job_id,omitempty"`
	DaysOfWeek      string     `db:"days_of_week" json:"days_of_week"`
	StartTime       string     `db:"start_time" json:"start_time"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	ValidFrom       time.Time  `db:"valid_from" json:"valid_from"`
	ValidUntil      *time.Time `db:"valid_until" json:"valid_until,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Weekdays decodes the stored day set into sorted ISO weekdays (1=Monday).
func (r RecurringRule) Weekdays() []int {
	var days []int
	seen := map[int]bool{}
	for _, part := range strings.Split(r.DaysOfWeek, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := strconv.Atoi(part)
		if err != nil || day < 1 || day > 7 || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// EncodeWeekdays renders an ISO weekday set in storage form.
func EncodeWeekdays(days []int) string {
	uniq := map[int]bool{}
	var kept []int
	for _, d := range days {
		if d >= 1 && d <= 7 && !uniq[d] {
			uniq[d] = true
			kept = append(kept, d)
		}
	}
	sort.Ints(kept)
	parts := make([]string, len(kept))
	for i, d := range kept {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// AppliesOn reports whether the rule covers the given calendar day.
func (r RecurringRule) AppliesOn(day time.Time) bool {
	day = day.UTC()
	if day.Before(r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && day.After(*r.ValidUntil) {
		return false
	}
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	for _, d := range r.Weekdays() {
		if d == weekday {
			return true
		}
	}
	return false
}
