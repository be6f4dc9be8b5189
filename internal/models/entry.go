package models

import "time"

// EntryStatus is the lifecycle state of a booking. Transitions are free form;
// dispatchers routinely jump states when correcting mistakes.
type EntryStatus string

const (
	StatusScheduled  EntryStatus = "scheduled"
	StatusEnRoute    EntryStatus = "en_route"
	StatusOnSite     EntryStatus = "on_site"
	StatusInProgress EntryStatus = "in_progress"
	StatusCompleted  EntryStatus = "completed"
)

// ValidEntryStatus reports whether s is a known lifecycle state.
func ValidEntryStatus(s EntryStatus) bool {
	switch s {
	case StatusScheduled, StatusEnRoute, StatusOnSite, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ScheduleEntry is one committed booking of a job to an engineer.
type ScheduleEntry struct {
	ID         string      `db:"id" json:"id"`
	EngineerID string      `db:"engineer_id" json:"engineer_id"`
	JobID      string      `db:"job_id" json:"job_id"`
	StartAt    time.Time   `db:"start_at" json:"start_at"`
	EndAt      time.Time   `db:"end_at" json:"end_at"`
	Status     EntryStatus `db:"status" json:"status"`
	Notes      string      `db:"notes" json:"notes"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether the entry's [StartAt, EndAt) intersects the
// candidate interval.
func (e ScheduleEntry) Overlaps(start, end time.Time) bool {
	return start.Before(e.EndAt) && e.StartAt.Before(end)
}

// EntryFilter describes query params for listing entries.
type EntryFilter struct {
	EngineerID string
	From       time.Time
	To         time.Time
}
