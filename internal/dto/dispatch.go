package dto

import "time"

// ScheduleJobRequest books a job onto an engineer's calendar.
type ScheduleJobRequest struct {
	JobID      string    `json:"job_id" validate:"required"`
	EngineerID string    `json:"engineer_id" validate:"required"`
	StartAt    time.Time `json:"start_at" validate:"required"`
	EndAt      time.Time `json:"end_at" validate:"required"`
	Notes      string    `json:"notes"`
	Force      bool      `json:"force"`
}

// MoveEntryRequest patches the placement of an existing entry. Omitted fields
// keep their current value.
type MoveEntryRequest struct {
	StartAt    *time.Time `json:"start_at"`
	EndAt      *time.Time `json:"end_at"`
	EngineerID *string    `json:"engineer_id"`
	Force      bool       `json:"force"`
}

// UpdateEntryStatusRequest changes an entry's lifecycle state. Status is
// independent of placement, so no constraint checks run here.
type UpdateEntryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateRecurringRuleRequest defines a weekly recurrence template.
type CreateRecurringRuleRequest struct {
	EngineerID      string     `json:"engineer_id" validate:"required"`
	JobID           *string    `json:"job_id"`
	DaysOfWeek      []int      `json:"days_of_week" validate:"required,min=1,dive,min=1,max=7"`
	StartTime       string     `json:"start_time" validate:"required"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,min=1"`
	ValidFrom       time.Time  `json:"valid_from" validate:"required"`
	ValidUntil      *time.Time `json:"valid_until"`
}

// GenerateFromRulesRequest expands all recurring rules into a target week.
type GenerateFromRulesRequest struct {
	WeekStart time.Time `json:"week_start" validate:"required"`
}

// GenerateFromRulesResult summarises a rule expansion run.
type GenerateFromRulesResult struct {
	Created     int            `json:"created"`
	Skipped     int            `json:"skipped"`
	SkipReasons map[string]int `json:"skip_reasons,omitempty"`
}

// CopyWeekRequest duplicates one week's bookings into another.
type CopyWeekRequest struct {
	SourceWeekStart time.Time `json:"source_week_start" validate:"required"`
	TargetWeekStart time.Time `json:"target_week_start" validate:"required"`
}

// CopyWeekResult summarises a week copy. Partial success is the expected
// outcome, not an error.
type CopyWeekResult struct {
	CopiedCount  int            `json:"copied_count"`
	SkippedCount int            `json:"skipped_count"`
	SkipReasons  map[string]int `json:"skip_reasons,omitempty"`
}

// CreateEngineerRequest registers an engineer with default policy values.
type CreateEngineerRequest struct {
	Name                string  `json:"name" validate:"required"`
	Email               string  `json:"email" validate:"required,email"`
	Phone               *string `json:"phone"`
	WorkStartHour       int     `json:"work_start_hour" validate:"min=0,max=23"`
	WorkEndHour         int     `json:"work_end_hour" validate:"min=1,max=24"`
	BreakMinutes        int     `json:"break_minutes" validate:"min=0"`
	MaxJobsPerDay       *int    `json:"max_jobs_per_day" validate:"omitempty,min=1"`
	TravelBufferMinutes int     `json:"travel_buffer_minutes" validate:"min=0"`
}

// UpdateScheduleConfigRequest replaces an engineer's scheduling policy.
type UpdateScheduleConfigRequest struct {
	WorkStartHour       int  `json:"work_start_hour" validate:"min=0,max=23"`
	WorkEndHour         int  `json:"work_end_hour" validate:"min=1,max=24"`
	BreakMinutes        int  `json:"break_minutes" validate:"min=0"`
	MaxJobsPerDay       *int `json:"max_jobs_per_day" validate:"omitempty,min=1"`
	TravelBufferMinutes int  `json:"travel_buffer_minutes" validate:"min=0"`
}

// DayAvailability is the derived view of one engineer day used by calendar
// clients for rendering and cheap pre-checks.
type DayAvailability struct {
	Day              string   `json:"day"`
	WorkStart        string   `json:"work_start"`
	WorkEnd          string   `json:"work_end"`
	BreakStart       string   `json:"break_start,omitempty"`
	BreakEnd         string   `json:"break_end,omitempty"`
	SlotMinutes      int      `json:"slot_minutes"`
	BookedMinutes    int      `json:"booked_minutes"`
	AvailableMinutes int      `json:"available_minutes"`
	JobCount         int      `json:"job_count"`
	FreeSlots        []string `json:"free_slots,omitempty"`
}
