package models

import "time"

// Engineer represents a field engineer and the scheduling policy applied to
// every placement on their calendar. Policy fields change only through the
// explicit schedule-config update, never as a side effect of scheduling.
type Engineer struct {
	ID                  string    `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Email               string    `db:"email" json:"email"`
	Phone               *string   `db:"phone" json:"phone,omitempty"`
	Active              bool      `db:"active" json:"active"`
	WorkStartHour       int       `db:"work_start_hour" json:"work_start_hour"`
	WorkEndHour         int       `db:"work_end_hour" json:"work_end_hour"`
	BreakMinutes        int       `db:"break_minutes" json:"break_minutes"`
	MaxJobsPerDay       *int      `db:"max_jobs_per_day" json:"max_jobs_per_day,omitempty"`
	TravelBufferMinutes int       `db:"travel_buffer_minutes" json:"travel_buffer_minutes"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// EngineerFilter describes query params for listing engineers.
type EngineerFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
