package models

// Rejection codes returned by the placement validator. Clients branch on
// these, so they are part of the wire contract.
const (
	RejectionClash               = "clash"
	RejectionOutsideWorkingHours = "outside_working_hours"
	RejectionMaxJobsExceeded     = "max_jobs_exceeded"
	RejectionTravelBuffer        = "travel_buffer_violation"
	RejectionOverlapsBreak       = "overlaps_break"
)

// PlacementRejection describes why a candidate placement was refused,
// including the fields a calendar client needs to render the refusal.
type PlacementRejection struct {
	Code                string `json:"error"`
	WorkStartHour       int    `json:"work_start_hour,omitempty"`
	WorkEndHour         int    `json:"work_end_hour,omitempty"`
	CurrentCount        int    `json:"current_count,omitempty"`
	MaxJobsPerDay       int    `json:"max_jobs_per_day,omitempty"`
	TravelBufferMinutes int    `json:"travel_buffer_minutes,omitempty"`
	Overridable         bool   `json:"overridable,omitempty"`
}

// Details flattens the rejection into the error envelope's details map.
func (r PlacementRejection) Details() map[string]interface{} {
	details := map[string]interface{}{"error": r.Code}
	switch r.Code {
	case RejectionOutsideWorkingHours:
		details["work_start_hour"] = r.WorkStartHour
		details["work_end_hour"] = r.WorkEndHour
	case RejectionMaxJobsExceeded:
		details["current_count"] = r.CurrentCount
		details["max_jobs_per_day"] = r.MaxJobsPerDay
	case RejectionTravelBuffer:
		details["travel_buffer_minutes"] = r.TravelBufferMinutes
	case RejectionOverlapsBreak:
		details["overridable"] = true
	}
	return details
}

// PlacementError carries a rejection through the error chain so callers can
// recover the structured payload with errors.As.
type PlacementError struct {
	Message   string             `json:"message"`
	Rejection PlacementRejection `json:"rejection"`
}

// Error implements the error interface.
func (e *PlacementError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Overridable reports whether resubmitting with force would succeed.
func (e *PlacementError) Overridable() bool {
	return e != nil && e.Rejection.Overridable
}
