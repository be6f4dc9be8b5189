package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/dispatch-api/internal/models"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
	"github.com/fieldserve/dispatch-api/pkg/timeutil"
)

// PlacementCandidate is a proposed (engineer, interval) placement. For a
// move or resize, ExcludeEntryID names the entry being repositioned so it is
// not counted against itself.
type PlacementCandidate struct {
	EngineerID     string
	StartAt        time.Time
	EndAt          time.Time
	ExcludeEntryID string
	Force          bool
}

// ConstraintValidator is the single authority deciding whether a candidate
// placement may be committed. It is a pure decision over the snapshot of
// entries handed to it; callers are responsible for holding the engineer's
// lock across validate-then-commit.
type ConstraintValidator struct {
	logger *zap.Logger
}

// NewConstraintValidator constructs a validator.
func NewConstraintValidator(logger *zap.Logger) *ConstraintValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintValidator{logger: logger}
}

// Validate runs the placement checks in order, short-circuiting on the first
// violation. Check order is deliberate: the cheap window and capacity checks
// come before the neighbor scans, and the one overridable check (break
// overlap) runs before the final clash check so a forced retry changes
// exactly one outcome.
func (v *ConstraintValidator) Validate(engineer *models.Engineer, existing []models.ScheduleEntry, cand PlacementCandidate) error {
	if !cand.EndAt.After(cand.StartAt) {
		return appErrors.Clone(appErrors.ErrValidation, "end_at must be after start_at")
	}

	if rejection := v.checkWorkingHours(engineer, cand); rejection != nil {
		return v.reject(engineer, cand, *rejection)
	}

	sameDay := otherEntriesOnDay(existing, cand)

	if rejection := v.checkCapacity(engineer, sameDay); rejection != nil {
		return v.reject(engineer, cand, *rejection)
	}
	if rejection := v.checkTravelBuffer(engineer, sameDay, cand); rejection != nil {
		return v.reject(engineer, cand, *rejection)
	}
	if rejection := v.checkBreak(engineer, cand); rejection != nil {
		return v.reject(engineer, cand, *rejection)
	}
	if rejection := v.checkClash(sameDay, cand); rejection != nil {
		return v.reject(engineer, cand, *rejection)
	}

	return nil
}

func (v *ConstraintValidator) checkWorkingHours(engineer *models.Engineer, cand PlacementCandidate) *models.PlacementRejection {
	startMin := timeutil.MinuteOfDay(cand.StartAt)
	endMin := timeutil.MinuteOfDay(cand.EndAt)
	sameDay := timeutil.SameDay(cand.StartAt, cand.EndAt)
	if endMin == 0 && timeutil.SameDay(cand.StartAt, cand.EndAt.Add(-time.Minute)) {
		// An entry ending exactly at midnight still belongs to its start day.
		endMin = 24 * 60
		sameDay = true
	}

	if !sameDay || startMin < engineer.WorkStartHour*60 || endMin > engineer.WorkEndHour*60 {
		return &models.PlacementRejection{
			Code:          models.RejectionOutsideWorkingHours,
			WorkStartHour: engineer.WorkStartHour,
			WorkEndHour:   engineer.WorkEndHour,
		}
	}
	return nil
}

func (v *ConstraintValidator) checkCapacity(engineer *models.Engineer, sameDay []models.ScheduleEntry) *models.PlacementRejection {
	if engineer.MaxJobsPerDay == nil {
		return nil
	}
	limit := *engineer.MaxJobsPerDay
	if len(sameDay) >= limit {
		return &models.PlacementRejection{
			Code:          models.RejectionMaxJobsExceeded,
			CurrentCount:  len(sameDay),
			MaxJobsPerDay: limit,
		}
	}
	return nil
}

func (v *ConstraintValidator) checkTravelBuffer(engineer *models.Engineer, sameDay []models.ScheduleEntry, cand PlacementCandidate) *models.PlacementRejection {
	buffer := time.Duration(engineer.TravelBufferMinutes) * time.Minute
	if buffer <= 0 {
		return nil
	}
	for _, entry := range sameDay {
		if entry.Overlaps(cand.StartAt, cand.EndAt) {
			// Overlapping neighbors are a clash, not a buffer violation.
			continue
		}
		var gap time.Duration
		if !cand.StartAt.Before(entry.EndAt) {
			gap = cand.StartAt.Sub(entry.EndAt)
		} else {
			gap = entry.StartAt.Sub(cand.EndAt)
		}
		if gap < buffer {
			return &models.PlacementRejection{
				Code:                models.RejectionTravelBuffer,
				TravelBufferMinutes: engineer.TravelBufferMinutes,
			}
		}
	}
	return nil
}

func (v *ConstraintValidator) checkBreak(engineer *models.Engineer, cand PlacementCandidate) *models.PlacementRejection {
	if cand.Force {
		return nil
	}
	plan := PlanForDay(engineer, cand.StartAt)
	if plan.Break != nil && plan.Break.Overlaps(cand.StartAt, cand.EndAt) {
		return &models.PlacementRejection{
			Code:        models.RejectionOverlapsBreak,
			Overridable: true,
		}
	}
	return nil
}

func (v *ConstraintValidator) checkClash(sameDay []models.ScheduleEntry, cand PlacementCandidate) *models.PlacementRejection {
	for _, entry := range sameDay {
		if entry.Overlaps(cand.StartAt, cand.EndAt) {
			return &models.PlacementRejection{Code: models.RejectionClash}
		}
	}
	return nil
}

func (v *ConstraintValidator) reject(engineer *models.Engineer, cand PlacementCandidate, rejection models.PlacementRejection) error {
	v.logger.Debug("placement rejected",
		zap.String("engineer_id", cand.EngineerID),
		zap.Time("start_at", cand.StartAt),
		zap.Time("end_at", cand.EndAt),
		zap.String("reason", rejection.Code),
	)
	placementErr := &models.PlacementError{
		Message:   rejectionMessage(engineer, rejection),
		Rejection: rejection,
	}
	// Every rejection is a conflict with the current calendar state.
	return appErrors.Wrap(placementErr, rejection.Code, appErrors.ErrConflict.Status, placementErr.Message).
		WithDetails(rejection.Details())
}

func rejectionMessage(engineer *models.Engineer, rejection models.PlacementRejection) string {
	switch rejection.Code {
	case models.RejectionOutsideWorkingHours:
		return fmt.Sprintf("placement falls outside working hours %02d:00-%02d:00", engineer.WorkStartHour, engineer.WorkEndHour)
	case models.RejectionMaxJobsExceeded:
		return fmt.Sprintf("engineer already has %d of %d jobs that day", rejection.CurrentCount, rejection.MaxJobsPerDay)
	case models.RejectionTravelBuffer:
		return fmt.Sprintf("placement leaves less than the %d minute travel buffer", rejection.TravelBufferMinutes)
	case models.RejectionOverlapsBreak:
		return "placement overlaps the engineer's break; resubmit with force to override"
	default:
		return "placement clashes with an existing booking"
	}
}

func otherEntriesOnDay(existing []models.ScheduleEntry, cand PlacementCandidate) []models.ScheduleEntry {
	var out []models.ScheduleEntry
	for _, entry := range existing {
		if entry.ID == cand.ExcludeEntryID {
			continue
		}
		if !timeutil.SameDay(entry.StartAt, cand.StartAt) {
			continue
		}
		out = append(out, entry)
	}
	return out
}
