package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fieldserve/dispatch-api/internal/dto"
	"github.com/fieldserve/dispatch-api/internal/models"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
	"github.com/fieldserve/dispatch-api/pkg/timeutil"
)

// PlaceCandidate validates and commits one bulk-generated entry under the
// owning engineer's lock. This is the commit path shared with recurring
// expansion, so constraint policy lives in exactly one place.
func (s *DispatchService) PlaceCandidate(ctx context.Context, entry *models.ScheduleEntry) error {
	unlock := s.locks.Acquire(entry.EngineerID)
	defer unlock()

	return s.placeLocked(ctx, entry, PlacementCandidate{
		EngineerID: entry.EngineerID,
		StartAt:    entry.StartAt,
		EndAt:      entry.EndAt,
	}, false)
}

// CopyWeek duplicates every entry from the source week onto the equivalent
// weekday of the target week, preserving time-of-day and duration. Each
// candidate is validated like a manual booking; rejected candidates are
// skipped and the operation reports a partial summary rather than failing.
func (s *DispatchService) CopyWeek(ctx context.Context, req dto.CopyWeekRequest) (*dto.CopyWeekResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}

	sourceWeek := timeutil.WeekStart(req.SourceWeekStart)
	targetWeek := timeutil.WeekStart(req.TargetWeekStart)
	if sourceWeek.Equal(targetWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source and target week are the same")
	}
	offsetDays := timeutil.DayOffset(sourceWeek, targetWeek)

	source, err := s.entries.ListRange(ctx, models.EntryFilter{
		From: sourceWeek,
		To:   sourceWeek.AddDate(0, 0, 7),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source week")
	}

	result := &dto.CopyWeekResult{SkipReasons: map[string]int{}}

	for _, original := range source {
		candidate := &models.ScheduleEntry{
			EngineerID: original.EngineerID,
			JobID:      original.JobID,
			StartAt:    original.StartAt.AddDate(0, 0, offsetDays),
			EndAt:      original.EndAt.AddDate(0, 0, offsetDays),
			Status:     models.StatusScheduled,
			Notes:      original.Notes,
		}

		if err := s.PlaceCandidate(ctx, candidate); err != nil {
			var placementErr *models.PlacementError
			if errors.As(err, &placementErr) {
				result.SkippedCount++
				result.SkipReasons[placementErr.Rejection.Code]++
				continue
			}
			return nil, err
		}
		result.CopiedCount++
	}

	if len(result.SkipReasons) == 0 {
		result.SkipReasons = nil
	}
	s.metrics.RecordBulkResult("copy_week", result.CopiedCount, result.SkippedCount)
	s.logger.Info("week copy finished",
		zap.Time("source_week", sourceWeek),
		zap.Time("target_week", targetWeek),
		zap.Int("copied", result.CopiedCount),
		zap.Int("skipped", result.SkippedCount),
	)
	return result, nil
}
