package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/dispatch-api/internal/dto"
	"github.com/fieldserve/dispatch-api/internal/models"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
)

func sourceWeekEntries(engineerID string) []models.ScheduleEntry {
	var entries []models.ScheduleEntry
	for offset := 0; offset < 5; offset++ {
		day := monday.AddDate(0, 0, offset)
		entries = append(entries,
			models.ScheduleEntry{
				EngineerID: engineerID,
				JobID:      "job-am",
				StartAt:    at(day, 9, 0),
				EndAt:      at(day, 10, 0),
				Status:     models.StatusCompleted,
			},
		)
	}
	return entries
}

func TestCopyWeekPreservesTimeOfDay(t *testing.T) {
	engineers := newEngineerRepoStub(testEngineer("eng-1"))
	entries := newEntryRepoStub(sourceWeekEntries("eng-1")...)
	svc := newDispatchFixture(engineers, entries)

	target := monday.AddDate(0, 0, 7)
	result, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{
		SourceWeekStart: monday,
		TargetWeekStart: target,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.CopiedCount)
	assert.Equal(t, 0, result.SkippedCount)

	copied, err := entries.ListRange(context.Background(), models.EntryFilter{
		EngineerID: "eng-1",
		From:       target,
		To:         target.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	require.Len(t, copied, 5)
	for i, entry := range copied {
		assert.Equal(t, at(target.AddDate(0, 0, i), 9, 0), entry.StartAt)
		assert.Equal(t, models.StatusScheduled, entry.Status, "copies always start out scheduled")
	}
}

func TestCopyWeekPartialSuccess(t *testing.T) {
	engineers := newEngineerRepoStub(testEngineer("eng-1"))
	source := sourceWeekEntries("eng-1")
	// A booking from before the policy shrank the shift. It exists in the
	// source week but cannot be re-placed.
	source = append(source, models.ScheduleEntry{
		EngineerID: "eng-1",
		JobID:      "job-late",
		StartAt:    at(monday, 18, 0),
		EndAt:      at(monday, 19, 0),
		Status:     models.StatusCompleted,
	})
	entries := newEntryRepoStub(source...)
	svc := newDispatchFixture(engineers, entries)

	result, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{
		SourceWeekStart: monday,
		TargetWeekStart: monday.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.CopiedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 1, result.SkipReasons[models.RejectionOutsideWorkingHours])
}

func TestCopyWeekRepeatedCopySkipsAsClash(t *testing.T) {
	engineers := newEngineerRepoStub(testEngineer("eng-1"))
	entries := newEntryRepoStub(sourceWeekEntries("eng-1")...)
	svc := newDispatchFixture(engineers, entries)

	req := dto.CopyWeekRequest{
		SourceWeekStart: monday,
		TargetWeekStart: monday.AddDate(0, 0, 7),
	}
	_, err := svc.CopyWeek(context.Background(), req)
	require.NoError(t, err)

	second, err := svc.CopyWeek(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CopiedCount)
	assert.Equal(t, 5, second.SkippedCount)
	assert.Equal(t, 5, second.SkipReasons[models.RejectionClash])
}

func TestCopyWeekRejectsSameWeek(t *testing.T) {
	svc := newDispatchFixture(newEngineerRepoStub(), newEntryRepoStub())

	_, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{
		SourceWeekStart: monday,
		TargetWeekStart: monday.AddDate(0, 0, 3),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCopyWeekBackwards(t *testing.T) {
	engineers := newEngineerRepoStub(testEngineer("eng-1"))
	entries := newEntryRepoStub(sourceWeekEntries("eng-1")...)
	svc := newDispatchFixture(engineers, entries)

	target := monday.AddDate(0, 0, -14)
	result, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{
		SourceWeekStart: monday,
		TargetWeekStart: target,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.CopiedCount)

	copied, err := entries.ListRange(context.Background(), models.EntryFilter{
		EngineerID: "eng-1",
		From:       target,
		To:         target.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	assert.Len(t, copied, 5)
}

func TestCopyWeekCopiesAcrossEngineers(t *testing.T) {
	engineers := newEngineerRepoStub(testEngineer("eng-1"), testEngineer("eng-2"))
	entries := newEntryRepoStub(
		models.ScheduleEntry{EngineerID: "eng-1", JobID: "j1", StartAt: at(monday, 9, 0), EndAt: at(monday, 10, 0), Status: models.StatusCompleted},
		models.ScheduleEntry{EngineerID: "eng-2", JobID: "j2", StartAt: at(monday, 9, 0), EndAt: at(monday, 10, 0), Status: models.StatusCompleted},
	)
	svc := newDispatchFixture(engineers, entries)

	result, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{
		SourceWeekStart: monday,
		TargetWeekStart: monday.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.CopiedCount)
}

func TestPlaceCandidateLocksAndValidates(t *testing.T) {
	engineers := newEngineerRepoStub(testEngineer("eng-1"))
	entries := newEntryRepoStub()
	svc := newDispatchFixture(engineers, entries)

	entry := &models.ScheduleEntry{
		EngineerID: "eng-1",
		JobID:      "job-1",
		StartAt:    at(monday, 9, 0),
		EndAt:      at(monday, 10, 0),
		Status:     models.StatusScheduled,
	}
	require.NoError(t, svc.PlaceCandidate(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)

	dup := &models.ScheduleEntry{
		EngineerID: "eng-1",
		JobID:      "job-2",
		StartAt:    at(monday, 9, 30),
		EndAt:      at(monday, 10, 30),
		Status:     models.StatusScheduled,
	}
	err := svc.PlaceCandidate(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, models.RejectionClash, rejectionOf(t, err).Code)
}
