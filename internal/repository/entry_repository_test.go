package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/dispatch-api/internal/models"
)

func newEntryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func entryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "engineer_id", "job_id", "start_at", "end_at", "status", "notes", "created_at", "updated_at"})
}

func TestEntryRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()

	repo := NewEntryRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	start := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	entry := &models.ScheduleEntry{
		EngineerID: "eng-1",
		JobID:      "job-1",
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.Equal(t, models.StatusScheduled, entry.Status)

	rows := entryRows().
		AddRow(entry.ID, entry.EngineerID, entry.JobID, entry.StartAt, entry.EndAt, entry.Status, "", entry.CreatedAt, entry.UpdatedAt)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, engineer_id, job_id, start_at, end_at, status, notes")).
		WithArgs(entry.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.ID, found.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryListForEngineerAndDay(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()

	repo := NewEntryRepository(db)
	day := time.Date(2025, 6, 9, 14, 30, 0, 0, time.UTC)
	dayStart := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	rows := entryRows().
		AddRow("e1", "eng-1", "job-1", dayStart.Add(9*time.Hour), dayStart.Add(10*time.Hour), "scheduled", "", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_entries WHERE engineer_id = $1 AND start_at >= $2 AND start_at < $3")).
		WithArgs("eng-1", dayStart, dayStart.AddDate(0, 0, 1)).
		WillReturnRows(rows)

	entries, err := repo.ListForEngineerAndDay(context.Background(), "eng-1", day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "e1", entries[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryListRange(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()

	repo := NewEntryRepository(db)
	from := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_entries WHERE engineer_id = $1 AND start_at >= $2 AND start_at < $3")).
		WithArgs("eng-1", from, to).
		WillReturnRows(entryRows())

	entries, err := repo.ListRange(context.Background(), models.EntryFilter{EngineerID: "eng-1", From: from, To: to})
	require.NoError(t, err)
	require.Empty(t, entries)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_entries WHERE start_at >= $1 AND start_at < $2")).
		WithArgs(from, to).
		WillReturnRows(entryRows().AddRow("e1", "eng-1", "job-1", from, from.Add(time.Hour), "scheduled", "", time.Now(), time.Now()))

	entries, err = repo.ListRange(context.Background(), models.EntryFilter{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryExistsExact(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()

	repo := NewEntryRepository(db)
	start := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM schedule_entries WHERE engineer_id = $1 AND start_at = $2 AND end_at = $3")).
		WithArgs("eng-1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsExact(context.Background(), "eng-1", start, end)
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM schedule_entries")).
		WithArgs("eng-1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsExact(context.Background(), "eng-1", start, end)
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryUpdateAndDelete(t *testing.T) {
	db, mock, cleanup := newEntryRepoMock(t)
	defer cleanup()

	repo := NewEntryRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_entries SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.ScheduleEntry{
		ID:         "e1",
		EngineerID: "eng-1",
		JobID:      "job-1",
		StartAt:    time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC),
		Status:     models.StatusEnRoute,
	}
	require.NoError(t, repo.Update(context.Background(), entry))
	require.False(t, entry.UpdatedAt.IsZero())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "e1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
