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

func newRuleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func ruleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "engineer_id", "job_id", "days_of_week", "start_time", "duration_minutes", "valid_from", "valid_until", "created_at", "updated_at"})
}

func TestRuleRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRuleRepoMock(t)
	defer cleanup()

	repo := NewRuleRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recurring_rules")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rule := &models.RecurringRule{
		EngineerID:      "eng-1",
		DaysOfWeek:      "1,3,5",
		StartTime:       "09:00",
		DurationMinutes: 60,
		ValidFrom:       time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), rule))
	require.NotEmpty(t, rule.ID)

	rows := ruleRows().
		AddRow(rule.ID, rule.EngineerID, nil, rule.DaysOfWeek, rule.StartTime, rule.DurationMinutes, rule.ValidFrom, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM recurring_rules WHERE id = $1")).
		WithArgs(rule.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), rule.ID)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 5}, found.Weekdays())
	require.Nil(t, found.JobID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryListScopedToEngineer(t *testing.T) {
	db, mock, cleanup := newRuleRepoMock(t)
	defer cleanup()

	repo := NewRuleRepository(db)
	rows := ruleRows().
		AddRow("rule-1", "eng-1", nil, "1", "09:00", 60, time.Now(), nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM recurring_rules WHERE engineer_id = $1")).
		WithArgs("eng-1").
		WillReturnRows(rows)

	rules, err := repo.List(context.Background(), "eng-1")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryListActiveInWindow(t *testing.T) {
	db, mock, cleanup := newRuleRepoMock(t)
	defer cleanup()

	repo := NewRuleRepository(db)
	from := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	rows := ruleRows().
		AddRow("rule-1", "eng-1", nil, "1,2", "08:30", 90, from.AddDate(0, 0, -30), nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE valid_from < $2 AND (valid_until IS NULL OR valid_until >= $1)")).
		WithArgs(from, to).
		WillReturnRows(rows)

	rules, err := repo.ListActiveInWindow(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Equal(t, "rule-1", rules[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRuleRepoMock(t)
	defer cleanup()

	repo := NewRuleRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM recurring_rules WHERE id = $1")).
		WithArgs("rule-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "rule-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
