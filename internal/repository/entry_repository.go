package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fieldserve/dispatch-api/internal/models"
	"github.com/fieldserve/dispatch-api/pkg/timeutil"
)

const entryColumns = "id, engineer_id, job_id, start_at, end_at, status, notes, created_at, updated_at"

// EntryRepository provides persistence for schedule entries. It is pure
// storage plus range queries; all placement policy lives in the service layer.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository creates a new entry repository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// FindByID loads an entry by id.
func (r *EntryRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE id = $1", entryColumns)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForEngineerAndDay returns an engineer's entries for one calendar day,
// ordered by start time.
func (r *EntryRepository) ListForEngineerAndDay(ctx context.Context, engineerID string, day time.Time) ([]models.ScheduleEntry, error) {
	dayStart := timeutil.DayStart(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE engineer_id = $1 AND start_at >= $2 AND start_at < $3 ORDER BY start_at ASC", entryColumns)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, engineerID, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("list entries for engineer day: %w", err)
	}
	return entries, nil
}

// ListRange returns entries within [from, to), optionally scoped to one
// engineer, ordered by start time.
func (r *EntryRepository) ListRange(ctx context.Context, filter models.EntryFilter) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	if filter.EngineerID != "" {
		query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE engineer_id = $1 AND start_at >= $2 AND start_at < $3 ORDER BY start_at ASC", entryColumns)
		if err := r.db.SelectContext(ctx, &entries, query, filter.EngineerID, filter.From, filter.To); err != nil {
			return nil, fmt.Errorf("list entries in range: %w", err)
		}
		return entries, nil
	}

	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE start_at >= $1 AND start_at < $2 ORDER BY start_at ASC", entryColumns)
	if err := r.db.SelectContext(ctx, &entries, query, filter.From, filter.To); err != nil {
		return nil, fmt.Errorf("list entries in range: %w", err)
	}
	return entries, nil
}

// ExistsExact reports whether an identical placement is already committed.
// Used by the recurring expander for idempotent generation.
func (r *EntryRepository) ExistsExact(ctx context.Context, engineerID string, startAt, endAt time.Time) (bool, error) {
	const query = `SELECT 1 FROM schedule_entries WHERE engineer_id = $1 AND start_at = $2 AND end_at = $3 LIMIT 1`
	var one int
	err := r.db.GetContext(ctx, &one, query, engineerID, startAt, endAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check exact entry: %w", err)
	}
	return true, nil
}

// Create stores a new entry record.
func (r *EntryRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = models.StatusScheduled
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO schedule_entries (id, engineer_id, job_id, start_at, end_at, status, notes, created_at, updated_at) VALUES (:id, :engineer_id, :job_id, :start_at, :end_at, :status, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

// Update modifies an entry record.
func (r *EntryRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_entries SET engineer_id = :engineer_id, job_id = :job_id, start_at = :start_at, end_at = :end_at, status = :status, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

// Delete removes an entry by id.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}
