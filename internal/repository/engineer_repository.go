package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fieldserve/dispatch-api/internal/models"
)

const engineerColumns = "id, name, email, phone, active, work_start_hour, work_end_hour, break_minutes, max_jobs_per_day, travel_buffer_minutes, created_at, updated_at"

// EngineerRepository provides persistence for engineers and their policies.
type EngineerRepository struct {
	db *sqlx.DB
}

// NewEngineerRepository creates a new engineer repository.
func NewEngineerRepository(db *sqlx.DB) *EngineerRepository {
	return &EngineerRepository{db: db}
}

// List returns engineers with optional filtering and pagination.
func (r *EngineerRepository) List(ctx context.Context, filter models.EngineerFilter) ([]models.Engineer, int, error) {
	base := "FROM engineers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", engineerColumns, base, size, offset)
	var engineers []models.Engineer
	if err := r.db.SelectContext(ctx, &engineers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list engineers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count engineers: %w", err)
	}

	return engineers, total, nil
}

// FindByID loads an engineer by id.
func (r *EngineerRepository) FindByID(ctx context.Context, id string) (*models.Engineer, error) {
	query := fmt.Sprintf("SELECT %s FROM engineers WHERE id = $1", engineerColumns)
	var engineer models.Engineer
	if err := r.db.GetContext(ctx, &engineer, query, id); err != nil {
		return nil, err
	}
	return &engineer, nil
}

// Create stores a new engineer record.
func (r *EngineerRepository) Create(ctx context.Context, engineer *models.Engineer) error {
	if engineer.ID == "" {
		engineer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if engineer.CreatedAt.IsZero() {
		engineer.CreatedAt = now
	}
	engineer.UpdatedAt = now

	const query = `INSERT INTO engineers (id, name, email, phone, active, work_start_hour, work_end_hour, break_minutes, max_jobs_per_day, travel_buffer_minutes, created_at, updated_at) VALUES (:id, :name, :email, :phone, :active, :work_start_hour, :work_end_hour, :break_minutes, :max_jobs_per_day, :travel_buffer_minutes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, engineer); err != nil {
		return fmt.Errorf("create engineer: %w", err)
	}
	return nil
}

// UpdateScheduleConfig replaces the scheduling policy fields of an engineer.
func (r *EngineerRepository) UpdateScheduleConfig(ctx context.Context, engineer *models.Engineer) error {
	engineer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE engineers SET work_start_hour = :work_start_hour, work_end_hour = :work_end_hour, break_minutes = :break_minutes, max_jobs_per_day = :max_jobs_per_day, travel_buffer_minutes = :travel_buffer_minutes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, engineer); err != nil {
		return fmt.Errorf("update engineer schedule config: %w", err)
	}
	return nil
}
