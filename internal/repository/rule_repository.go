package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fieldserve/dispatch-api/internal/models"
)

const ruleColumns = "id, engineer_id, job_id, days_of_week, start_time, duration_minutes, valid_from, valid_until, created_at, updated_at"

// RuleRepository provides persistence for recurring rules.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// FindByID loads a rule by id.
func (r *RuleRepository) FindByID(ctx context.Context, id string) (*models.RecurringRule, error) {
	query := fmt.Sprintf("SELECT %s FROM recurring_rules WHERE id = $1", ruleColumns)
	var rule models.RecurringRule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		return nil, err
	}
	return &rule, nil
}

// List returns rules, optionally scoped to one engineer.
func (r *RuleRepository) List(ctx context.Context, engineerID string) ([]models.RecurringRule, error) {
	var rules []models.RecurringRule
	if engineerID != "" {
		query := fmt.Sprintf("SELECT %s FROM recurring_rules WHERE engineer_id = $1 ORDER BY created_at ASC", ruleColumns)
		if err := r.db.SelectContext(ctx, &rules, query, engineerID); err != nil {
			return nil, fmt.Errorf("list rules for engineer: %w", err)
		}
		return rules, nil
	}

	query := fmt.Sprintf("SELECT %s FROM recurring_rules ORDER BY created_at ASC", ruleColumns)
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// ListActiveInWindow returns rules whose validity window intersects [from, to).
func (r *RuleRepository) ListActiveInWindow(ctx context.Context, from, to time.Time) ([]models.RecurringRule, error) {
	query := fmt.Sprintf("SELECT %s FROM recurring_rules WHERE valid_from < $2 AND (valid_until IS NULL OR valid_until >= $1) ORDER BY created_at ASC", ruleColumns)
	var rules []models.RecurringRule
	if err := r.db.SelectContext(ctx, &rules, query, from, to); err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	return rules, nil
}

// Create stores a new rule record.
func (r *RuleRepository) Create(ctx context.Context, rule *models.RecurringRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	const query = `INSERT INTO recurring_rules (id, engineer_id, job_id, days_of_week, start_time, duration_minutes, valid_from, valid_until, created_at, updated_at) VALUES (:id, :engineer_id, :job_id, :days_of_week, :start_time, :duration_minutes, :valid_from, :valid_until, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

// Delete removes a rule by id.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurring_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return nil
}
