package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fieldserve/dispatch-api/internal/dto"
	"github.com/fieldserve/dispatch-api/internal/models"
	appErrors "github.com/fieldserve/dispatch-api/pkg/errors"
	"github.com/fieldserve/dispatch-api/pkg/timeutil"
)

type ruleRepository interface {
	FindByID(ctx context.Context, id string) (*models.RecurringRule, error)
	List(ctx context.Context, engineerID string) ([]models.RecurringRule, error)
	ListActiveInWindow(ctx context.Context, from, to time.Time) ([]models.RecurringRule, error)
	Create(ctx context.Context, rule *models.RecurringRule) error
	Delete(ctx context.Context, id string) error
}

// entryPlacer is the single commit path all generated candidates go through.
// Implemented by DispatchService so recurring expansion obeys exactly the
// same constraints and locking as a manual booking.
type entryPlacer interface {
	PlaceCandidate(ctx context.Context, entry *models.ScheduleEntry) error
}

const skipReasonAlreadyExists = "already_exists"

// RecurringService manages weekly recurrence templates and their on-demand
// expansion into concrete entries.
type RecurringService struct {
	rules     ruleRepository
	entries   entryRepository
	engineers engineerRepository
	placer    entryPlacer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecurringService instantiates RecurringService.
func NewRecurringService(rules ruleRepository, entries entryRepository, engineers engineerRepository, placer entryPlacer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RecurringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecurringService{
		rules:     rules,
		entries:   entries,
		engineers: engineers,
		placer:    placer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// CreateRule stores a new recurrence template after structural validation.
func (s *RecurringService) CreateRule(ctx context.Context, req dto.CreateRecurringRuleRequest) (*models.RecurringRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rule payload")
	}
	if _, err := timeutil.ParseClock(req.StartTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	days := models.EncodeWeekdays(req.DaysOfWeek)
	if days == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "days_of_week must name at least one ISO weekday")
	}
	if req.ValidUntil != nil && !req.ValidUntil.After(req.ValidFrom) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "valid_until must be after valid_from")
	}

	if _, err := s.engineers.FindByID(ctx, req.EngineerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "engineer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load engineer")
	}

	rule := &models.RecurringRule{
		EngineerID:      req.EngineerID,
		JobID:           req.JobID,
		DaysOfWeek:      days,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		ValidFrom:       timeutil.DayStart(req.ValidFrom),
	}
	if req.ValidUntil != nil {
		until := timeutil.DayStart(*req.ValidUntil)
		rule.ValidUntil = &until
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create rule")
	}
	return rule, nil
}

// ListRules returns rules, optionally scoped to an engineer.
func (s *RecurringService) ListRules(ctx context.Context, engineerID string) ([]models.RecurringRule, error) {
	rules, err := s.rules.List(ctx, engineerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rules")
	}
	return rules, nil
}

// DeleteRule removes a rule. Entries already generated from it stay.
func (s *RecurringService) DeleteRule(ctx context.Context, id string) error {
	if _, err := s.rules.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rule")
	}
	if err := s.rules.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete rule")
	}
	return nil
}

// GenerateFromRules expands every active rule into the target week. The run
// is idempotent: candidates whose exact placement already exists are skipped,
// and candidates the validator rejects are skipped and counted, never fatal.
func (s *RecurringService) GenerateFromRules(ctx context.Context, req dto.GenerateFromRulesRequest) (*dto.GenerateFromRulesResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	weekStart := timeutil.WeekStart(req.WeekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	rules, err := s.rules.ListActiveInWindow(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rules")
	}

	// Structural validation up front: a malformed stored rule aborts the run
	// before anything is committed.
	startMinutes := make(map[string]int, len(rules))
	for _, rule := range rules {
		minute, err := timeutil.ParseClock(rule.StartTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rule %s has malformed start_time", rule.ID))
		}
		if len(rule.Weekdays()) == 0 || rule.DurationMinutes <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rule %s has no expandable pattern", rule.ID))
		}
		startMinutes[rule.ID] = minute
	}

	result := &dto.GenerateFromRulesResult{SkipReasons: map[string]int{}}

	for _, rule := range rules {
		for offset := 0; offset < 7; offset++ {
			day := weekStart.AddDate(0, 0, offset)
			if !rule.AppliesOn(day) {
				continue
			}

			startAt := timeutil.At(day, startMinutes[rule.ID])
			endAt := startAt.Add(time.Duration(rule.DurationMinutes) * time.Minute)

			exists, err := s.entries.ExistsExact(ctx, rule.EngineerID, startAt, endAt)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing entries")
			}
			if exists {
				result.Skipped++
				result.SkipReasons[skipReasonAlreadyExists]++
				continue
			}

			entry := s.entryFromRule(rule, startAt, endAt)
			if err := s.placer.PlaceCandidate(ctx, entry); err != nil {
				var placementErr *models.PlacementError
				if errors.As(err, &placementErr) {
					result.Skipped++
					result.SkipReasons[placementErr.Rejection.Code]++
					continue
				}
				// Unknown engineer or storage failure is structural.
				return nil, err
			}
			result.Created++
		}
	}

	if len(result.SkipReasons) == 0 {
		result.SkipReasons = nil
	}
	s.metrics.RecordBulkResult("generate", result.Created, result.Skipped)
	s.logger.Info("recurring generation finished",
		zap.Time("week_start", weekStart),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// entryFromRule builds the concrete candidate for one rule occurrence. Rules
// without a job reference produce placeholder entries tagged in the notes.
func (s *RecurringService) entryFromRule(rule models.RecurringRule, startAt, endAt time.Time) *models.ScheduleEntry {
	entry := &models.ScheduleEntry{
		EngineerID: rule.EngineerID,
		StartAt:    startAt,
		EndAt:      endAt,
		Status:     models.StatusScheduled,
	}
	if rule.JobID != nil {
		entry.JobID = *rule.JobID
	} else {
		entry.Notes = fmt.Sprintf("recurring booking (rule %s)", rule.ID)
	}
	return entry
}
