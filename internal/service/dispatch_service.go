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

type engineerRepository interface {
	List(ctx context.Context, filter models.EngineerFilter) ([]models.Engineer, int, error)
	FindByID(ctx context.Context, id string) (*models.Engineer, error)
	Create(ctx context.Context, engineer *models.Engineer) error
	UpdateScheduleConfig(ctx context.Context, engineer *models.Engineer) error
}

type entryRepository interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	ListForEngineerAndDay(ctx context.Context, engineerID string, day time.Time) ([]models.ScheduleEntry, error)
	ListRange(ctx context.Context, filter models.EntryFilter) ([]models.ScheduleEntry, error)
	ExistsExact(ctx context.Context, engineerID string, startAt, endAt time.Time) (bool, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

// cacheRepository abstracts the Redis-backed week-view cache.
type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DispatchService coordinates every schedule mutation. All placements, from
// any entry point, pass through its validate-then-commit path under the
// owning engineer's lock.
type DispatchService struct {
	engineers   engineerRepository
	entries     entryRepository
	cache       cacheRepository
	cacheTTL    time.Duration
	slotMinutes int
	checker     *ConstraintValidator
	locks       *engineerLocks
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDispatchService instantiates DispatchService. cache and metrics may be
// nil when those subsystems are disabled.
func NewDispatchService(engineers engineerRepository, entries entryRepository, cache cacheRepository, cacheTTL time.Duration, slotMinutes int, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DispatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if slotMinutes <= 0 {
		slotMinutes = 15
	}
	return &DispatchService{
		engineers:   engineers,
		entries:     entries,
		cache:       cache,
		cacheTTL:    cacheTTL,
		slotMinutes: slotMinutes,
		checker:     NewConstraintValidator(logger),
		locks:       newEngineerLocks(),
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// ScheduleJob validates and commits a new booking.
func (s *DispatchService) ScheduleJob(ctx context.Context, req dto.ScheduleJobRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	entry := &models.ScheduleEntry{
		EngineerID: req.EngineerID,
		JobID:      req.JobID,
		StartAt:    req.StartAt.UTC(),
		EndAt:      req.EndAt.UTC(),
		Status:     models.StatusScheduled,
		Notes:      req.Notes,
	}

	unlock := s.locks.Acquire(entry.EngineerID)
	defer unlock()

	if err := s.placeLocked(ctx, entry, PlacementCandidate{
		EngineerID: entry.EngineerID,
		StartAt:    entry.StartAt,
		EndAt:      entry.EndAt,
		Force:      req.Force,
	}, false); err != nil {
		return nil, err
	}
	return entry, nil
}

// MoveOrResize repositions an existing entry, optionally onto another
// engineer. Both engineers are locked for a cross-engineer move.
func (s *DispatchService) MoveOrResize(ctx context.Context, entryID string, req dto.MoveEntryRequest) (*models.ScheduleEntry, error) {
	if req.StartAt == nil && req.EndAt == nil && req.EngineerID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "patch must change start_at, end_at or engineer_id")
	}

	existing, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}

	updated := *existing
	if req.StartAt != nil {
		updated.StartAt = req.StartAt.UTC()
	}
	if req.EndAt != nil {
		updated.EndAt = req.EndAt.UTC()
	}
	if req.EngineerID != nil {
		updated.EngineerID = *req.EngineerID
	}

	unlock := s.locks.Acquire(existing.EngineerID, updated.EngineerID)
	defer unlock()

	if err := s.placeLocked(ctx, &updated, PlacementCandidate{
		EngineerID:     updated.EngineerID,
		StartAt:        updated.StartAt,
		EndAt:          updated.EndAt,
		ExcludeEntryID: updated.ID,
		Force:          req.Force,
	}, true); err != nil {
		return nil, err
	}

	if existing.EngineerID != updated.EngineerID {
		s.invalidateWeekCache(ctx, existing.EngineerID)
	}
	return &updated, nil
}

// placeLocked runs the constraint checks against a fresh snapshot and commits
// the entry. The caller must hold the engineer lock(s).
func (s *DispatchService) placeLocked(ctx context.Context, entry *models.ScheduleEntry, cand PlacementCandidate, update bool) error {
	engineer, err := s.engineers.FindByID(ctx, cand.EngineerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "engineer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load engineer")
	}

	snapshot, err := s.entries.ListForEngineerAndDay(ctx, cand.EngineerID, cand.StartAt)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day entries")
	}

	if err := s.checker.Validate(engineer, snapshot, cand); err != nil {
		var placementErr *models.PlacementError
		if errors.As(err, &placementErr) {
			s.metrics.RecordPlacementRejected(placementErr.Rejection.Code)
		}
		return err
	}

	if update {
		err = s.entries.Update(ctx, entry)
	} else {
		err = s.entries.Create(ctx, entry)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit entry")
	}

	s.metrics.RecordPlacementCommitted()
	s.invalidateWeekCache(ctx, entry.EngineerID)
	return nil
}

// UpdateStatus changes an entry's lifecycle state without touching placement.
func (s *DispatchService) UpdateStatus(ctx context.Context, entryID string, req dto.UpdateEntryStatusRequest) (*models.ScheduleEntry, error) {
	status := models.EntryStatus(req.Status)
	if !models.ValidEntryStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}

	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}

	entry.Status = status
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update entry status")
	}
	s.invalidateWeekCache(ctx, entry.EngineerID)
	return entry, nil
}

// DeleteEntry removes a booking.
func (s *DispatchService) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}

	unlock := s.locks.Acquire(entry.EngineerID)
	defer unlock()

	if err := s.entries.Delete(ctx, entryID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete entry")
	}
	s.invalidateWeekCache(ctx, entry.EngineerID)
	return nil
}

// ListEntries returns entries in a date range, served from the week cache
// when a single engineer is requested.
func (s *DispatchService) ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.ScheduleEntry, error) {
	if filter.To.IsZero() || !filter.To.After(filter.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range is required")
	}

	key := ""
	if s.cache != nil && filter.EngineerID != "" {
		key = weekCacheKey(filter.EngineerID, filter.From, filter.To)
		var cached []models.ScheduleEntry
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.entries.ListRange(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
			s.logger.Warn("week cache set failed", zap.Error(err))
		}
	}
	return entries, nil
}

// DayAvailability derives the availability view of one engineer day.
func (s *DispatchService) DayAvailability(ctx context.Context, engineerID string, day time.Time) (*dto.DayAvailability, error) {
	engineer, err := s.engineers.FindByID(ctx, engineerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "engineer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load engineer")
	}

	entries, err := s.entries.ListForEngineerAndDay(ctx, engineerID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day entries")
	}

	plan := PlanForDay(engineer, day)
	view := &dto.DayAvailability{
		Day:              timeutil.DayKey(day),
		WorkStart:        timeutil.FormatClock(engineer.WorkStartHour * 60),
		WorkEnd:          timeutil.FormatClock(engineer.WorkEndHour * 60),
		SlotMinutes:      s.slotMinutes,
		BookedMinutes:    BookedMinutes(entries),
		AvailableMinutes: AvailableMinutes(engineer),
		JobCount:         len(entries),
		FreeSlots:        s.freeSlots(plan, entries, day),
	}
	if plan.Break != nil {
		view.BreakStart = timeutil.FormatClock(timeutil.MinuteOfDay(plan.Break.Start))
		view.BreakEnd = timeutil.FormatClock(timeutil.MinuteOfDay(plan.Break.End))
	}
	return view, nil
}

// freeSlots walks the day's slot grid and returns the start times that are
// still bookable: inside the working window, clear of the break and of every
// committed entry. The grid is a rendering aid; placements themselves are not
// snapped to it.
func (s *DispatchService) freeSlots(plan DayPlan, entries []models.ScheduleEntry, day time.Time) []string {
	first := timeutil.SlotIndex(plan.Working.Start, s.slotMinutes)
	last := timeutil.SlotIndex(plan.Working.End, s.slotMinutes)

	var free []string
	for idx := first; idx < last; idx++ {
		slotStart := timeutil.TimeForSlot(day, idx, s.slotMinutes)
		slotEnd := slotStart.Add(time.Duration(s.slotMinutes) * time.Minute)
		if slotEnd.After(plan.Working.End) {
			break
		}
		if plan.Break != nil && plan.Break.Overlaps(slotStart, slotEnd) {
			continue
		}
		taken := false
		for _, entry := range entries {
			if entry.Overlaps(slotStart, slotEnd) {
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		free = append(free, timeutil.FormatClock(timeutil.MinuteOfDay(slotStart)))
	}
	return free
}

// CreateEngineer registers a new engineer after policy validation.
func (s *DispatchService) CreateEngineer(ctx context.Context, req dto.CreateEngineerRequest) (*models.Engineer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid engineer payload")
	}
	if err := validatePolicy(req.WorkStartHour, req.WorkEndHour, req.BreakMinutes); err != nil {
		return nil, err
	}

	engineer := &models.Engineer{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		Active:              true,
		WorkStartHour:       req.WorkStartHour,
		WorkEndHour:         req.WorkEndHour,
		BreakMinutes:        req.BreakMinutes,
		MaxJobsPerDay:       req.MaxJobsPerDay,
		TravelBufferMinutes: req.TravelBufferMinutes,
	}
	if err := s.engineers.Create(ctx, engineer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create engineer")
	}
	return engineer, nil
}

// ListEngineers returns the roster with pagination metadata.
func (s *DispatchService) ListEngineers(ctx context.Context, filter models.EngineerFilter) ([]models.Engineer, *models.Pagination, error) {
	engineers, total, err := s.engineers.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list engineers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return engineers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetEngineer loads one engineer.
func (s *DispatchService) GetEngineer(ctx context.Context, id string) (*models.Engineer, error) {
	engineer, err := s.engineers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "engineer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load engineer")
	}
	return engineer, nil
}

// UpdateScheduleConfig replaces an engineer's scheduling policy. Committed
// entries are left untouched; they are re-judged only when next moved.
func (s *DispatchService) UpdateScheduleConfig(ctx context.Context, engineerID string, req dto.UpdateScheduleConfigRequest) (*models.Engineer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule config payload")
	}
	if err := validatePolicy(req.WorkStartHour, req.WorkEndHour, req.BreakMinutes); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(engineerID)
	defer unlock()

	engineer, err := s.engineers.FindByID(ctx, engineerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "engineer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load engineer")
	}

	engineer.WorkStartHour = req.WorkStartHour
	engineer.WorkEndHour = req.WorkEndHour
	engineer.BreakMinutes = req.BreakMinutes
	engineer.MaxJobsPerDay = req.MaxJobsPerDay
	engineer.TravelBufferMinutes = req.TravelBufferMinutes

	if err := s.engineers.UpdateScheduleConfig(ctx, engineer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule config")
	}
	s.invalidateWeekCache(ctx, engineerID)
	return engineer, nil
}

func validatePolicy(workStartHour, workEndHour, breakMinutes int) error {
	if workEndHour <= workStartHour {
		return appErrors.Clone(appErrors.ErrValidation, "work_end_hour must be after work_start_hour")
	}
	if breakMinutes > (workEndHour-workStartHour)*60 {
		return appErrors.Clone(appErrors.ErrValidation, "break_minutes exceeds the working window")
	}
	return nil
}

func weekCacheKey(engineerID string, from, to time.Time) string {
	return fmt.Sprintf("dispatch:entries:%s:%s:%s", engineerID, timeutil.DayKey(from), timeutil.DayKey(to))
}

func (s *DispatchService) invalidateWeekCache(ctx context.Context, engineerID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("dispatch:entries:%s:*", engineerID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("week cache invalidation failed", zap.String("engineer_id", engineerID), zap.Error(err))
	}
}
