package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/dispatch-api/internal/models"
	"github.com/fieldserve/dispatch-api/pkg/timeutil"
)

// --- In-memory stubs shared by the service tests ---

type engineerRepoStub struct {
	mu    sync.Mutex
	items map[string]models.Engineer
}

func newEngineerRepoStub(engineers ...models.Engineer) *engineerRepoStub {
	stub := &engineerRepoStub{items: map[string]models.Engineer{}}
	for _, e := range engineers {
		stub.items[e.ID] = e
	}
	return stub
}

func (s *engineerRepoStub) List(ctx context.Context, filter models.EngineerFilter) ([]models.Engineer, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Engineer
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (s *engineerRepoStub) FindByID(ctx context.Context, id string) (*models.Engineer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := e
	return &clone, nil
}

func (s *engineerRepoStub) Create(ctx context.Context, engineer *models.Engineer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if engineer.ID == "" {
		engineer.ID = uuid.NewString()
	}
	s.items[engineer.ID] = *engineer
	return nil
}

func (s *engineerRepoStub) UpdateScheduleConfig(ctx context.Context, engineer *models.Engineer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[engineer.ID] = *engineer
	return nil
}

type entryRepoStub struct {
	mu    sync.Mutex
	items map[string]models.ScheduleEntry
}

func newEntryRepoStub(entries ...models.ScheduleEntry) *entryRepoStub {
	stub := &entryRepoStub{items: map[string]models.ScheduleEntry{}}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		stub.items[e.ID] = e
	}
	return stub
}

func (s *entryRepoStub) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := e
	return &clone, nil
}

func (s *entryRepoStub) ListForEngineerAndDay(ctx context.Context, engineerID string, day time.Time) ([]models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ScheduleEntry
	for _, e := range s.items {
		if e.EngineerID == engineerID && timeutil.SameDay(e.StartAt, day) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *entryRepoStub) ListRange(ctx context.Context, filter models.EntryFilter) ([]models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ScheduleEntry
	for _, e := range s.items {
		if filter.EngineerID != "" && e.EngineerID != filter.EngineerID {
			continue
		}
		if e.StartAt.Before(filter.From) || !e.StartAt.Before(filter.To) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *entryRepoStub) ExistsExact(ctx context.Context, engineerID string, startAt, endAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.EngineerID == engineerID && e.StartAt.Equal(startAt) && e.EndAt.Equal(endAt) {
			return true, nil
		}
	}
	return false, nil
}

func (s *entryRepoStub) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = models.StatusScheduled
	}
	s.items[entry.ID] = *entry
	return nil
}

func (s *entryRepoStub) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[entry.ID] = *entry
	return nil
}

func (s *entryRepoStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *entryRepoStub) all() []models.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ScheduleEntry
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out
}

type ruleRepoStub struct {
	mu    sync.Mutex
	items map[string]models.RecurringRule
}

func newRuleRepoStub(rules ...models.RecurringRule) *ruleRepoStub {
	stub := &ruleRepoStub{items: map[string]models.RecurringRule{}}
	for _, r := range rules {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		stub.items[r.ID] = r
	}
	return stub
}

func (s *ruleRepoStub) FindByID(ctx context.Context, id string) (*models.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := r
	return &clone, nil
}

func (s *ruleRepoStub) List(ctx context.Context, engineerID string) ([]models.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RecurringRule
	for _, r := range s.items {
		if engineerID != "" && r.EngineerID != engineerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ruleRepoStub) ListActiveInWindow(ctx context.Context, from, to time.Time) ([]models.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RecurringRule
	for _, r := range s.items {
		if !r.ValidFrom.Before(to) {
			continue
		}
		if r.ValidUntil != nil && r.ValidUntil.Before(from) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ruleRepoStub) Create(ctx context.Context, rule *models.RecurringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	s.items[rule.ID] = *rule
	return nil
}

func (s *ruleRepoStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// --- Common fixture data ---

func intPtr(v int) *int { return &v }

// testEngineer mirrors the worked example from the product brief: 08:00-17:00
// shift, 30 minute break, up to 4 jobs, 15 minute travel buffer.
func testEngineer(id string) models.Engineer {
	return models.Engineer{
		ID:                  id,
		Name:                "Test Engineer",
		Email:               id + "@example.com",
		Active:              true,
		WorkStartHour:       8,
		WorkEndHour:         17,
		BreakMinutes:        30,
		MaxJobsPerDay:       intPtr(4),
		TravelBufferMinutes: 15,
	}
}

// monday is an arbitrary fixed week start used across the suite.
var monday = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func newDispatchFixture(engineers *engineerRepoStub, entries *entryRepoStub) *DispatchService {
	return NewDispatchService(engineers, entries, nil, 0, 15, nil, nil, nil)
}
