package service

import (
	"sort"
	"sync"
)

// engineerLocks serializes validate-then-commit sequences per engineer so two
// concurrent placements cannot both pass validation against a stale snapshot
// and double-book the same timeline.
type engineerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEngineerLocks() *engineerLocks {
	return &engineerLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *engineerLocks) lockFor(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Acquire locks the given engineer IDs and returns the release function.
// IDs are deduplicated and locked in sorted order so a move between two
// engineers cannot deadlock against the reverse move.
func (l *engineerLocks) Acquire(ids ...string) func() {
	uniq := map[string]bool{}
	var ordered []string
	for _, id := range ids {
		if id == "" || uniq[id] {
			continue
		}
		uniq[id] = true
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	held := make([]*sync.Mutex, 0, len(ordered))
	for _, id := range ordered {
		m := l.lockFor(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
