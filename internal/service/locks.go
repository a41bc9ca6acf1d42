package service

import "sync"

// groupLocks serializes read-modify-write sequences per group id.
// Every mutation of a group or its cycle list follows the pattern
// fetch → mutate in memory → write back, which is not atomic against
// the store, so all mutating operations on one group share a critical
// section. Distinct groups proceed in parallel.
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for groupID and returns its unlock func.
// Lock entries are never removed; the set of group ids is small and
// append-only.
func (g *groupLocks) lock(groupID string) func() {
	g.mu.Lock()
	l, ok := g.locks[groupID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[groupID] = l
	}
	g.mu.Unlock()

	l.Lock()
	return l.Unlock
}
