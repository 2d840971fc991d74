package service

import "sync"

// eventLocks hands out one mutex per event ID so that admission operations on
// the same event serialize while different events proceed in parallel. Locks
// are kept for the life of the process; the map grows with the number of
// distinct events touched, which is bounded and small.
type eventLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// lock acquires the mutex for eventID and returns its release func.
func (l *eventLocks) lock(eventID uint) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uint]*sync.Mutex)
	}
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	l.mu.Unlock()

	m.Lock()

	return m.Unlock
}
