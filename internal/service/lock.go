package service

import "sync"

// orderLocks hands out one mutex per group order id so read-modify-write
// cycles and closes against the same order are mutually exclusive.
// Entries are refcounted and dropped once the last holder releases.
type orderLocks struct {
	mu    sync.Mutex
	locks map[string]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func newOrderLocks() *orderLocks {
	return &orderLocks{locks: make(map[string]*orderLock)}
}

func (l *orderLocks) lock(id string) {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &orderLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

func (l *orderLocks) unlock(id string) {
	l.mu.Lock()
	e := l.locks[id]
	e.refs--
	if e.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
