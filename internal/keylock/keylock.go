// Package keylock serializes operations per key without one global
// lock across all of them. Lock entries are reference counted and
// removed once the last holder releases, so the map never grows with
// the number of keys ever seen.
package keylock

import "sync"

// entry holds the mutex and the reference count.
type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker hands out one mutex per key on demand.
type Locker struct {
	mu    sync.Mutex // guards the map
	locks map[string]*entry
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// acquire gets or creates the entry for key and increments its
// reference count. The caller must lock entry.mu and call release
// after unlocking it.
func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	return e
}

// release decrements the reference count and drops the entry when it
// reaches zero.
func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(l.locks, key)
	}
}

// Do runs fn while holding the lock for key. Calls with the same key
// serialize; calls with different keys proceed independently.
func (l *Locker) Do(key string, fn func() error) error {
	e := l.acquire(key)
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		l.release(key)
	}()
	return fn()
}
