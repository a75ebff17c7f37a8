package attendance

import "sync"

// pairLock serializes work per (student, course) pair. Different pairs
// never contend. Entries are refcounted so the map stays bounded by the
// number of in-flight captures.
type pairLock struct {
	mu      sync.Mutex
	entries map[string]*pairLockEntry
}

type pairLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newPairLock() *pairLock {
	return &pairLock{entries: make(map[string]*pairLockEntry)}
}

func (l *pairLock) key(studentID, courseID string) string {
	return studentID + "\x00" + courseID
}

// lock acquires the mutex for the pair, creating its entry on demand.
func (l *pairLock) lock(studentID, courseID string) {
	key := l.key(studentID, courseID)

	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &pairLockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// unlock releases the pair mutex and drops the entry once nobody holds
// or waits on it.
func (l *pairLock) unlock(studentID, courseID string) {
	key := l.key(studentID, courseID)

	l.mu.Lock()
	entry := l.entries[key]
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}

// entryCount returns the number of live entries, for tests.
func (l *pairLock) entryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
