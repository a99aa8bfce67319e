package engine

import "sync"

// tableLocks hands out one mutex per table key. Entries are never removed;
// the set of tables in one process is small and fixed.
type tableLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTableLocks() *tableLocks {
	return &tableLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for table and returns its unlock function.
func (t *tableLocks) lock(table string) func() {
	t.mu.Lock()
	m, ok := t.locks[table]
	if !ok {
		m = &sync.Mutex{}
		t.locks[table] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}
