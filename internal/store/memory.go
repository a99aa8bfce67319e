package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Backend. Text is kept exactly as written, so a
// Memory behaves like a SQLite file that never leaves the process.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
	writes  map[string]int

	// SaveHook, when set, runs before every Save. A non-nil return aborts the
	// write. Tests use it to simulate a failing disk.
	SaveHook func(key, text string) error
}

var _ Backend = (*Memory)(nil)

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]string),
		writes:  make(map[string]int),
	}
}

// Load returns the text stored under key.
func (m *Memory) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.entries[key]
	return text, ok, nil
}

// Save replaces the text stored under key.
func (m *Memory) Save(_ context.Context, key, text string) error {
	if m.SaveHook != nil {
		if err := m.SaveHook(key, text); err != nil {
			return err
		}
	}
	m.Put(key, text)
	return nil
}

// Put writes raw text without going through the codec, bypassing SaveHook.
// Useful for planting malformed data.
func (m *Memory) Put(key, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = text
	m.writes[key]++
}

// Keys returns every stored key in ascending order.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Writes returns how many times key has been written.
func (m *Memory) Writes(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes[key]
}
