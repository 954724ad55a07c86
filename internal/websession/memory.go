package websession

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	values  map[string]string
	touched time.Time
}

// MemoryStorage keeps browser-session values in process memory. Entries idle
// for longer than the TTL are treated as gone.
type MemoryStorage struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		ttl:     ttl,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// live returns the entry for sid if it has not idled out. Callers hold mu.
func (m *MemoryStorage) live(sid string) *memoryEntry {
	entry, ok := m.entries[sid]
	if !ok {
		return nil
	}
	if m.ttl > 0 && m.now().Sub(entry.touched) > m.ttl {
		delete(m.entries, sid)
		return nil
	}
	return entry
}

func (m *MemoryStorage) Get(_ context.Context, sid, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.live(sid)
	if entry == nil {
		return "", false, nil
	}
	entry.touched = m.now()
	value, ok := entry.values[key]
	return value, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.live(sid)
	if entry == nil {
		entry = &memoryEntry{values: make(map[string]string)}
		m.entries[sid] = entry
	}
	entry.values[key] = value
	entry.touched = m.now()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, sid, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry := m.live(sid); entry != nil {
		delete(entry.values, key)
		entry.touched = m.now()
	}
	return nil
}

func (m *MemoryStorage) Drop(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, sid)
	return nil
}

// Sweep removes idle entries and reports how many were dropped.
func (m *MemoryStorage) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for sid := range m.entries {
		if m.live(sid) == nil {
			removed++
		}
	}
	return removed
}
