package save

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is the in-process fallback used when the SQLite database
// cannot be opened. Same contract as SQLiteStore, no durability.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
}

type memorySlot struct {
	rec     Record
	updated time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string]memorySlot{}}
}

// Put implements Store, honoring the revision monotonicity contract.
func (m *MemoryStore) Put(_ context.Context, slot string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.slots[slot]; ok && rec.Revision <= existing.rec.Revision {
		return nil
	}
	stored := rec
	stored.Snapshot = append([]byte(nil), rec.Snapshot...)
	m.slots[slot] = memorySlot{rec: stored, updated: time.Now()}
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, slot string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	existing, ok := m.slots[slot]
	if !ok {
		return Record{}, false, nil
	}
	out := existing.rec
	out.Snapshot = append([]byte(nil), existing.rec.Snapshot...)
	return out, true, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]SlotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SlotInfo, 0, len(m.slots))
	for slot, entry := range m.slots {
		out = append(out, SlotInfo{
			Slot:      slot,
			Revision:  entry.rec.Revision,
			UpdatedAt: entry.updated.UTC().Format(time.DateTime),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
