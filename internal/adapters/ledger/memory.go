package ledger

import (
	"context"
	"sync"

	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/pkg/metrics"
)

// MemoryStore keeps the ledger for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
	cfg  settings
}

// NewMemoryStore creates an empty in-process ledger.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{cfg: newSettings(opts)}
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, e model.LedgerEntry) error {
	if err := validate(e); err != nil {
		return err
	}
	m.mu.Lock()
	m.snap.Entries = append(m.snap.Entries, e)
	m.snap.UpdatedAt = m.cfg.now()
	n := len(m.snap.Entries)
	m.mu.Unlock()
	metrics.UpdateLedgerEntries(n)
	return nil
}

// Snapshot implements Store.
func (m *MemoryStore) Snapshot(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := Snapshot{UpdatedAt: m.snap.UpdatedAt, Entries: make([]model.LedgerEntry, len(m.snap.Entries))}
	copy(out.Entries, m.snap.Entries)
	return out, nil
}
