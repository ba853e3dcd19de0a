// Package ledger persists the candidate's locally recorded applications.
// The ledger only grows by local append and is never reconciled with the
// backend, so readers must treat it as "last known locally".
package ledger

import (
	"context"
	"time"

	"github.com/okian/recruitportal/internal/domain/model"
)

// Snapshot is the ledger contents at a point in time.
type Snapshot struct {
	Entries []model.LedgerEntry `json:"entries"`
	// UpdatedAt is the last append; zero when nothing was ever recorded.
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary counts the snapshot entries by status.
func (s Snapshot) Summary() model.ApplicationSummary {
	return model.Summarize(s.Entries, s.UpdatedAt)
}

// Store provides append-only access to the ledger.
type Store interface {
	// Append records one entry. Entries without an id or status are rejected.
	Append(ctx context.Context, e model.LedgerEntry) error
	// Snapshot returns every entry in append order.
	Snapshot(ctx context.Context) (Snapshot, error)
}

func validate(e model.LedgerEntry) error {
	if e.ID == "" || e.Status == "" {
		return ErrInvalidEntry
	}
	return nil
}
