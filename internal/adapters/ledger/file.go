package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/pkg/metrics"
)

// FileStore keeps the ledger in a JSON file. Writes replace the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
	cfg  settings
}

// NewFileStore creates a store backed by path. The file is created on first append.
func NewFileStore(path string, opts ...Option) *FileStore {
	return &FileStore{path: path, cfg: newSettings(opts)}
}

// Append implements Store.
func (f *FileStore) Append(_ context.Context, e model.LedgerEntry) error {
	if err := validate(e); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, err := f.read()
	if err != nil {
		return err
	}
	snap.Entries = append(snap.Entries, e)
	snap.UpdatedAt = f.cfg.now().UTC()
	if err := f.write(snap); err != nil {
		return err
	}
	metrics.UpdateLedgerEntries(len(snap.Entries))
	return nil
}

// Snapshot implements Store.
func (f *FileStore) Snapshot(_ context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileStore) read() (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{Entries: []model.LedgerEntry{}}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Snapshot{Entries: []model.LedgerEntry{}}, nil
	}

	var snap Snapshot
	// a bare array is the browser storage layout
	if data[0] == '[' {
		err = json.Unmarshal(data, &snap.Entries)
	} else {
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, f.path, err)
	}
	if snap.Entries == nil {
		snap.Entries = []model.LedgerEntry{}
	}
	return snap, nil
}

func (f *FileStore) write(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
