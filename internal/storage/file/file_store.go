// Package file persists session state as a single JSON document on disk,
// the default backend for a single annotator on one machine.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mkovacevic/qrel-judge/internal/storage"
)

type Store struct {
	path string

	mu sync.Mutex
}

type snapshot struct {
	Labels   storage.Labels   `json:"labels,omitempty"`
	Comments storage.Comments `json:"comments,omitempty"`
	Index    *int             `json:"current_index,omitempty"`
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file store: create state dir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) LoadLabels(ctx context.Context) (storage.Labels, error) {
	snap := s.read()
	return snap.Labels, nil
}

func (s *Store) SaveLabels(ctx context.Context, labels storage.Labels) error {
	return s.update(func(snap *snapshot) { snap.Labels = labels })
}

func (s *Store) LoadComments(ctx context.Context) (storage.Comments, error) {
	snap := s.read()
	return snap.Comments, nil
}

func (s *Store) SaveComments(ctx context.Context, comments storage.Comments) error {
	return s.update(func(snap *snapshot) { snap.Comments = comments })
}

func (s *Store) LoadIndex(ctx context.Context) (int, bool, error) {
	snap := s.read()
	if snap.Index == nil {
		return 0, false, nil
	}
	return *snap.Index, true, nil
}

func (s *Store) SaveIndex(ctx context.Context, index int) error {
	return s.update(func(snap *snapshot) { snap.Index = &index })
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file store: clear: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

// read returns the current snapshot. A missing or corrupt state file is a
// fresh start, not an error.
func (s *Store) read() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *Store) readLocked() snapshot {
	var snap snapshot
	data, err := os.ReadFile(s.path)
	if err != nil {
		return snap
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("State file is corrupt, starting fresh", "path", s.path, "error", err)
		return snapshot{}
	}
	return snap
}

func (s *Store) update(mutate func(*snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.readLocked()
	mutate(&snap)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal state: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the snapshot.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file store: write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("file store: replace state: %w", err)
	}
	return nil
}
