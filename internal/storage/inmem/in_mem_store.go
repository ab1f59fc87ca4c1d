// Package inmem keeps session state in process memory only. Progress dies
// with the server; meant for tests and throwaway demo sessions.
package inmem

import (
	"context"
	"sync"

	"github.com/mkovacevic/qrel-judge/internal/storage"
)

type Store struct {
	mu       sync.Mutex
	labels   storage.Labels
	comments storage.Comments
	index    *int
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) LoadLabels(ctx context.Context) (storage.Labels, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels, nil
}

func (s *Store) SaveLabels(ctx context.Context, labels storage.Labels) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = clone(labels)
	return nil
}

func (s *Store) LoadComments(ctx context.Context) (storage.Comments, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments, nil
}

func (s *Store) SaveComments(ctx context.Context, comments storage.Comments) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = clone(comments)
	return nil
}

func (s *Store) LoadIndex(ctx context.Context) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return 0, false, nil
	}
	return *s.index, true, nil
}

func (s *Store) SaveIndex(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = &index
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = nil
	s.comments = nil
	s.index = nil
	return nil
}

func (s *Store) Close() error {
	return nil
}

// clone detaches the snapshot from the caller's maps; the judgment store
// keeps mutating its own projection in place.
func clone[V any](m map[string]map[string]V) map[string]map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]map[string]V, len(m))
	for k, inner := range m {
		cp := make(map[string]V, len(inner))
		for k2, v := range inner {
			cp[k2] = v
		}
		out[k] = cp
	}
	return out
}
