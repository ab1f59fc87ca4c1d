// Package pg persists session state in PostgreSQL, for annotators who move
// between machines and want their progress to follow them.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/mkovacevic/qrel-judge/internal/storage"
)

const (
	keyLabels   = "labels"
	keyComments = "comments"
	keyIndex    = "current_index"
)

const schema = `
CREATE TABLE IF NOT EXISTS judge_state (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool *ConnectionPool
}

// NewStore creates the state table if it is missing and returns the store.
func NewStore(ctx context.Context, pool *ConnectionPool) (*Store, error) {
	if _, err := pool.GetConn().Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("pg store: ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) LoadLabels(ctx context.Context) (storage.Labels, error) {
	var labels storage.Labels
	s.load(ctx, keyLabels, &labels)
	return labels, nil
}

func (s *Store) SaveLabels(ctx context.Context, labels storage.Labels) error {
	return s.save(ctx, keyLabels, labels)
}

func (s *Store) LoadComments(ctx context.Context) (storage.Comments, error) {
	var comments storage.Comments
	s.load(ctx, keyComments, &comments)
	return comments, nil
}

func (s *Store) SaveComments(ctx context.Context, comments storage.Comments) error {
	return s.save(ctx, keyComments, comments)
}

func (s *Store) LoadIndex(ctx context.Context) (int, bool, error) {
	var index int
	if !s.load(ctx, keyIndex, &index) {
		return 0, false, nil
	}
	return index, true, nil
}

func (s *Store) SaveIndex(ctx context.Context, index int) error {
	return s.save(ctx, keyIndex, index)
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.pool.GetConn().Exec(ctx,
		`DELETE FROM judge_state WHERE key = ANY($1)`,
		[]string{keyLabels, keyComments, keyIndex})
	if err != nil {
		return fmt.Errorf("pg store: clear: %w", err)
	}
	return nil
}

// Ping verifies the database still answers; backs the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// load reads one projection into dst. A missing row or an undecodable
// payload is a fresh start, reported as false.
func (s *Store) load(ctx context.Context, key string, dst any) bool {
	var payload []byte
	err := s.pool.GetConn().QueryRow(ctx,
		`SELECT payload FROM judge_state WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	if err != nil {
		slog.Warn("Reading stored state failed, starting fresh", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		slog.Warn("Stored state is corrupt, starting fresh", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("pg store: marshal %s: %w", key, err)
	}
	_, err = s.pool.GetConn().Exec(ctx, `
		INSERT INTO judge_state (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		key, payload)
	if err != nil {
		return fmt.Errorf("pg store: save %s: %w", key, err)
	}
	return nil
}
