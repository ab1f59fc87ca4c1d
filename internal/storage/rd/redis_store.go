// Package rd persists session state in Redis. Useful when the annotator's
// browser machine and the judge server are not the same host.
package rd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkovacevic/qrel-judge/internal/storage"
	"github.com/redis/go-redis/v9"
)

const (
	connectTimeout = 5 * time.Second

	keyLabels   = "labels"
	keyComments = "comments"
	keyIndex    = "current_index"
)

type Store struct {
	client *redis.Client
	prefix string
}

// NewStore connects to the Redis URL and verifies it answers before
// returning.
func NewStore(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis store: parse URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis store: connect: %w", err)
	}

	return &Store{client: client, prefix: "judge:state:"}, nil
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
	keys := []string{s.prefix + keyLabels, s.prefix + keyComments, s.prefix + keyIndex}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis store: clear: %w", err)
	}
	return nil
}

// Ping verifies the server still answers; backs the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	payload, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
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
		return fmt.Errorf("redis store: marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis store: save %s: %w", key, err)
	}
	return nil
}
