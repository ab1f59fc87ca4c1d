package storage

import (
	"context"

	"github.com/mkovacevic/qrel-judge/internal/domain"
)

// Labels is the durable label projection: question id -> doc id -> verdict.
type Labels map[string]map[string]domain.Label

// Comments is the durable comment projection: question id -> doc id -> text.
type Comments map[string]map[string]string

// Store persists the three session projections between runs. Labels,
// comments and the current question index are written independently, each as
// a full snapshot, so a crash between events loses at most the event in
// flight. Loads are tolerant: missing or unreadable state comes back as the
// zero value with ok=false, never as an error the caller must recover from.
type Store interface {
	LoadLabels(ctx context.Context) (Labels, error)
	SaveLabels(ctx context.Context, labels Labels) error

	LoadComments(ctx context.Context) (Comments, error)
	SaveComments(ctx context.Context, comments Comments) error

	LoadIndex(ctx context.Context) (index int, ok bool, err error)
	SaveIndex(ctx context.Context, index int) error

	// Clear removes all three projections. Export calls this exactly once.
	Clear(ctx context.Context) error

	Close() error
}

type Type string

const (
	File  Type = "file"
	PG    Type = "pg"
	Redis Type = "redis"
	InMem Type = "in_mem"
)

type StoreError string

const (
	ErrUnsupportedStore StoreError = "unsupported store type: %s"
)

func (e StoreError) Error() string {
	return string(e)
}
