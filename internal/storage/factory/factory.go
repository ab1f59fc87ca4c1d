package factory

import (
	"context"
	"fmt"

	"github.com/mkovacevic/qrel-judge/internal/storage"
	"github.com/mkovacevic/qrel-judge/internal/storage/file"
	"github.com/mkovacevic/qrel-judge/internal/storage/inmem"
	"github.com/mkovacevic/qrel-judge/internal/storage/pg"
	"github.com/mkovacevic/qrel-judge/internal/storage/rd"
)

// NewStore creates a storage.Store for the configured backend.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.File:
		return file.NewStore(cfg.FilePath)

	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.PgConnStr})
		if err != nil {
			return nil, fmt.Errorf("create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStore(ctx, pool)

	case storage.Redis:
		return rd.NewStore(cfg.RedisURL)

	case storage.InMem:
		return inmem.NewStore(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStore), cfg.Type)
	}
}
