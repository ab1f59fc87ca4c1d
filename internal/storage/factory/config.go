package factory

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mkovacevic/qrel-judge/internal/storage"
)

type StorageConfig struct {
	Type storage.Type

	FilePath  string
	PgConnStr string
	RedisURL  string
}

// LoadEnv reads the storage backend selection from the environment.
// STORAGE_TYPE defaults to the file backend so the tool works out of the box.
func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		storageType = storage.File
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.File:
		cfg.FilePath = os.Getenv("STATE_FILE")
		if cfg.FilePath == "" {
			cfg.FilePath = filepath.Join(".", "judge_state.json")
		}

	case storage.PG:
		cfg.PgConnStr = os.Getenv("DATABASE_URL")
		if cfg.PgConnStr == "" {
			slog.Error("DATABASE_URL is required for the pg storage backend")
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}

	case storage.Redis:
		cfg.RedisURL = os.Getenv("REDIS_URL")
		if cfg.RedisURL == "" {
			slog.Error("REDIS_URL is required for the redis storage backend")
			return nil, fmt.Errorf("REDIS_URL environment variable is not set")
		}

	case storage.InMem:
		// Nothing to configure; progress is lost on restart.

	default:
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.File, storage.PG, storage.Redis, storage.InMem})
	}

	return cfg, nil
}
