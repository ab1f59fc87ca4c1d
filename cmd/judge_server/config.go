package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mkovacevic/qrel-judge/internal/storage/factory"
	"github.com/mkovacevic/qrel-judge/pkg/config/env"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

// JudgeConfig describes one judging campaign: where the three startup
// resources live, where the document sources are served from, and which
// storage backend keeps the annotator's progress.
type JudgeConfig struct {
	Topics  string `yaml:"topics"`
	Pool    string `yaml:"pool"`
	Mapping string `yaml:"mapping"`
	DocsDir string `yaml:"docs_dir"`

	Storage *factory.StorageConfig `yaml:"-"`
}

// Load builds the config from an optional YAML campaign file (JUDGE_CONFIG)
// with environment variables taking precedence on top.
func (ac *AppConfig) Load() (*JudgeConfig, error) {
	err := env.LoadDotEnv(ac.ENV, "cmd/judge_server/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	cfg := &JudgeConfig{}

	if path := os.Getenv("JUDGE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read campaign config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse campaign config %s: %w", path, err)
		}
	}

	if v := os.Getenv("TOPICS_FILE"); v != "" {
		cfg.Topics = v
	}
	if v := os.Getenv("POOL_FILE"); v != "" {
		cfg.Pool = v
	}
	if v := os.Getenv("MAPPING_FILE"); v != "" {
		cfg.Mapping = v
	}
	if v := os.Getenv("DOCS_DIR"); v != "" {
		cfg.DocsDir = v
	}

	if cfg.Topics == "" || cfg.Pool == "" || cfg.Mapping == "" || cfg.DocsDir == "" {
		return nil, fmt.Errorf("incomplete config: topics, pool, mapping and docs_dir are all required (set TOPICS_FILE, POOL_FILE, MAPPING_FILE, DOCS_DIR or JUDGE_CONFIG)")
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}
	cfg.Storage = storageCfg

	return cfg, nil
}
