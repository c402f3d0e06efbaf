package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "dramaweaver.yaml"
	DefaultWorldview   = "默认世界观"
	DefaultMaxAttempts = 8
	maxAttemptsLimit   = 64
)

type ProjectConfig struct {
	Project   string          `yaml:"project"`
	Version   int             `yaml:"version"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Allocator AllocatorConfig `yaml:"allocator"`
	Worldview WorldviewConfig `yaml:"worldview"`
	Exclude   []string        `yaml:"exclude"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DRAMAWEAVER_DSN"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"DRAMAWEAVER_LOG_LEVEL"`
	Format string `yaml:"format" env:"DRAMAWEAVER_LOG_FORMAT"`
}

type AllocatorConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

type WorldviewConfig struct {
	Default string `yaml:"default"`
	Hints   []Hint `yaml:"hints"`
}

// Hint maps a substring of a dataset's first scene name to a worldview.
type Hint struct {
	Match     string `yaml:"match"`
	Worldview string `yaml:"worldview"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: parse env: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// New returns a config for a fresh project with every default filled in.
func New(project, dsn string) *ProjectConfig {
	cfg := &ProjectConfig{
		Project:  project,
		Version:  1,
		Database: DatabaseConfig{DSN: dsn},
	}
	applyDefaults(cfg)
	return cfg
}

// Write saves cfg as YAML. It refuses to replace an existing file.
func Write(path string, cfg *ProjectConfig) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding project config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Allocator.MaxAttempts == 0 {
		cfg.Allocator.MaxAttempts = DefaultMaxAttempts
	}
	if strings.TrimSpace(cfg.Worldview.Default) == "" {
		cfg.Worldview.Default = DefaultWorldview
	}
	if cfg.Worldview.Hints == nil {
		cfg.Worldview.Hints = []Hint{
			{Match: "月王", Worldview: "月王故事"},
			{Match: "王勇", Worldview: "王勇和体育生故事"},
		}
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if _, err := Backend(cfg.Database.DSN); err != nil {
		return err
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}

	if cfg.Allocator.MaxAttempts < 1 || cfg.Allocator.MaxAttempts > maxAttemptsLimit {
		return fmt.Errorf("allocator max_attempts must be between 1 and %d", maxAttemptsLimit)
	}

	for i, hint := range cfg.Worldview.Hints {
		if strings.TrimSpace(hint.Match) == "" {
			return fmt.Errorf("worldview hint %d match is required", i)
		}
		if strings.TrimSpace(hint.Worldview) == "" {
			return fmt.Errorf("worldview hint %d worldview is required", i)
		}
	}

	return nil
}

// Backend names the store selected by a DSN scheme: sqlite, postgres or
// redis.
func Backend(dsn string) (string, error) {
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return "", fmt.Errorf("database dsn %q has no scheme", dsn)
	}
	switch strings.ToLower(scheme) {
	case "sqlite":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "redis", "rediss":
		return "redis", nil
	}
	return "", fmt.Errorf("unsupported database scheme: %s", scheme)
}
