package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "EXPLORER_"
	configPathEnv = "EXPLORER_CONFIG"
	tokenEnv      = "GITHUB_TOKEN"
)

// LoadDotEnv loads KEY=value pairs from path into the environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from configPath, or EXPLORER_CONFIG when configPath is empty
//  3. env (prefix EXPLORER_)
//  4. GITHUB_TOKEN for the token
func Load(configPath string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if configPath == "" {
		configPath = os.Getenv(configPathEnv)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// EXPLORER_STORAGE_PATH -> storage_path (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if token := os.Getenv(tokenEnv); token != "" {
		cfg.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if c.StoragePath == "" {
			return errors.New("storage_path must not be empty")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("redis_addr must not be empty")
		}
	default:
		return fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageFile, StorageRedis)
	}
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.CacheSize < 0 {
		return errors.New("cache_size must not be negative")
	}
	if c.SearchStale < 0 || c.TopicsStale < 0 {
		return errors.New("stale durations must not be negative")
	}
	return nil
}
