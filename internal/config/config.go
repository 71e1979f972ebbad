// Package config defines the explorer's configuration and how it is loaded.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/naka-gawa/repo-explorer/internal/cache"
	"github.com/naka-gawa/repo-explorer/internal/gateway"
	"github.com/naka-gawa/repo-explorer/internal/usecase"
)

// Storage backends for bookmarks.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

// Config contains process configuration.
type Config struct {
	// BaseURL is the GitHub REST endpoint, e.g. "https://api.github.com/".
	BaseURL string `koanf:"base_url"`

	// Token authenticates API calls. GITHUB_TOKEN takes precedence.
	Token string `koanf:"token"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is console or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address of serve, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the bookmark backend: file or redis.
	Storage     string `koanf:"storage"`
	StoragePath string `koanf:"storage_path"`
	RedisAddr   string `koanf:"redis_addr"`
	RedisDB     int    `koanf:"redis_db"`

	// CacheSize bounds the number of cached searches.
	CacheSize int `koanf:"cache_size"`

	// SearchStale and TopicsStale are how long results are served without refetching.
	SearchStale time.Duration `koanf:"search_stale"`
	TopicsStale time.Duration `koanf:"topics_stale"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		BaseURL:     gateway.DefaultBaseURL,
		LogLevel:    "info",
		LogFormat:   "console",
		Addr:        ":8080",
		Storage:     StorageFile,
		StoragePath: defaultStoragePath(),
		RedisAddr:   "localhost:6379",
		CacheSize:   cache.DefaultSize,
		SearchStale: usecase.DefaultSearchStale,
		TopicsStale: usecase.DefaultTopicsStale,
	}
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".repo-explorer.json"
	}
	return filepath.Join(dir, "repo-explorer", "storage.json")
}
