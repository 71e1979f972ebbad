package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naka-gawa/repo-explorer/internal/bookmark"
	"github.com/naka-gawa/repo-explorer/internal/config"
	"github.com/naka-gawa/repo-explorer/internal/gateway"
	"github.com/naka-gawa/repo-explorer/internal/kv"
	"github.com/naka-gawa/repo-explorer/internal/logging"
	"github.com/naka-gawa/repo-explorer/internal/metrics"
	"github.com/naka-gawa/repo-explorer/internal/query"
	"github.com/naka-gawa/repo-explorer/internal/usecase"
)

// exit and stderr are swapped out in tests.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// app holds the dependencies shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	explorer  *usecase.Explorer
	bookmarks *bookmark.Service
	closers   []func() error
}

// newApp loads configuration and wires the explorer. Commands that keep
// running (serve) pass alwaysLog so logs are not discarded without --verbose.
func newApp(ctx context.Context, cmd *cobra.Command, alwaysLog bool) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")

	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat, !verbose && !alwaysLog)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	fetcher, err := gateway.NewGitHubGateway(cfg.Token, cfg.BaseURL, logger, recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	explorer, err := usecase.NewExplorer(fetcher, logger,
		usecase.WithCacheSize(cfg.CacheSize),
		usecase.WithStaleTimes(cfg.SearchStale, cfg.TopicsStale),
		usecase.WithMetrics(recorder),
	)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		explorer: explorer,
	}

	var store kv.Store
	switch cfg.Storage {
	case config.StorageRedis:
		rs, err := kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		store = rs
	default:
		store = kv.NewFileStore(cfg.StoragePath)
	}
	a.bookmarks = bookmark.NewService(store, logger)
	return a, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// bookmarkedSet loads bookmarks for card rendering. Failures only lose the markers.
func (a *app) bookmarkedSet(ctx context.Context) map[int64]bool {
	set := make(map[int64]bool)
	ids, err := a.bookmarks.List(ctx)
	if err != nil {
		a.logger.Warn("failed to load bookmarks", zap.Error(err))
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// mustApp builds the app or exits.
func mustApp(ctx context.Context, cmd *cobra.Command, alwaysLog bool) *app {
	a, err := newApp(ctx, cmd, alwaysLog)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exit(1)
	}
	return a
}

// fail prints the message, releases the app's resources and exits.
// Deferred calls do not run after exit, so this is the only way out of a
// command once the app exists.
func (a *app) fail(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	a.close()
	exit(1)
}

// exitOnFetchError fails with the user-facing message for err.
func (a *app) exitOnFetchError(err error) {
	if err == nil {
		return
	}
	a.fail("%s", fetchFailureMessage(err))
}

// fetchFailureMessage reports invalid filters and missing repositories as
// such; everything else is a fetch failure.
func fetchFailureMessage(err error) string {
	switch {
	case errors.Is(err, query.ErrInvalidParams), errors.Is(err, gateway.ErrNotFound):
		return fmt.Sprintf("Error: %v", err)
	default:
		return usecase.FetchErrorMessage
	}
}

// printJSON marshals v into a pretty-printed JSON string on standard output.
func (a *app) printJSON(v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		a.fail("Failed to marshal results to JSON: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}
