// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-explorer/internal/cache"
	"github.com/naka-gawa/repo-explorer/internal/domain"
	"github.com/naka-gawa/repo-explorer/internal/gateway"
	"github.com/naka-gawa/repo-explorer/internal/metrics"
	"github.com/naka-gawa/repo-explorer/internal/query"
)

// FetchErrorMessage is the one message users see when GitHub could not be
// reached, on every surface.
const FetchErrorMessage = "Error fetching repositories: Please check your internet connection and try again."

const (
	DefaultSearchStale = 5 * time.Minute
	DefaultTopicsStale = 30 * time.Minute

	trendingPerPage = 30
	topicsCacheKey  = "topics"
)

// Explorer is the use case behind every view of the dashboard.
// It builds queries, goes through the cache and reduces results.
type Explorer struct {
	fetcher     gateway.Fetcher
	logger      *zap.Logger
	now         func() time.Time
	searchStale time.Duration
	topicsStale time.Duration
	cacheSize   int
	recorder    *metrics.Recorder

	searches *cache.Cache[*domain.SearchResult]
	topics   *cache.Cache[[]string]
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithStaleTimes overrides how long search and topic results stay fresh.
func WithStaleTimes(search, topics time.Duration) Option {
	return func(e *Explorer) {
		if search > 0 {
			e.searchStale = search
		}
		if topics > 0 {
			e.topicsStale = topics
		}
	}
}

// WithCacheSize bounds the number of cached searches.
func WithCacheSize(size int) Option {
	return func(e *Explorer) { e.cacheSize = size }
}

// WithMetrics records cache outcomes on recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(e *Explorer) { e.recorder = recorder }
}

// WithClock replaces time.Now, which anchors the recency windows.
func WithClock(now func() time.Time) Option {
	return func(e *Explorer) { e.now = now }
}

// NewExplorer creates a new Explorer instance.
func NewExplorer(fetcher gateway.Fetcher, logger *zap.Logger, opts ...Option) (*Explorer, error) {
	e := &Explorer{
		fetcher:     fetcher,
		logger:      logger,
		now:         time.Now,
		searchStale: DefaultSearchStale,
		topicsStale: DefaultTopicsStale,
		cacheSize:   cache.DefaultSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	var err error
	if e.searches, err = cache.New[*domain.SearchResult](e.cacheSize, logger, e.recorder); err != nil {
		return nil, err
	}
	if e.topics, err = cache.New[[]string](1, logger, e.recorder); err != nil {
		return nil, err
	}
	return e, nil
}

// Search returns one page of repositories matching params.
func (e *Explorer) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	p, err := query.Normalize(params)
	if err != nil {
		return nil, err
	}
	q := query.Build(p, e.now())
	opts := gateway.SearchOptions{Sort: p.Sort, Order: p.Order, PerPage: p.PerPage, Page: p.Page}
	return e.search(ctx, q, opts)
}

// Trending returns recently created repositories that already have traction.
func (e *Explorer) Trending(ctx context.Context, language string, period domain.Period) ([]*domain.Repository, error) {
	q := query.Trending(language, period, e.now())
	opts := gateway.SearchOptions{Sort: domain.SortStars, Order: domain.OrderDesc, PerPage: trendingPerPage, Page: 1}
	result, err := e.search(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// PopularTopics ranks the topics of this week's trending repositories.
func (e *Explorer) PopularTopics(ctx context.Context) ([]string, error) {
	return e.topics.Get(ctx, topicsCacheKey, e.topicsStale, func(ctx context.Context) ([]string, error) {
		repos, err := e.Trending(ctx, "", domain.PeriodWeek)
		if err != nil {
			return nil, err
		}
		return TopicNames(RankTopics(repos, PopularTopicLimit)), nil
	})
}

// Repository fetches the details of a single repository.
func (e *Explorer) Repository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("%w: owner and name are required", query.ErrInvalidParams)
	}
	return e.fetcher.GetRepository(ctx, owner, name)
}

// RateLimit reports the remaining API quota.
func (e *Explorer) RateLimit(ctx context.Context) (*domain.RateLimit, error) {
	return e.fetcher.FetchRateLimit(ctx)
}

// Dashboard fetches search results and popular topics concurrently and
// summarizes the results. A topics failure leaves Topics empty; a search
// failure fails the whole dashboard.
func (e *Explorer) Dashboard(ctx context.Context, params domain.SearchParams) (*domain.Dashboard, error) {
	var result *domain.SearchResult
	topics := []string{}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		result, err = e.Search(egCtx, params)
		return err
	})
	eg.Go(func() error {
		t, err := e.PopularTopics(egCtx)
		if err != nil {
			e.logger.Warn("failed to fetch popular topics", zap.Error(err))
			return nil
		}
		topics = t
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		Repositories: result.Items,
		Topics:       topics,
		Analytics:    Analyze(result.Items),
	}, nil
}

// Wait blocks until background cache revalidations have finished.
func (e *Explorer) Wait() {
	e.searches.Wait()
	e.topics.Wait()
}

func (e *Explorer) search(ctx context.Context, q string, opts gateway.SearchOptions) (*domain.SearchResult, error) {
	key := searchKey(q, opts)
	return e.searches.Get(ctx, key, e.searchStale, func(ctx context.Context) (*domain.SearchResult, error) {
		return e.fetcher.SearchRepositories(ctx, q, opts)
	})
}

func searchKey(q string, opts gateway.SearchOptions) string {
	return strings.Join([]string{
		q,
		string(opts.Sort),
		string(opts.Order),
		fmt.Sprint(opts.PerPage),
		fmt.Sprint(opts.Page),
	}, "|")
}
