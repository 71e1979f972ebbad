// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/repo-explorer/internal/domain"
	"github.com/naka-gawa/repo-explorer/internal/metrics"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com/"

	userAgent = "GitHub-Explorer-App"
)

// ErrNotFound is returned when GitHub has no repository under the requested name.
var ErrNotFound = errors.New("repository not found")

// SearchOptions controls ordering and paging of a repository search.
type SearchOptions struct {
	Sort    domain.SortKey
	Order   domain.Order
	PerPage int
	Page    int
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	SearchRepositories(ctx context.Context, query string, opts SearchOptions) (*domain.SearchResult, error)
	GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error)
	FetchRateLimit(ctx context.Context) (*domain.RateLimit, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger
	metrics       *metrics.Recorder
}

// rateLimitQuery reads the GraphQL quota of the current credentials.
type rateLimitQuery struct {
	RateLimit struct {
		Limit     int
		Remaining int
		Cost      int
		ResetAt   githubv4.DateTime
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token yields an anonymous client; baseURL defaults to DefaultBaseURL.
func NewGitHubGateway(token, baseURL string, logger *zap.Logger, recorder *metrics.Recorder) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	httpClient := &http.Client{Transport: transport}

	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	restClient := github.NewClient(httpClient)
	restClient.BaseURL = base
	restClient.UserAgent = userAgent

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(base.String()+"graphql", httpClient),
		logger:        logger,
		metrics:       recorder,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub base URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid GitHub base URL %q: scheme and host are required", raw)
	}
	return u, nil
}

// SearchRepositories runs a single page of repository search.
func (g *GitHubGateway) SearchRepositories(ctx context.Context, query string, opts SearchOptions) (_ *domain.SearchResult, err error) {
	defer func(started time.Time) { g.metrics.ObserveGitHub("search", started, err) }(time.Now())
	g.logger.Debug("searching repositories",
		zap.String("query", query),
		zap.String("sort", string(opts.Sort)),
		zap.Int("page", opts.Page),
	)

	searchOpts := &github.SearchOptions{
		Sort:        string(opts.Sort),
		Order:       string(opts.Order),
		ListOptions: github.ListOptions{PerPage: opts.PerPage, Page: opts.Page},
	}
	result, _, err := g.restClient.Search.Repositories(ctx, query, searchOpts)
	if err != nil {
		g.logger.Error("GitHub API error", zap.String("operation", "search"), zap.Error(err))
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	items := make([]*domain.Repository, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		items = append(items, toDomain(repo))
	}
	g.logger.Debug("completed repository search", zap.Int("total", result.GetTotal()), zap.Int("items", len(items)))
	return &domain.SearchResult{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Items:             items,
	}, nil
}

// GetRepository fetches one repository by owner and name.
func (g *GitHubGateway) GetRepository(ctx context.Context, owner, name string) (_ *domain.Repository, err error) {
	defer func(started time.Time) { g.metrics.ObserveGitHub("repository", started, err) }(time.Now())
	repo, resp, err := g.restClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			g.logger.Debug("repository not found", zap.String("owner", owner), zap.String("name", name))
			return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, ErrNotFound)
		}
		g.logger.Error("GitHub API error", zap.String("operation", "repository"), zap.Error(err))
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	return toDomain(repo), nil
}

// FetchRateLimit queries the GraphQL API for the remaining quota.
func (g *GitHubGateway) FetchRateLimit(ctx context.Context) (_ *domain.RateLimit, err error) {
	defer func(started time.Time) { g.metrics.ObserveGitHub("rate_limit", started, err) }(time.Now())
	var q rateLimitQuery
	if err = g.graphqlClient.Query(ctx, &q, nil); err != nil {
		g.logger.Error("GitHub API error", zap.String("operation", "rate_limit"), zap.Error(err))
		return nil, fmt.Errorf("failed to execute GraphQL query for rate limit: %w", err)
	}
	return &domain.RateLimit{
		Limit:     q.RateLimit.Limit,
		Remaining: q.RateLimit.Remaining,
		Cost:      q.RateLimit.Cost,
		ResetAt:   q.RateLimit.ResetAt.Time,
	}, nil
}

func toDomain(r *github.Repository) *domain.Repository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return &domain.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
		Language:    r.GetLanguage(),
		Topics:      topics,
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
		Size:        r.GetSize(),
		Owner: domain.Owner{
			Login:     r.GetOwner().GetLogin(),
			AvatarURL: r.GetOwner().GetAvatarURL(),
		},
	}
}
