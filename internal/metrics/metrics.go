// Package metrics provides Prometheus metrics for the repository explorer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "explorer"

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheStale = "stale"
	CacheMiss  = "miss"
)

// Recorder owns the explorer's collectors. A nil *Recorder records nothing,
// so components can be built without metrics in tests and one-shot commands.
type Recorder struct {
	githubRequests *prometheus.CounterVec
	githubDuration *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		githubRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "github_requests_total",
			Help:      "GitHub API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		githubDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "github_request_duration_seconds",
			Help:      "GitHub API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Query cache lookups by outcome.",
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{r.githubRequests, r.githubDuration, r.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveGitHub records one upstream call.
func (r *Recorder) ObserveGitHub(operation string, started time.Time, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.githubRequests.WithLabelValues(operation, outcome).Inc()
	r.githubDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// CacheLookup records a cache outcome (CacheHit, CacheStale or CacheMiss).
func (r *Recorder) CacheLookup(outcome string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}
