package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naka-gawa/repo-explorer/internal/metrics"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T) (*Cache[string], *fakeClock) {
	c, err := New[string](4, zap.NewNop(), nil)
	require.NoError(t, err)
	clock := &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	c.now = clock.Now
	return c, clock
}

func TestCache_FreshEntryIsServedFromCache(t *testing.T) {
	c, clock := newTestCache(t)
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", nil
	}

	v, err := c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	clock.Advance(30 * time.Second)
	v, err = c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_StaleEntryIsServedThenRevalidated(t *testing.T) {
	c, clock := newTestCache(t)
	version := "v1"
	fetch := func(ctx context.Context) (string, error) { return version, nil }

	_, err := c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	version = "v2"
	v, err := c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v, "stale value is returned immediately")

	c.Wait()
	v, err = c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestCache_RevalidationSurvivesCallerCancellation(t *testing.T) {
	c, clock := newTestCache(t)
	_, err := c.Get(context.Background(), "k", time.Minute, func(ctx context.Context) (string, error) { return "v1", nil })
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	v, err := c.Get(ctx, "k", time.Minute, func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "v2", nil
	})
	cancel()
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	c.Wait()
	e, ok := c.entries.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", e.value)
}

func TestCache_SharedFetchSurvivesFirstCallerCancellation(t *testing.T) {
	c, _ := newTestCache(t)
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		close(started)
		select {
		case <-release:
			return "shared", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "k", time.Minute, fetch)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := c.Get(context.Background(), "k", time.Minute, fetch)
		second <- result{v, err}
	}()

	// Let the second caller join the in-flight fetch before the first leaves.
	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "shared", res.v)

	e, ok := c.entries.Get("k")
	require.True(t, ok)
	assert.Equal(t, "shared", e.value)
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	c, _ := newTestCache(t)
	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), "k", time.Minute, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give every caller time to join the in-flight request.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("network down")
	fail := true
	fetch := func(ctx context.Context) (string, error) {
		if fail {
			return "", boom
		}
		return "ok", nil
	}

	_, err := c.Get(context.Background(), "k", time.Minute, fetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	fail = false
	v, err := c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestCache_InvalidateAndEviction(t *testing.T) {
	c, _ := newTestCache(t)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		k := k
		_, err := c.Get(context.Background(), k, time.Minute, func(ctx context.Context) (string, error) { return k, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 4, c.Len())

	c.Invalidate("e")
	assert.Equal(t, 3, c.Len())
}

func TestCache_RecordsLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	c, err := New[int](0, zap.NewNop(), recorder)
	require.NoError(t, err)

	fetch := func(ctx context.Context) (int, error) { return 1, nil }
	_, err = c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)

	// One series each for the miss and the hit.
	series, err := testutil.GatherAndCount(reg, "explorer_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}
