package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/wdolek/mewsy-bankator/internal/entities"
	"github.com/wdolek/mewsy-bankator/internal/metrics"
)

// RateCache serves the latest snapshot of source rates, fetching upstream at
// most once per TTL window. Concurrent demand for a refresh coalesces onto a
// single upstream call; every waiter of that flight observes the same outcome.
type RateCache struct {
	client      SourceClient
	ttl         time.Duration
	fetchWindow time.Duration
	metrics     *metrics.Metrics

	mu    sync.RWMutex
	entry *entry

	// coalesces concurrent refreshes into one upstream call
	sf singleflight.Group
}

type entry struct {
	snapshot  *entities.RateSnapshot
	expiresAt time.Time
}

func New(client SourceClient, ttl, fetchWindow time.Duration, m *metrics.Metrics) *RateCache {
	return &RateCache{
		client:      client,
		ttl:         ttl,
		fetchWindow: fetchWindow,
		metrics:     m,
	}
}

// GetRates returns the cached snapshot when it has not expired, otherwise it
// joins the refresh flight. Cancelling ctx detaches only this caller; the
// flight keeps running on its own context and its result still lands for the
// remaining waiters.
func (c *RateCache) GetRates(ctx context.Context) (*entities.RateSnapshot, error) {
	const op = "cache.GetRates"

	if snapshot, ok := c.fresh(time.Now()); ok {
		c.metrics.CacheHitsTotal.Inc()
		return snapshot, nil
	}
	c.metrics.CacheMissesTotal.Inc()

	ch := c.sf.DoChan("rates", func() (any, error) {
		return c.refresh()
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), op)
	case res := <-ch:
		if res.Err != nil {
			return nil, errors.Wrap(res.Err, op)
		}
		return res.Val.(*entities.RateSnapshot), nil
	}
}

func (c *RateCache) refresh() (*entities.RateSnapshot, error) {
	// Another flight may have finished between the expiry check and this one
	// starting; a still-fresh entry must not be thrown away.
	if snapshot, ok := c.fresh(time.Now()); ok {
		return snapshot, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.fetchWindow)
	defer cancel()

	c.metrics.SourceFetchesTotal.Inc()

	snapshot, err := c.client.FetchRates(ctx)
	if err != nil {
		// failures are not cached, the next caller retries immediately
		c.metrics.SourceFetchErrorsTotal.Inc()
		return nil, err
	}

	c.mu.Lock()
	c.entry = &entry{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return snapshot, nil
}

func (c *RateCache) fresh(now time.Time) (*entities.RateSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry != nil && now.Before(c.entry.expiresAt) {
		return c.entry.snapshot, true
	}
	return nil, false
}
