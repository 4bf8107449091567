package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdolek/mewsy-bankator/internal/entities"
	"github.com/wdolek/mewsy-bankator/internal/metrics"
)

type fakeClient struct {
	calls int32
	fetch func(ctx context.Context) (*entities.RateSnapshot, error)
}

func (f *fakeClient) FetchRates(ctx context.Context) (*entities.RateSnapshot, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.fetch(ctx)
}

func (f *fakeClient) fetchCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

func snapshotOf(code entities.CurrencyCode, rate float64) *entities.RateSnapshot {
	return entities.NewSnapshot([]entities.SourceRate{
		{CurrencyCode: code, Amount: 1, Rate: rate},
	}, time.Now())
}

func newCache(client SourceClient, ttl time.Duration) *RateCache {
	return New(client, ttl, time.Second, metrics.NewMetrics(prometheus.NewRegistry()))
}

func TestGetRates_FreshEntryServedWithoutFetch(t *testing.T) {
	client := &fakeClient{fetch: func(ctx context.Context) (*entities.RateSnapshot, error) {
		return snapshotOf("EUR", 24.50), nil
	}}
	c := newCache(client, time.Hour)

	first, err := c.GetRates(context.Background())
	require.NoError(t, err)

	second, err := c.GetRates(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), client.fetchCount())
}

func TestGetRates_ExpiredEntryTriggersRefetch(t *testing.T) {
	client := &fakeClient{fetch: func(ctx context.Context) (*entities.RateSnapshot, error) {
		return snapshotOf("EUR", 24.50), nil
	}}
	c := newCache(client, 20*time.Millisecond)

	_, err := c.GetRates(context.Background())
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = c.GetRates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), client.fetchCount())
}

func TestGetRates_ConcurrentDemandCoalescesIntoOneFetch(t *testing.T) {
	const waiters = 8

	gate := make(chan struct{})
	client := &fakeClient{fetch: func(ctx context.Context) (*entities.RateSnapshot, error) {
		<-gate
		return snapshotOf("EUR", 24.50), nil
	}}
	c := newCache(client, time.Hour)

	var wg sync.WaitGroup
	results := make([]*entities.RateSnapshot, waiters)
	errs := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetRates(context.Background())
		}(i)
	}

	// let every waiter join the flight before it is released
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, int32(1), client.fetchCount())
}

func TestGetRates_FailureIsBroadcastAndNotCached(t *testing.T) {
	const waiters = 3

	upstreamErr := errors.New("upstream is down")

	gate := make(chan struct{})
	var failing int32 = 1
	client := &fakeClient{}
	client.fetch = func(ctx context.Context) (*entities.RateSnapshot, error) {
		if atomic.LoadInt32(&failing) == 1 {
			<-gate
			return nil, upstreamErr
		}
		return snapshotOf("EUR", 24.50), nil
	}
	c := newCache(client, time.Hour)

	var wg sync.WaitGroup
	errs := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.GetRates(context.Background())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := 0; i < waiters; i++ {
		assert.ErrorIs(t, errs[i], upstreamErr)
	}
	assert.Equal(t, int32(1), client.fetchCount())

	// the failure must not stick: the very next call may retry immediately
	atomic.StoreInt32(&failing, 0)

	snapshot, err := c.GetRates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snapshot)
	assert.Equal(t, int32(2), client.fetchCount())
}

func TestGetRates_CancelledWaiterDetachesFromTheFlight(t *testing.T) {
	gate := make(chan struct{})
	client := &fakeClient{fetch: func(ctx context.Context) (*entities.RateSnapshot, error) {
		<-gate
		return snapshotOf("EUR", 24.50), nil
	}}
	c := newCache(client, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	cancelledErr := make(chan error, 1)
	go func() {
		_, err := c.GetRates(ctx)
		cancelledErr <- err
	}()

	type outcome struct {
		snapshot *entities.RateSnapshot
		err      error
	}
	patientResult := make(chan outcome, 1)
	go func() {
		snapshot, err := c.GetRates(context.Background())
		patientResult <- outcome{snapshot: snapshot, err: err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	// the cancelled caller unblocks while the flight is still running,
	// and can tell cancellation apart from a fetch failure
	select {
	case err := <-cancelledErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not unblock")
	}

	close(gate)

	select {
	case res := <-patientResult:
		require.NoError(t, res.err)
		assert.NotNil(t, res.snapshot)
	case <-time.After(time.Second):
		t.Fatal("remaining waiter did not receive the flight result")
	}

	assert.Equal(t, int32(1), client.fetchCount())
}

func TestGetRates_RefreshShortCircuitsWhenEntryTurnedFresh(t *testing.T) {
	client := &fakeClient{fetch: func(ctx context.Context) (*entities.RateSnapshot, error) {
		return snapshotOf("EUR", 24.50), nil
	}}
	c := newCache(client, time.Hour)

	snapshot, err := c.GetRates(context.Background())
	require.NoError(t, err)

	// a refresh racing a just-completed flight must keep the fresh entry
	got, err := c.refresh()
	require.NoError(t, err)

	assert.Same(t, snapshot, got)
	assert.Equal(t, int32(1), client.fetchCount())
}
