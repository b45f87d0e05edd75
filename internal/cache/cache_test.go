package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	c := New(opts...)
	t.Cleanup(c.Close)
	return c
}

func TestGetServesFreshFromCache(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, WithClock(clock.Now))
	key := Key{Resource: "expenses"}

	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v1", nil
	}

	e := c.Get(context.Background(), key, fetch)
	require.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, "v1", e.Data)
	assert.EqualValues(t, 1, calls.Load())

	// Within the stale window the cached value is served without fetching.
	e = c.Get(context.Background(), key, fetch)
	assert.Equal(t, "v1", e.Data)
	assert.EqualValues(t, 1, calls.Load())

	clock.Advance(DefaultStaleTime + time.Second)
	e = c.Get(context.Background(), key, fetch)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.EqualValues(t, 2, calls.Load())
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	c := newTestCache(t)
	key := Key{Resource: "vehicles"}

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const n = 8
	var started, done sync.WaitGroup
	started.Add(n)
	done.Add(n)
	results := make([]Entry, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i] = c.Get(context.Background(), key, fetch)
		}(i)
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, e := range results {
		assert.Equal(t, StatusSuccess, e.Status)
		assert.Equal(t, "shared", e.Data)
	}
}

func TestRetriesThenSucceeds(t *testing.T) {
	c := newTestCache(t)
	key := Key{Resource: "expenses"}

	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}

	e := c.Get(context.Background(), key, fetch, WithRetryDelay(time.Millisecond))
	assert.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, "ok", e.Data)
	assert.EqualValues(t, 3, calls.Load())
}

func TestExplicitZeroRetriesFailsFast(t *testing.T) {
	c := newTestCache(t)
	key := Key{Resource: "profile", ID: "1"}

	var calls atomic.Int32
	boom := errors.New("down")
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}

	e := c.Get(context.Background(), key, fetch, WithRetries(0), WithRetryDelay(time.Millisecond))
	assert.Equal(t, StatusError, e.Status)
	assert.ErrorIs(t, e.Err, boom)
	assert.EqualValues(t, 1, calls.Load())
}

func TestErrorKeepsPreviousData(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, WithClock(clock.Now))
	key := Key{Resource: "expenses"}

	var fail atomic.Bool
	boom := errors.New("down")
	fetch := func(ctx context.Context) (any, error) {
		if fail.Load() {
			return nil, boom
		}
		return "good", nil
	}

	e := c.Get(context.Background(), key, fetch, WithRetries(0))
	require.Equal(t, "good", e.Data)

	fail.Store(true)
	clock.Advance(DefaultStaleTime + time.Second)
	e = c.Get(context.Background(), key, fetch)
	assert.Equal(t, StatusError, e.Status)
	assert.ErrorIs(t, e.Err, boom)
	assert.Equal(t, "good", e.Data, "stale data stays visible through a failed refetch")
}

func TestSubscribeDeliversCurrentStateImmediately(t *testing.T) {
	c := newTestCache(t)
	key := Key{Resource: "vehicles"}

	c.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		return "v1", nil
	})

	var got Entry
	unsub := c.Subscribe(key, func(e Entry) { got = e })
	defer unsub()
	assert.Equal(t, StatusSuccess, got.Status)
	assert.Equal(t, "v1", got.Data)
}

func TestInvalidateRefetchesForSubscribers(t *testing.T) {
	c := newTestCache(t)
	key := Key{Resource: "expenses"}

	var gen atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		if gen.Add(1) == 1 {
			return "before", nil
		}
		return "after", nil
	}

	c.Get(context.Background(), key, fetch)

	var mu sync.Mutex
	var seen []Entry
	unsub := c.Subscribe(key, func(e Entry) {
		mu.Lock()
		seen = append(seen, e)
		mu.Unlock()
	})
	defer unsub()

	c.Invalidate(key)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range seen {
			if e.Status == StatusSuccess && e.Data == "after" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInvalidateSupersedesInFlightFetch(t *testing.T) {
	c := newTestCache(t)
	key := Key{Resource: "parkingSlot"}

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return "stale-result", nil
		}
		return "current", nil
	}

	type got struct{ e Entry }
	first := make(chan got)
	go func() {
		first <- got{c.Get(context.Background(), key, fetch)}
	}()
	<-entered

	// Bumping the generation while the fetch is in flight detaches it.
	c.Invalidate(key)
	close(release)

	r := <-first
	assert.NotEqual(t, "stale-result", r.e.Data)

	e := c.Get(context.Background(), key, fetch)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, "current", e.Data)
	assert.Equal(t, "current", c.Snapshot(key).Data)
}

func TestRefetchBypassesFreshness(t *testing.T) {
	c := newTestCache(t)
	key := Key{Resource: "vehicles"}

	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return calls.Load(), nil
	}

	c.Get(context.Background(), key, fetch)
	e := c.Refetch(context.Background(), key)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.EqualValues(t, 2, e.Data)
	assert.EqualValues(t, 2, calls.Load())
}

func TestSnapshotUnknownKeyIsIdle(t *testing.T) {
	c := newTestCache(t)
	e := c.Snapshot(Key{Resource: "nothing"})
	assert.Equal(t, StatusIdle, e.Status)
	assert.Nil(t, e.Data)
}

func TestGCCollectsSubscriberlessEntries(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, WithClock(clock.Now), WithGCInterval(10*time.Millisecond))
	kept := Key{Resource: "expenses"}
	dropped := Key{Resource: "vehicles"}

	fetch := func(ctx context.Context) (any, error) { return "x", nil }
	c.Get(context.Background(), kept, fetch)
	c.Get(context.Background(), dropped, fetch)
	unsub := c.Subscribe(kept, func(Entry) {})
	defer unsub()
	require.Equal(t, 2, c.Len())

	clock.Advance(DefaultGCTime + time.Minute)
	assert.Eventually(t, func() bool { return c.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusSuccess, c.Snapshot(kept).Status)
}

func TestDataHelpers(t *testing.T) {
	e := Entry{Data: []string{"a", "b"}}
	assert.Equal(t, []string{"a", "b"}, ListData[string](e))
	assert.Nil(t, ListData[int](e))

	v, ok := RecordData[[]string](e)
	assert.True(t, ok)
	assert.Len(t, v, 2)
	_, ok = RecordData[int](e)
	assert.False(t, ok)
}
