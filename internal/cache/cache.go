// Package cache is the process-wide query cache: fetch state keyed by
// resource name plus optional id, with stale-time based refetch, de-duplicated
// in-flight requests, bounded read retries and grace-period garbage
// collection of subscriber-less entries.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status is the fetch state of one cache entry.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Key identifies a cached query: the resource collection plus an optional
// record id for detail queries.
type Key struct {
	Resource string
	ID       string
}

func (k Key) String() string {
	if k.ID == "" {
		return k.Resource
	}
	return k.Resource + "/" + k.ID
}

// FetchFunc loads the data for a key. It is called at most once per key at a
// time; concurrent demand shares the in-flight call.
type FetchFunc func(ctx context.Context) (any, error)

// Entry is a snapshot of one query's state. Data keeps its previous value
// while a refetch is loading or failed, so the UI can keep showing it.
type Entry struct {
	Data          any
	Status        Status
	Err           error
	LastFetchedAt time.Time
}

// Options configure one query. Zero fields fall back to the cache defaults.
type Options struct {
	StaleTime  time.Duration
	GCTime     time.Duration
	Retries    int
	RetryDelay time.Duration
}

// Cache-wide defaults, matching the query tuning the screens use.
const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultGCTime     = 10 * time.Minute
	DefaultRetries    = 2
	DefaultRetryDelay = time.Second

	gcInterval      = 30 * time.Second
	refetchDeadline = time.Minute
)

type query struct {
	key        Key
	opts       Options
	fetch      FetchFunc
	state      Entry
	invalid    bool
	generation uint64
	subs       map[int]func(Entry)
	nextSub    int
	emptySince time.Time
}

type Cache struct {
	mu       sync.Mutex
	entries  map[string]*query
	flight   singleflight.Group
	defaults Options
	now      func() time.Time
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type Option func(*Cache)

// WithDefaults overrides the cache-wide default query options.
func WithDefaults(opts Options) Option {
	return func(c *Cache) { c.defaults = fillOptions(opts, c.defaults) }
}

// WithClock replaces the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithGCInterval changes how often subscriber-less entries are swept.
func WithGCInterval(d time.Duration) Option {
	return func(c *Cache) { c.interval = d }
}

// New creates a cache and starts its garbage collection loop. Call Close at
// app exit.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*query),
		defaults: Options{
			StaleTime:  DefaultStaleTime,
			GCTime:     DefaultGCTime,
			Retries:    DefaultRetries,
			RetryDelay: DefaultRetryDelay,
		},
		now:      time.Now,
		interval: gcInterval,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.wg.Add(1)
	go c.gcLoop()
	return c
}

// Close stops the GC loop and waits for background refetches to finish.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
}

func fillOptions(opts, defaults Options) Options {
	if opts.StaleTime == 0 {
		opts.StaleTime = defaults.StaleTime
	}
	if opts.GCTime == 0 {
		opts.GCTime = defaults.GCTime
	}
	if opts.Retries == 0 {
		opts.Retries = defaults.Retries
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = defaults.RetryDelay
	}
	return opts
}

// QueryOption tunes a single query at registration.
type QueryOption func(*Options)

func WithStaleTime(d time.Duration) QueryOption {
	return func(o *Options) { o.StaleTime = d }
}

func WithGCTime(d time.Duration) QueryOption {
	return func(o *Options) { o.GCTime = d }
}

// WithRetries sets the automatic read retry count. Pass a negative value for
// zero retries.
func WithRetries(n int) QueryOption {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.Retries = n
		if o.Retries == 0 {
			// distinguish "unset" from "explicitly zero"
			o.Retries = -1
		}
	}
}

func WithRetryDelay(d time.Duration) QueryOption {
	return func(o *Options) { o.RetryDelay = d }
}

// ensure returns the query for key, creating it on first use. The first
// registration fixes the options; the fetch function is refreshed whenever a
// non-nil one is supplied.
func (c *Cache) ensure(key Key, fetch FetchFunc, opts []QueryOption) *query {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, ok := c.entries[key.String()]
	if !ok {
		o := Options{}
		for _, opt := range opts {
			opt(&o)
		}
		explicitZeroRetries := o.Retries == -1
		o = fillOptions(o, c.defaults)
		if explicitZeroRetries {
			o.Retries = 0
		}
		q = &query{
			key:        key,
			opts:       o,
			state:      Entry{Status: StatusIdle},
			subs:       make(map[int]func(Entry)),
			emptySince: c.now(),
		}
		c.entries[key.String()] = q
	}
	if fetch != nil {
		q.fetch = fetch
	}
	return q
}

// Get returns fresh data for the key, fetching if the entry is absent, stale
// or invalidated. Concurrent callers within the stale window share a single
// network fetch.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc, opts ...QueryOption) Entry {
	q := c.ensure(key, fetch, opts)

	c.mu.Lock()
	if c.freshLocked(q) {
		e := q.state
		c.mu.Unlock()
		return e
	}
	gen := q.generation
	c.mu.Unlock()

	return c.runFetch(ctx, q, gen)
}

// freshLocked reports whether the entry can be served without fetching.
func (c *Cache) freshLocked(q *query) bool {
	return q.state.Status == StatusSuccess &&
		!q.invalid &&
		c.now().Sub(q.state.LastFetchedAt) <= q.opts.StaleTime
}

// Snapshot returns the current state without triggering a fetch.
func (c *Cache) Snapshot(key Key) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q, ok := c.entries[key.String()]; ok {
		return q.state
	}
	return Entry{Status: StatusIdle}
}

// Subscribe registers a callback for state changes on the key and immediately
// delivers the current state. The returned function unsubscribes; once no
// subscribers remain the entry becomes eligible for GC after its grace
// period.
func (c *Cache) Subscribe(key Key, fn func(Entry)) func() {
	q := c.ensure(key, nil, nil)

	c.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	q.emptySince = time.Time{}
	current := q.state
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(q.subs, id)
		if len(q.subs) == 0 {
			q.emptySince = c.now()
		}
		c.mu.Unlock()
	}
}

// Invalidate marks the entry stale. With active subscribers it also kicks off
// an immediate background refetch; an in-flight fetch keeps running but its
// result no longer lands (last writer wins on display).
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	q, ok := c.entries[key.String()]
	if !ok {
		c.mu.Unlock()
		return
	}
	q.invalid = true
	q.generation++
	gen := q.generation
	hasSubs := len(q.subs) > 0
	fetch := q.fetch
	c.mu.Unlock()

	// Detach any in-flight fetch so the refetch issues a new request.
	c.flight.Forget(key.String())

	if hasSubs && fetch != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), refetchDeadline)
			defer cancel()
			c.runFetch(ctx, q, gen)
		}()
	}
}

// Refetch forces a fresh fetch regardless of staleness and returns the
// resulting state.
func (c *Cache) Refetch(ctx context.Context, key Key) Entry {
	c.mu.Lock()
	q, ok := c.entries[key.String()]
	if !ok || q.fetch == nil {
		c.mu.Unlock()
		return Entry{Status: StatusIdle}
	}
	q.generation++
	gen := q.generation
	c.mu.Unlock()

	c.flight.Forget(key.String())
	return c.runFetch(ctx, q, gen)
}

func (c *Cache) runFetch(ctx context.Context, q *query, gen uint64) Entry {
	c.setLoading(q)

	v, err, _ := c.flight.Do(q.key.String(), func() (any, error) {
		return c.fetchWithRetry(ctx, q)
	})

	c.mu.Lock()
	if q.generation != gen {
		// Superseded by a later invalidate or refetch; keep whatever the
		// current fetch will produce.
		e := q.state
		c.mu.Unlock()
		return e
	}
	if err != nil {
		q.state.Status = StatusError
		q.state.Err = err
	} else {
		q.state = Entry{
			Data:          v,
			Status:        StatusSuccess,
			LastFetchedAt: c.now(),
		}
	}
	q.invalid = false
	e := q.state
	subs := subscriberList(q)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
	return e
}

func (c *Cache) setLoading(q *query) {
	c.mu.Lock()
	if q.state.Status == StatusLoading {
		c.mu.Unlock()
		return
	}
	q.state.Status = StatusLoading
	q.state.Err = nil
	e := q.state
	subs := subscriberList(q)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

func subscriberList(q *query) []func(Entry) {
	out := make([]func(Entry), 0, len(q.subs))
	for _, fn := range q.subs {
		out = append(out, fn)
	}
	return out
}

func (c *Cache) fetchWithRetry(ctx context.Context, q *query) (any, error) {
	c.mu.Lock()
	fetch := q.fetch
	retries := q.opts.Retries
	delay := q.opts.RetryDelay
	c.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		v, err := fetch(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Cache) gcLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

// collect drops entries that have had no subscribers for their grace period.
func (c *Cache) collect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, q := range c.entries {
		if len(q.subs) == 0 && !q.emptySince.IsZero() && now.Sub(q.emptySince) > q.opts.GCTime {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ListData extracts a cached list under its concrete element type. Returns
// nil when the entry holds no list of that type yet.
func ListData[T any](e Entry) []T {
	if v, ok := e.Data.([]T); ok {
		return v
	}
	return nil
}

// RecordData extracts a cached single record.
func RecordData[T any](e Entry) (T, bool) {
	v, ok := e.Data.(T)
	return v, ok
}
