// Package notify is the transient user-facing message surface plus the
// outbound email/SMS senders the mock backend's auth flows use.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	Success Type = "success"
	Error   Type = "error"
	Info    Type = "info"
)

// DefaultDismissAfter is how long a notification stays visible.
const DefaultDismissAfter = 3 * time.Second

type Notification struct {
	ID      string
	Type    Type
	Title   string
	Message string
	ShownAt time.Time
}

// Center fans notifications out to subscribers and auto-dismisses them after
// a fixed duration.
type Center struct {
	mu           sync.Mutex
	active       map[string]Notification
	order        []string
	subs         map[int]func(Notification)
	nextSub      int
	dismissAfter time.Duration
	timers       map[string]*time.Timer
	closed       bool
}

type Option func(*Center)

// WithDismissAfter changes the auto-dismiss duration.
func WithDismissAfter(d time.Duration) Option {
	return func(c *Center) { c.dismissAfter = d }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		active:       make(map[string]Notification),
		subs:         make(map[int]func(Notification)),
		dismissAfter: DefaultDismissAfter,
		timers:       make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show displays a notification and schedules its dismissal.
func (c *Center) Show(kind Type, title, message string) Notification {
	n := Notification{
		ID:      uuid.NewString(),
		Type:    kind,
		Title:   title,
		Message: message,
		ShownAt: time.Now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.active[n.ID] = n
	c.order = append(c.order, n.ID)
	c.timers[n.ID] = time.AfterFunc(c.dismissAfter, func() { c.Dismiss(n.ID) })
	subs := make([]func(Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
	return n
}

// Dismiss removes a notification before its timer fires.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	delete(c.active, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Active returns the notifications currently on screen, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.order))
	for _, id := range c.order {
		if n, ok := c.active[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Subscribe registers a callback invoked for every shown notification.
func (c *Center) Subscribe(fn func(Notification)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close stops all pending dismiss timers.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
