// Package mutation runs confirmed-write mutations: validate upstream, call
// the resource client once, and on success invalidate the affected cache
// keys and surface a notification. Writes are never retried and no optimistic
// update is applied, so a failure leaves all prior state untouched.
package mutation

import (
	"context"
	"errors"
	"sync/atomic"

	"parkledger/internal/apierr"
	"parkledger/internal/cache"
	"parkledger/internal/notify"
)

// ErrInFlight is returned when a second submission arrives while one is
// still running. Callers disable the triggering control on it.
var ErrInFlight = errors.New("mutation already in flight")

// Config wires a runner to its side effects. All fields are optional; a
// runner with a zero Config just calls the function.
type Config struct {
	Cache       *cache.Cache
	Invalidates []cache.Key
	Notifier    *notify.Center

	SuccessTitle   string
	SuccessMessage string
	ErrorTitle     string
	ErrorFallback  string
}

// Runner executes one kind of mutation (create, update or delete) for one
// resource.
type Runner[In, Out any] struct {
	fn       func(context.Context, In) (Out, error)
	cfg      Config
	inFlight atomic.Bool
}

func New[In, Out any](fn func(context.Context, In) (Out, error), cfg Config) *Runner[In, Out] {
	return &Runner[In, Out]{fn: fn, cfg: cfg}
}

// Running reports whether a submission is in flight.
func (r *Runner[In, Out]) Running() bool {
	return r.inFlight.Load()
}

// Run executes the mutation. On success it invalidates the configured cache
// keys (triggering refetches for subscribed queries) and shows the success
// notification; on failure it shows the error notification with the best
// available message and changes nothing else.
func (r *Runner[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	var zero Out
	if !r.inFlight.CompareAndSwap(false, true) {
		return zero, ErrInFlight
	}
	defer r.inFlight.Store(false)

	out, err := r.fn(ctx, in)
	if err != nil {
		if r.cfg.Notifier != nil {
			title := r.cfg.ErrorTitle
			if title == "" {
				title = "Error"
			}
			r.cfg.Notifier.Show(notify.Error, title, apierr.UserMessage(err, r.cfg.ErrorFallback))
		}
		return zero, err
	}

	if r.cfg.Cache != nil {
		for _, key := range r.cfg.Invalidates {
			r.cfg.Cache.Invalidate(key)
		}
	}
	if r.cfg.Notifier != nil && r.cfg.SuccessTitle != "" {
		r.cfg.Notifier.Show(notify.Success, r.cfg.SuccessTitle, r.cfg.SuccessMessage)
	}
	return out, nil
}
