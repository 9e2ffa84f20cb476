package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between successive calls. The zero
// interval disables pacing entirely.
type Pacer struct {
	limiter *rate.Limiter
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

// Option customizes a Pacer, primarily for tests.
type Option func(*Pacer)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(p *Pacer) { p.now = now }
}

// WithSleep replaces the blocking sleep.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(p *Pacer) { p.sleep = sleep }
}

// New creates a pacer that allows one call per interval, with an initial
// token available immediately.
func New(interval time.Duration, opts ...Option) *Pacer {
	p := &Pacer{
		now:   time.Now,
		sleep: sleepWithContext,
	}
	if interval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait blocks until the next call is allowed or the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return ctx.Err()
	}
	now := p.now()
	reservation := p.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return ctx.Err()
	}
	if err := p.sleep(ctx, delay); err != nil {
		reservation.CancelAt(p.now())
		return err
	}
	return nil
}

// sleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
