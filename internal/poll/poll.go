package poll

import (
	"context"
	"math/rand"
	"time"
)

// Default polling configuration values.
const (
	DefaultInitialInterval   = 2 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 1.5
	DefaultJitterFactor      = 0.3
)

// Config holds the backoff parameters. Zero fields take the defaults.
type Config struct {
	// InitialInterval is the wait after the first poll and after any change.
	InitialInterval time.Duration

	// MaxBackoff caps the wait between polls.
	MaxBackoff time.Duration

	// BackoffMultiplier is the factor by which the interval grows after each
	// poll with no change.
	BackoffMultiplier float64

	// JitterFactor is the maximum random jitter added to each wait, as a
	// fraction of the interval. Negative disables jitter.
	JitterFactor float64
}

func (c Config) withDefaults() Config {
	if c.InitialInterval <= 0 {
		c.InitialInterval = DefaultInitialInterval
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.MaxBackoff < c.InitialInterval {
		c.MaxBackoff = c.InitialInterval
	}
	if c.BackoffMultiplier < 1 {
		c.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if c.JitterFactor == 0 {
		c.JitterFactor = DefaultJitterFactor
	}
	return c
}

// Result is one observation made by a CheckFunc.
type Result[T any] struct {
	Value T
	// State identifies what was observed. A State different from the
	// previous poll resets the backoff.
	State string
	// Done stops polling and returns Value.
	Done bool
}

// CheckFunc performs one poll.
type CheckFunc[T any] func(ctx context.Context) (Result[T], error)

// Until calls check immediately and then with adaptive backoff until it
// reports Done, returns an error, or ctx ends. When ctx ends, including
// during a check, the last observed value is returned with ctx.Err().
func Until[T any](ctx context.Context, cfg Config, check CheckFunc[T]) (T, error) {
	cfg = cfg.withDefaults()

	var (
		last      Result[T]
		lastState string
		first     = true
		interval  = cfg.InitialInterval
	)
	for {
		res, err := check(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && !first {
				return last.Value, ctxErr
			}
			return res.Value, err
		}
		if res.Done {
			return res.Value, nil
		}
		last = res

		// No changes - increase backoff
		if !first && res.State == lastState {
			interval = nextInterval(interval, cfg)
		} else {
			interval = cfg.InitialInterval
		}
		first = false
		lastState = res.State

		timer := time.NewTimer(withJitter(interval, cfg.JitterFactor))
		select {
		case <-ctx.Done():
			timer.Stop()
			return last.Value, ctx.Err()
		case <-timer.C:
		}
	}
}

func nextInterval(current time.Duration, cfg Config) time.Duration {
	next := time.Duration(float64(current) * cfg.BackoffMultiplier)
	if next > cfg.MaxBackoff {
		next = cfg.MaxBackoff
	}
	return next
}

// withJitter adds up to factor*d of random delay to d.
func withJitter(d time.Duration, factor float64) time.Duration {
	if factor <= 0 {
		return d
	}
	return d + time.Duration(rand.Float64()*factor*float64(d))
}
