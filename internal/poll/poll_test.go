package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

var fast = Config{
	InitialInterval: time.Millisecond,
	MaxBackoff:      5 * time.Millisecond,
	JitterFactor:    -1,
}

func TestConfig_withDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.InitialInterval != DefaultInitialInterval {
		t.Errorf("InitialInterval = %v, want %v", cfg.InitialInterval, DefaultInitialInterval)
	}
	if cfg.MaxBackoff != DefaultMaxBackoff {
		t.Errorf("MaxBackoff = %v, want %v", cfg.MaxBackoff, DefaultMaxBackoff)
	}
	if cfg.BackoffMultiplier != DefaultBackoffMultiplier {
		t.Errorf("BackoffMultiplier = %v, want %v", cfg.BackoffMultiplier, DefaultBackoffMultiplier)
	}
	if cfg.JitterFactor != DefaultJitterFactor {
		t.Errorf("JitterFactor = %v, want %v", cfg.JitterFactor, DefaultJitterFactor)
	}

	cfg = Config{InitialInterval: time.Minute, MaxBackoff: time.Second}.withDefaults()
	if cfg.MaxBackoff != time.Minute {
		t.Errorf("MaxBackoff = %v, want it raised to InitialInterval", cfg.MaxBackoff)
	}
}

func TestNextInterval(t *testing.T) {
	cfg := Config{InitialInterval: 2 * time.Second, MaxBackoff: 5 * time.Second, BackoffMultiplier: 1.5}

	want := []time.Duration{3 * time.Second, 4500 * time.Millisecond, 5 * time.Second, 5 * time.Second}
	d := cfg.InitialInterval
	for i, w := range want {
		d = nextInterval(d, cfg)
		if d != w {
			t.Errorf("step %d: interval = %v, want %v", i, d, w)
		}
	}
}

func TestWithJitter(t *testing.T) {
	base := 2 * time.Second
	for i := 0; i < 20; i++ {
		d := withJitter(base, 0.3)
		if d < base || d > base+600*time.Millisecond {
			t.Errorf("withJitter() = %v, want within [%v, %v]", d, base, base+600*time.Millisecond)
		}
	}
	if d := withJitter(base, -1); d != base {
		t.Errorf("withJitter(disabled) = %v, want %v", d, base)
	}
}

func TestUntil_ImmediateDone(t *testing.T) {
	var calls atomic.Int32
	got, err := Until(context.Background(), fast, func(context.Context) (Result[string], error) {
		calls.Add(1)
		return Result[string]{Value: "confirmed", Done: true}, nil
	})
	if err != nil {
		t.Fatalf("Until() error = %v", err)
	}
	if got != "confirmed" {
		t.Errorf("Until() = %q, want confirmed", got)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestUntil_PollsUntilDone(t *testing.T) {
	states := []string{"pending", "pending", "broadcasted", "broadcasted", "confirmed"}
	var i int
	got, err := Until(context.Background(), fast, func(context.Context) (Result[string], error) {
		s := states[i]
		i++
		return Result[string]{Value: s, State: s, Done: s == "confirmed"}, nil
	})
	if err != nil {
		t.Fatalf("Until() error = %v", err)
	}
	if got != "confirmed" {
		t.Errorf("Until() = %q, want confirmed", got)
	}
	if i != len(states) {
		t.Errorf("calls = %d, want %d", i, len(states))
	}
}

func TestUntil_ErrorStops(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	_, err := Until(context.Background(), fast, func(context.Context) (Result[int], error) {
		calls++
		if calls == 2 {
			return Result[int]{}, boom
		}
		return Result[int]{Value: calls}, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Until() error = %v, want boom", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (no retry after error)", calls)
	}
}

func TestUntil_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := Until(ctx, fast, func(context.Context) (Result[string], error) {
		return Result[string]{Value: "pending", State: "pending"}, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Until() error = %v, want DeadlineExceeded", err)
	}
	if got != "pending" {
		t.Errorf("Until() = %q, want last observed value", got)
	}
}

func TestUntil_ContextEndsDuringCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	got, err := Until(ctx, fast, func(ctx context.Context) (Result[string], error) {
		calls++
		if calls == 1 {
			return Result[string]{Value: "pending", State: "pending"}, nil
		}
		cancel()
		return Result[string]{}, errors.New("request aborted")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Until() error = %v, want Canceled", err)
	}
	if got != "pending" {
		t.Errorf("Until() = %q, want last observed value", got)
	}
}
