package limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newFakeLimiter(t *testing.T, rate float64) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	l, err := New(rate)
	if err != nil {
		t.Fatalf("New(%g): %v", rate, err)
	}
	l.now = clock.Now
	l.lastRefill = clock.Now()
	l.tokens = 0
	return l, clock
}

func TestNewRejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []float64{0, -1, -0.5} {
		if _, err := New(rate); err == nil {
			t.Errorf("New(%g): expected error, got nil", rate)
		}
	}
}

func TestTokensNeverExceedRate(t *testing.T) {
	l, clock := newFakeLimiter(t, 50)

	clock.Advance(10 * time.Second)
	if got := l.balance(); got != 50 {
		t.Fatalf("balance after long idle: got %g, want cap 50", got)
	}

	clock.Advance(500 * time.Millisecond)
	if got := l.balance(); got != 50 {
		t.Fatalf("balance must stay capped at rate: got %g", got)
	}
}

func TestAcquireDebitsOneToken(t *testing.T) {
	l, clock := newFakeLimiter(t, 10)
	clock.Advance(time.Second) // fill the bucket

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		start := time.Now()
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
			t.Fatalf("Acquire %d should not block with tokens available, took %s", i, elapsed)
		}
	}
	if got := l.balance(); got < 0 || got >= 1 {
		t.Fatalf("balance after draining bucket: got %g, want in [0, 1)", got)
	}
}

func TestAcquireWaitsWhenEmpty(t *testing.T) {
	l, err := New(20) // fresh bucket is empty: expected wait 1/20s
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 30*time.Millisecond {
		t.Fatalf("expected ~50ms wait on empty bucket, got %s", elapsed)
	}
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	l, err := New(0.1) // empty bucket would wait 10s
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := l.Acquire(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancelled Acquire took too long: %s", elapsed)
	}
}

// TestAggregateRateBound hammers the limiter from many goroutines and checks
// total admissions stay within rate*T plus bucket capacity and slack.
func TestAggregateRateBound(t *testing.T) {
	const rate = 200.0
	duration := 300 * time.Millisecond

	l, err := New(rate)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := l.Acquire(ctx); err != nil {
					return
				}
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	maxExpected := int64(rate*duration.Seconds()*1.25) + 1
	if got := atomic.LoadInt64(&admitted); got > maxExpected {
		t.Fatalf("rate bound exceeded: admitted=%d max=%d", got, maxExpected)
	}
}

// TestContendedWaitersSerialize checks that waiters on an empty bucket each
// take their own slot in the deficit rather than waking together: four
// concurrent callers at 10/s must not all get through in one 1/rate interval.
func TestContendedWaitersSerialize(t *testing.T) {
	l, err := New(10) // fresh bucket is empty: slots at 100ms, 200ms, ...
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
			}
		}()
	}
	wg.Wait()

	if elapsed := time.Since(start); elapsed < 350*time.Millisecond {
		t.Fatalf("last of 4 waiters admitted after %s, want ~400ms", elapsed)
	}
}
