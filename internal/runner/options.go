package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/torosent/pulsefire/internal/limiter"
)

// Requester abstracts executing a single request operation.
// Implementations should return an error for failed requests.
type Requester interface {
	Do(ctx context.Context) error
}

// Options configure the Runner.
type Options struct {
	Concurrency int                  // number of worker goroutines
	Duration    time.Duration        // wall-clock run length (required)
	Rate        float64              // admissions per second shared across workers (required)
	Requester   Requester            // request executor (required)
	Limiter     *limiter.RateLimiter // optional injection for tests
}

func (o Options) validate() error {
	if o.Concurrency <= 0 {
		return fmt.Errorf("runner: concurrency must be positive, got %d", o.Concurrency)
	}
	if o.Duration <= 0 {
		return fmt.Errorf("runner: duration must be positive, got %s", o.Duration)
	}
	if o.Rate <= 0 && o.Limiter == nil {
		return fmt.Errorf("runner: rate must be positive, got %g", o.Rate)
	}
	if o.Requester == nil {
		return fmt.Errorf("runner: requester is required")
	}
	return nil
}

// TargetRequests returns rate*duration: the number of admissions the limiter
// would allow over the run. Informational only (progress display); workers
// stop on elapsed time, not on a request count.
func (o Options) TargetRequests() int64 {
	return int64(o.Rate * o.Duration.Seconds())
}
