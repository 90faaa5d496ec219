package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/torosent/pulsefire/internal/limiter"
)

// Result captures execution summary.
type Result struct {
	Total    int64
	Errors   int64
	Duration time.Duration
}

// Runner owns a fixed pool of workers that share one rate limiter. Each
// worker loops: acquire an admission token, issue one request, record, repeat
// until the stop signal.
type Runner struct {
	opt     Options
	limiter *limiter.RateLimiter
}

// New validates the options and constructs a Runner. Configuration errors
// surface here, before any worker is spawned.
func New(opt Options) (*Runner, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	lim := opt.Limiter
	if lim == nil {
		var err error
		lim, err = limiter.New(opt.Rate)
		if err != nil {
			return nil, err
		}
	}
	return &Runner{opt: opt, limiter: lim}, nil
}

// Run executes the load test for the configured duration and blocks until
// every worker has quiesced. Per-request failures are counted, never fatal;
// the run always completes and yields a result.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	var total int64
	var errs int64

	// The stop signal is a context deadline; workers observe it at the top of
	// each iteration and while blocked in Acquire.
	stopCtx, cancel := context.WithTimeout(ctx, r.opt.Duration)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(r.opt.Concurrency)
	for i := 0; i < r.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for {
				if stopCtx.Err() != nil {
					return
				}
				if err := r.limiter.Acquire(stopCtx); err != nil {
					return
				}
				// The request itself runs on the parent context, so the stop
				// signal never cancels it mid-flight; the worker finishes the
				// request, then observes the signal on the next iteration.
				// A request that never returns therefore holds its worker
				// past the deadline, bounded only by the collaborator's own
				// timeout.
				err := r.opt.Requester.Do(ctx)
				atomic.AddInt64(&total, 1)
				if err != nil {
					atomic.AddInt64(&errs, 1)
				}
			}
		}()
	}
	wg.Wait()

	return Result{
		Total:    atomic.LoadInt64(&total),
		Errors:   atomic.LoadInt64(&errs),
		Duration: time.Since(start),
	}
}
