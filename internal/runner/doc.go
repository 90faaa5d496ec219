// Package runner provides the core load test execution engine for pulsefire.
//
// A [Runner] owns a fixed pool of worker goroutines sharing a single
// token-bucket rate limiter and runs them for a fixed wall-clock duration.
// The limiter bounds the aggregate admission rate across all workers
// combined, not a per-worker rate.
//
// # Basic Usage
//
// Create a runner with options and a requester implementation:
//
//	r, err := runner.New(runner.Options{
//		Concurrency: 10,
//		Duration:    time.Minute,
//		Rate:        100,
//		Requester:   myRequester,
//	})
//	if err != nil {
//		// invalid configuration; nothing was started
//	}
//	result := r.Run(ctx)
//
// # Requester Interface
//
// The [Requester] interface defines what a worker executes each iteration:
//
//	type Requester interface {
//		Do(ctx context.Context) error
//	}
//
// A failing Do never aborts the run; the worker counts the failure and moves
// on to its next iteration. Requests are issued exactly once, with no retry.
//
// # Stop Semantics
//
// The stop signal is cooperative. Workers observe it at the top of each loop
// iteration and while blocked waiting for an admission token, but never
// mid-request: an in-flight request is allowed to complete before its worker
// exits. The only hard per-request bound is whatever timeout the requester's
// transport enforces, so a request that never returns keeps its worker from
// stopping.
//
// # Error Handling
//
// The [StatusError] type reports responses that arrived with an unexpected
// status code:
//
//	var statusErr *runner.StatusError
//	if errors.As(err, &statusErr) {
//		fmt.Printf("got %d, want %d\n", statusErr.StatusCode, statusErr.Expected)
//	}
package runner
