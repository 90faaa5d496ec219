// Package metrics records per-request outcomes and derives latency and error
// statistics for a load test run.
//
// The central [Collector] type is the shared sink all workers write into:
//
//	collector := metrics.NewCollector(200)
//	collector.Start() // mark test start for accurate RPS calculation
//
//	// Record a completed request attempt
//	collector.Record(latency, resp.StatusCode, err)
//
// Classification is decided at record time: a non-nil error is a transport
// failure, a response matching the expected status is a success, anything
// else is a status mismatch. The counters always satisfy
// total == successes + mismatches + transport errors == recorded outcomes.
//
// Two read paths serve different consumers:
//
//   - [Collector.Stats] produces a cheap live snapshot (histogram-backed
//     percentiles) for the progress line and dashboard while the run is hot.
//   - [Collector.Summarize] produces the final [Summary] with exact
//     nearest-rank percentiles over the full recorded latency sequence.
//
// The Collector is safe for concurrent use; a single mutex guards the
// outcome sequence and counters so the counter invariant holds at every
// observation point.
package metrics
