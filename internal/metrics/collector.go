package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records per-request outcomes in a thread-safe manner. It keeps
// the full latency sequence for the exact end-of-run summary and feeds an
// HdrHistogram so live progress views get cheap approximate percentiles
// without sorting mid-run.
type Collector struct {
	mu             sync.Mutex
	expectedStatus int
	outcomes       []Outcome
	hist           *hdrhistogram.Histogram
	successes      int64
	mismatches     int64
	transportErrs  int64
	minLatency     time.Duration
	maxLatency     time.Duration
	sumLatency     time.Duration
	errorsByType   map[string]int64
	statusCounts   map[int]int64
	start          time.Time
}

// Stats is a point-in-time snapshot used by the progress reporter and
// dashboard while the run is still in flight.
type Stats struct {
	Total          int64
	Successes      int64
	Failures       int64
	MinLatency     time.Duration
	MaxLatency     time.Duration
	MeanLatency    time.Duration
	P50Latency     time.Duration
	P90Latency     time.Duration
	P99Latency     time.Duration
	Duration       time.Duration
	RequestsPerSec float64
	Errors         map[string]int
	StatusCounts   map[int]int
}

// NewCollector creates a Collector that classifies responses against the
// given expected status code.
func NewCollector(expectedStatus int) *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	h := hdrhistogram.New(1, 60_000_000, 3)
	return &Collector{
		expectedStatus: expectedStatus,
		hist:           h,
		errorsByType:   make(map[string]int64),
		statusCounts:   make(map[int]int64),
		start:          time.Now(),
	}
}

// ExpectedStatus returns the status code counted as success.
func (c *Collector) ExpectedStatus() int {
	return c.expectedStatus
}

// Start marks the beginning of the measured window for RPS calculation.
func (c *Collector) Start() {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()
}

// Record classifies and stores one completed request attempt. A non-nil err
// always classifies as a transport error, regardless of status. Safe for
// concurrent use by all workers.
func (c *Collector) Record(latency time.Duration, statusCode int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	class := Success
	switch {
	case err != nil:
		class = TransportError
		errorType := fmt.Sprintf("%T", err)
		if len(errorType) > 30 {
			errorType = errorType[len(errorType)-30:]
		}
		c.errorsByType[errorType]++
		c.transportErrs++
	case statusCode == c.expectedStatus:
		c.successes++
		c.statusCounts[statusCode]++
	default:
		class = StatusMismatch
		c.mismatches++
		c.statusCounts[statusCode]++
	}

	c.outcomes = append(c.outcomes, Outcome{
		LatencySeconds: latency.Seconds(),
		Class:          class,
	})

	if latency > 0 {
		us := latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += latency

	if c.minLatency == 0 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}
}

// Stats computes a live snapshot for the given elapsed duration. Percentiles
// come from the histogram and are approximate; the authoritative numbers are
// produced by Summarize at run end.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := int64(len(c.outcomes))
	stats := Stats{
		Total:      total,
		Successes:  c.successes,
		Failures:   c.mismatches + c.transportErrs,
		MinLatency: c.minLatency,
		MaxLatency: c.maxLatency,
	}

	if total > 0 {
		stats.MeanLatency = time.Duration(int64(c.sumLatency) / total)
	}

	if c.hist.TotalCount() > 0 {
		stats.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90Latency = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	stats.Duration = elapsed
	if elapsed > 0 && total > 0 {
		stats.RequestsPerSec = float64(total) / elapsed.Seconds()
	}

	if len(c.errorsByType) > 0 {
		stats.Errors = make(map[string]int, len(c.errorsByType))
		for k, v := range c.errorsByType {
			stats.Errors[k] = int(v)
		}
	}
	if len(c.statusCounts) > 0 {
		stats.StatusCounts = make(map[int]int, len(c.statusCounts))
		for k, v := range c.statusCounts {
			stats.StatusCounts[k] = int(v)
		}
	}

	return stats
}

// Outcomes returns a copy of the recorded outcome sequence in completion
// order.
func (c *Collector) Outcomes() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Outcome(nil), c.outcomes...)
}

// ErrorBreakdown returns a copy of the per-error-type failure counts.
func (c *Collector) ErrorBreakdown() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		result[k] = int(v)
	}
	return result
}
