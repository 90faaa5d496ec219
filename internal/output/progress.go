package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/pulsefire/internal/metrics"
)

// ProgressReporter displays real-time progress updates on a single rewritten
// terminal line.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
	target    int64 // informational request target (rate x duration), 0 if unknown
}

// NewProgressReporter creates a progress reporter that updates at the given
// interval. target is the expected number of admissions over the run; it only
// affects display, never termination.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer, target int64) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
		target:    target,
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			elapsed := time.Since(p.start)
			stats := p.collector.Stats(elapsed)
			line := fmt.Sprintf("\rRequests: %d", stats.Total)
			if p.target > 0 {
				pct := float64(stats.Total) / float64(p.target) * 100
				if pct > 100 {
					pct = 100
				}
				line = fmt.Sprintf("\rRequests: %d/%d (%.0f%%)", stats.Total, p.target, pct)
			}
			line += fmt.Sprintf(" | Successes: %d | Failures: %d | RPS: %.1f | P99: %.1fms",
				stats.Successes, stats.Failures, stats.RequestsPerSec,
				float64(stats.P99Latency)/float64(time.Millisecond))
			fmt.Fprint(p.writer, line)
		case <-p.done:
			return
		}
	}
}
