package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/torosent/pulsefire/internal/metrics"
)

func TestProgressReporterStartStop(t *testing.T) {
	collector := metrics.NewCollector(200)
	collector.Start()

	var buf bytes.Buffer
	reporter := NewProgressReporter(collector, 100*time.Millisecond, &buf, 0)

	reporter.Start()
	reporter.Stop()
	// Stop is idempotent.
	reporter.Stop()
}

func TestProgressReporterFormatting(t *testing.T) {
	collector := metrics.NewCollector(200)
	collector.Start()

	for i := 0; i < 5; i++ {
		collector.Record(30*time.Millisecond, 200, nil)
	}

	var buf bytes.Buffer
	reporter := NewProgressReporter(collector, 20*time.Millisecond, &buf, 100)
	reporter.Start()

	time.Sleep(80 * time.Millisecond)
	reporter.Stop()

	output := buf.String()
	if !strings.Contains(output, "Requests: 5/100") {
		t.Errorf("expected request target in progress output, got %q", output)
	}
	if !strings.Contains(output, "Successes: 5") {
		t.Errorf("expected success count in progress output, got %q", output)
	}
}

func TestProgressReporterNilWriter(t *testing.T) {
	collector := metrics.NewCollector(200)
	reporter := NewProgressReporter(collector, 10*time.Millisecond, nil, 0)
	reporter.Start()
	time.Sleep(30 * time.Millisecond)
	reporter.Stop()
}
