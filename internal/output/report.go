package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/torosent/pulsefire/internal/metrics"
)

// PrintReport outputs a human-readable summary report. The percentiles come
// from the finalized summary (exact nearest-rank), while min/max and the
// status/error breakdowns come from the live stats snapshot.
func PrintReport(w io.Writer, stats metrics.Stats, summary metrics.Summary) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	fmt.Fprintf(w, "Total Requests:    %d\n", summary.TotalRequests)
	fmt.Fprintf(w, "Successful:        %d\n", summary.SuccessfulRequests)
	fmt.Fprintf(w, "Failed:            %d\n", summary.TotalRequests-summary.SuccessfulRequests)
	fmt.Fprintf(w, "Success Rate:      %.2f%%\n", summary.SuccessRate*100)
	fmt.Fprintf(w, "Error Rate:        %.2f%%\n", summary.ErrorRate*100)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", stats.RequestsPerSec)
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Min:             %s\n", stats.MinLatency)
	fmt.Fprintf(w, "  Max:             %s\n", stats.MaxLatency)
	fmt.Fprintf(w, "  Mean:            %s\n", secondsToDuration(summary.AverageLatency))
	fmt.Fprintf(w, "  P50:             %s\n", secondsToDuration(summary.P50))
	fmt.Fprintf(w, "  P90:             %s\n", secondsToDuration(summary.P90))
	fmt.Fprintf(w, "  P95:             %s\n", secondsToDuration(summary.P95))
	fmt.Fprintf(w, "  P99:             %s\n", secondsToDuration(summary.P99))

	if len(stats.StatusCounts) > 0 {
		fmt.Fprintln(w, "\nStatus Codes:")
		codes := make([]int, 0, len(stats.StatusCounts))
		for code := range stats.StatusCounts {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(w, "  %d: %d\n", code, stats.StatusCounts[code])
		}
	}

	if len(stats.Errors) > 0 {
		fmt.Fprintln(w, "\nTransport Errors:")
		names := make([]string, 0, len(stats.Errors))
		for name := range stats.Errors {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if stats.Errors[names[i]] == stats.Errors[names[j]] {
				return names[i] < names[j]
			}
			return stats.Errors[names[i]] > stats.Errors[names[j]]
		})
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %d\n", metrics.FriendlyErrorName(name), stats.Errors[name])
		}
	}
}

// PrintJSONReport outputs the finalized summary as indented JSON.
func PrintJSONReport(w io.Writer, summary metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// WriteReportFile persists the summary to path in the JSON report schema.
func WriteReportFile(path string, summary metrics.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report file: %w", err)
	}
	defer f.Close()

	if err := PrintJSONReport(f, summary); err != nil {
		return fmt.Errorf("report file: %w", err)
	}
	return f.Close()
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Microsecond)
}
