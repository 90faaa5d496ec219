package metrics

import "sort"

// Summary is the finalized end-of-run report. Field names follow the JSON
// report schema consumed by downstream tooling; latencies are in seconds.
type Summary struct {
	TotalRequests      int64   `json:"total_requests"`
	SuccessfulRequests int64   `json:"successful_requests"`
	AverageLatency     float64 `json:"average_latency"`
	ErrorRate          float64 `json:"error_rate"`
	SuccessRate        float64 `json:"success_rate"`
	P50                float64 `json:"50th_percentile"`
	P90                float64 `json:"90th_percentile"`
	P95                float64 `json:"95th_percentile"`
	P99                float64 `json:"99th_percentile"`
}

// Summarize computes the final summary over all recorded outcomes. It is a
// pure read: percentiles are exact nearest-rank values over a sorted copy of
// the latency sequence. An empty run yields all zeros.
func (c *Collector) Summarize() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := int64(len(c.outcomes))
	s := Summary{
		TotalRequests:      total,
		SuccessfulRequests: c.successes,
	}
	if total == 0 {
		return s
	}

	latencies := make([]float64, 0, total)
	var sum float64
	for _, o := range c.outcomes {
		latencies = append(latencies, o.LatencySeconds)
		sum += o.LatencySeconds
	}
	sort.Float64s(latencies)

	failures := c.mismatches + c.transportErrs
	s.AverageLatency = sum / float64(total)
	s.ErrorRate = float64(failures) / float64(total)
	s.SuccessRate = float64(c.successes) / float64(total)
	s.P50 = nearestRank(latencies, 50)
	s.P90 = nearestRank(latencies, 90)
	s.P95 = nearestRank(latencies, 95)
	s.P99 = nearestRank(latencies, 99)
	return s
}

// nearestRank indexes directly into the sorted sample rather than
// interpolating: the value at rank ceil(size*p/100). The index is clamped to
// the valid range so tiny samples (p50 of a single observation) stay defined.
func nearestRank(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (len(sorted)*p + 99) / 100
	idx := rank - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
