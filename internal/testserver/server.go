// Package testserver provides a configurable HTTP target for exercising
// load runs locally: fixed or jittered latency, failure injection, and a
// server-side rate cap that answers 429 when exceeded.
package testserver

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Options configures the mock target behavior.
type Options struct {
	// BaseLatency is added to every response before writing.
	BaseLatency time.Duration
	// Jitter adds up to this much random extra latency per response.
	Jitter time.Duration
	// FailureRate is the fraction of requests answered with FailureStatus,
	// between 0 and 1.
	FailureRate float64
	// FailureStatus is the status code for injected failures. Defaults to 500.
	FailureStatus int
	// MaxRate caps accepted requests per second; requests over the cap get
	// 429 Too Many Requests. Zero means uncapped.
	MaxRate float64
	// Burst is the rate limiter burst size. Defaults to the ceiling of
	// MaxRate, minimum 1.
	Burst int
}

// Server is the mock target handler. It satisfies http.Handler so it can sit
// behind httptest.NewServer in tests or a real listener in the standalone
// binary.
type Server struct {
	opt     Options
	limiter *rate.Limiter

	mu  sync.Mutex
	rng *rand.Rand

	total     atomic.Int64
	throttled atomic.Int64
	failed    atomic.Int64

	mux *http.ServeMux
}

// New creates a mock target with the given options.
func New(opt Options) *Server {
	if opt.FailureStatus == 0 {
		opt.FailureStatus = http.StatusInternalServerError
	}

	var limiter *rate.Limiter
	if opt.MaxRate > 0 {
		burst := opt.Burst
		if burst <= 0 {
			burst = int(opt.MaxRate)
			if float64(burst) < opt.MaxRate {
				burst++
			}
			if burst < 1 {
				burst = 1
			}
		}
		limiter = rate.NewLimiter(rate.Limit(opt.MaxRate), burst)
	}

	s := &Server{
		opt:     opt,
		limiter: limiter,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/echo", s.handleEcho)
	mux.HandleFunc("/status/counts", s.handleCounts)
	mux.HandleFunc("/", s.handleDefault)
	s.mux = mux

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.total.Add(1)

	if s.limiter != nil && !s.limiter.Allow() {
		s.throttled.Add(1)
		respondJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded"})
		return
	}

	s.sleep()

	if s.opt.FailureRate > 0 && s.roll() < s.opt.FailureRate {
		s.failed.Add(1)
		respondJSON(w, s.opt.FailureStatus, map[string]any{"error": "injected failure"})
		return
	}

	s.mux.ServeHTTP(w, r)
}

// TotalRequests returns how many requests the server has seen.
func (s *Server) TotalRequests() int64 { return s.total.Load() }

// ThrottledRequests returns how many requests were answered with 429.
func (s *Server) ThrottledRequests() int64 { return s.throttled.Load() }

// FailedRequests returns how many injected failures were served.
func (s *Server) FailedRequests() int64 { return s.failed.Load() }

func (s *Server) sleep() {
	delay := s.opt.BaseLatency
	if s.opt.Jitter > 0 {
		s.mu.Lock()
		delay += time.Duration(s.rng.Int63n(int64(s.opt.Jitter)))
		s.mu.Unlock()
	}
	if delay > 0 {
		time.Sleep(delay)
	}
}

func (s *Server) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "path": r.URL.Path})
}

func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	body := ""
	if r.Body != nil {
		bodyBytes, _ := io.ReadAll(r.Body)
		body = string(bodyBytes)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"method":       r.Method,
		"path":         r.URL.Path,
		"query":        r.URL.RawQuery,
		"headers":      r.Header,
		"body":         body,
		"content_type": r.Header.Get("Content-Type"),
		"timestamp":    time.Now().UnixNano(),
	})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"total":     s.total.Load(),
		"throttled": s.throttled.Load(),
		"failed":    s.failed.Load(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
