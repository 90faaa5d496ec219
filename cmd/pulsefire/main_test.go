package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/torosent/pulsefire/internal/config"
	"github.com/torosent/pulsefire/internal/httpclient"
	"github.com/torosent/pulsefire/internal/metrics"
	"github.com/torosent/pulsefire/internal/runner"
)

func newTestRequester(t *testing.T, targetURL string, expectedStatus int) *httpRequester {
	t.Helper()

	cfg := &config.Config{
		TargetURL:      targetURL,
		Method:         http.MethodGet,
		ExpectedStatus: expectedStatus,
	}
	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		t.Fatalf("NewRequestBuilder() error = %v", err)
	}

	return &httpRequester{
		client:    httpclient.NewClient(5 * time.Second),
		builder:   builder,
		collector: metrics.NewCollector(expectedStatus),
	}
}

func TestHTTPRequesterSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	requester := newTestRequester(t, server.URL, http.StatusOK)

	if err := requester.Do(context.Background()); err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}

	stats := requester.collector.Stats(time.Second)
	if stats.Total != 1 || stats.Successes != 1 {
		t.Errorf("total/successes = %d/%d, want 1/1", stats.Total, stats.Successes)
	}
}

func TestHTTPRequesterStatusMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	requester := newTestRequester(t, server.URL, http.StatusOK)

	err := requester.Do(context.Background())
	if err == nil {
		t.Fatal("Do() = nil, want status error")
	}

	var statusErr *runner.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Do() error = %T, want *runner.StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusServiceUnavailable)
	}

	// A mismatch counts as a failure but not as a transport error.
	stats := requester.collector.Stats(time.Second)
	if stats.Successes != 0 || stats.Failures != 1 {
		t.Errorf("successes/failures = %d/%d, want 0/1", stats.Successes, stats.Failures)
	}
	if len(stats.Errors) != 0 {
		t.Errorf("expected no transport errors, got %v", stats.Errors)
	}
}

func TestHTTPRequesterTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	requester := newTestRequester(t, server.URL, http.StatusOK)

	if err := requester.Do(context.Background()); err == nil {
		t.Fatal("Do() = nil, want transport error")
	}

	stats := requester.collector.Stats(time.Second)
	if stats.Total != 1 || stats.Failures != 1 {
		t.Errorf("total/failures = %d/%d, want 1/1", stats.Total, stats.Failures)
	}
	if len(stats.Errors) == 0 {
		t.Error("expected a transport error breakdown entry")
	}
}

func TestHTTPRequesterLogsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	requester := newTestRequester(t, server.URL, http.StatusOK)
	logger := &captureLogger{}
	requester.logger = logger

	if err := requester.Do(context.Background()); err == nil {
		t.Fatal("Do() = nil, want status error")
	}
	if len(logger.failures) != 1 {
		t.Fatalf("logged %d failures, want 1", len(logger.failures))
	}
}

type captureLogger struct {
	failures []error
}

func (c *captureLogger) LogFailure(err error) {
	c.failures = append(c.failures, err)
}

func TestStderrFailureLoggerIgnoresNil(t *testing.T) {
	logger := &stderrFailureLogger{}
	logger.LogFailure(nil) // must not panic or print
}
