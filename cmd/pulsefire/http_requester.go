package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/pulsefire/internal/httpclient"
	"github.com/torosent/pulsefire/internal/metrics"
	"github.com/torosent/pulsefire/internal/runner"
	"github.com/torosent/pulsefire/internal/tracing"
)

type failureLogger interface {
	LogFailure(err error)
}

// httpRequester issues one HTTP request per Do call and feeds every attempt
// into the collector. A transport error and a status mismatch both surface as
// a non-nil return so the runner counts them, but only the former is recorded
// with an error.
type httpRequester struct {
	client    *http.Client
	builder   *httpclient.RequestBuilder
	collector *metrics.Collector
	tracer    trace.Tracer
	propagate bool
	logger    failureLogger
}

func (r *httpRequester) Do(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	if r.builder == nil {
		err := fmt.Errorf("request builder is not configured")
		r.collector.Record(time.Since(start), 0, err)
		r.logFailure(err)
		return err
	}

	req, err := r.builder.Build(ctx)
	if err != nil {
		r.collector.Record(time.Since(start), 0, err)
		r.logFailure(err)
		return err
	}

	var span trace.Span
	if r.tracer != nil {
		var spanCtx context.Context
		spanCtx, span = tracing.StartRequestSpan(ctx, r.tracer, req.Method, req.URL.String())
		if r.propagate {
			tracing.InjectHTTPHeaders(spanCtx, req.Header)
		}
		req = req.WithContext(spanCtx)
	}

	resp, err := r.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		r.collector.Record(latency, 0, err)
		if span != nil {
			tracing.EndSpan(span, err)
		}
		r.logFailure(err)
		return err
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	r.collector.Record(latency, resp.StatusCode, nil)

	var resultErr error
	if resp.StatusCode != r.collector.ExpectedStatus() {
		resultErr = &runner.StatusError{
			StatusCode: resp.StatusCode,
			Expected:   r.collector.ExpectedStatus(),
		}
	}

	if span != nil {
		tracing.EndSpan(span, resultErr,
			attribute.Int("http.response.status_code", resp.StatusCode),
		)
	}
	r.logFailure(resultErr)
	return resultErr
}

func (r *httpRequester) logFailure(err error) {
	if err == nil || r.logger == nil {
		return
	}
	r.logger.LogFailure(err)
}
