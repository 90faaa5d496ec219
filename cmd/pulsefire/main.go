package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/torosent/pulsefire/internal/config"
	"github.com/torosent/pulsefire/internal/dashboard"
	"github.com/torosent/pulsefire/internal/httpclient"
	"github.com/torosent/pulsefire/internal/metrics"
	"github.com/torosent/pulsefire/internal/output"
	"github.com/torosent/pulsefire/internal/runner"
	"github.com/torosent/pulsefire/internal/tracing"
)

const (
	progressInterval = time.Second
	tracingTimeout   = 5 * time.Second
)

type stderrFailureLogger struct {
	mu sync.Mutex
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}

	client := httpclient.NewClient(cfg.Timeout)
	collector := metrics.NewCollector(cfg.ExpectedStatus)

	provider, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingTimeout)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	requester := &httpRequester{
		client:    client,
		builder:   builder,
		collector: collector,
	}
	if cfg.Tracing.Enabled() {
		requester.tracer = provider.Tracer()
		requester.propagate = provider.ShouldPropagate()
	}
	if cfg.LogErrors {
		requester.logger = &stderrFailureLogger{}
	}

	opts := runner.Options{
		Concurrency: cfg.Concurrency,
		Duration:    cfg.Duration,
		Rate:        cfg.Rate,
		Requester:   requester,
	}

	r, err := runner.New(opts)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, dashboard.TestConfig{
			TargetURL:   cfg.TargetURL,
			Method:      cfg.Method,
			Concurrency: cfg.Concurrency,
			Rate:        cfg.Rate,
			Duration:    cfg.Duration,
			Target:      opts.TargetRequests(),
			Timeout:     cfg.Timeout,
			ConfigFile:  cfg.ConfigFile,
		}, cancel)
		if err != nil {
			return err
		}
		dash.Start()
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(collector, progressInterval, os.Stdout, opts.TargetRequests())
		progress.Start()
	}

	// Mark the actual start time in the collector for accurate RPS
	// calculation; the reporters above may have been created earlier.
	collector.Start()
	result := r.Run(ctx)

	if progress != nil {
		progress.Stop()
		fmt.Fprintln(os.Stdout)
	}
	if dash != nil {
		dash.Stop()
	}

	stats := collector.Stats(result.Duration)
	summary := collector.Summarize()

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, summary); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, stats, summary)
	}

	if cfg.Output != "" {
		if err := output.WriteReportFile(cfg.Output, summary); err != nil {
			return err
		}
	}

	if result.Errors > 0 {
		return fmt.Errorf("%d requests failed", result.Errors)
	}
	return nil
}

func (l *stderrFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[pulsefire] request failed: %v\n", err)
}
