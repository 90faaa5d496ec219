package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config is the full run configuration. Fatal validation happens up front in
// Validate; nothing here is re-checked once workers are running.
type Config struct {
	TargetURL      string            `mapstructure:"target"`
	Method         string            `mapstructure:"method"`
	Headers        map[string]string `mapstructure:"headers"`
	Body           string            `mapstructure:"body"`
	BodyFile       string            `mapstructure:"body_file"`
	Concurrency    int               `mapstructure:"concurrency"`
	Rate           float64           `mapstructure:"rate"`
	Duration       time.Duration     `mapstructure:"duration"`
	Timeout        time.Duration     `mapstructure:"timeout"`
	ExpectedStatus int               `mapstructure:"expected_status"`
	AuthToken      string            `mapstructure:"auth_token"`
	Output         string            `mapstructure:"output"`
	JSONOutput     bool              `mapstructure:"json_output"`
	Dashboard      bool              `mapstructure:"dashboard"`
	LogErrors      bool              `mapstructure:"log_errors"`
	ConfigFile     string            `mapstructure:"-"`
	Tracing        TracingConfig     `mapstructure:"tracing"`
}

// TracingConfig controls the optional OpenTelemetry pipeline.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
	Propagate   bool    `mapstructure:"propagate"`
}

// Enabled reports whether a tracing exporter should be configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// ShouldPropagate reports whether W3C trace headers are injected into
// outgoing requests.
func (t TracingConfig) ShouldPropagate() bool {
	return t.Propagate
}

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string
	var warnings []string

	if strings.TrimSpace(c.TargetURL) == "" {
		issues = append(issues, "target is required (use --help for usage information)")
	}

	method := strings.ToUpper(strings.TrimSpace(c.Method))
	if method != "" && !supportedMethods[method] {
		issues = append(issues, fmt.Sprintf("method %q is not supported (use GET, POST, PUT or DELETE)", c.Method))
	}

	if c.Rate <= 0 {
		issues = append(issues, "rate must be > 0")
	}
	if c.Duration <= 0 {
		issues = append(issues, "duration must be > 0")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be > 0")
	}
	if c.ExpectedStatus < 100 || c.ExpectedStatus > 599 {
		issues = append(issues, fmt.Sprintf("expected status %d is not a valid HTTP status code", c.ExpectedStatus))
	}

	if strings.TrimSpace(c.Body) != "" && strings.TrimSpace(c.BodyFile) != "" {
		issues = append(issues, "body and bodyFile are mutually exclusive")
	}
	if method != http.MethodPost && method != http.MethodPut {
		if strings.TrimSpace(c.Body) != "" || strings.TrimSpace(c.BodyFile) != "" {
			issues = append(issues, fmt.Sprintf("a request body requires POST or PUT, not %s", method))
		}
	}

	if c.Dashboard && c.JSONOutput {
		issues = append(issues, "dashboard and json-output are mutually exclusive")
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing sample_rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate))
	}

	// Security warnings for high rate/concurrency
	if c.Rate > 1000 {
		warnings = append(warnings, fmt.Sprintf("WARNING: High rate limit configured (%g RPS). Ensure you have authorization to test the target system.", c.Rate))
	}
	if c.Concurrency > 500 {
		warnings = append(warnings, fmt.Sprintf("WARNING: High concurrency configured (%d workers). Ensure you have authorization to test the target system.", c.Concurrency))
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}

	return nil
}
