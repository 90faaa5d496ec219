package config

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional config file to produce
// a Config. Flags override file settings; a positional argument is accepted
// as the target URL.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	cfg := &Config{
		Method:         "GET",
		Headers:        map[string]string{},
		Concurrency:    1,
		Duration:       60 * time.Second,
		Timeout:        5 * time.Second,
		ExpectedStatus: http.StatusOK,
		ConfigFile:     configPath,
		Tracing:        TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}

	if configPath != "" {
		cfgViper := viper.New()
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := cfgViper.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	if target := flagSet.Args(); len(target) > 0 && strings.TrimSpace(cfg.TargetURL) == "" {
		cfg.TargetURL = strings.TrimSpace(target[0])
	}

	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	cfg.BodyFile = strings.TrimSpace(cfg.BodyFile)

	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	// Viper lowercases map keys; canonicalize so lookups and overrides agree.
	canonical := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		canonical[http.CanonicalHeaderKey(strings.TrimSpace(k))] = v
	}
	cfg.Headers = canonical
	applyHeaderDefaults(cfg)

	return cfg, nil
}

// applyHeaderDefaults folds the auth token into an Authorization header and
// defaults the content type for JSON bodies, without clobbering anything the
// user set explicitly.
func applyHeaderDefaults(cfg *Config) {
	if cfg.AuthToken != "" {
		if _, ok := cfg.Headers["Authorization"]; !ok {
			cfg.Headers["Authorization"] = "Bearer " + cfg.AuthToken
		}
	}
	hasBody := strings.TrimSpace(cfg.Body) != "" || cfg.BodyFile != ""
	if hasBody {
		if _, ok := cfg.Headers["Content-Type"]; !ok {
			cfg.Headers["Content-Type"] = "application/json"
		}
	}
}
