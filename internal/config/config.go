// Package config loads the breedfetch application configuration from YAML.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/breedfetch/dogapi"
	"github.com/jonwraymond/breedfetch/observe"
	"github.com/jonwraymond/breedfetch/resilience"
	"github.com/jonwraymond/breedfetch/secret"
)

// EnvPath names the environment variable that points at the config file.
const EnvPath = "BREEDFETCH_CONFIG"

// FileName is the config file looked up in the standard locations.
const FileName = "breedfetch.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the application configuration.
type Config struct {
	// Source is the file the configuration was read from, if any.
	Source string `yaml:"-"`

	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Observe ObserveConfig `yaml:"observe"`
}

// CatalogConfig configures the remote breed catalog client.
type CatalogConfig struct {
	BaseURL         string           `yaml:"base_url"`
	Token           string           `yaml:"token"`
	DisableFallback bool             `yaml:"disable_fallback"`
	Resilience      ResilienceConfig `yaml:"resilience"`
}

// ResilienceConfig configures the guard around catalog calls. Zero values
// switch the matching pattern off.
type ResilienceConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	Rate          float64       `yaml:"rate"`
	Burst         int           `yaml:"burst"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	MaxFailures   int           `yaml:"max_failures"`
	ResetTimeout  time.Duration `yaml:"reset_timeout"`
}

// CacheConfig configures the lookup cache.
type CacheConfig struct {
	SingleFlight bool `yaml:"single_flight"`
}

// ServerConfig configures the HTTP lookup service.
type ServerConfig struct {
	Addr string     `yaml:"addr"`
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig configures authentication of /v1 endpoints. With no API keys
// and no JWT secret the endpoints are open.
type AuthConfig struct {
	APIKeyHeader  string         `yaml:"api_key_header"`
	APIKeys       []APIKeyConfig `yaml:"api_keys"`
	JWTSecret     string         `yaml:"jwt_secret"`
	Issuer        string         `yaml:"issuer"`
	Audience      string         `yaml:"audience"`
	RequiredScope string         `yaml:"required_scope"`
}

// Enabled reports whether any authenticator is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0 || a.JWTSecret != ""
}

// APIKeyConfig is one accepted API key.
type APIKeyConfig struct {
	Key       string   `yaml:"key"`
	Principal string   `yaml:"principal"`
	Scopes    []string `yaml:"scopes"`
}

// ObserveConfig mirrors observe.Config in YAML form.
type ObserveConfig struct {
	ServiceName string        `yaml:"service_name"`
	Tracing     TracingConfig `yaml:"tracing"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Logging     LoggingConfig `yaml:"logging"`
}

// TracingConfig selects the span exporter.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
}

// MetricsConfig selects the metrics exporter.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// LoggingConfig configures library logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: dogapi.DefaultBaseURL,
			Resilience: ResilienceConfig{
				Timeout:       10 * time.Second,
				Rate:          10,
				Burst:         5,
				MaxConcurrent: 8,
				MaxFailures:   5,
				ResetTimeout:  30 * time.Second,
			},
		},
		Server: ServerConfig{
			Addr: ":8080",
			Auth: AuthConfig{APIKeyHeader: "X-API-Key"},
		},
		Observe: ObserveConfig{
			ServiceName: "breedfetch",
			Tracing:     TracingConfig{Exporter: "stdout", SamplePct: 1},
			Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
			Logging:     LoggingConfig{Enabled: true, Level: "info"},
		},
	}
}

// Load reads the file at path over Defaults. An empty path is looked up with
// Locate; when nothing is found the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		found, ok := Locate()
		if !ok {
			log.Debug("no config file found, using defaults")
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Source = path

	log.Debugf("using config file: %s", path)
	return cfg, nil
}

// Locate returns the config file named by BREEDFETCH_CONFIG, or the first
// breedfetch.yaml under $XDG_CONFIG_HOME or $HOME.
func Locate() (string, bool) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, true
	}

	for _, dir := range []string{os.Getenv("XDG_CONFIG_HOME"), os.Getenv("HOME")} {
		if dir == "" {
			continue
		}
		file := filepath.Join(dir, FileName)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return file, true
		}
	}
	return "", false
}

// Resolve expands environment variables and secret references in every
// value that may hold a credential or an endpoint.
func (c *Config) Resolve(ctx context.Context, r *secret.Resolver) error {
	values := []*string{
		&c.Catalog.BaseURL,
		&c.Catalog.Token,
		&c.Server.Auth.JWTSecret,
	}
	for i := range c.Server.Auth.APIKeys {
		values = append(values, &c.Server.Auth.APIKeys[i].Key)
	}
	if err := r.ResolveAll(ctx, values...); err != nil {
		return fmt.Errorf("config: resolve secrets: %w", err)
	}
	return nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if u, err := url.Parse(c.Catalog.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		invalid("catalog.base_url %q must be an http(s) URL", c.Catalog.BaseURL)
	}

	r := c.Catalog.Resilience
	if r.Timeout < 0 || r.ResetTimeout < 0 {
		invalid("catalog.resilience durations must not be negative")
	}
	if r.Rate < 0 || r.Burst < 0 || r.MaxConcurrent < 0 || r.MaxFailures < 0 {
		invalid("catalog.resilience limits must not be negative")
	}

	if c.Server.Addr == "" {
		invalid("server.addr is required")
	}
	for i, k := range c.Server.Auth.APIKeys {
		if k.Key == "" || k.Principal == "" {
			invalid("server.auth.api_keys[%d] needs key and principal", i)
		}
	}

	obs := c.ObserveConfig()
	if err := obs.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: observe: %w", ErrInvalid, err))
	}

	return errors.Join(errs...)
}

// ResilienceConfig converts the catalog guard settings.
func (c *Config) ResilienceConfig() resilience.Config {
	r := c.Catalog.Resilience
	return resilience.Config{
		Timeout:       r.Timeout,
		Rate:          r.Rate,
		Burst:         r.Burst,
		MaxConcurrent: r.MaxConcurrent,
		MaxFailures:   r.MaxFailures,
		ResetTimeout:  r.ResetTimeout,
	}
}

// ObserveConfig converts the observability settings.
func (c *Config) ObserveConfig() observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: o.Logging.Enabled,
			Level:   o.Logging.Level,
		},
	}
}
