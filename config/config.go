package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mitra-credit/shared"
)

// Config aggregates application configuration values.
type Config struct {
	Temporal TemporalConfig
	Session  SessionConfig
	Content  ContentConfig
	HTTP     HTTPConfig
	Logging  LoggingConfig
}

// TemporalConfig describes how to reach the Temporal frontend.
type TemporalConfig struct {
	HostPort  string
	Namespace string
}

// SessionConfig selects where sessions are hosted.
type SessionConfig struct {
	Backend     string // memory|temporal
	IdleTimeout time.Duration
}

// ContentConfig points at an optional catalog override.
type ContentConfig struct {
	Path string
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
	// AllowCredentials answers CORS requests with
	// Access-Control-Allow-Credentials. It cannot be combined with a "*" origin.
	AllowCredentials bool
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// Session backends.
const (
	BackendMemory   = "memory"
	BackendTemporal = "temporal"
)

const (
	defaultTemporalHostPort = "localhost:7233"
	defaultNamespace        = "default"
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
)

// Load reads a .env file when one is present, then configuration from
// environment variables, applying defaults.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only. Every
// malformed variable is reported, not just the first.
func FromEnv() (Config, error) {
	env := &envReader{}
	cfg := Config{
		Temporal: TemporalConfig{
			HostPort:  env.str("TEMPORAL_HOST_PORT", defaultTemporalHostPort),
			Namespace: env.str("TEMPORAL_NAMESPACE", defaultNamespace),
		},
		Session: SessionConfig{
			Backend:     strings.ToLower(env.str("SESSION_BACKEND", BackendMemory)),
			IdleTimeout: env.duration("SESSION_IDLE_TIMEOUT", shared.DefaultIdleTimeout),
		},
		Content: ContentConfig{
			Path: env.str("CONTENT_PATH", ""),
		},
		HTTP: HTTPConfig{
			Host:              env.str("SERVER_HOST", defaultHost),
			Port:              env.port("SERVER_PORT", defaultPort),
			ReadTimeout:       env.duration("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      env.duration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       env.duration("SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout:   env.duration("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			MetricsEnabled:    env.boolean("SERVER_METRICS_ENABLED", false),
			AllowedOriginsCSV: env.str("SERVER_ALLOWED_ORIGINS", ""),
			AllowCredentials:  env.boolean("SERVER_CORS_ALLOW_CREDENTIALS", false),
		},
		Logging: LoggingConfig{
			Level:         env.str("LOG_LEVEL", defaultLoggingLevel),
			Format:        env.str("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: env.boolean("LOG_INCLUDE_CALLER", false),
		},
	}

	switch cfg.Session.Backend {
	case BackendMemory, BackendTemporal:
	default:
		env.fail("SESSION_BACKEND", fmt.Errorf("want %s or %s, got %q", BackendMemory, BackendTemporal, cfg.Session.Backend))
	}
	if cfg.HTTP.AllowCredentials && slices.Contains(cfg.HTTP.AllowedOrigins(), "*") {
		env.fail("SERVER_CORS_ALLOW_CREDENTIALS", errors.New(`credentials cannot be allowed for origin "*"`))
	}

	if len(env.errs) > 0 {
		return Config{}, errors.Join(env.errs...)
	}
	return cfg, nil
}

// AllowedOrigins splits the CORS origin list, dropping blanks.
func (c HTTPConfig) AllowedOrigins() []string {
	var origins []string
	for _, part := range strings.Split(c.AllowedOriginsCSV, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// envReader looks up variables with defaults and collects parse errors.
type envReader struct {
	errs []error
}

func (e *envReader) fail(key string, err error) {
	e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
}

func (e *envReader) str(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (e *envReader) boolean(key string, fallback bool) bool {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return b
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	switch {
	case err != nil:
		e.fail(key, err)
		return fallback
	case d <= 0:
		e.fail(key, fmt.Errorf("must be positive, got %s", d))
		return fallback
	}
	return d
}

func (e *envReader) port(key string, fallback int) int {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	p, err := strconv.Atoi(v)
	switch {
	case err != nil:
		e.fail(key, err)
		return fallback
	case p <= 0 || p > 65535:
		e.fail(key, fmt.Errorf("port %d is out of range", p))
		return fallback
	}
	return p
}
