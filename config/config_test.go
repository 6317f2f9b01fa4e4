package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "default", cfg.Temporal.Namespace)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Empty(t, cfg.Content.Path)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.False(t, cfg.HTTP.MetricsEnabled)
	assert.False(t, cfg.HTTP.AllowCredentials)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TEMPORAL_HOST_PORT", "temporal:7233")
	t.Setenv("TEMPORAL_NAMESPACE", "mitra-dev")
	t.Setenv("SESSION_BACKEND", "Temporal")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("CONTENT_PATH", "/etc/mitra/content.yaml")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SERVER_METRICS_ENABLED", "true")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://localhost:3000, ,https://app.example.com")
	t.Setenv("SERVER_CORS_ALLOW_CREDENTIALS", "true")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_INCLUDE_CALLER", "1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "mitra-dev", cfg.Temporal.Namespace)
	assert.Equal(t, BackendTemporal, cfg.Session.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "/etc/mitra/content.yaml", cfg.Content.Path)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.HTTP.MetricsEnabled)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.HTTP.AllowedOrigins())
	assert.True(t, cfg.HTTP.AllowCredentials)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.IncludeCaller)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"backend":      {"SESSION_BACKEND", "redis"},
		"port":         {"SERVER_PORT", "http"},
		"port range":   {"SERVER_PORT", "70000"},
		"duration":     {"SERVER_WRITE_TIMEOUT", "soon"},
		"idle timeout": {"SESSION_IDLE_TIMEOUT", "-1m"},
		"metrics flag": {"SERVER_METRICS_ENABLED", "sometimes"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestAllowedOrigins_Empty(t *testing.T) {
	assert.Nil(t, HTTPConfig{}.AllowedOrigins())
}

func TestFromEnv_ReportsEveryMalformedVariable(t *testing.T) {
	t.Setenv("SERVER_PORT", "http")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	_, err := FromEnv()
	require.Error(t, err)
	assert.ErrorContains(t, err, "SERVER_PORT")
	assert.ErrorContains(t, err, "SERVER_READ_TIMEOUT")
}

func TestFromEnv_CredentialsWithWildcardOrigin(t *testing.T) {
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://app.example.com,*")
	t.Setenv("SERVER_CORS_ALLOW_CREDENTIALS", "true")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "SERVER_CORS_ALLOW_CREDENTIALS")

	t.Setenv("SERVER_CORS_ALLOW_CREDENTIALS", "false")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "*"}, cfg.HTTP.AllowedOrigins())
}
