package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"mitra-credit/config"
	"mitra-credit/content"
	"mitra-credit/httpapi"
	"mitra-credit/logging"
	"mitra-credit/sessions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging, "gateway")

	catalog, err := content.Load(cfg.Content.Path)
	if err != nil {
		logger.Error("failed to load content catalog", "path", cfg.Content.Path, "error", err)
		os.Exit(1)
	}

	backend, health, closeBackend, err := buildBackend(logger, cfg)
	if err != nil {
		logger.Error("failed to create session backend", "backend", cfg.Session.Backend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	var metrics *httpapi.Metrics
	if cfg.HTTP.MetricsEnabled {
		metrics = httpapi.NewMetrics()
	}

	router := httpapi.NewRouter(logger, httpapi.RouterDependencies{
		Backend:          backend,
		Catalog:          catalog,
		Health:           health,
		Metrics:          metrics,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: cfg.HTTP.AllowCredentials,
	})

	srv := httpapi.NewServer(logger, cfg.HTTP, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("gateway ready",
		"addr", srv.Addr(),
		"session_backend", cfg.Session.Backend,
		"metrics", cfg.HTTP.MetricsEnabled,
		"cors_origins", len(cfg.HTTP.AllowedOrigins()),
	)
	if err := srv.Run(ctx); err != nil {
		logger.Error("gateway stopped", "error", err)
		closeBackend()
		os.Exit(1)
	}
}

func buildBackend(logger *slog.Logger, cfg config.Config) (sessions.Backend, httpapi.HealthService, func(), error) {
	if cfg.Session.Backend != config.BackendTemporal {
		logger.Info("hosting sessions in memory", "idle_timeout", cfg.Session.IdleTimeout)
		return sessions.NewMemory(cfg.Session.IdleTimeout), nil, func() {}, nil
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dial temporal: %w", err)
	}
	logger.Info("hosting sessions in Temporal", "host_port", cfg.Temporal.HostPort, "namespace", cfg.Temporal.Namespace)
	backend := sessions.NewTemporal(c, logger, cfg.Session.IdleTimeout)
	return backend, httpapi.TemporalHealthService{Client: c}, c.Close, nil
}
