package main

import (
	"fmt"
	"os"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"mitra-credit/activities"
	"mitra-credit/config"
	"mitra-credit/content"
	"mitra-credit/logging"
	"mitra-credit/shared"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging, "activity-worker")

	catalog, err := content.Load(cfg.Content.Path)
	if err != nil {
		logger.Error("unable to load content catalog", "path", cfg.Content.Path, "error", err)
		os.Exit(1)
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		logger.Error("unable to create Temporal client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	// The integrations are simulated. Once a real SMS gateway or AA is
	// behind them, cap MaxConcurrentActivityExecutionSize to its rate limit.
	w := worker.New(c, shared.ActivityTaskQueue, worker.Options{})

	// Only providers listed in the catalog can be linked.
	a := &activities.Activities{Providers: catalog.ProviderIDs()}
	w.RegisterActivity(a)

	logger.Info("starting activity worker", "task_queue", shared.ActivityTaskQueue, "providers", a.Providers)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("unable to start worker", "error", err)
		os.Exit(1)
	}
}
