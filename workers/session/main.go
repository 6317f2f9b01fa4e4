package main

import (
	"fmt"
	"os"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"mitra-credit/config"
	"mitra-credit/logging"
	"mitra-credit/shared"
	"mitra-credit/workflows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging, "session-worker")

	// HostPort and Namespace come from TEMPORAL_HOST_PORT and
	// TEMPORAL_NAMESPACE. Temporal Cloud additionally needs
	// ConnectionOptions.TLS.
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

	// Session workflows only move state and wait on updates and signals, so the default
	// MaxConcurrentWorkflowTaskExecutionSize is plenty. Sticky execution keeps
	// a live session's history cached on the worker that last ran it.
	w := worker.New(c, shared.SessionWorkflowTaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.SessionWorkflow)

	logger.Info("starting session workflow worker", "task_queue", shared.SessionWorkflowTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("unable to start worker", "error", err)
		os.Exit(1)
	}
}
