//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-dose-reminder/internal/config"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/pushqueue"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/logging"
)

// initTaskQueue returns a nil queue when PRIMIND_TASKS_URL is unset; alerts
// then reach open views only.
func initTaskQueue(_ context.Context, cfg *config.Config) (pushqueue.TaskQueue, func() error, error) {
	if !cfg.TaskQueue.Enabled() {
		slog.Warn("PRIMIND_TASKS_URL not set, background push disabled")

		return nil, nil, nil
	}

	tq := pushqueue.NewPrimindTasksClient(
		cfg.TaskQueue.PrimindTasksURL,
		cfg.TaskQueue.QueueName,
		cfg.TaskQueue.MaxRetries,
	)

	slog.Info("task queue initialized",
		slog.String("type", "primind_tasks"),
		slog.String("url", cfg.TaskQueue.PrimindTasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, tq.Close, nil
}

func platformIdentity(cfg *config.Config) (logging.ServiceInfo, logging.Environment, string) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	return logging.ServiceInfo{Name: serviceName, Version: Version},
		logging.Environment(cfg.Environment),
		""
}
