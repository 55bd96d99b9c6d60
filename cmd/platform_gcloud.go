//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-dose-reminder/internal/config"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/pushqueue"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/logging"
)

func initTaskQueue(ctx context.Context, cfg *config.Config) (pushqueue.TaskQueue, func() error, error) {
	cloudTasksClient, err := pushqueue.NewCloudTasksClient(ctx, pushqueue.CloudTasksConfig{
		ProjectID:  cfg.TaskQueue.GCloudProjectID,
		LocationID: cfg.TaskQueue.GCloudLocationID,
		QueueID:    cfg.TaskQueue.GCloudQueueID,
		TargetURL:  cfg.TaskQueue.GCloudTargetURL,
		MaxRetries: cfg.TaskQueue.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("task queue initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.TaskQueue.GCloudProjectID),
		slog.String("location", cfg.TaskQueue.GCloudLocationID),
		slog.String("queue", cfg.TaskQueue.GCloudQueueID),
	)

	return cloudTasksClient, cloudTasksClient.Close, nil
}

// platformIdentity reads the Cloud Run service metadata. ENV defaults to
// prod because the gcloud build only ships to Cloud Run.
func platformIdentity(cfg *config.Config) (logging.ServiceInfo, logging.Environment, string) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = cfg.TaskQueue.GCloudProjectID
	}

	return logging.ServiceInfo{
		Name:     serviceName,
		Version:  Version,
		Revision: os.Getenv("K_REVISION"),
	}, env, projectID
}
