//go:build gcloud

package firerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt   time.Time `bigquery:"recorded_at"`
	FiredAt      time.Time `bigquery:"fired_at"`
	MedicineName string    `bigquery:"medicine_name"`
	Clock        string    `bigquery:"clock"`
	Date         string    `bigquery:"date"`
	Channel      string    `bigquery:"channel"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.FireRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "fire recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, fire recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, fire recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "fire recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordFire(ctx context.Context, record domain.FireRecord) error {
	row := &bigQueryRecord{
		RecordedAt:   time.Now(),
		FiredAt:      record.FiredAt,
		MedicineName: record.MedicineName,
		Clock:        record.Clock,
		Date:         record.Date,
		Channel:      record.Channel,
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert dose fire to BigQuery",
			slog.String("error", err.Error()),
			slog.String("medicine", record.MedicineName),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
