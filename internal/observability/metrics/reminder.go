package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const reminderMeterName = "dose.reminder"

type ReminderMetrics struct {
	saves         metric.Int64Counter
	gapViolations metric.Int64Counter
	ingested      metric.Int64Counter
}

func NewReminderMetrics() (*ReminderMetrics, error) {
	meter := otel.Meter(reminderMeterName)

	saves, err := meter.Int64Counter(
		"dose_reminder_saves_total",
		metric.WithDescription("Reminder save attempts by outcome"),
		metric.WithUnit("{save}"),
	)
	if err != nil {
		return nil, err
	}

	gapViolations, err := meter.Int64Counter(
		"dose_reminder_gap_violations_total",
		metric.WithDescription("Saves rejected for doses closer than the minimum gap"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return nil, err
	}

	ingested, err := meter.Int64Counter(
		"dose_reminder_medicines_ingested_total",
		metric.WithDescription("Medicines added to the session by source"),
		metric.WithUnit("{medicine}"),
	)
	if err != nil {
		return nil, err
	}

	return &ReminderMetrics{
		saves:         saves,
		gapViolations: gapViolations,
		ingested:      ingested,
	}, nil
}

func (m *ReminderMetrics) RecordSave(ctx context.Context, outcome string) {
	m.saves.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordGapViolation(ctx context.Context, wrapAround bool) {
	m.gapViolations.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("wrap_around", wrapAround),
	))
}

func (m *ReminderMetrics) RecordIngested(ctx context.Context, source string, count int) {
	m.ingested.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("source", source),
	))
}
