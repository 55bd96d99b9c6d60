package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulerMeterName = "dose.scheduler"
)

type SchedulerMetrics struct {
	ticks           metric.Int64Counter
	notifications   metric.Int64Counter
	keyErrors       metric.Int64Counter
	tickDuration    metric.Float64Histogram
	permissionSkips metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	ticks, err := meter.Int64Counter(
		"dose_scheduler_ticks_total",
		metric.WithDescription("Total number of reminder scans"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter(
		"dose_notifications_total",
		metric.WithDescription("Dose notifications by channel and outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	keyErrors, err := meter.Int64Counter(
		"dose_scheduler_key_errors_total",
		metric.WithDescription("Persisted reminder keys that failed to load during a scan"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, err
	}

	tickDuration, err := meter.Float64Histogram(
		"dose_scheduler_tick_duration_seconds",
		metric.WithDescription("Reminder scan duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
		),
	)
	if err != nil {
		return nil, err
	}

	permissionSkips, err := meter.Int64Counter(
		"dose_scheduler_permission_skips_total",
		metric.WithDescription("Scans skipped because notification permission is not granted"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		ticks:           ticks,
		notifications:   notifications,
		keyErrors:       keyErrors,
		tickDuration:    tickDuration,
		permissionSkips: permissionSkips,
	}, nil
}

func (m *SchedulerMetrics) RecordTick(ctx context.Context, duration time.Duration) {
	m.ticks.Add(ctx, 1)
	m.tickDuration.Record(ctx, duration.Seconds())
}

func (m *SchedulerMetrics) RecordNotification(ctx context.Context, channel, outcome string) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordKeyError(ctx context.Context, reason string) {
	m.keyErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *SchedulerMetrics) RecordPermissionSkip(ctx context.Context, permission string) {
	m.permissionSkips.Add(ctx, 1, metric.WithAttributes(
		attribute.String("permission", permission),
	))
}
