package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/KasumiMercury/primind-dose-reminder/internal/service"

func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func StartSchedulerTickSpan(ctx context.Context, now time.Time) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "scheduler.tick",
		trace.WithAttributes(
			attribute.String("tick.time", now.Format(time.RFC3339)),
			attribute.String("tick.clock", now.Format("15:04")),
		),
	)
}

func StartNotifySpan(ctx context.Context, medicineName, clock string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "scheduler.notify",
		trace.WithAttributes(
			attribute.String("medicine.name", medicineName),
			attribute.String("reminder.clock", clock),
		),
	)
}

func StartSaveRemindersSpan(ctx context.Context, medicineCount int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "reminder.save",
		trace.WithAttributes(
			attribute.Int("save.medicine_count", medicineCount),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordTickResult(span trace.Span, scannedCount, firedCount, skippedCount, failedCount int, err error) {
	span.SetAttributes(
		attribute.Int("tick.scanned_count", scannedCount),
		attribute.Int("tick.fired_count", firedCount),
		attribute.Int("tick.skipped_count", skippedCount),
		attribute.Int("tick.failed_count", failedCount),
	)
	RecordResult(span, err)
}

func RecordResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
