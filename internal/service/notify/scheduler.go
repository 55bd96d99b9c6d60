// Package notify fires dose notifications for persisted reminder times.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/tracing"
)

const DefaultTickInterval = 60 * time.Second

type PermissionReader interface {
	Current(ctx context.Context) (domain.Permission, error)
}

type DosageLookup interface {
	Dosage(name string) (string, bool)
}

type Scheduler struct {
	reminders  domain.ReminderRepository
	dedupe     domain.DedupeRepository
	permission PermissionReader
	notifier   domain.Notifier

	dosages  DosageLookup
	recorder domain.FireRecorder
	metrics  *metrics.SchedulerMetrics
	interval time.Duration
	now      func() time.Time
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces the wall clock used by Start.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func WithDosageLookup(l DosageLookup) Option {
	return func(s *Scheduler) {
		s.dosages = l
	}
}

func WithFireRecorder(r domain.FireRecorder) Option {
	return func(s *Scheduler) {
		s.recorder = r
	}
}

func WithMetrics(m *metrics.SchedulerMetrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

func NewScheduler(
	reminders domain.ReminderRepository,
	dedupe domain.DedupeRepository,
	permission PermissionReader,
	notifier domain.Notifier,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		reminders:  reminders,
		dedupe:     dedupe,
		permission: permission,
		notifier:   notifier,
		interval:   DefaultTickInterval,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TickResult summarizes one scan.
type TickResult struct {
	PermissionGranted bool
	Scanned           int
	Fired             int
	Skipped           int
	Failed            int
}

// Tick scans every persisted reminder and fires the slots whose time equals
// the minute of now and that have not fired on now's date. Failures are
// isolated per medicine and per slot.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) TickResult {
	start := time.Now()
	ctx, span := tracing.StartSchedulerTickSpan(ctx, now)
	defer span.End()

	var result TickResult
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordTick(ctx, time.Since(start))
		}
		tracing.RecordTickResult(span, result.Scanned, result.Fired, result.Skipped, result.Failed, nil)
	}()

	permission, err := s.permission.Current(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to read notification permission",
			slog.String("event", "scheduler.permission.fail"),
			slog.String("error", err.Error()),
		)
	}
	if err != nil || !permission.IsGranted() {
		if s.metrics != nil {
			s.metrics.RecordPermissionSkip(ctx, permission.String())
		}
		slog.DebugContext(ctx, "notification permission not granted, skipping tick",
			slog.String("event", "scheduler.tick.skip"),
			slog.String("permission", permission.String()),
		)
		return result
	}
	result.PermissionGranted = true

	names, err := s.reminders.ListAllMedicineNames(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list reminders",
			slog.String("event", "scheduler.list.fail"),
			slog.String("error", err.Error()),
		)
		result.Failed++
		return result
	}

	clock := domain.ClockKey(now)
	date := domain.DateKey(now)

	for _, name := range names {
		result.Scanned++

		times, err := s.reminders.LoadReminders(ctx, name)
		if err != nil {
			reason := "load"
			if errors.Is(err, domain.ErrMalformedRecord) {
				reason = "malformed"
			}
			if s.metrics != nil {
				s.metrics.RecordKeyError(ctx, reason)
			}
			slog.WarnContext(ctx, "skipping unreadable reminder record",
				slog.String("event", "scheduler.record.skip"),
				slog.String("medicine", name),
				slog.String("error", err.Error()),
			)
			result.Failed++
			continue
		}

		for _, t := range times {
			if t != clock {
				continue
			}

			switch s.fire(ctx, name, clock, date, now) {
			case fireOutcomeFired:
				result.Fired++
			case fireOutcomeDuplicate:
				result.Skipped++
			case fireOutcomeFailed:
				result.Failed++
			}
		}
	}

	if result.Fired > 0 || result.Failed > 0 {
		slog.InfoContext(ctx, "reminder scan completed",
			slog.String("event", "scheduler.tick"),
			slog.String("clock", clock),
			slog.Int("scanned", result.Scanned),
			slog.Int("fired", result.Fired),
			slog.Int("skipped", result.Skipped),
			slog.Int("failed", result.Failed),
		)
	}

	return result
}

type fireOutcome int

const (
	fireOutcomeFired fireOutcome = iota
	fireOutcomeDuplicate
	fireOutcomeFailed
)

func (s *Scheduler) fire(ctx context.Context, name, clock, date string, now time.Time) fireOutcome {
	ctx, span := tracing.StartNotifySpan(ctx, name, clock)
	defer span.End()

	last, err := s.dedupe.LastNotified(ctx, name, clock)
	if err != nil {
		slog.WarnContext(ctx, "failed to read dedupe mark",
			slog.String("event", "scheduler.dedupe.fail"),
			slog.String("medicine", name),
			slog.String("clock", clock),
			slog.String("error", err.Error()),
		)
		tracing.RecordResult(span, err)
		return fireOutcomeFailed
	}
	if last == date {
		return fireOutcomeDuplicate
	}

	n := &domain.Notification{
		MedicineName: name,
		Clock:        clock,
		Date:         date,
	}
	if s.dosages != nil {
		if dosage, ok := s.dosages.Dosage(name); ok {
			n.Dosage = dosage
		}
	}

	channel, err := s.notifier.Notify(ctx, n)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordNotification(ctx, "none", "failed")
		}
		slog.ErrorContext(ctx, "failed to deliver dose notification",
			slog.String("event", "scheduler.notify.fail"),
			slog.String("medicine", name),
			slog.String("clock", clock),
			slog.String("error", err.Error()),
		)
		tracing.RecordResult(span, err)
		return fireOutcomeFailed
	}

	if s.metrics != nil {
		s.metrics.RecordNotification(ctx, channel.String(), "delivered")
	}

	// A failed mark means the slot may fire again this minute.
	if err := s.dedupe.MarkNotified(ctx, name, clock, date); err != nil {
		slog.ErrorContext(ctx, "failed to write dedupe mark",
			slog.String("event", "scheduler.mark.fail"),
			slog.String("medicine", name),
			slog.String("clock", clock),
			slog.String("error", err.Error()),
		)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordFire(ctx, domain.FireRecord{
			MedicineName: name,
			Clock:        clock,
			Date:         date,
			Channel:      channel.String(),
			FiredAt:      now,
		}); err != nil {
			slog.WarnContext(ctx, "failed to record dose fire",
				slog.String("medicine", name),
				slog.String("error", err.Error()),
			)
		}
	}

	slog.InfoContext(ctx, "dose notification delivered",
		slog.String("event", "scheduler.notify"),
		slog.String("medicine", name),
		slog.String("clock", clock),
		slog.String("date", date),
		slog.String("channel", channel.String()),
	)
	tracing.RecordResult(span, nil)

	return fireOutcomeFired
}

// Handle stops a running scheduler loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the loop and waits for the in-flight scan to finish. It is
// safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start scans once immediately and then on every interval until the
// returned handle is stopped or ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	slog.InfoContext(ctx, "reminder scheduler started",
		slog.String("event", "scheduler.start"),
		slog.Duration("interval", s.interval),
	)

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.Tick(ctx, s.now())

		for {
			select {
			case <-ctx.Done():
				slog.Info("reminder scheduler stopped",
					slog.String("event", "scheduler.stop"),
				)
				return
			case <-ticker.C:
				s.Tick(ctx, s.now())
			}
		}
	}()

	return h
}
