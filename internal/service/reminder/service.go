package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-dose-reminder/internal/observability/tracing"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/frequency"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/gap"
)

const (
	sourceAnalysis = "analysis"
	sourceManual   = "manual"
)

type PermissionRequester interface {
	Request(ctx context.Context) (domain.Permission, error)
}

// Service owns the medicine list of the active analysis and the validated
// path that turns chosen times into persisted reminders.
type Service struct {
	repo       domain.ReminderRepository
	validator  *gap.Validator
	permission PermissionRequester
	metrics    *metrics.ReminderMetrics

	mu        sync.RWMutex
	medicines []domain.Medicine
}

func NewService(
	repo domain.ReminderRepository,
	validator *gap.Validator,
	permission PermissionRequester,
	reminderMetrics *metrics.ReminderMetrics,
) *Service {
	return &Service{
		repo:       repo,
		validator:  validator,
		permission: permission,
		metrics:    reminderMetrics,
		medicines:  make([]domain.Medicine, 0),
	}
}

// Ingest replaces the session with a fresh analysis result. Each medicine
// gets a session id, one reminder slot per daily dose, and any times
// previously saved under its name.
func (s *Service) Ingest(ctx context.Context, medicines []domain.Medicine) ([]domain.Medicine, error) {
	seen := make(map[string]struct{}, len(medicines))
	next := make([]domain.Medicine, 0, len(medicines))

	for _, m := range medicines {
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			slog.WarnContext(ctx, "skipping analysed medicine without a name",
				slog.String("event", "reminder.ingest.skip"),
			)
			continue
		}
		if _, dup := seen[m.Name]; dup {
			slog.WarnContext(ctx, "skipping duplicate analysed medicine",
				slog.String("event", "reminder.ingest.duplicate"),
				slog.String("medicine", m.Name),
			)
			continue
		}
		seen[m.Name] = struct{}{}

		s.prepare(ctx, &m)
		next = append(next, m)
	}

	s.mu.Lock()
	s.medicines = next
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordIngested(ctx, sourceAnalysis, len(next))
	}

	slog.InfoContext(ctx, "analysis ingested",
		slog.String("event", "reminder.ingest"),
		slog.Int("medicine_count", len(next)),
	)

	return cloneMedicines(next), nil
}

// AddMedicine appends a manually entered medicine to the session.
func (s *Service) AddMedicine(ctx context.Context, m domain.Medicine) (domain.Medicine, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return domain.Medicine{}, err
	}

	s.mu.RLock()
	_, exists := s.indexByName(m.Name)
	s.mu.RUnlock()
	if exists {
		return domain.Medicine{}, fmt.Errorf("%w: %s", domain.ErrDuplicateMedicine, m.Name)
	}

	s.prepare(ctx, &m)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock; prepare touched the store unlocked.
	if _, exists := s.indexByName(m.Name); exists {
		return domain.Medicine{}, fmt.Errorf("%w: %s", domain.ErrDuplicateMedicine, m.Name)
	}
	s.medicines = append(s.medicines, m)

	if s.metrics != nil {
		s.metrics.RecordIngested(ctx, sourceManual, 1)
	}

	return cloneMedicine(m), nil
}

// SetReminderTimes records the user's picks for one medicine without gap
// validation. Entries must be "" or canonical "HH:MM" and match the slot
// count.
func (s *Service) SetReminderTimes(id string, times []string) (domain.Medicine, error) {
	for _, t := range times {
		if t == "" {
			continue
		}
		if _, err := domain.ParseClockTime(t); err != nil {
			return domain.Medicine{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.indexByID(id)
	if !ok {
		return domain.Medicine{}, fmt.Errorf("%w: %s", domain.ErrMedicineNotFound, id)
	}

	m := &s.medicines[i]
	if len(times) != len(m.ReminderTimes) {
		return domain.Medicine{}, fmt.Errorf("%w: got %d, want %d",
			domain.ErrSlotCountMismatch, len(times), len(m.ReminderTimes))
	}

	m.ReminderTimes = append([]string(nil), times...)
	return cloneMedicine(*m), nil
}

// SaveReminders validates every medicine's times, asks for notification
// permission and persists one reminder record per medicine. A gap violation
// or a missing permission aborts the whole save before anything is written.
func (s *Service) SaveReminders(ctx context.Context) error {
	medicines := s.Medicines()

	ctx, span := tracing.StartSaveRemindersSpan(ctx, len(medicines))
	defer span.End()

	if err := s.validator.ValidateAll(medicines); err != nil {
		var violation *domain.GapViolation
		if errors.As(err, &violation) {
			s.recordSave(ctx, "gap_violation")
			if s.metrics != nil {
				s.metrics.RecordGapViolation(ctx, violation.WrapAround)
			}
			slog.InfoContext(ctx, "reminder save rejected",
				slog.String("event", "reminder.save.gap_violation"),
				slog.String("medicine", violation.MedicineName),
				slog.String("first", violation.First),
				slog.String("second", violation.Second),
				slog.Bool("wrap_around", violation.WrapAround),
			)
		} else {
			s.recordSave(ctx, "invalid")
		}
		tracing.RecordResult(span, err)
		return err
	}

	permission, err := s.permission.Request(ctx)
	if err != nil {
		s.recordSave(ctx, "error")
		tracing.RecordResult(span, err)
		return fmt.Errorf("request notification permission: %w", err)
	}
	if !permission.IsGranted() {
		s.recordSave(ctx, "permission_denied")
		slog.InfoContext(ctx, "reminder save rejected",
			slog.String("event", "reminder.save.permission_denied"),
			slog.String("permission", permission.String()),
		)
		tracing.RecordResult(span, domain.ErrPermissionDenied)
		return domain.ErrPermissionDenied
	}

	var errs []error
	for _, m := range medicines {
		if err := s.repo.SaveReminders(ctx, m.Name, m.ReminderTimes); err != nil {
			slog.ErrorContext(ctx, "failed to persist reminders",
				slog.String("event", "reminder.save.fail"),
				slog.String("medicine", m.Name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("save reminders for %s: %w", m.Name, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.recordSave(ctx, "error")
		tracing.RecordResult(span, err)
		return err
	}

	s.recordSave(ctx, "saved")
	tracing.RecordResult(span, nil)

	slog.InfoContext(ctx, "reminders saved",
		slog.String("event", "reminder.save"),
		slog.Int("medicine_count", len(medicines)),
	)

	return nil
}

func (s *Service) Medicines() []domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMedicines(s.medicines)
}

// Clear drops the session. Persisted reminders keep firing.
func (s *Service) Clear() {
	s.mu.Lock()
	s.medicines = make([]domain.Medicine, 0)
	s.mu.Unlock()
}

// Dosage returns the dosage of the named session medicine.
func (s *Service) Dosage(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.indexByName(name)
	if !ok {
		return "", false
	}
	return s.medicines[i].Dosage, true
}

func (s *Service) prepare(ctx context.Context, m *domain.Medicine) {
	m.ID = uuid.NewString()
	m.ReminderTimes = make([]string, frequency.DoseCount(m.Frequency))

	saved, err := s.repo.LoadReminders(ctx, m.Name)
	if err != nil {
		slog.WarnContext(ctx, "failed to load saved reminders",
			slog.String("event", "reminder.rehydrate.fail"),
			slog.String("medicine", m.Name),
			slog.String("error", err.Error()),
		)
	}

	if len(saved) > len(m.ReminderTimes) {
		slog.WarnContext(ctx, "saved reminders exceed slot count",
			slog.String("event", "reminder.rehydrate.truncate"),
			slog.String("medicine", m.Name),
			slog.Int("saved", len(saved)),
			slog.Int("slots", len(m.ReminderTimes)),
		)
	}
	copy(m.ReminderTimes, saved)
}

func (s *Service) recordSave(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordSave(ctx, outcome)
	}
}

func (s *Service) indexByID(id string) (int, bool) {
	for i := range s.medicines {
		if s.medicines[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Service) indexByName(name string) (int, bool) {
	for i := range s.medicines {
		if s.medicines[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

func cloneMedicine(m domain.Medicine) domain.Medicine {
	m.ReminderTimes = append([]string(nil), m.ReminderTimes...)
	if m.TimeGapHours != nil {
		v := *m.TimeGapHours
		m.TimeGapHours = &v
	}
	return m
}

func cloneMedicines(medicines []domain.Medicine) []domain.Medicine {
	out := make([]domain.Medicine, len(medicines))
	for i, m := range medicines {
		out[i] = cloneMedicine(m)
	}
	return out
}
