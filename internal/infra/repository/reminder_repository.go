package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/kv"
)

// Key layout shared with the browser client's local storage.
const (
	reminderKeyPrefix     = "reminders_"
	lastNotifiedKeyPrefix = "lastNotified_"
	permissionKey         = "notificationPermission"
)

func ReminderKey(medicineName string) string {
	return reminderKeyPrefix + medicineName
}

func LastNotifiedKey(medicineName, clock string) string {
	return lastNotifiedKeyPrefix + medicineName + "_" + clock
}

type ReminderRepository struct {
	store kv.Store
}

// NewReminderRepository returns a repository that implements reminder,
// dedupe mark and permission persistence on store.
func NewReminderRepository(store kv.Store) *ReminderRepository {
	return &ReminderRepository{
		store: store,
	}
}

var (
	_ domain.ReminderRepository   = (*ReminderRepository)(nil)
	_ domain.DedupeRepository     = (*ReminderRepository)(nil)
	_ domain.PermissionRepository = (*ReminderRepository)(nil)
)

func (r *ReminderRepository) SaveReminders(ctx context.Context, medicineName string, times []string) error {
	if medicineName == "" {
		return domain.ErrEmptyMedicineName
	}

	key := ReminderKey(medicineName)
	filled := domain.CompactTimes(times)

	if len(filled) == 0 {
		return r.store.Delete(ctx, key)
	}

	data, err := json.Marshal(filled)
	if err != nil {
		return ErrInvalidReminderData
	}

	return r.store.Set(ctx, key, string(data))
}

// LoadReminders returns the stored times for medicineName. A record that
// does not decode as a JSON string array yields an empty slice together with
// domain.ErrMalformedRecord so callers can log and carry on.
func (r *ReminderRepository) LoadReminders(ctx context.Context, medicineName string) ([]string, error) {
	key := ReminderKey(medicineName)

	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	var times []string
	if err := json.Unmarshal([]byte(data), &times); err != nil {
		return []string{}, fmt.Errorf("%w: %s", domain.ErrMalformedRecord, key)
	}

	valid := make([]string, 0, len(times))
	for _, t := range times {
		if !domain.IsClockTime(t) {
			slog.WarnContext(ctx, "dropping invalid stored reminder time",
				slog.String("medicine", medicineName),
				slog.String("time", t),
			)
			continue
		}
		valid = append(valid, t)
	}

	return valid, nil
}

func (r *ReminderRepository) ListAllMedicineNames(ctx context.Context) ([]string, error) {
	keys, err := r.store.KeysWithPrefix(ctx, reminderKeyPrefix)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimPrefix(key, reminderKeyPrefix)
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

func (r *ReminderRepository) LastNotified(ctx context.Context, medicineName, clock string) (string, error) {
	key := LastNotifiedKey(medicineName, clock)

	date, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	return date, nil
}

func (r *ReminderRepository) MarkNotified(ctx context.Context, medicineName, clock, date string) error {
	if medicineName == "" || clock == "" || date == "" {
		return ErrInvalidDedupeData
	}

	return r.store.Set(ctx, LastNotifiedKey(medicineName, clock), date)
}

// GetPermission reports PermissionDefault when nothing has been stored yet
// or the stored value is unreadable.
func (r *ReminderRepository) GetPermission(ctx context.Context) (domain.Permission, error) {
	raw, err := r.store.Get(ctx, permissionKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return domain.PermissionDefault, nil
		}
		return domain.PermissionDefault, err
	}

	permission, err := domain.ParsePermission(raw)
	if err != nil {
		slog.WarnContext(ctx, "ignoring malformed stored permission",
			slog.String("value", raw),
		)
		return domain.PermissionDefault, nil
	}

	return permission, nil
}

func (r *ReminderRepository) SavePermission(ctx context.Context, permission domain.Permission) error {
	if _, err := domain.ParsePermission(permission.String()); err != nil {
		return err
	}

	return r.store.Set(ctx, permissionKey, permission.String())
}
