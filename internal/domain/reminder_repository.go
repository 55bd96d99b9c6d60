package domain

import "context"

// ReminderRepository persists the chosen reminder times per medicine name.
type ReminderRepository interface {
	// SaveReminders replaces the stored times, or removes the record when
	// times holds no non-empty entry.
	SaveReminders(ctx context.Context, medicineName string, times []string) error
	// LoadReminders returns an empty slice for an absent record.
	LoadReminders(ctx context.Context, medicineName string) ([]string, error)
	ListAllMedicineNames(ctx context.Context) ([]string, error)
}

// DedupeRepository stores the last calendar date a slot was notified.
type DedupeRepository interface {
	LastNotified(ctx context.Context, medicineName, clock string) (string, error)
	MarkNotified(ctx context.Context, medicineName, clock, date string) error
}

type PermissionRepository interface {
	GetPermission(ctx context.Context) (Permission, error)
	SavePermission(ctx context.Context, permission Permission) error
}
