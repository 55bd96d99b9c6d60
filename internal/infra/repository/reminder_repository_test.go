package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/kv"
	"github.com/KasumiMercury/primind-dose-reminder/internal/testutil"
)

func TestSaveAndLoadRemindersSuccess(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReminderRepository(store)

	tests := []struct {
		name     string
		medicine string
		times    []string
		expected []string
	}{
		{
			name:     "two times round trip",
			medicine: "Paracetamol",
			times:    []string{"08:00", "20:00"},
			expected: []string{"08:00", "20:00"},
		},
		{
			name:     "placeholders are dropped",
			medicine: "Amoxicillin",
			times:    []string{"08:00", "", "16:00"},
			expected: []string{"08:00", "16:00"},
		},
		{
			name:     "malayalam name",
			medicine: "ഗുളിക",
			times:    []string{"21:00"},
			expected: []string{"21:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.SaveReminders(ctx, tt.medicine, tt.times); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := repo.LoadReminders(ctx, tt.medicine)
			if err != nil {
				t.Fatalf("failed to load reminders: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSaveRemindersEmptyRemovesKey(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReminderRepository(store)

	if err := repo.SaveReminders(ctx, "Paracetamol", []string{"08:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		times []string
	}{
		{name: "nil slice", times: nil},
		{name: "only placeholders", times: []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.SaveReminders(ctx, "Paracetamol", tt.times); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := repo.LoadReminders(ctx, "Paracetamol")
			if err != nil {
				t.Fatalf("failed to load reminders: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected empty list, got %v", got)
			}

			if _, err := store.Get(ctx, "reminders_Paracetamol"); !errors.Is(err, kv.ErrNotFound) {
				t.Errorf("expected key to be absent, got %v", err)
			}
		})
	}
}

func TestSaveRemindersIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReminderRepository(store)

	for i := 0; i < 2; i++ {
		if err := repo.SaveReminders(ctx, "Metformin", []string{"08:00", "20:00"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	raw, err := store.Get(ctx, "reminders_Metformin")
	if err != nil {
		t.Fatalf("failed to read raw key: %v", err)
	}
	if raw != `["08:00","20:00"]` {
		t.Errorf("unexpected stored value %s", raw)
	}
}

func TestSaveRemindersEmptyName(t *testing.T) {
	repo := NewReminderRepository(kv.NewMemoryStore())

	err := repo.SaveReminders(context.Background(), "", []string{"08:00"})
	if !errors.Is(err, domain.ErrEmptyMedicineName) {
		t.Errorf("expected ErrEmptyMedicineName, got %v", err)
	}
}

func TestLoadRemindersMalformed(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReminderRepository(store)

	tests := []struct {
		name      string
		raw       string
		expected  []string
		malformed bool
	}{
		{name: "not json", raw: "08:00,20:00", expected: []string{}, malformed: true},
		{name: "json object", raw: `{"time":"08:00"}`, expected: []string{}, malformed: true},
		{name: "invalid entries dropped", raw: `["08:00","8 pm",""]`, expected: []string{"08:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Set(ctx, "reminders_Broken", tt.raw); err != nil {
				t.Fatalf("failed to set up test data: %v", err)
			}

			got, err := repo.LoadReminders(ctx, "Broken")
			if tt.malformed != errors.Is(err, domain.ErrMalformedRecord) {
				t.Fatalf("malformed=%v, got err %v", tt.malformed, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestListAllMedicineNames(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReminderRepository(store)

	for _, name := range []string{"Paracetamol", "Amoxicillin", "Vitamin D3"} {
		if err := repo.SaveReminders(ctx, name, []string{"08:00"}); err != nil {
			t.Fatalf("failed to set up test data: %v", err)
		}
	}
	if err := repo.MarkNotified(ctx, "Paracetamol", "08:00", "2024-01-15"); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	names, err := repo.ListAllMedicineNames(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"Amoxicillin", "Paracetamol", "Vitamin D3"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("expected %v, got %v", expected, names)
	}
}

func TestDedupeMarks(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReminderRepository(store)

	date, err := repo.LastNotified(ctx, "Paracetamol", "08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date != "" {
		t.Errorf("expected no mark, got %q", date)
	}

	if err := repo.MarkNotified(ctx, "Paracetamol", "08:00", "2024-01-15"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := store.Get(ctx, "lastNotified_Paracetamol_08:00")
	if err != nil {
		t.Fatalf("expected raw key: %v", err)
	}
	if raw != "2024-01-15" {
		t.Errorf("expected 2024-01-15, got %s", raw)
	}

	date, err = repo.LastNotified(ctx, "Paracetamol", "08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date != "2024-01-15" {
		t.Errorf("expected 2024-01-15, got %q", date)
	}

	if err := repo.MarkNotified(ctx, "", "08:00", "2024-01-15"); !errors.Is(err, ErrInvalidDedupeData) {
		t.Errorf("expected ErrInvalidDedupeData, got %v", err)
	}
}

func TestPermission(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewReminderRepository(store)

	got, err := repo.GetPermission(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.PermissionDefault {
		t.Errorf("expected default, got %s", got)
	}

	if err := repo.SavePermission(ctx, domain.PermissionGranted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = repo.GetPermission(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.PermissionGranted {
		t.Errorf("expected granted, got %s", got)
	}

	if err := repo.SavePermission(ctx, domain.Permission("maybe")); !errors.Is(err, domain.ErrInvalidPermission) {
		t.Errorf("expected ErrInvalidPermission, got %v", err)
	}

	if err := store.Set(ctx, "notificationPermission", "garbage"); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}
	got, err = repo.GetPermission(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.PermissionDefault {
		t.Errorf("expected default for garbage, got %s", got)
	}
}

func TestReminderRepositoryRedisIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(kv.NewRedisStore(client))

	if err := repo.SaveReminders(ctx, "Paracetamol", []string{"08:00", "20:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := client.Get(ctx, "reminders_Paracetamol").Result()
	if err != nil {
		t.Fatalf("failed to read raw key: %v", err)
	}
	if raw != `["08:00","20:00"]` {
		t.Errorf("unexpected stored value %s", raw)
	}

	names, err := repo.ListAllMedicineNames(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Paracetamol"}) {
		t.Errorf("expected [Paracetamol], got %v", names)
	}

	if err := repo.SaveReminders(ctx, "Paracetamol", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, err := client.Exists(ctx, "reminders_Paracetamol").Result()
	if err != nil {
		t.Fatalf("failed to check key: %v", err)
	}
	if exists != 0 {
		t.Error("expected key to be removed")
	}
}
