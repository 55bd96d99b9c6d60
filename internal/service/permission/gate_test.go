package permission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/kv"
	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/repository"
)

type promptFunc func(ctx context.Context) error

func (f promptFunc) PromptPermission(ctx context.Context) error {
	return f(ctx)
}

func newRepo() *repository.ReminderRepository {
	return repository.NewReminderRepository(kv.NewMemoryStore())
}

func TestRequestReturnsStoredAnswer(t *testing.T) {
	tests := []struct {
		name   string
		stored domain.Permission
	}{
		{name: "granted", stored: domain.PermissionGranted},
		{name: "denied", stored: domain.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()
			if err := repo.SavePermission(ctx, tt.stored); err != nil {
				t.Fatalf("failed to set up test data: %v", err)
			}

			prompter := promptFunc(func(context.Context) error {
				t.Error("prompter must not be called")
				return nil
			})

			got, err := NewGate(repo, prompter, time.Second).Request(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.stored {
				t.Errorf("expected %s, got %s", tt.stored, got)
			}
		})
	}
}

func TestRequestWaitsForResolve(t *testing.T) {
	tests := []struct {
		name   string
		answer domain.Permission
	}{
		{name: "user grants", answer: domain.PermissionGranted},
		{name: "user denies", answer: domain.PermissionDenied},
		{name: "user dismisses", answer: domain.PermissionDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()

			var gate *Gate
			prompter := promptFunc(func(ctx context.Context) error {
				go func() {
					if err := gate.Resolve(ctx, tt.answer); err != nil {
						t.Errorf("resolve failed: %v", err)
					}
				}()
				return nil
			})
			gate = NewGate(repo, prompter, 5*time.Second)

			got, err := gate.Request(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.answer {
				t.Errorf("expected %s, got %s", tt.answer, got)
			}

			stored, err := repo.GetPermission(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored != tt.answer {
				t.Errorf("expected stored %s, got %s", tt.answer, stored)
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	prompter := promptFunc(func(context.Context) error { return nil })
	gate := NewGate(newRepo(), prompter, 20*time.Millisecond)

	got, err := gate.Request(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsGranted() {
		t.Error("timed out request must not be granted")
	}
}

func TestRequestPromptFailure(t *testing.T) {
	prompter := promptFunc(func(context.Context) error { return domain.ErrNoDeliveryChannel })
	gate := NewGate(newRepo(), prompter, time.Second)

	got, err := gate.Request(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.PermissionDefault {
		t.Errorf("expected default, got %s", got)
	}
}

func TestRequestContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	prompter := promptFunc(func(context.Context) error {
		cancel()
		return nil
	})
	gate := NewGate(newRepo(), prompter, time.Second)

	_, err := gate.Request(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResolveRejectsUnknownState(t *testing.T) {
	gate := NewGate(newRepo(), nil, time.Second)

	err := gate.Resolve(context.Background(), domain.Permission("maybe"))
	if !errors.Is(err, domain.ErrInvalidPermission) {
		t.Errorf("expected ErrInvalidPermission, got %v", err)
	}
}
