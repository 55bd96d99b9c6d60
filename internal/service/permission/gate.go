package permission

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

const DefaultRequestTimeout = 30 * time.Second

// Prompter asks an open browser view to show the notification permission
// prompt. The answer comes back through Gate.Resolve.
type Prompter interface {
	PromptPermission(ctx context.Context) error
}

// Gate tracks the notification permission and lets callers wait for the
// user's answer to a prompt.
type Gate struct {
	repo     domain.PermissionRepository
	prompter Prompter
	timeout  time.Duration

	mu      sync.Mutex
	waiters map[chan domain.Permission]struct{}
}

func NewGate(repo domain.PermissionRepository, prompter Prompter, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Gate{
		repo:     repo,
		prompter: prompter,
		timeout:  timeout,
		waiters:  make(map[chan domain.Permission]struct{}),
	}
}

func (g *Gate) Current(ctx context.Context) (domain.Permission, error) {
	return g.repo.GetPermission(ctx)
}

// Request returns the stored state when the user already answered. Otherwise
// it prompts and blocks until Resolve, the timeout or ctx cancellation.
// A dismissed or unanswered prompt yields PermissionDefault.
func (g *Gate) Request(ctx context.Context) (domain.Permission, error) {
	current, err := g.Current(ctx)
	if err != nil {
		return domain.PermissionDefault, err
	}
	if current != domain.PermissionDefault {
		return current, nil
	}

	if g.prompter == nil {
		slog.WarnContext(ctx, "no permission prompter configured",
			slog.String("event", "permission.request.unavailable"),
		)
		return domain.PermissionDefault, nil
	}

	ch := g.register()
	defer g.unregister(ch)

	if err := g.prompter.PromptPermission(ctx); err != nil {
		slog.WarnContext(ctx, "failed to prompt for notification permission",
			slog.String("event", "permission.prompt.fail"),
			slog.String("error", err.Error()),
		)
		return domain.PermissionDefault, nil
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case p := <-ch:
		return p, nil
	case <-timer.C:
		slog.InfoContext(ctx, "permission prompt timed out",
			slog.String("event", "permission.prompt.timeout"),
			slog.Duration("timeout", g.timeout),
		)
		return domain.PermissionDefault, nil
	case <-ctx.Done():
		return domain.PermissionDefault, ctx.Err()
	}
}

// Resolve records the user's answer and wakes pending requests.
func (g *Gate) Resolve(ctx context.Context, p domain.Permission) error {
	if _, err := domain.ParsePermission(string(p)); err != nil {
		return err
	}

	if err := g.repo.SavePermission(ctx, p); err != nil {
		return err
	}

	slog.InfoContext(ctx, "notification permission resolved",
		slog.String("event", "permission.resolve"),
		slog.String("permission", p.String()),
	)

	g.mu.Lock()
	defer g.mu.Unlock()
	for ch := range g.waiters {
		select {
		case ch <- p:
		default:
		}
	}

	return nil
}

func (g *Gate) register() chan domain.Permission {
	ch := make(chan domain.Permission, 1)
	g.mu.Lock()
	g.waiters[ch] = struct{}{}
	g.mu.Unlock()
	return ch
}

func (g *Gate) unregister(ch chan domain.Permission) {
	g.mu.Lock()
	delete(g.waiters, ch)
	g.mu.Unlock()
}
