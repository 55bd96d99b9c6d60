// Package notifier picks the delivery channel for a dose notification.
package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

// Chain tries each notifier in order and stops at the first that delivers.
// Background push comes first so alerts reach closed tabs; open views are
// the fallback.
type Chain struct {
	notifiers []domain.Notifier
}

func NewChain(notifiers ...domain.Notifier) *Chain {
	list := make([]domain.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return &Chain{notifiers: list}
}

var _ domain.Notifier = (*Chain)(nil)

func (c *Chain) Notify(ctx context.Context, n *domain.Notification) (domain.Channel, error) {
	if len(c.notifiers) == 0 {
		return "", domain.ErrNoDeliveryChannel
	}

	var errs []error
	for i, notifier := range c.notifiers {
		channel, err := notifier.Notify(ctx, n)
		if err == nil {
			return channel, nil
		}

		errs = append(errs, err)
		if i < len(c.notifiers)-1 {
			slog.WarnContext(ctx, "notification channel failed, falling back",
				slog.String("event", "notifier.fallback"),
				slog.String("medicine", n.MedicineName),
				slog.String("error", err.Error()),
			)
		}
	}

	return "", errors.Join(errs...)
}
