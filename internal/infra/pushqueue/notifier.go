package pushqueue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

// taskNamespace seeds deterministic task IDs so one slot on one date always
// maps to the same push task.
var taskNamespace = uuid.MustParse("6f1c9a52-8a3e-4d4b-9a57-2f0e1c7b5d11")

// Notifier delivers dose notifications through the push queue.
type Notifier struct {
	queue TaskQueue
}

func NewNotifier(queue TaskQueue) *Notifier {
	return &Notifier{queue: queue}
}

func TaskID(n *domain.Notification) string {
	return uuid.NewSHA1(taskNamespace, []byte(n.Tag()+"|"+n.Date)).String()
}

func (p *Notifier) Notify(ctx context.Context, n *domain.Notification) (domain.Channel, error) {
	if p == nil || p.queue == nil {
		return "", domain.ErrNoDeliveryChannel
	}

	task := &NotificationTask{
		TaskID:       TaskID(n),
		Title:        n.Title(),
		Body:         n.Body(),
		Tag:          n.Tag(),
		MedicineName: n.MedicineName,
		Dosage:       n.Dosage,
		Clock:        n.Clock,
		Date:         n.Date,
	}

	if _, err := p.queue.RegisterNotification(ctx, task); err != nil {
		return "", fmt.Errorf("push notification for %s: %w", n.MedicineName, err)
	}

	return domain.ChannelBackground, nil
}
