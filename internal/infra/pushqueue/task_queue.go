package pushqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=task_queue_mock.go -package=pushqueue

// TaskQueue hands a dose notification to a push delivery backend that can
// reach the browser while no page is open.
type TaskQueue interface {
	RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
	Close() error
}
