package domain

import (
	"context"
	"time"
)

// FireRecord is one delivered dose notification.
type FireRecord struct {
	MedicineName string
	Clock        string
	Date         string
	Channel      string
	FiredAt      time.Time
}

type FireRecorder interface {
	RecordFire(ctx context.Context, record FireRecord) error
	Close() error
}
