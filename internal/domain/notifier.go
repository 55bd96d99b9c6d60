package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=domain

const NotificationTitle = "MediScan Reminder"

// Channel names the delivery path a notification went through.
type Channel string

const (
	ChannelBackground Channel = "background"
	ChannelForeground Channel = "foreground"
)

func (c Channel) String() string {
	return string(c)
}

type Notification struct {
	MedicineName string
	Dosage       string
	Clock        string
	Date         string
}

// Tag identifies the slot so a client can collapse repeated alerts.
func (n *Notification) Tag() string {
	return n.MedicineName + "-" + n.Clock
}

func (n *Notification) Title() string {
	return NotificationTitle
}

func (n *Notification) Body() string {
	if n.Dosage == "" {
		return fmt.Sprintf("Time to take your %s!", n.MedicineName)
	}
	return fmt.Sprintf("Time to take your %s (%s).", n.MedicineName, n.Dosage)
}

type Notifier interface {
	// Notify delivers the notification and reports the channel that accepted it.
	Notify(ctx context.Context, n *Notification) (Channel, error)
}
