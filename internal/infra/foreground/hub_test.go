package foreground

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

func dial(t *testing.T, srv *httptest.Server, hub *Hub) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers() > 0 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func TestHubNotify(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv, hub)

	channel, err := hub.Notify(context.Background(), &domain.Notification{
		MedicineName: "Paracetamol",
		Dosage:       "500mg",
		Clock:        "08:00",
		Date:         "2024-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelForeground, channel)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, MessageNotification, msg.Type)
	assert.Equal(t, "MediScan Reminder", msg.Title)
	assert.Equal(t, "Time to take your Paracetamol (500mg).", msg.Body)
	assert.Equal(t, "Paracetamol-08:00", msg.Tag)
}

func TestHubPromptPermission(t *testing.T) {
	hub := NewHub([]string{"*"})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv, hub)

	require.NoError(t, hub.PromptPermission(context.Background()))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessagePermissionPrompt, msg.Type)
}

func TestHubWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil)

	_, err := hub.Notify(context.Background(), &domain.Notification{MedicineName: "Paracetamol"})
	assert.True(t, errors.Is(err, domain.ErrNoDeliveryChannel))

	err = hub.PromptPermission(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNoDeliveryChannel))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "allowed", origin: "https://app.example.com", want: true},
		{name: "rejected", origin: "https://evil.example.com", want: false},
		{name: "no origin", origin: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(r))
		})
	}
}
