// Package foreground pushes alerts to browser views that hold an open
// websocket.
package foreground

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

type MessageType string

const (
	MessageNotification     MessageType = "notification"
	MessagePermissionPrompt MessageType = "permission_prompt"
)

type Message struct {
	Type         MessageType `json:"type"`
	Title        string      `json:"title,omitempty"`
	Body         string      `json:"body,omitempty"`
	Tag          string      `json:"tag,omitempty"`
	MedicineName string      `json:"medicine_name,omitempty"`
	Clock        string      `json:"clock,omitempty"`
	Date         string      `json:"date,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans messages out to every connected view.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub accepts upgrades from any origin listed in allowedOrigins; "*" or an
// empty list accepts all.
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients: make(map[*client]struct{}),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("event", "foreground.upgrade.fail"),
			slog.String("error", err.Error()),
		)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	slog.Debug("foreground view connected", slog.Int("subscribers", n))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	n := len(h.clients)
	h.mu.Unlock()

	slog.Debug("foreground view disconnected", slog.Int("subscribers", n))
}

// readPump drains client frames so control messages are processed, and
// unregisters the client once the connection drops.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every connected view and reports how many
// accepted it. Views whose buffer is full are skipped.
func (h *Hub) Broadcast(msg Message) (int, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients {
		select {
		case c.send <- data:
			delivered++
		default:
			slog.Warn("foreground view send buffer full, dropping message",
				slog.String("type", string(msg.Type)),
			)
		}
	}
	return delivered, nil
}

// Notify shows the dose alert in open views. It fails with
// domain.ErrNoDeliveryChannel when no view accepted it.
func (h *Hub) Notify(ctx context.Context, n *domain.Notification) (domain.Channel, error) {
	delivered, err := h.Broadcast(Message{
		Type:         MessageNotification,
		Title:        n.Title(),
		Body:         n.Body(),
		Tag:          n.Tag(),
		MedicineName: n.MedicineName,
		Clock:        n.Clock,
		Date:         n.Date,
	})
	if err != nil {
		return "", err
	}
	if delivered == 0 {
		return "", domain.ErrNoDeliveryChannel
	}

	slog.DebugContext(ctx, "foreground alert sent",
		slog.String("medicine", n.MedicineName),
		slog.Int("views", delivered),
	)
	return domain.ChannelForeground, nil
}

// PromptPermission asks open views to show the browser permission prompt.
func (h *Hub) PromptPermission(ctx context.Context) error {
	delivered, err := h.Broadcast(Message{Type: MessagePermissionPrompt})
	if err != nil {
		return err
	}
	if delivered == 0 {
		return domain.ErrNoDeliveryChannel
	}
	return nil
}

// Close disconnects every view.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
