// Package ws pushes newly stored notifications to the websocket
// connections of their recipients.
package ws

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

const (
	MessageTypeConnected    = "connected"
	MessageTypeNotification = "notification"
)

type Message struct {
	Type         string               `json:"type"`
	Notification *NotificationPayload `json:"notification,omitempty"`
}

type NotificationPayload struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	RelatedID *string   `json:"related_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotificationPayload(n *models.Notification) *NotificationPayload {
	return &NotificationPayload{
		ID:        n.ID,
		Message:   n.Message,
		Type:      string(n.Category),
		Read:      n.Read,
		RelatedID: n.RelatedID,
		Source:    string(n.Source),
		CreatedAt: n.CreatedAt,
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

// NewHub accepts upgrades from allowedOrigins. Requests without an Origin
// header are accepted too.
func NewHub(logger zerolog.Logger, allowedOrigins []string) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")
			},
		},
		clients: make(map[string]map[*client]struct{}),
	}
}

// Publish queues n for every open connection of its recipient. Slow
// connections whose buffer is full miss the message.
func (h *Hub) Publish(n *models.Notification) {
	raw, err := json.Marshal(Message{
		Type:         MessageTypeNotification,
		Notification: newNotificationPayload(n),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("notification_id", n.ID).
			Msg("failed to encode notification")
		return
	}

	// Held while sending so that a connection cannot close its buffer
	// under us.
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[n.UserID]
	for c := range clients {
		select {
		case c.send <- raw:
		default:
			h.logger.Warn().
				Str("user_id", n.UserID).
				Str("notification_id", n.ID).
				Msg("dropping notification for slow connection")
		}
	}
	if len(clients) > 0 {
		h.logger.Debug().
			Str("user_id", n.UserID).
			Int("connections", len(clients)).
			Msg("published notification")
	}
}

// Connections returns the number of open connections of userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Serve upgrades the request and blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(userID, c)

	logger := h.logger.With().Str("user_id", userID).Logger()
	logger.Info().Msg("websocket connected")

	welcome, _ := json.Marshal(Message{Type: MessageTypeConnected})
	c.send <- welcome

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(logger, c)
	}()

	h.readPump(logger, c)
	h.unregister(userID, c)
	close(c.send)
	<-done

	logger.Info().Msg("websocket disconnected")
	return nil
}

func (h *Hub) register(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients[userID], c)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// readPump drains incoming frames so pongs and close frames are handled.
func (h *Hub) readPump(logger zerolog.Logger, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn().
					Err(err).
					Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

// writePump is the only writer of the connection.
func (h *Hub) writePump(logger zerolog.Logger, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				logger.Error().
					Err(err).
					Msg("failed to write websocket message")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Error().
					Err(err).
					Msg("failed to ping websocket")
				return
			}
		}
	}
}
