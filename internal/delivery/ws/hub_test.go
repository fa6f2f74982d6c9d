package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
)

func dial(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, userID)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	var welcome Message
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err = conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != MessageTypeConnected {
		t.Fatalf("expected %q message, got %q", MessageTypeConnected, welcome.Type)
	}
	return conn
}

func TestPublishReachesRecipient(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	conn := dial(t, hub, "alice")

	if hub.Connections("alice") != 1 {
		t.Fatalf("expected 1 connection, got %d", hub.Connections("alice"))
	}

	taskID := "task-1"
	hub.Publish(&models.Notification{
		ID:        "n1",
		UserID:    "alice",
		Message:   "You have been assigned a new task: \"Ship release\"",
		Category:  models.CategoryInfo,
		Source:    models.SourceTask,
		RelatedID: &taskID,
		CreatedAt: time.Now(),
	})

	var msg Message
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read notification: %v", err)
	}
	if msg.Type != MessageTypeNotification || msg.Notification == nil {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Notification.ID != "n1" || msg.Notification.Source != "Task" {
		t.Fatalf("unexpected notification %+v", msg.Notification)
	}
	if msg.Notification.RelatedID == nil || *msg.Notification.RelatedID != taskID {
		t.Fatalf("expected related id %q", taskID)
	}
}

func TestPublishSkipsOtherUsers(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	conn := dial(t, hub, "bob")

	hub.Publish(&models.Notification{ID: "n1", UserID: "alice", Message: "hi"})
	hub.Publish(&models.Notification{ID: "n2", UserID: "bob", Message: "hi"})

	var msg Message
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read notification: %v", err)
	}
	if msg.Notification == nil || msg.Notification.ID != "n2" {
		t.Fatalf("expected only bob's notification, got %+v", msg.Notification)
	}
}

func TestServeUnregistersOnClose(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	conn := dial(t, hub, "alice")

	_ = conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.Connections("alice") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected connection to be unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCheckOrigin(t *testing.T) {
	hub := NewHub(zerolog.Nop(), []string{"http://localhost:5173"})

	cases := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:5173", true},
		{"http://evil.example.com", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		if got := hub.upgrader.CheckOrigin(r); got != tc.want {
			t.Fatalf("origin %q: expected %v, got %v", tc.origin, tc.want, got)
		}
	}
}
