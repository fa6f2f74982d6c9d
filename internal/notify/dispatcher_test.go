package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
	"github.com/adanyl0v/taskboard/internal/storage/memory"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []*models.Notification
}

func (p *recordingPublisher) Publish(n *models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
}

// failingRepo rejects every insert.
type failingRepo struct {
	storage.NotificationRepository
	calls int
}

func (r *failingRepo) CreateNotification(context.Context, *models.Notification) error {
	r.calls++
	return errors.New("connection refused")
}

func TestDispatchPersistsAndPublishes(t *testing.T) {
	db := memory.New()
	pub := &recordingPublisher{}
	d := NewDispatcher(zerolog.Nop(), db, pub, BreakerSettings{})

	task := newTask("alice", "bob")
	task.Priority = models.PriorityHigh
	d.Emit(context.Background(), Event{Kind: KindHighPriority, Task: task})

	for _, user := range []string{"alice", "bob"} {
		notes, err := db.ListNotifications(context.Background(), storage.NotificationFilter{UserID: user})
		if err != nil {
			t.Fatalf("list notifications: %v", err)
		}
		if len(notes) != 1 {
			t.Fatalf("expected 1 notification for %s, got %d", user, len(notes))
		}
		if notes[0].ID == "" || notes[0].CreatedAt.IsZero() {
			t.Fatalf("expected id and created_at to be assigned")
		}
	}
	if len(pub.published) != 2 {
		t.Fatalf("expected 2 published notes, got %d", len(pub.published))
	}
}

func TestSendDefaultsCategory(t *testing.T) {
	db := memory.New()
	d := NewDispatcher(zerolog.Nop(), db, nil, BreakerSettings{})

	n := &models.Notification{UserID: "alice", Message: "hello", Source: models.SourceGeneral}
	if err := d.Send(context.Background(), n); err != nil {
		t.Fatalf("send: %v", err)
	}
	if n.Category != models.CategoryInfo {
		t.Fatalf("expected info category, got %q", n.Category)
	}
}

func TestDispatchSwallowsFailuresAndTrips(t *testing.T) {
	repo := &failingRepo{}
	d := NewDispatcher(zerolog.Nop(), repo, nil, BreakerSettings{MaxFailures: 2, Timeout: time.Minute})

	notes := []*models.Notification{
		{UserID: "a", Message: "1", Source: models.SourceTask},
		{UserID: "b", Message: "2", Source: models.SourceTask},
		{UserID: "c", Message: "3", Source: models.SourceTask},
	}
	d.Dispatch(context.Background(), notes)

	if repo.calls != 2 {
		t.Fatalf("expected breaker to stop after 2 failures, repo saw %d calls", repo.calls)
	}

	err := d.Send(context.Background(), &models.Notification{UserID: "d", Source: models.SourceTask})
	if err == nil {
		t.Fatalf("expected error while breaker is open")
	}
}
