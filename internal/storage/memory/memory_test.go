package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := New()
	ctx := context.Background()

	if err := db.CreateUser(ctx, &models.User{ID: "u1", Email: "Alice@Example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	err := db.CreateUser(ctx, &models.User{ID: "u2", Email: "alice@example.com"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	u, err := db.GetUserByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("expected u1, got %s", u.ID)
	}
}

func TestTasksAreCopied(t *testing.T) {
	db := New()
	ctx := context.Background()

	assignee := "u2"
	task := &models.Task{
		ID:            "t1",
		Title:         "Ship release",
		CreatedBy:     "u1",
		AssignedTo:    &assignee,
		StartDateTime: time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC),
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	assignee = "someone-else"

	got, err := db.GetTaskByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !got.IsAssignee("u2") {
		t.Fatalf("stored task aliased caller's assignee")
	}

	for _, userID := range []string{"u1", "u2"} {
		tasks, err := db.ListTasksByParticipant(ctx, userID)
		if err != nil {
			t.Fatalf("list tasks: %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("expected %s to see 1 task, got %d", userID, len(tasks))
		}
	}

	n, err := db.ClearAssignee(ctx, "u2")
	if err != nil || n != 1 {
		t.Fatalf("clear assignee: n=%d err=%v", n, err)
	}
	if tasks, _ := db.ListTasksByParticipant(ctx, "u2"); len(tasks) != 0 {
		t.Fatalf("expected no tasks for former assignee, got %d", len(tasks))
	}
}

func TestMissingTask(t *testing.T) {
	db := New()
	ctx := context.Background()

	if _, err := db.GetTaskByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
	if err := db.UpdateTask(ctx, &models.Task{ID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := db.DeleteTask(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestNotificationsScopedToOwner(t *testing.T) {
	db := New()
	ctx := context.Background()
	base := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

	for i, source := range []models.NotificationSource{
		models.SourceTask, models.SourceCalendar, models.SourceTask,
	} {
		err := db.CreateNotification(ctx, &models.Notification{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			Message:   "hello",
			Source:    source,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create notification: %v", err)
		}
	}

	notes, err := db.ListNotifications(ctx, storage.NotificationFilter{UserID: "u1", Limit: 2})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "c" || notes[1].ID != "b" {
		t.Fatalf("expected newest two notifications, got %+v", notes)
	}

	source := models.SourceTask
	notes, _ = db.ListNotifications(ctx, storage.NotificationFilter{UserID: "u1", Source: &source})
	if len(notes) != 2 {
		t.Fatalf("expected 2 task notifications, got %d", len(notes))
	}

	if err = db.MarkNotificationRead(ctx, "a", "u2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}
	if err = db.DeleteNotification(ctx, "a", "u2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	if err = db.MarkNotificationRead(ctx, "a", "u1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	n, err := db.MarkAllNotificationsRead(ctx, "u1")
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 newly read notifications, got %d", n)
	}
}
