package notify

import (
	"testing"
	"time"

	"github.com/adanyl0v/taskboard/internal/models"
)

func newTask(creator, assignee string) *models.Task {
	t := &models.Task{
		ID:            "task-1",
		Title:         "Ship release",
		Type:          models.TypeTask,
		Status:        models.StatusPending,
		Priority:      models.PriorityMedium,
		StartDateTime: time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC),
		CreatedBy:     creator,
	}
	if assignee != "" {
		t.AssignedTo = &assignee
	}
	return t
}

func TestAssignmentNotifiesOtherAssignee(t *testing.T) {
	notes := Notes(Event{Kind: KindAssignment, Task: newTask("alice", "bob")})
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}

	n := notes[0]
	if n.UserID != "bob" {
		t.Fatalf("expected recipient bob, got %q", n.UserID)
	}
	want := `You have been assigned a new Task: "Ship release". Due on: Mar 4, 2025.`
	if n.Message != want {
		t.Fatalf("unexpected message:\n got: %s\nwant: %s", n.Message, want)
	}
	if n.Category != models.CategoryInfo || n.Source != models.SourceTask {
		t.Fatalf("unexpected category/source: %s/%s", n.Category, n.Source)
	}
	if n.RelatedID == nil || *n.RelatedID != "task-1" {
		t.Fatalf("expected related id task-1")
	}
}

func TestAssignmentSkipsSelfAndUnassigned(t *testing.T) {
	if notes := Notes(Event{Kind: KindAssignment, Task: newTask("alice", "alice")}); len(notes) != 0 {
		t.Fatalf("expected no note for self assignment, got %d", len(notes))
	}
	if notes := Notes(Event{Kind: KindAssignment, Task: newTask("alice", "")}); len(notes) != 0 {
		t.Fatalf("expected no note without assignee, got %d", len(notes))
	}
}

func TestStatusChangeNotifiesCreator(t *testing.T) {
	task := newTask("alice", "bob")
	task.Status = models.StatusInProgress

	notes := Notes(Event{Kind: KindStatusChange, Task: task, Actor: Actor{ID: "bob", Name: "Bob"}})
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	want := `Bob updated your task: "Ship release". New status: In Progress.`
	if notes[0].Message != want || notes[0].UserID != "alice" {
		t.Fatalf("unexpected note %q to %q", notes[0].Message, notes[0].UserID)
	}
	if notes[0].Category != models.CategoryInfo {
		t.Fatalf("expected info, got %s", notes[0].Category)
	}

	task.Status = models.StatusCompleted
	notes = Notes(Event{Kind: KindStatusChange, Task: task, Actor: Actor{ID: "bob"}})
	if notes[0].Category != models.CategorySuccess {
		t.Fatalf("expected success for completed, got %s", notes[0].Category)
	}
	if want := `A user updated your task: "Ship release". New status: Completed.`; notes[0].Message != want {
		t.Fatalf("unexpected anonymous message %q", notes[0].Message)
	}
}

func TestStatusChangeByCreatorIsSilent(t *testing.T) {
	notes := Notes(Event{Kind: KindStatusChange, Task: newTask("alice", "bob"), Actor: Actor{ID: "alice"}})
	if len(notes) != 0 {
		t.Fatalf("expected no note, got %d", len(notes))
	}
}

func TestHighPriorityRecipients(t *testing.T) {
	task := newTask("alice", "bob")
	task.Priority = models.PriorityHigh

	notes := Notes(Event{Kind: KindHighPriority, Task: task})
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].UserID != "bob" || notes[1].UserID != "alice" {
		t.Fatalf("unexpected recipients %q, %q", notes[0].UserID, notes[1].UserID)
	}
	want := `URGENT: High Priority Task assigned: "Ship release". Due on: Mar 4, 2025. Please review immediately.`
	for _, n := range notes {
		if n.Message != want || n.Category != models.CategoryError {
			t.Fatalf("unexpected note %q (%s)", n.Message, n.Category)
		}
	}

	self := newTask("alice", "alice")
	self.Priority = models.PriorityHigh
	if notes := Notes(Event{Kind: KindHighPriority, Task: self}); len(notes) != 1 {
		t.Fatalf("expected 1 note for self-assigned task, got %d", len(notes))
	}

	low := newTask("alice", "bob")
	if notes := Notes(Event{Kind: KindHighPriority, Task: low}); len(notes) != 0 {
		t.Fatalf("expected no note for medium priority, got %d", len(notes))
	}
}
