package models

import "testing"

func TestParseTaskStatusNormalizesSpelling(t *testing.T) {
	cases := map[string]TaskStatus{
		"Pending":     StatusPending,
		"in progress": StatusInProgress,
		"in-progress": StatusInProgress,
		"IN_PROGRESS": StatusInProgress,
		" completed ": StatusCompleted,
	}
	for in, want := range cases {
		got, err := ParseTaskStatus(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", in, want, got)
		}
	}

	if _, err := ParseTaskStatus("archived"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestParseTaskPriorityAndType(t *testing.T) {
	p, err := ParseTaskPriority("high")
	if err != nil || p != PriorityHigh {
		t.Fatalf("expected High, got %q (%v)", p, err)
	}
	if _, err := ParseTaskPriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}

	typ, err := ParseTaskType("MEETING")
	if err != nil || typ != TypeMeeting {
		t.Fatalf("expected Meeting, got %q (%v)", typ, err)
	}
	if _, err := ParseTaskType(""); err == nil {
		t.Fatalf("expected error for empty type")
	}
}

func TestPriorityRankOrdersHighFirst(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Fatalf("unexpected priority ranks: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}

func TestTaskParticipants(t *testing.T) {
	assignee := "bob"
	task := Task{CreatedBy: "alice", AssignedTo: &assignee}

	if !task.IsCreator("alice") || task.IsCreator("bob") {
		t.Fatalf("unexpected creator check")
	}
	if !task.IsAssignee("bob") || task.IsAssignee("alice") {
		t.Fatalf("unexpected assignee check")
	}

	task.AssignedTo = nil
	if task.AssigneeID() != "" || task.IsAssignee("bob") {
		t.Fatalf("expected no assignee")
	}
}

func TestParseNotificationEnums(t *testing.T) {
	if s, err := ParseNotificationSource("calendar"); err != nil || s != SourceCalendar {
		t.Fatalf("expected Calendar, got %q (%v)", s, err)
	}
	if _, err := ParseNotificationSource("Email"); err == nil {
		t.Fatalf("expected error for unknown source")
	}
	if c, err := ParseNotificationCategory("Warning"); err != nil || c != CategoryWarning {
		t.Fatalf("expected warning, got %q (%v)", c, err)
	}
	if r, err := ParseRole("Admin"); err != nil || r != RoleAdmin {
		t.Fatalf("expected admin, got %q (%v)", r, err)
	}
}
