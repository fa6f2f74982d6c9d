package reminder

import (
	"testing"
	"time"

	"github.com/adanyl0v/taskboard/internal/models"
)

func newTask(id, title string, start time.Time) *models.Task {
	return &models.Task{
		ID:            id,
		Title:         title,
		Type:          models.TypeTask,
		Status:        models.StatusPending,
		Priority:      models.PriorityMedium,
		StartDateTime: start,
	}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func TestEvaluateTimeWindowFiresOnce(t *testing.T) {
	now := at(4, 10, 0)
	task := newTask("t1", "Standup", now.Add(5*time.Minute))

	alerts, reminded := Evaluate([]*models.Task{task}, now, nil, nil, DefaultRules())
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Key != (Key{TaskID: "t1", Kind: KindTime}) {
		t.Fatalf("unexpected key %v", alerts[0].Key)
	}
	want := "Task Reminder: \"Standup\" starts in 5 minutes at 10:05 AM!"
	if alerts[0].Message != want {
		t.Fatalf("expected %q, got %q", want, alerts[0].Message)
	}

	alerts, _ = Evaluate([]*models.Task{task}, now.Add(time.Minute), reminded, nil, DefaultRules())
	if len(alerts) != 0 {
		t.Fatalf("expected no repeated alert, got %d", len(alerts))
	}
}

func TestEvaluateTimeWindowBounds(t *testing.T) {
	now := at(4, 10, 0)

	cases := []struct {
		name  string
		start time.Time
		fires bool
	}{
		{"opens at lead", now.Add(10 * time.Minute), true},
		{"before lead", now.Add(10*time.Minute + time.Second), false},
		{"starting now", now, false},
		{"already started", now.Add(-time.Minute), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := newTask("t1", "Standup", tc.start)
			alerts, _ := Evaluate([]*models.Task{task}, now, nil, nil, DefaultRules())
			if got := len(alerts) == 1; got != tc.fires {
				t.Fatalf("expected fires=%v, got %d alerts", tc.fires, len(alerts))
			}
		})
	}
}

func TestEvaluateRoundsMinutesUp(t *testing.T) {
	now := at(4, 10, 0)
	task := newTask("t1", "Standup", now.Add(4*time.Minute+30*time.Second))

	alerts, _ := Evaluate([]*models.Task{task}, now, nil, nil, DefaultRules())
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	want := "Task Reminder: \"Standup\" starts in 5 minutes at 10:04 AM!"
	if alerts[0].Message != want {
		t.Fatalf("expected %q, got %q", want, alerts[0].Message)
	}
}

func TestEvaluateNightBefore(t *testing.T) {
	task := newTask("t1", "Ship release", at(5, 9, 0))

	alerts, _ := Evaluate([]*models.Task{task}, at(4, 20, 59), nil, nil, DefaultRules())
	if len(alerts) != 0 {
		t.Fatalf("expected no alert before 21:00, got %d", len(alerts))
	}

	alerts, reminded := Evaluate([]*models.Task{task}, at(4, 22, 0), nil, nil, DefaultRules())
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Key.Kind != KindNightBefore {
		t.Fatalf("expected night before alert, got %s", alerts[0].Key.Kind)
	}
	want := "Heads up! Your Task \"Ship release\" is scheduled for TOMORROW at 9:00 AM!"
	if alerts[0].Message != want {
		t.Fatalf("expected %q, got %q", want, alerts[0].Message)
	}
	if !reminded[Key{TaskID: "t1", Kind: KindNightBefore}] {
		t.Fatalf("expected night before key to be recorded")
	}
}

func TestEvaluateNightBeforeSkipsTimeCheck(t *testing.T) {
	task := newTask("t1", "Deploy", at(5, 0, 3))
	now := at(4, 23, 55)

	alerts, reminded := Evaluate([]*models.Task{task}, now, nil, nil, DefaultRules())
	if len(alerts) != 1 || alerts[0].Key.Kind != KindNightBefore {
		t.Fatalf("expected only the night before alert, got %v", alerts)
	}

	alerts, _ = Evaluate([]*models.Task{task}, now, reminded, nil, DefaultRules())
	if len(alerts) != 1 || alerts[0].Key.Kind != KindTime {
		t.Fatalf("expected the time alert on the next tick, got %v", alerts)
	}
	if alerts[0].Message != "Task Reminder: \"Deploy\" starts in 8 minutes at 12:03 AM!" {
		t.Fatalf("unexpected message %q", alerts[0].Message)
	}
}

func TestEvaluateSnoozeSuppresses(t *testing.T) {
	task := newTask("t1", "Ship release", at(5, 9, 0))
	snoozes := Snoozes{"t1": at(4, 22, 10)}

	alerts, reminded := Evaluate([]*models.Task{task}, at(4, 22, 0), nil, snoozes, DefaultRules())
	if len(alerts) != 0 {
		t.Fatalf("expected snoozed task to stay quiet, got %d", len(alerts))
	}
	if len(reminded) != 0 {
		t.Fatalf("expected snoozed task not to be recorded")
	}

	alerts, _ = Evaluate([]*models.Task{task}, at(4, 22, 10), reminded, snoozes, DefaultRules())
	if len(alerts) != 1 {
		t.Fatalf("expected alert once the snooze elapsed, got %d", len(alerts))
	}
}

func TestEvaluateSkipsCompleted(t *testing.T) {
	now := at(4, 10, 0)
	task := newTask("t1", "Standup", now.Add(5*time.Minute))
	task.Status = models.StatusCompleted

	alerts, _ := Evaluate([]*models.Task{task}, now, nil, nil, DefaultRules())
	if len(alerts) != 0 {
		t.Fatalf("expected completed task to be skipped, got %d", len(alerts))
	}
}

func TestEvaluateDoesNotModifyInput(t *testing.T) {
	now := at(4, 10, 0)
	task := newTask("t1", "Standup", now.Add(5*time.Minute))
	reminded := Reminded{}

	Evaluate([]*models.Task{task}, now, reminded, nil, DefaultRules())
	if len(reminded) != 0 {
		t.Fatalf("expected input set to be untouched, got %v", reminded)
	}
}

func TestKeyString(t *testing.T) {
	key := Key{TaskID: "abc", Kind: KindNightBefore}
	if key.String() != "abc_night" {
		t.Fatalf("unexpected key %q", key.String())
	}
}

func TestHighPriorityDue(t *testing.T) {
	now := at(4, 10, 0)
	high := newTask("t1", "Incident review", now.Add(time.Hour))
	high.Priority = models.PriorityHigh
	done := newTask("t2", "Postmortem", now.Add(time.Hour))
	done.Priority = models.PriorityHigh
	done.Status = models.StatusCompleted
	low := newTask("t3", "Tidy desk", now.Add(time.Hour))
	low.Priority = models.PriorityLow

	cases := []struct {
		name    string
		tasks   []*models.Task
		lastAck time.Time
		due     bool
	}{
		{"never acknowledged", []*models.Task{high}, time.Time{}, true},
		{"within cooldown", []*models.Task{high}, now.Add(-30 * time.Minute), false},
		{"cooldown elapsed", []*models.Task{high}, now.Add(-91 * time.Minute), true},
		{"only completed", []*models.Task{done}, time.Time{}, false},
		{"no high tasks", []*models.Task{low}, time.Time{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HighPriorityDue(tc.tasks, now, tc.lastAck, DefaultHighPriorityCooldown)
			if got != tc.due {
				t.Fatalf("expected %v, got %v", tc.due, got)
			}
		})
	}
}
