package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage/sqlite"
)

type MockTaskSource struct {
	ListTasksFunc func(ctx context.Context) ([]*models.Task, error)
}

func (m *MockTaskSource) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return m.ListTasksFunc(ctx)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	sent   chan Alert
}

func (n *recordingNotifier) Notify(_ context.Context, alert Alert) error {
	n.mu.Lock()
	n.alerts = append(n.alerts, alert)
	n.mu.Unlock()
	if n.sent != nil {
		n.sent <- alert
	}
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type schedulerFixture struct {
	clock    *clock
	state    *sqlite.State
	notifier *recordingNotifier
	tasks    []*models.Task
	fetchErr error
	sched    *Scheduler
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()

	state, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	t.Cleanup(func() { _ = state.Close() })

	f := &schedulerFixture{
		clock:    &clock{now: at(4, 10, 0)},
		state:    state,
		notifier: &recordingNotifier{},
	}
	source := &MockTaskSource{
		ListTasksFunc: func(context.Context) ([]*models.Task, error) {
			if f.fetchErr != nil {
				return nil, f.fetchErr
			}
			return f.tasks, nil
		},
	}
	f.sched = NewScheduler(zerolog.Nop(), source, f.notifier, state, Options{
		Rules: DefaultRules(),
		Now:   f.clock.Now,
	})
	return f
}

func TestSchedulerTickNotifiesOnce(t *testing.T) {
	f := newSchedulerFixture(t)
	f.tasks = []*models.Task{newTask("t1", "Standup", f.clock.Now().Add(5*time.Minute))}
	ctx := context.Background()

	f.sched.Tick(ctx)
	f.clock.Advance(time.Minute)
	f.sched.Tick(ctx)

	if f.notifier.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", f.notifier.count())
	}
	if f.notifier.alerts[0].Key.TaskID != "t1" {
		t.Fatalf("unexpected alert %v", f.notifier.alerts[0].Key)
	}
}

func TestSchedulerTickKeepsGoingAfterFetchError(t *testing.T) {
	f := newSchedulerFixture(t)
	f.tasks = []*models.Task{newTask("t1", "Standup", f.clock.Now().Add(5*time.Minute))}
	f.fetchErr = errors.New("connection refused")
	ctx := context.Background()

	f.sched.Tick(ctx)
	if f.notifier.count() != 0 {
		t.Fatalf("expected no notification on failed fetch, got %d", f.notifier.count())
	}

	f.fetchErr = nil
	f.sched.Tick(ctx)
	if f.notifier.count() != 1 {
		t.Fatalf("expected 1 notification after recovery, got %d", f.notifier.count())
	}
}

func TestSchedulerRespectsSnooze(t *testing.T) {
	f := newSchedulerFixture(t)
	f.tasks = []*models.Task{newTask("t1", "Standup", f.clock.Now().Add(5*time.Minute))}
	ctx := context.Background()

	if err := f.state.Snooze(ctx, "t1", f.clock.Now().Add(DefaultSnooze)); err != nil {
		t.Fatalf("snooze: %v", err)
	}

	f.sched.Tick(ctx)
	if f.notifier.count() != 0 {
		t.Fatalf("expected snoozed task to stay quiet, got %d", f.notifier.count())
	}
}

func TestSchedulerHighPriorityAlert(t *testing.T) {
	f := newSchedulerFixture(t)
	task := newTask("t1", "Incident review", f.clock.Now().Add(3*time.Hour))
	task.Priority = models.PriorityHigh
	f.tasks = []*models.Task{task}
	ctx := context.Background()

	f.sched.Tick(ctx)
	raised, tasks := f.sched.HighPriorityAlert()
	if !raised || len(tasks) != 1 {
		t.Fatalf("expected alert for 1 task, got raised=%v tasks=%d", raised, len(tasks))
	}

	if err := f.sched.Acknowledge(ctx); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if raised, _ = f.sched.HighPriorityAlert(); raised {
		t.Fatalf("expected alert to be lowered")
	}

	f.clock.Advance(30 * time.Minute)
	f.sched.CheckHighPriority(ctx)
	if raised, _ = f.sched.HighPriorityAlert(); raised {
		t.Fatalf("expected cooldown to hold the alert")
	}

	f.clock.Advance(61 * time.Minute)
	f.sched.CheckHighPriority(ctx)
	if raised, _ = f.sched.HighPriorityAlert(); !raised {
		t.Fatalf("expected alert once the cooldown elapsed")
	}
}

func TestSchedulerHighPriorityAcknowledgedElsewhere(t *testing.T) {
	f := newSchedulerFixture(t)
	task := newTask("t1", "Incident review", f.clock.Now().Add(3*time.Hour))
	task.Priority = models.PriorityHigh
	f.tasks = []*models.Task{task}
	ctx := context.Background()

	f.sched.Tick(ctx)
	if raised, _ := f.sched.HighPriorityAlert(); !raised {
		t.Fatalf("expected alert to be raised")
	}

	err := f.state.Acknowledge(ctx, HighPriorityAck, f.clock.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	f.clock.Advance(30 * time.Second)
	f.sched.CheckHighPriority(ctx)
	if raised, _ := f.sched.HighPriorityAlert(); raised {
		t.Fatalf("expected alert acknowledged by another process to be lowered")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	f := newSchedulerFixture(t)
	f.tasks = []*models.Task{newTask("t1", "Standup", f.clock.Now().Add(5*time.Minute))}
	f.notifier.sent = make(chan Alert, 1)

	f.sched.Start(context.Background())
	select {
	case alert := <-f.notifier.sent:
		if alert.Key.Kind != KindTime {
			t.Fatalf("unexpected alert kind %s", alert.Key.Kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected the first tick to run immediately")
	}
	f.sched.Stop()
}
