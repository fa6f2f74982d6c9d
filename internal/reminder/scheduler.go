package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
)

// HighPriorityAck names the acknowledgement of the recurring high-priority alert.
const HighPriorityAck = "high_priority"

type TaskSource interface {
	ListTasks(ctx context.Context) ([]*models.Task, error)
}

// Notifier records an alert as a Calendar notification on the server.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

type StateStore interface {
	Snoozes(ctx context.Context, now time.Time) (map[string]time.Time, error)
	LastAcknowledged(ctx context.Context, name string) (time.Time, error)
	Acknowledge(ctx context.Context, name string, at time.Time) error
}

type Options struct {
	Rules                Rules
	PollInterval         time.Duration
	HighPriorityCooldown time.Duration
	HighPriorityCheck    time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

type Scheduler struct {
	logger   zerolog.Logger
	tasks    TaskSource
	notifier Notifier
	state    StateStore
	opts     Options

	// Only touched by the polling goroutine.
	reminded Reminded

	mu           sync.RWMutex
	highPriority []*models.Task
	alertRaised  bool
	raisedAt     time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(
	logger zerolog.Logger,
	tasks TaskSource,
	notifier Notifier,
	state StateStore,
	opts Options,
) *Scheduler {
	if opts.Rules.Lead == 0 {
		opts.Rules.Lead = DefaultLead
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.HighPriorityCooldown == 0 {
		opts.HighPriorityCooldown = DefaultHighPriorityCooldown
	}
	if opts.HighPriorityCheck == 0 {
		opts.HighPriorityCheck = DefaultHighPriorityCheck
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Scheduler{
		logger:   logger,
		tasks:    tasks,
		notifier: notifier,
		state:    state,
		opts:     opts,
		reminded: make(Reminded),
	}
}

// Start runs an immediate tick and then polls until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info().
		Dur("poll_interval", s.opts.PollInterval).
		Dur("lead", s.opts.Rules.Lead).
		Int("night_hour", s.opts.Rules.NightHour).
		Msg("starting reminder scheduler")

	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	poll := time.NewTicker(s.opts.PollInterval)
	defer poll.Stop()
	check := time.NewTicker(s.opts.HighPriorityCheck)
	defer check.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			s.Tick(ctx)
		case <-check.C:
			s.CheckHighPriority(ctx)
		}
	}
}

// Stop cancels polling and waits for the running tick to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info().Msg("stopped reminder scheduler")
}

// Tick refetches tasks, emits due reminders and refreshes the high-priority
// set. A failed refetch is logged and the previous state is kept.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.opts.Now()

	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load tasks")
		return
	}

	snoozes, err := s.state.Snoozes(ctx, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load snoozes")
		snoozes = nil
	}

	alerts, reminded := Evaluate(tasks, now, s.reminded, snoozes, s.opts.Rules)
	s.reminded = reminded

	for _, alert := range alerts {
		s.logger.Warn().
			Str("task_id", alert.Key.TaskID).
			Str("reminder", string(alert.Key.Kind)).
			Msg(alert.Message)

		err = s.notifier.Notify(ctx, alert)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("task_id", alert.Key.TaskID).
				Msg("failed to record reminder notification")
		}
	}
	s.logger.Debug().
		Int("tasks", len(tasks)).
		Int("alerts", len(alerts)).
		Msg("checked reminders")

	s.mu.Lock()
	s.highPriority = OpenHighPriority(tasks)
	s.mu.Unlock()

	s.CheckHighPriority(ctx)
}

// CheckHighPriority raises the recurring alert when it is due. A raised
// alert stays up until it is acknowledged, either through Acknowledge or
// by another process writing to the same state store.
func (s *Scheduler) CheckHighPriority(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastAck, err := s.state.LastAcknowledged(ctx, HighPriorityAck)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load last acknowledgement")
		return
	}

	if s.alertRaised {
		if lastAck.After(s.raisedAt) {
			s.alertRaised = false
			s.logger.Info().
				Time("acknowledged_at", lastAck).
				Msg("high priority alert acknowledged")
		}
		return
	}

	now := s.opts.Now()
	if !HighPriorityDue(s.highPriority, now, lastAck, s.opts.HighPriorityCooldown) {
		return
	}
	s.alertRaised = true
	s.raisedAt = now

	ids := make([]string, 0, len(s.highPriority))
	for _, t := range s.highPriority {
		ids = append(ids, t.ID)
	}
	s.logger.Warn().
		Int("count", len(ids)).
		Strs("task_ids", ids).
		Msg("you have open high priority tasks, run `taskboard ack` to dismiss")
}

// Acknowledge lowers the high-priority alert and starts a new cooldown.
func (s *Scheduler) Acknowledge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.state.Acknowledge(ctx, HighPriorityAck, s.opts.Now())
	if err != nil {
		return err
	}
	s.alertRaised = false
	return nil
}

// HighPriorityAlert reports whether the alert is raised and the tasks
// behind it.
func (s *Scheduler) HighPriorityAlert() (bool, []*models.Task) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alertRaised, s.highPriority
}
