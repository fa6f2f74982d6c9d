package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

// Publisher pushes a stored notification to its connected recipient.
type Publisher interface {
	Publish(n *models.Notification)
}

type BreakerSettings struct {
	MaxFailures uint32
	Timeout     time.Duration
}

type Dispatcher struct {
	logger    zerolog.Logger
	repo      storage.NotificationRepository
	publisher Publisher
	breaker   *gobreaker.CircuitBreaker
}

func NewDispatcher(
	logger zerolog.Logger,
	repo storage.NotificationRepository,
	publisher Publisher,
	settings BreakerSettings,
) *Dispatcher {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications",
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Dispatcher{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		breaker:   breaker,
	}
}

// Emit derives the notes for e and dispatches them.
func (d *Dispatcher) Emit(ctx context.Context, e Event) {
	notes := Notes(e)
	if len(notes) == 0 {
		return
	}

	d.logger.Debug().
		Str("kind", e.Kind.String()).
		Str("task_id", e.Task.ID).
		Int("count", len(notes)).
		Msg("emitting notifications")
	d.Dispatch(ctx, notes)
}

// Dispatch stores and publishes every note. Failures are logged and
// never reach the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, notes []*models.Notification) {
	for _, n := range notes {
		err := d.Send(ctx, n)
		if err != nil {
			d.logger.Error().
				Err(err).
				Str("user_id", n.UserID).
				Str("source", string(n.Source)).
				Msg("failed to dispatch notification")
		}
	}
}

// Send assigns an id and creation time to n, persists it and pushes it
// to the recipient.
func (d *Dispatcher) Send(ctx context.Context, n *models.Notification) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate notification uuid: %w", err)
	}
	n.ID = id.String()
	n.CreatedAt = time.Now()
	if n.Category == "" {
		n.Category = models.CategoryInfo
	}

	_, err = d.breaker.Execute(func() (any, error) {
		return nil, d.repo.CreateNotification(ctx, n)
	})
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	d.logger.Debug().
		Str("notification_id", n.ID).
		Str("user_id", n.UserID).
		Msg("inserted notification")

	if d.publisher != nil {
		d.publisher.Publish(n)
	}
	return nil
}
