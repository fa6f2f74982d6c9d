package app

import (
	"context"
	"time"

	"github.com/adanyl0v/taskboard/internal/reminder"
	"github.com/adanyl0v/taskboard/internal/storage/sqlite"
)

var globalReminderState *sqlite.State

func MustOpenReminderState() {
	var err error
	globalReminderState, err = sqlite.Open(globalReminderConfig.StatePath)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", globalReminderConfig.StatePath).
			Msg("failed to open reminder state")
		panic(err)
	}
	globalLogger.Debug().
		Str("path", globalReminderConfig.StatePath).
		Msg("opened reminder state")
}

func CloseReminderState() {
	err := globalReminderState.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close reminder state")
	}
}

func newReminderClient() *reminder.Client {
	cfg := globalReminderConfig
	return reminder.NewClient(globalLogger, cfg.APIURL, cfg.Email, cfg.Password, cfg.RequestTimeout)
}

// RunReminder polls the API and raises reminders until SIGINT or SIGTERM.
func RunReminder() error {
	cfg := globalReminderConfig
	client := newReminderClient()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	err := client.Login(ctx)
	cancel()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to sign in")
		return err
	}

	scheduler := reminder.NewScheduler(globalLogger, client, client, globalReminderState, reminder.Options{
		Rules: reminder.Rules{
			Lead:      cfg.Lead,
			NightHour: cfg.NightHour,
		},
		PollInterval:         cfg.PollInterval,
		HighPriorityCooldown: cfg.HighPriorityCooldown,
		HighPriorityCheck:    cfg.HighPriorityCheck,
	})
	scheduler.Start(context.Background())

	waitForShutdownSignal()
	scheduler.Stop()
	return nil
}

// Snooze silences the reminders of taskID for d. When notificationID is
// set, the notification that prompted the snooze is marked read as well.
func Snooze(taskID string, d time.Duration, notificationID string) error {
	if d <= 0 {
		d = globalReminderConfig.Snooze
	}
	until := time.Now().Add(d)

	ctx, cancel := context.WithTimeout(context.Background(), globalReminderConfig.RequestTimeout)
	defer cancel()

	err := globalReminderState.Snooze(ctx, taskID, until)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to snooze task")
		return err
	}
	globalLogger.Info().
		Str("task_id", taskID).
		Time("until", until).
		Msg("snoozed task reminders")

	if notificationID == "" {
		return nil
	}
	err = newReminderClient().MarkNotificationRead(ctx, notificationID)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("notification_id", notificationID).
			Msg("failed to mark notification read")
		return err
	}
	return nil
}

// AcknowledgeHighPriority dismisses the recurring high priority alert for
// the configured cooldown.
func AcknowledgeHighPriority() error {
	ctx, cancel := context.WithTimeout(context.Background(), globalReminderConfig.RequestTimeout)
	defer cancel()

	now := time.Now()
	err := globalReminderState.Acknowledge(ctx, reminder.HighPriorityAck, now)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to acknowledge high priority alert")
		return err
	}
	globalLogger.Info().
		Time("next_alert_after", now.Add(globalReminderConfig.HighPriorityCooldown)).
		Msg("acknowledged high priority alert")
	return nil
}
