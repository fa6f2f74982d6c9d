package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/taskboard/internal/app"
)

// bootstrapReminder reads the reminder env, configures logging and opens
// the local state. The returned func closes the state.
func bootstrapReminder() func() {
	app.InitDefaultLogger()
	app.MustReadReminderEnv()
	app.MustInitReminderLogger()
	app.MustOpenReminderState()
	return app.CloseReminderState
}

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Poll your tasks and raise reminders before they start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeState := bootstrapReminder()
			defer closeState()

			return app.RunReminder()
		},
	}
}

func snoozeCmd() *cobra.Command {
	var (
		duration       time.Duration
		notificationID string
	)

	cmd := &cobra.Command{
		Use:   "snooze <task-id>",
		Short: "Silence the reminders of a task for a while",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closeState := bootstrapReminder()
			defer closeState()

			return app.Snooze(args[0], duration, notificationID)
		},
	}

	cmd.Flags().DurationVar(&duration, "for", 0, "how long to snooze (defaults to REMINDER_SNOOZE)")
	cmd.Flags().StringVar(&notificationID, "notification", "", "mark this notification read as well")

	return cmd
}

func ackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ack",
		Short: "Dismiss the high priority alert until the cooldown elapses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeState := bootstrapReminder()
			defer closeState()

			return app.AcknowledgeHighPriority()
		},
	}
}
