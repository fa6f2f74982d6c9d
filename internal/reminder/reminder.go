// Package reminder decides when upcoming tasks deserve an alert and runs
// the polling loop that delivers those alerts.
package reminder

import (
	"fmt"
	"math"
	"time"

	"github.com/adanyl0v/taskboard/internal/models"
)

// TimeLayout formats a task start time inside reminder text.
const TimeLayout = "3:04 PM"

const (
	DefaultLead                 = 10 * time.Minute
	DefaultNightHour            = 21
	DefaultPollInterval         = time.Minute
	DefaultHighPriorityCooldown = 90 * time.Minute
	DefaultHighPriorityCheck    = 30 * time.Second
	DefaultSnooze               = 10 * time.Minute
)

type Kind string

const (
	KindNightBefore Kind = "night"
	KindTime        Kind = "time"
)

// Key identifies one reminder of one task. Each key fires at most once
// per process.
type Key struct {
	TaskID string
	Kind   Kind
}

func (k Key) String() string {
	return k.TaskID + "_" + string(k.Kind)
}

type Reminded map[Key]bool

// Snoozes maps a task id to the time its reminders resume.
type Snoozes map[string]time.Time

type Rules struct {
	Lead      time.Duration
	NightHour int
}

func DefaultRules() Rules {
	return Rules{
		Lead:      DefaultLead,
		NightHour: DefaultNightHour,
	}
}

type Alert struct {
	Key     Key
	Task    *models.Task
	Message string
}

// Evaluate returns the alerts due at now and the reminded set extended
// with their keys. The input set is not modified. Calendar days are taken
// in now's location.
func Evaluate(tasks []*models.Task, now time.Time, reminded Reminded, snoozes Snoozes, rules Rules) ([]Alert, Reminded) {
	next := make(Reminded, len(reminded))
	for k, v := range reminded {
		next[k] = v
	}

	loc := now.Location()
	y, m, d := now.Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	nightStart := time.Date(y, m, d, rules.NightHour, 0, 0, 0, loc)

	var alerts []Alert
	for _, task := range tasks {
		if task.Status == models.StatusCompleted {
			continue
		}
		if until, ok := snoozes[task.ID]; ok && now.Before(until) {
			continue
		}

		start := task.StartDateTime.In(loc)

		nightKey := Key{TaskID: task.ID, Kind: KindNightBefore}
		if sameDay(start, tomorrow) && !now.Before(nightStart) && !next[nightKey] {
			next[nightKey] = true
			alerts = append(alerts, Alert{
				Key:  nightKey,
				Task: task,
				Message: fmt.Sprintf("Heads up! Your %s \"%s\" is scheduled for TOMORROW at %s!",
					task.Type, task.Title, start.Format(TimeLayout)),
			})
			continue
		}

		timeKey := Key{TaskID: task.ID, Kind: KindTime}
		if !now.Before(start.Add(-rules.Lead)) && now.Before(start) && !next[timeKey] {
			next[timeKey] = true
			minutes := int(math.Ceil(start.Sub(now).Minutes()))
			alerts = append(alerts, Alert{
				Key:  timeKey,
				Task: task,
				Message: fmt.Sprintf("%s Reminder: \"%s\" starts in %d minutes at %s!",
					task.Type, task.Title, minutes, start.Format(TimeLayout)),
			})
		}
	}
	return alerts, next
}

// OpenHighPriority returns the High priority tasks that are not completed.
func OpenHighPriority(tasks []*models.Task) []*models.Task {
	var open []*models.Task
	for _, t := range tasks {
		if t.Priority == models.PriorityHigh && t.Status != models.StatusCompleted {
			open = append(open, t)
		}
	}
	return open
}

// HighPriorityDue reports whether the recurring high-priority alert should
// be raised: an open High task exists and the last acknowledgement is
// older than cooldown.
func HighPriorityDue(tasks []*models.Task, now, lastAck time.Time, cooldown time.Duration) bool {
	return len(OpenHighPriority(tasks)) > 0 && now.Sub(lastAck) > cooldown
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
