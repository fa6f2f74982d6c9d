// Package notify turns task lifecycle events into notifications and
// delivers them to their recipients.
package notify

import (
	"fmt"

	"github.com/adanyl0v/taskboard/internal/models"
)

// DueDateLayout formats a task start time inside notification text.
const DueDateLayout = "Jan 2, 2006"

const anonymousActor = "A user"

type Kind int

const (
	KindAssignment Kind = iota + 1
	KindStatusChange
	KindHighPriority
)

func (k Kind) String() string {
	switch k {
	case KindAssignment:
		return "assignment"
	case KindStatusChange:
		return "status_change"
	case KindHighPriority:
		return "high_priority"
	default:
		return "unknown"
	}
}

// Actor is the user whose action triggered the event.
type Actor struct {
	ID   string
	Name string
}

type Event struct {
	Kind  Kind
	Task  *models.Task
	Actor Actor
}

// Notes returns the notifications an event produces. The result has no
// ids or timestamps; those are assigned when the notes are stored.
// An event that does not satisfy its rule yields nil.
func Notes(e Event) []*models.Notification {
	if e.Task == nil {
		return nil
	}

	switch e.Kind {
	case KindAssignment:
		return assignment(e.Task)
	case KindStatusChange:
		return statusChange(e.Task, e.Actor)
	case KindHighPriority:
		return highPriority(e.Task)
	default:
		return nil
	}
}

func assignment(t *models.Task) []*models.Notification {
	assignee := t.AssigneeID()
	if assignee == "" || assignee == t.CreatedBy {
		return nil
	}

	msg := fmt.Sprintf("You have been assigned a new %s: \"%s\". Due on: %s.",
		t.Type, t.Title, t.StartDateTime.Format(DueDateLayout))
	return []*models.Notification{
		newTaskNote(assignee, msg, models.CategoryInfo, t.ID),
	}
}

func statusChange(t *models.Task, actor Actor) []*models.Notification {
	if actor.ID == t.CreatedBy {
		return nil
	}

	name := actor.Name
	if name == "" {
		name = anonymousActor
	}

	category := models.CategoryInfo
	if t.Status == models.StatusCompleted {
		category = models.CategorySuccess
	}

	msg := fmt.Sprintf("%s updated your task: \"%s\". New status: %s.", name, t.Title, t.Status)
	return []*models.Notification{
		newTaskNote(t.CreatedBy, msg, category, t.ID),
	}
}

func highPriority(t *models.Task) []*models.Notification {
	if t.Priority != models.PriorityHigh {
		return nil
	}

	msg := fmt.Sprintf("URGENT: High Priority %s assigned: \"%s\". Due on: %s. Please review immediately.",
		t.Type, t.Title, t.StartDateTime.Format(DueDateLayout))

	var notes []*models.Notification
	assignee := t.AssigneeID()
	if assignee != "" {
		notes = append(notes, newTaskNote(assignee, msg, models.CategoryError, t.ID))
	}
	if assignee != t.CreatedBy {
		notes = append(notes, newTaskNote(t.CreatedBy, msg, models.CategoryError, t.ID))
	}
	return notes
}

func newTaskNote(userID, msg string, category models.NotificationCategory, taskID string) *models.Notification {
	related := taskID
	return &models.Notification{
		UserID:    userID,
		Message:   msg,
		Category:  category,
		RelatedID: &related,
		Source:    models.SourceTask,
	}
}
