package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type TaskType string

const (
	TypeTask     TaskType = "Task"
	TypeEvent    TaskType = "Event"
	TypeMeeting  TaskType = "Meeting"
	TypeReminder TaskType = "Reminder"
)

// TitleMinLength is the shortest accepted task title after trimming.
const TitleMinLength = 3

type Task struct {
	ID            string
	Title         string
	Description   string
	Status        TaskStatus
	Priority      TaskPriority
	Type          TaskType
	StartDateTime time.Time
	EndDateTime   *time.Time
	CreatedBy     string
	AssignedTo    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated on reads, never persisted.
	Creator  *UserSummary
	Assignee *UserSummary
}

// IsCreator reports whether userID originated the task.
func (t *Task) IsCreator(userID string) bool {
	return t.CreatedBy == userID
}

// IsAssignee reports whether userID is the task's assignee.
func (t *Task) IsAssignee(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// AssigneeID returns the assignee id or an empty string.
func (t *Task) AssigneeID() string {
	if t.AssignedTo == nil {
		return ""
	}
	return *t.AssignedTo
}

// Rank orders priorities so that High sorts above Medium above Low.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch normalizeEnum(s) {
	case "pending":
		return StatusPending, nil
	case "in progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid task status %q", s)
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	switch normalizeEnum(s) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid task priority %q", s)
}

func ParseTaskType(s string) (TaskType, error) {
	switch normalizeEnum(s) {
	case "task":
		return TypeTask, nil
	case "event":
		return TypeEvent, nil
	case "meeting":
		return TypeMeeting, nil
	case "reminder":
		return TypeReminder, nil
	}
	return "", fmt.Errorf("invalid task type %q", s)
}

// normalizeEnum lowercases s and folds '-' and '_' into spaces,
// so "In-Progress", "in_progress" and "IN PROGRESS" compare equal.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}
