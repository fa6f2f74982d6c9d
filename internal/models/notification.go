package models

import (
	"fmt"
	"time"
)

type NotificationCategory string

const (
	CategorySuccess NotificationCategory = "success"
	CategoryInfo    NotificationCategory = "info"
	CategoryWarning NotificationCategory = "warning"
	CategoryError   NotificationCategory = "error"
)

type NotificationSource string

const (
	SourceTask     NotificationSource = "Task"
	SourceCalendar NotificationSource = "Calendar"
	SourceProfile  NotificationSource = "Profile"
	SourceGeneral  NotificationSource = "General"
)

type Notification struct {
	ID        string
	UserID    string
	Message   string
	Category  NotificationCategory
	Read      bool
	RelatedID *string
	Source    NotificationSource
	CreatedAt time.Time
}

func ParseNotificationCategory(s string) (NotificationCategory, error) {
	switch normalizeEnum(s) {
	case "success":
		return CategorySuccess, nil
	case "info":
		return CategoryInfo, nil
	case "warning":
		return CategoryWarning, nil
	case "error":
		return CategoryError, nil
	}
	return "", fmt.Errorf("invalid notification type %q", s)
}

func ParseNotificationSource(s string) (NotificationSource, error) {
	switch normalizeEnum(s) {
	case "task":
		return SourceTask, nil
	case "calendar":
		return SourceCalendar, nil
	case "profile":
		return SourceProfile, nil
	case "general":
		return SourceGeneral, nil
	}
	return "", fmt.Errorf("invalid notification source %q", s)
}
