// Package storage declares the repositories the services persist through.
// Implementations live in the postgres, mongo and memory subpackages and
// translate driver errors into ErrNotFound and ErrDuplicate.
package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/taskboard/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Store struct {
	Users         UserRepository
	Sessions      SessionRepository
	Tasks         TaskRepository
	Notifications NotificationRepository
}

type UserRepository interface {
	// CreateUser returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers returns users without the given role, newest first.
	ListUsers(ctx context.Context, excludeRole models.Role) ([]*models.User, error)
	CountUsers(ctx context.Context, excludeRole models.Role) (int64, error)
	UpdateUserProfile(ctx context.Context, user *models.User) error
	UpdateUserRole(ctx context.Context, id string, role models.Role) error
	DeleteUser(ctx context.Context, id string) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByID(ctx context.Context, id string) (*models.Session, error)
	GetSessionByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error)
	UpdateSessionToken(ctx context.Context, session *models.Session) error
	DeleteSessionsByUserID(ctx context.Context, userID string) (int64, error)
	// DeleteSessionsByFingerprint drops the sessions userID opened from
	// one device, leaving the others signed in.
	DeleteSessionsByFingerprint(ctx context.Context, userID, fingerprint string) (int64, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	// ListTasksByParticipant returns tasks created by or assigned to userID.
	ListTasksByParticipant(ctx context.Context, userID string) ([]*models.Task, error)
	// ListAllTasks returns every task ordered by creation time, oldest first.
	ListAllTasks(ctx context.Context) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByCreator(ctx context.Context, userID string) (int64, error)
	// ClearAssignee unassigns userID from every task assigned to them.
	ClearAssignee(ctx context.Context, userID string) (int64, error)
}

type NotificationFilter struct {
	UserID string
	Source *models.NotificationSource
	Limit  int
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	// ListNotifications returns the recipient's notifications, newest first.
	ListNotifications(ctx context.Context, filter NotificationFilter) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, id, userID string) error
}
