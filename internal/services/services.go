package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/taskboard/internal/models"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrForbidden            = errors.New("access denied")
	ErrNotFound             = errors.New("not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
)

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes the sessions the user opened with the same fingerprint and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password. Accounts
	// without a local password are rejected with ErrUnauthenticated.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given name, email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

// TaskService owns the task lifecycle. Only the creator and the assignee
// of a task can see or change it; only the creator can delete it.
type TaskService interface {
	// CreateTask validates and stores a task created by params.CreatorID
	// and emits the assignment and high-priority notifications.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	GetTask(ctx context.Context, taskID, requesterID string) (*models.Task, error)

	// ListTasks returns the tasks the requester created or is assigned to,
	// ordered by start time and then by priority, highest first.
	ListTasks(ctx context.Context, requesterID string) ([]*models.Task, error)

	// UpdateTask applies a partial update. Notifications fire in the order
	// assignment, status change, high priority.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error)

	DeleteTask(ctx context.Context, taskID, requesterID string) error
}

type NotificationService interface {
	ListNotifications(ctx context.Context, params ListNotificationsParams) ([]*models.Notification, error)
	CreateNotification(ctx context.Context, params CreateNotificationParams) (*models.Notification, error)

	// MarkRead returns ErrNotificationNotFound when the notification
	// doesn't exist or belongs to someone else.
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, notificationID, userID string) error
}

type UserService interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error)
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)

	// ChangeRole returns ErrForbidden when the admin targets themselves.
	ChangeRole(ctx context.Context, params ChangeRoleParams) (*models.User, error)

	// DeleteUser removes the user along with every task they created and
	// unassigns them from the rest.
	DeleteUser(ctx context.Context, targetID, adminID string) error

	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	CreatorID     string
	Title         string
	Description   string
	Type          models.TaskType
	Status        models.TaskStatus
	Priority      models.TaskPriority
	StartDateTime time.Time
	EndDateTime   *time.Time
	AssignedTo    *string
}

// UpdateTaskParams carries a partial update; nil fields are left as is.
// An empty AssignedTo clears the assignee.
type UpdateTaskParams struct {
	ID            string
	RequesterID   string
	Title         *string
	Description   *string
	Type          *models.TaskType
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	StartDateTime *time.Time
	EndDateTime   *time.Time
	AssignedTo    *string
}

type UpdateTaskStatusParams struct {
	ID          string
	RequesterID string
	Status      models.TaskStatus
}

type ListNotificationsParams struct {
	UserID string
	Source *models.NotificationSource
}

type CreateNotificationParams struct {
	UserID    string
	Message   string
	Category  models.NotificationCategory
	Source    models.NotificationSource
	RelatedID *string
}

type UpdateProfileParams struct {
	UserID  string
	Name    *string
	Address *string
	Contact *string
	City    *string
	State   *string
	PinCode *string
}

type ChangeRoleParams struct {
	TargetID string
	AdminID  string
	Role     models.Role
}

type TaskStat struct {
	Status    models.TaskStatus
	CreatedAt time.Time
}

type DashboardStats struct {
	TotalUsers int64
	TotalTasks int64
	AllTasks   []TaskStat
}
