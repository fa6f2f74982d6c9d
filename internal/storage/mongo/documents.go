package mongo

import (
	"time"

	"github.com/adanyl0v/taskboard/internal/models"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	Password     string    `bson:"password,omitempty"`
	AuthProvider string    `bson:"auth_provider"`
	Role         string    `bson:"role"`
	ProfilePic   string    `bson:"profile_pic"`
	Address      string    `bson:"address"`
	Contact      string    `bson:"contact"`
	City         string    `bson:"city"`
	State        string    `bson:"state"`
	PinCode      string    `bson:"pin_code"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newUserDocument(u *models.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Password:     u.Password,
		AuthProvider: string(u.AuthProvider),
		Role:         string(u.Role),
		ProfilePic:   u.ProfilePic,
		Address:      u.Address,
		Contact:      u.Contact,
		City:         u.City,
		State:        u.State,
		PinCode:      u.PinCode,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) model() *models.User {
	return &models.User{
		ID:           d.ID,
		Email:        d.Email,
		Name:         d.Name,
		Password:     d.Password,
		AuthProvider: models.AuthProvider(d.AuthProvider),
		Role:         models.Role(d.Role),
		ProfilePic:   d.ProfilePic,
		Address:      d.Address,
		Contact:      d.Contact,
		City:         d.City,
		State:        d.State,
		PinCode:      d.PinCode,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type sessionDocument struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"user_id"`
	Fingerprint  string    `bson:"fingerprint"`
	RefreshToken string    `bson:"refresh_token"`
	ExpiresAt    time.Time `bson:"expires_at"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d sessionDocument) model() *models.Session {
	s := models.Session(d)
	return &s
}

type taskDocument struct {
	ID            string     `bson:"_id"`
	Title         string     `bson:"title"`
	Description   string     `bson:"description"`
	Status        string     `bson:"status"`
	Priority      string     `bson:"priority"`
	Type          string     `bson:"type"`
	StartDateTime time.Time  `bson:"start_date_time"`
	EndDateTime   *time.Time `bson:"end_date_time"`
	CreatedBy     string     `bson:"created_by"`
	AssignedTo    *string    `bson:"assigned_to"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func newTaskDocument(t *models.Task) taskDocument {
	return taskDocument{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		Type:          string(t.Type),
		StartDateTime: t.StartDateTime,
		EndDateTime:   t.EndDateTime,
		CreatedBy:     t.CreatedBy,
		AssignedTo:    t.AssignedTo,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (d taskDocument) model() *models.Task {
	return &models.Task{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Status:        models.TaskStatus(d.Status),
		Priority:      models.TaskPriority(d.Priority),
		Type:          models.TaskType(d.Type),
		StartDateTime: d.StartDateTime,
		EndDateTime:   d.EndDateTime,
		CreatedBy:     d.CreatedBy,
		AssignedTo:    d.AssignedTo,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type notificationDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Message   string    `bson:"message"`
	Type      string    `bson:"type"`
	Read      bool      `bson:"read"`
	RelatedID *string   `bson:"related_id"`
	Source    string    `bson:"source"`
	CreatedAt time.Time `bson:"created_at"`
}

func newNotificationDocument(n *models.Notification) notificationDocument {
	return notificationDocument{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		Type:      string(n.Category),
		Read:      n.Read,
		RelatedID: n.RelatedID,
		Source:    string(n.Source),
		CreatedAt: n.CreatedAt,
	}
}

func (d notificationDocument) model() *models.Notification {
	return &models.Notification{
		ID:        d.ID,
		UserID:    d.UserID,
		Message:   d.Message,
		Category:  models.NotificationCategory(d.Type),
		Read:      d.Read,
		RelatedID: d.RelatedID,
		Source:    models.NotificationSource(d.Source),
		CreatedAt: d.CreatedAt,
	}
}
