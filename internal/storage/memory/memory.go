// Package memory is a process-local store used by tests and the
// STORAGE_DRIVER=memory development mode. Records are copied on the
// way in and out so callers never alias stored values.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

type DB struct {
	mu            sync.RWMutex
	users         map[string]models.User
	sessions      map[string]models.Session
	tasks         map[string]models.Task
	notifications map[string]models.Notification
}

func New() *DB {
	return &DB{
		users:         make(map[string]models.User),
		sessions:      make(map[string]models.Session),
		tasks:         make(map[string]models.Task),
		notifications: make(map[string]models.Notification),
	}
}

// Store exposes db through the storage repository set.
func (db *DB) Store() *storage.Store {
	return &storage.Store{
		Users:         db,
		Sessions:      db,
		Tasks:         db,
		Notifications: db,
	}
}

func (db *DB) CreateUser(_ context.Context, user *models.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return storage.ErrDuplicate
		}
	}
	db.users[user.ID] = *user
	return nil
}

func (db *DB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (db *DB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (db *DB) ListUsers(_ context.Context, excludeRole models.Role) ([]*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	users := make([]*models.User, 0, len(db.users))
	for _, u := range db.users {
		if u.Role == excludeRole {
			continue
		}
		users = append(users, &u)
	}
	slices.SortFunc(users, func(a, b *models.User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return users, nil
}

func (db *DB) CountUsers(_ context.Context, excludeRole models.Role) (int64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var n int64
	for _, u := range db.users {
		if u.Role != excludeRole {
			n++
		}
	}
	return n, nil
}

func (db *DB) UpdateUserProfile(_ context.Context, user *models.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}
	u.Name = user.Name
	u.Address = user.Address
	u.Contact = user.Contact
	u.City = user.City
	u.State = user.State
	u.PinCode = user.PinCode
	u.ProfilePic = user.ProfilePic
	u.UpdatedAt = user.UpdatedAt
	db.users[u.ID] = u
	return nil
}

func (db *DB) UpdateUserRole(_ context.Context, id string, role models.Role) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Role = role
	db.users[id] = u
	return nil
}

func (db *DB) DeleteUser(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(db.users, id)
	return nil
}

func (db *DB) CreateSession(_ context.Context, session *models.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.sessions[session.ID] = *session
	return nil
}

func (db *DB) GetSessionByID(_ context.Context, id string) (*models.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s, ok := db.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &s, nil
}

func (db *DB) GetSessionByRefreshToken(_ context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, s := range db.sessions {
		if s.RefreshToken == refreshToken && s.Fingerprint == fingerprint {
			return &s, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (db *DB) UpdateSessionToken(_ context.Context, session *models.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.sessions[session.ID]
	if !ok {
		return storage.ErrNotFound
	}
	s.RefreshToken = session.RefreshToken
	s.ExpiresAt = session.ExpiresAt
	s.UpdatedAt = session.UpdatedAt
	db.sessions[s.ID] = s
	return nil
}

func (db *DB) DeleteSessionsByUserID(_ context.Context, userID string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int64
	for id, s := range db.sessions {
		if s.UserID == userID {
			delete(db.sessions, id)
			n++
		}
	}
	return n, nil
}

func (db *DB) DeleteSessionsByFingerprint(_ context.Context, userID, fingerprint string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int64
	for id, s := range db.sessions {
		if s.UserID == userID && s.Fingerprint == fingerprint {
			delete(db.sessions, id)
			n++
		}
	}
	return n, nil
}

func (db *DB) CreateTask(_ context.Context, task *models.Task) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tasks[task.ID]; ok {
		return storage.ErrDuplicate
	}
	db.tasks[task.ID] = copyTask(task)
	return nil
}

func (db *DB) GetTaskByID(_ context.Context, id string) (*models.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := copyTask(&t)
	return &out, nil
}

func (db *DB) ListTasksByParticipant(_ context.Context, userID string) ([]*models.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var tasks []*models.Task
	for _, t := range db.tasks {
		if t.IsCreator(userID) || t.IsAssignee(userID) {
			out := copyTask(&t)
			tasks = append(tasks, &out)
		}
	}
	return tasks, nil
}

func (db *DB) ListAllTasks(_ context.Context) ([]*models.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tasks := make([]*models.Task, 0, len(db.tasks))
	for _, t := range db.tasks {
		out := copyTask(&t)
		tasks = append(tasks, &out)
	}
	slices.SortFunc(tasks, func(a, b *models.Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return tasks, nil
}

func (db *DB) UpdateTask(_ context.Context, task *models.Task) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tasks[task.ID]; !ok {
		return storage.ErrNotFound
	}
	db.tasks[task.ID] = copyTask(task)
	return nil
}

func (db *DB) DeleteTask(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(db.tasks, id)
	return nil
}

func (db *DB) DeleteTasksByCreator(_ context.Context, userID string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int64
	for id, t := range db.tasks {
		if t.CreatedBy == userID {
			delete(db.tasks, id)
			n++
		}
	}
	return n, nil
}

func (db *DB) ClearAssignee(_ context.Context, userID string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int64
	for id, t := range db.tasks {
		if t.IsAssignee(userID) {
			t.AssignedTo = nil
			db.tasks[id] = t
			n++
		}
	}
	return n, nil
}

func (db *DB) CreateNotification(_ context.Context, notification *models.Notification) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := *notification
	if n.RelatedID != nil {
		related := *n.RelatedID
		n.RelatedID = &related
	}
	db.notifications[n.ID] = n
	return nil
}

func (db *DB) ListNotifications(_ context.Context, filter storage.NotificationFilter) ([]*models.Notification, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var notes []*models.Notification
	for _, n := range db.notifications {
		if n.UserID != filter.UserID {
			continue
		}
		if filter.Source != nil && n.Source != *filter.Source {
			continue
		}
		notes = append(notes, &n)
	}
	slices.SortFunc(notes, func(a, b *models.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if filter.Limit > 0 && len(notes) > filter.Limit {
		notes = notes[:filter.Limit]
	}
	return notes, nil
}

func (db *DB) MarkNotificationRead(_ context.Context, id, userID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n, ok := db.notifications[id]
	if !ok || n.UserID != userID {
		return storage.ErrNotFound
	}
	n.Read = true
	db.notifications[id] = n
	return nil
}

func (db *DB) MarkAllNotificationsRead(_ context.Context, userID string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var count int64
	for id, n := range db.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			db.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (db *DB) DeleteNotification(_ context.Context, id, userID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n, ok := db.notifications[id]
	if !ok || n.UserID != userID {
		return storage.ErrNotFound
	}
	delete(db.notifications, id)
	return nil
}

func copyTask(t *models.Task) models.Task {
	out := *t
	out.Creator = nil
	out.Assignee = nil
	if t.EndDateTime != nil {
		end := *t.EndDateTime
		out.EndDateTime = &end
	}
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		out.AssignedTo = &assignee
	}
	return out
}
