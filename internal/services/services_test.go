package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/notify"
	"github.com/adanyl0v/taskboard/internal/storage/memory"
)

const testFingerprint = `{"client_ip":"127.0.0.1","user_agent":"test"}`

func newTestAuthService(db *memory.DB) AuthService {
	return NewAuthService(zerolog.Nop(), db, db, "taskboard", []byte("secret"), time.Minute, time.Hour)
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	db := memory.New()
	auth := newTestAuthService(db)
	ctx := context.Background()

	registered, err := auth.Register(ctx, RegisterParams{
		Name:        "Alice",
		Email:       " Alice@Example.com ",
		Password:    "password",
		Fingerprint: testFingerprint,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := db.GetUserByID(ctx, registered.UserID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Email != "alice@example.com" || user.Role != models.RoleBasic || user.ProfilePic != models.DefaultProfilePic {
		t.Fatalf("unexpected user %+v", user)
	}

	claims, err := auth.ParseJWTToken(registered.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != registered.SessionID {
		t.Fatalf("expected subject %q, got %q", registered.SessionID, claims.Subject)
	}

	_, err = auth.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: "password", Fingerprint: testFingerprint,
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	_, err = auth.Login(ctx, LoginParams{Email: "alice@example.com", Password: "wrong", Fingerprint: testFingerprint})
	if !errors.Is(err, ErrUserPasswordMismatch) {
		t.Fatalf("expected ErrUserPasswordMismatch, got %v", err)
	}
	_, err = auth.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "password", Fingerprint: testFingerprint})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	loggedIn, err := auth.Login(ctx, LoginParams{Email: "alice@example.com", Password: "password", Fingerprint: testFingerprint})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err = db.GetSessionByID(ctx, registered.SessionID); err == nil {
		t.Fatalf("expected previous session to be removed on login")
	}

	_, err = auth.Refresh(ctx, RefreshParams{RefreshToken: loggedIn.RefreshToken, Fingerprint: "other"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for other fingerprint, got %v", err)
	}
	refreshed, err := auth.Refresh(ctx, RefreshParams{RefreshToken: loggedIn.RefreshToken, Fingerprint: testFingerprint})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == loggedIn.RefreshToken {
		t.Fatalf("expected refresh token rotation")
	}

	if err = auth.Logout(ctx, loggedIn.UserID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = auth.Refresh(ctx, RefreshParams{RefreshToken: refreshed.RefreshToken, Fingerprint: testFingerprint})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
}

func TestLoginKeepsOtherDevicesSignedIn(t *testing.T) {
	db := memory.New()
	auth := newTestAuthService(db)
	ctx := context.Background()

	browser, err := auth.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: "password", Fingerprint: testFingerprint,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	const cliFingerprint = `{"client_ip":"127.0.0.1","user_agent":"taskboard-reminder"}`
	if _, err = auth.Login(ctx, LoginParams{Email: "alice@example.com", Password: "password", Fingerprint: cliFingerprint}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err = db.GetSessionByID(ctx, browser.SessionID); err != nil {
		t.Fatalf("expected browser session to survive, got %v", err)
	}
}

func TestLoginRejectsExternalProvider(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	err := db.CreateUser(ctx, &models.User{
		ID: "g1", Email: "g@example.com", Name: "G", AuthProvider: models.ProviderGoogle, Role: models.RoleBasic,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err = newTestAuthService(db).Login(ctx, LoginParams{Email: "g@example.com", Password: "x"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestNotificationServiceOwnership(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	dispatcher := notify.NewDispatcher(zerolog.Nop(), db, nil, notify.BreakerSettings{})
	svc := NewNotificationService(zerolog.Nop(), db, dispatcher, 2)

	_, err := svc.CreateNotification(ctx, CreateNotificationParams{UserID: "alice", Source: models.SourceGeneral})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty message, got %v", err)
	}

	var created []*models.Notification
	for _, src := range []models.NotificationSource{models.SourceTask, models.SourceCalendar, models.SourceCalendar} {
		n, err := svc.CreateNotification(ctx, CreateNotificationParams{UserID: "alice", Message: "hi", Source: src})
		if err != nil {
			t.Fatalf("create notification: %v", err)
		}
		created = append(created, n)
	}
	if created[0].Category != models.CategoryInfo {
		t.Fatalf("expected default category info, got %q", created[0].Category)
	}

	all, err := svc.ListNotifications(ctx, ListNotificationsParams{UserID: "alice"})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected listing capped at 2, got %d", len(all))
	}

	task := models.SourceTask
	filtered, err := svc.ListNotifications(ctx, ListNotificationsParams{UserID: "alice", Source: &task})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Source != models.SourceTask {
		t.Fatalf("expected only the Task notification, got %d", len(filtered))
	}

	if err = svc.MarkRead(ctx, created[0].ID, "bob"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for foreign note, got %v", err)
	}
	if err = svc.MarkRead(ctx, created[0].ID, "alice"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	affected, err := svc.MarkAllRead(ctx, "alice")
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 notes marked read, got %d", affected)
	}

	if err = svc.DeleteNotification(ctx, created[1].ID, "bob"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err = svc.DeleteNotification(ctx, created[1].ID, "alice"); err != nil {
		t.Fatalf("delete notification: %v", err)
	}
}

func TestAdminDeleteUserCascades(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	admin := NewAdminService(zerolog.Nop(), f.db, f.db, f.db)

	own := f.create(t, CreateTaskParams{CreatorID: "bob"})
	assigned := f.create(t, CreateTaskParams{CreatorID: "alice", AssignedTo: ptr("bob")})

	if err := admin.DeleteUser(ctx, "carol", "carol"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self delete, got %v", err)
	}
	if err := admin.DeleteUser(ctx, "nobody", "carol"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := admin.DeleteUser(ctx, "bob", "carol"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := f.db.GetTaskByID(ctx, own.ID); err == nil {
		t.Fatalf("expected bob's own task to be deleted")
	}
	task, err := f.db.GetTaskByID(ctx, assigned.ID)
	if err != nil {
		t.Fatalf("get assigned task: %v", err)
	}
	if task.AssignedTo != nil {
		t.Fatalf("expected bob to be unassigned")
	}
}

func TestAdminChangeRoleAndStats(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	admin := NewAdminService(zerolog.Nop(), f.db, f.db, f.db)

	if _, err := admin.ChangeRole(ctx, ChangeRoleParams{TargetID: "bob", AdminID: "carol", Role: "owner"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := admin.ChangeRole(ctx, ChangeRoleParams{TargetID: "carol", AdminID: "carol", Role: models.RoleBasic}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := admin.ChangeRole(ctx, ChangeRoleParams{TargetID: "nobody", AdminID: "carol", Role: models.RoleAdmin}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	user, err := admin.ChangeRole(ctx, ChangeRoleParams{TargetID: "carol", AdminID: "alice", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if !user.IsAdmin() {
		t.Fatalf("expected carol to be admin")
	}

	f.create(t, CreateTaskParams{CreatorID: "alice"})
	f.create(t, CreateTaskParams{CreatorID: "bob"})

	users, err := admin.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected admins to be excluded, got %d users", len(users))
	}

	stats, err := admin.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.TotalTasks != 2 || len(stats.AllTasks) != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	users := NewUserService(zerolog.Nop(), f.db)

	if _, err := users.UpdateProfile(ctx, UpdateProfileParams{UserID: "alice", Name: ptr("  ")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	user, err := users.UpdateProfile(ctx, UpdateProfileParams{UserID: "alice", City: ptr(" Pune "), PinCode: ptr("411001")})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.City != "Pune" || user.PinCode != "411001" || user.Name != "Alice" {
		t.Fatalf("unexpected profile %+v", user)
	}

	if _, err = users.GetUserByID(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
