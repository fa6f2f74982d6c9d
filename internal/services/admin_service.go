package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

type adminServiceImpl struct {
	logger   zerolog.Logger
	users    storage.UserRepository
	sessions storage.SessionRepository
	tasks    storage.TaskRepository
}

func NewAdminService(
	logger zerolog.Logger,
	users storage.UserRepository,
	sessions storage.SessionRepository,
	tasks storage.TaskRepository,
) AdminService {
	return &adminServiceImpl{
		logger:   logger,
		users:    users,
		sessions: sessions,
		tasks:    tasks,
	}
}

func (s *adminServiceImpl) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListUsers(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(users)).
		Msg("selected users")
	return users, nil
}

func (s *adminServiceImpl) ChangeRole(ctx context.Context, params ChangeRoleParams) (*models.User, error) {
	role, err := models.ParseRole(string(params.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if params.TargetID == params.AdminID {
		s.logger.Error().
			Str("user_id", params.AdminID).
			Msg("admin tried to change own role")
		return nil, fmt.Errorf("%w: you cannot change your own role", ErrForbidden)
	}

	err = s.users.UpdateUserRole(ctx, params.TargetID, role)
	if err != nil {
		return nil, s.storeError(err, params.TargetID, "failed to update user role")
	}

	user, err := s.users.GetUserByID(ctx, params.TargetID)
	if err != nil {
		return nil, s.storeError(err, params.TargetID, "failed to select user by id")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Str("admin_id", params.AdminID).
		Msg("changed user role")
	return user, nil
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, targetID, adminID string) error {
	if targetID == adminID {
		s.logger.Error().
			Str("user_id", adminID).
			Msg("admin tried to delete own account")
		return fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
	}

	_, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return s.storeError(err, targetID, "failed to select user by id")
	}

	deleted, err := s.tasks.DeleteTasksByCreator(ctx, targetID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", targetID).
			Msg("failed to delete tasks by creator")
		return err
	}
	unassigned, err := s.tasks.ClearAssignee(ctx, targetID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", targetID).
			Msg("failed to clear assignee")
		return err
	}
	s.logger.Debug().
		Str("user_id", targetID).
		Int64("deleted_tasks", deleted).
		Int64("unassigned_tasks", unassigned).
		Msg("cleaned up user tasks")

	_, err = s.sessions.DeleteSessionsByUserID(ctx, targetID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", targetID).
			Msg("failed to delete sessions by user id")
		return err
	}

	err = s.users.DeleteUser(ctx, targetID)
	if err != nil {
		return s.storeError(err, targetID, "failed to delete user")
	}

	s.logger.Info().
		Str("user_id", targetID).
		Str("admin_id", adminID).
		Msg("deleted user")
	return nil
}

func (s *adminServiceImpl) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalUsers, err := s.users.CountUsers(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count users")
		return nil, err
	}

	tasks, err := s.tasks.ListAllTasks(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select all tasks")
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers: totalUsers,
		TotalTasks: int64(len(tasks)),
		AllTasks:   make([]TaskStat, 0, len(tasks)),
	}
	for _, t := range tasks {
		stats.AllTasks = append(stats.AllTasks, TaskStat{
			Status:    t.Status,
			CreatedAt: t.CreatedAt,
		})
	}

	s.logger.Debug().
		Int64("total_users", stats.TotalUsers).
		Int64("total_tasks", stats.TotalTasks).
		Msg("collected dashboard stats")
	return stats, nil
}

func (s *adminServiceImpl) storeError(err error, userID, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Error().
			Str("user_id", userID).
			Msg("user not found")
		return ErrUserNotFound
	}

	s.logger.Error().
		Err(err).
		Str("user_id", userID).
		Msg(msg)
	return err
}
