package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

// DefaultNotificationsLimit caps how many notifications a listing returns.
const DefaultNotificationsLimit = 50

// Sender stores a single notification and delivers it to its recipient.
type Sender interface {
	Send(ctx context.Context, n *models.Notification) error
}

type notificationServiceImpl struct {
	logger        zerolog.Logger
	notifications storage.NotificationRepository
	sender        Sender
	limit         int
}

func NewNotificationService(
	logger zerolog.Logger,
	notifications storage.NotificationRepository,
	sender Sender,
	limit int,
) NotificationService {
	if limit <= 0 {
		limit = DefaultNotificationsLimit
	}
	return &notificationServiceImpl{
		logger:        logger,
		notifications: notifications,
		sender:        sender,
		limit:         limit,
	}
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, params ListNotificationsParams) ([]*models.Notification, error) {
	notes, err := s.notifications.ListNotifications(ctx, storage.NotificationFilter{
		UserID: params.UserID,
		Source: params.Source,
		Limit:  s.limit,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to select notifications")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(notes)).
		Str("user_id", params.UserID).
		Msg("selected notifications")
	return notes, nil
}

func (s *notificationServiceImpl) CreateNotification(ctx context.Context, params CreateNotificationParams) (*models.Notification, error) {
	message := strings.TrimSpace(params.Message)
	if message == "" || params.Source == "" {
		return nil, fmt.Errorf("%w: message and source are required", ErrValidation)
	}

	n := &models.Notification{
		UserID:    params.UserID,
		Message:   message,
		Category:  params.Category,
		Source:    params.Source,
		RelatedID: params.RelatedID,
	}
	err := s.sender.Send(ctx, n)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to create notification")
		return nil, err
	}

	s.logger.Info().
		Str("notification_id", n.ID).
		Str("user_id", n.UserID).
		Str("source", string(n.Source)).
		Msg("created notification")
	return n, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, notificationID, userID string) error {
	err := s.notifications.MarkNotificationRead(ctx, notificationID, userID)
	if err != nil {
		return s.storeError(err, notificationID, "failed to mark notification read")
	}

	s.logger.Info().
		Str("notification_id", notificationID).
		Str("user_id", userID).
		Msg("marked notification read")
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	affected, err := s.notifications.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to mark all notifications read")
		return 0, err
	}

	s.logger.Info().
		Int64("affected", affected).
		Str("user_id", userID).
		Msg("marked all notifications read")
	return affected, nil
}

func (s *notificationServiceImpl) DeleteNotification(ctx context.Context, notificationID, userID string) error {
	err := s.notifications.DeleteNotification(ctx, notificationID, userID)
	if err != nil {
		return s.storeError(err, notificationID, "failed to delete notification")
	}

	s.logger.Info().
		Str("notification_id", notificationID).
		Str("user_id", userID).
		Msg("deleted notification")
	return nil
}

func (s *notificationServiceImpl) storeError(err error, notificationID, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Error().
			Str("notification_id", notificationID).
			Msg("notification not found")
		return ErrNotificationNotFound
	}

	s.logger.Error().
		Err(err).
		Str("notification_id", notificationID).
		Msg(msg)
	return err
}
