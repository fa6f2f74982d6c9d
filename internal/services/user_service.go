package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

type userServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserRepository
}

func NewUserService(
	logger zerolog.Logger,
	users storage.UserRepository,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
	}
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", userID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error) {
	user, err := s.GetUserByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		user.Name = name
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&user.Address, params.Address)
	set(&user.Contact, params.Contact)
	set(&user.City, params.City)
	set(&user.State, params.State)
	set(&user.PinCode, params.PinCode)
	user.UpdatedAt = time.Now()

	err = s.users.UpdateUserProfile(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user profile")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}
