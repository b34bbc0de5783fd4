package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/oops"

	"vibeboxing/internal/auth"
	"vibeboxing/internal/cache"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/model"
	"vibeboxing/internal/repository"
)

// UserService exposes profile operations for the signed-in user.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update model.ProfileUpdate) (*model.User, error)
	// DeleteAccount removes the user, their combos and every session they hold.
	DeleteAccount(ctx context.Context, id uint) error
}

type userService struct {
	repo     repository.UserRepository
	sessions auth.SessionStore
	lookup   *userLookup
	logger   *slog.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, sessions auth.SessionStore, cache *cache.Client, logger *slog.Logger) UserService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &userService{
		repo:     repo,
		sessions: sessions,
		lookup:   &userLookup{repo: repo, cache: cache},
		logger:   logger,
	}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.lookup.get(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("user_id", id).Wrap(err)
	}
	return user, err
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, update model.ProfileUpdate) (*model.User, error) {
	if update.Weight.Valid && update.Weight.Decimal.IsNegative() {
		return nil, fmt.Errorf("%w: weight must be positive", apperrors.ErrValidation)
	}
	if update.Height.Valid && update.Height.Decimal.IsNegative() {
		return nil, fmt.Errorf("%w: height must be positive", apperrors.ErrValidation)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, oops.Code("PROFILE_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}

	update.Apply(user)
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, oops.Code("PROFILE_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}
	s.lookup.invalidate(ctx, id)
	return user, nil
}

func (s *userService) DeleteAccount(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}
		return oops.Code("ACCOUNT_DELETE_FAILED").With("user_id", id).Wrap(err)
	}
	s.lookup.invalidate(ctx, id)
	if err := s.sessions.DeleteUser(ctx, id); err != nil {
		logging.LogError(ctx, s.logger, "delete sessions of removed account",
			oops.Code("SESSION_DELETE_FAILED").With("user_id", id).Wrap(err))
	}
	return nil
}
