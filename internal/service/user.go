package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// UserService covers profile reads and the account lifecycle. Every mutation
// takes the acting user's id; only the owner or staff may touch a profile.
type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ReplaceDistricts(ctx context.Context, actorID, targetID int64, districtIDs []int64) (*models.User, error)
	Deactivate(ctx context.Context, actorID, targetID int64) error
	Activate(ctx context.Context, actorID, targetID int64) error
	ConfirmAccount(ctx context.Context, actorID, targetID int64) error
	SoftDelete(ctx context.Context, actorID, targetID int64) error
	Recover(ctx context.Context, actorID, targetID int64) error
}

// Compile-time check to ensure userServiceImpl implements UserService
var _ UserService = (*userServiceImpl)(nil)

type userServiceImpl struct {
	userRepo interfaces.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new instance of userServiceImpl.
func NewUserService(userRepo interfaces.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger.Named("UserService"),
	}
}

// GetUser returns a non-deleted profile with its districts loaded.
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted() {
		s.logger.Debug("Requested profile is soft-deleted", zap.Int64("userID", id))
		return nil, models.ErrUserNotFound
	}

	districtsByUser, err := s.userRepo.GetDistrictsForUsers(ctx, []int64{id})
	if err != nil {
		s.logger.Error("Failed to load districts for profile", zap.Error(err), zap.Int64("userID", id))
		return nil, fmt.Errorf("failed to load districts for profile: %w", err)
	}
	user.Districts = districtsByUser[id]
	return user, nil
}

// ReplaceDistricts swaps the target's district set for a new one.
func (s *userServiceImpl) ReplaceDistricts(ctx context.Context, actorID, targetID int64, districtIDs []int64) (*models.User, error) {
	if _, err := s.loadTarget(ctx, actorID, targetID); err != nil {
		return nil, err
	}
	if err := s.userRepo.ReplaceDistricts(ctx, targetID, districtIDs); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, targetID)
}

// Deactivate hides the account from candidate searches.
func (s *userServiceImpl) Deactivate(ctx context.Context, actorID, targetID int64) error {
	target, err := s.loadTarget(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !target.IsActiveAccount {
		s.logger.Warn("Deactivate attempt on already deactivated account", zap.Int64("userID", targetID))
		return models.ErrAlreadyDeactivated
	}
	if err := s.userRepo.SetActiveAccount(ctx, targetID, false); err != nil {
		return err
	}
	s.logger.Info("Account deactivated", zap.Int64("userID", targetID), zap.Int64("actorID", actorID))
	return nil
}

// Activate returns the account to candidate searches.
func (s *userServiceImpl) Activate(ctx context.Context, actorID, targetID int64) error {
	target, err := s.loadTarget(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if target.IsActiveAccount {
		s.logger.Warn("Activate attempt on already active account", zap.Int64("userID", targetID))
		return models.ErrAlreadyActivated
	}
	if err := s.userRepo.SetActiveAccount(ctx, targetID, true); err != nil {
		return err
	}
	s.logger.Info("Account activated", zap.Int64("userID", targetID), zap.Int64("actorID", actorID))
	return nil
}

// ConfirmAccount marks the profile as confirmed. One-way, staff only; owners
// cannot confirm themselves.
func (s *userServiceImpl) ConfirmAccount(ctx context.Context, actorID, targetID int64) error {
	actor, err := s.userRepo.GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrForbidden
		}
		return err
	}
	if !actor.IsStaff {
		s.logger.Warn("Confirm attempt by non-staff actor",
			zap.Int64("actorID", actorID), zap.Int64("targetID", targetID))
		return models.ErrForbidden
	}

	target, err := s.loadTarget(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if target.IsConfirmedAccount {
		s.logger.Warn("Confirm attempt on already confirmed account", zap.Int64("userID", targetID))
		return models.ErrAlreadyConfirmed
	}
	if err := s.userRepo.ConfirmAccount(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info("Account confirmed", zap.Int64("userID", targetID), zap.Int64("actorID", actorID))
	return nil
}

// SoftDelete stamps the profile as deleted. The row survives for Recover.
func (s *userServiceImpl) SoftDelete(ctx context.Context, actorID, targetID int64) error {
	target, err := s.loadAnyTarget(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if target.IsDeleted() {
		s.logger.Warn("Delete attempt on already deleted account", zap.Int64("userID", targetID))
		return models.ErrAlreadyDeleted
	}
	if err := s.userRepo.SoftDeleteUser(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info("Account soft-deleted", zap.Int64("userID", targetID), zap.Int64("actorID", actorID))
	return nil
}

// Recover clears the deletion stamp from a soft-deleted profile.
func (s *userServiceImpl) Recover(ctx context.Context, actorID, targetID int64) error {
	target, err := s.loadAnyTarget(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !target.IsDeleted() {
		s.logger.Warn("Recover attempt on non-deleted account", zap.Int64("userID", targetID))
		return models.ErrNotDeleted
	}
	if err := s.userRepo.RecoverUser(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info("Account recovered", zap.Int64("userID", targetID), zap.Int64("actorID", actorID))
	return nil
}

// loadTarget enforces the owner-or-staff rule and rejects deleted targets.
func (s *userServiceImpl) loadTarget(ctx context.Context, actorID, targetID int64) (*models.User, error) {
	target, err := s.loadAnyTarget(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsDeleted() {
		return nil, models.ErrUserNotFound
	}
	return target, nil
}

// loadAnyTarget is loadTarget without the deletion check; delete and recover
// need to see soft-deleted rows.
func (s *userServiceImpl) loadAnyTarget(ctx context.Context, actorID, targetID int64) (*models.User, error) {
	if actorID != targetID {
		actor, err := s.userRepo.GetUserByID(ctx, actorID)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				return nil, models.ErrForbidden
			}
			return nil, err
		}
		if !actor.IsStaff {
			s.logger.Warn("Permission denied for account operation",
				zap.Int64("actorID", actorID), zap.Int64("targetID", targetID))
			return nil, models.ErrForbidden
		}
	}
	return s.userRepo.GetUserByID(ctx, targetID)
}
