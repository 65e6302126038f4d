package services

import (
	"context"
	"fmt"

	"github.com/you/authsvc/domain"
)

// RegistrationServiceImpl implements domain.RegistrationService
type RegistrationServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordHasher
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(userRepo domain.UserRepository, passwordSvc domain.PasswordHasher) domain.RegistrationService {
	return &RegistrationServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
	}
}

// Register implements domain.RegistrationService. The existence pre-checks
// run before the costly hash; they are advisory only, since two concurrent
// registrations can both pass them. The store's unique indexes decide the
// race, and that violation surfaces as the same ErrDuplicateUser.
func (s *RegistrationServiceImpl) Register(ctx context.Context, cmd *domain.RegisterCommand) (*domain.Registration, error) {
	exists, err := s.userRepo.ExistsByLoginID(ctx, cmd.LoginID)
	if err != nil {
		return nil, fmt.Errorf("failed to check login id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateUser, cmd.LoginID)
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateUser, cmd.Email)
	}

	hashedPassword, err := s.passwordSvc.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.UserIdentity{
		LoginID:      cmd.LoginID,
		UserName:     cmd.UserName,
		PasswordHash: hashedPassword,
		Email:        cmd.Email,
		UserType:     cmd.UserType,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &domain.Registration{
		UserID:  user.UserID,
		LoginID: user.LoginID,
	}, nil
}
