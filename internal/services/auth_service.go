package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/authsvc/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordHasher
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo domain.UserRepository, passwordSvc domain.PasswordHasher) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
	}
}

// Authenticate implements domain.AuthService. A password mismatch is
// reported as ErrUserNotFound, the same failure as an unknown login id, so
// responses cannot be used to probe which accounts exist.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, loginID, password string) (*domain.UserIdentity, error) {
	user, err := s.userRepo.FindByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Integrity guard: a correctly registered record always carries a hash.
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: stored record has no password hash", domain.ErrValidation)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrUserNotFound
	}

	// The hash never leaves the authentication boundary.
	user.PasswordHash = ""

	if user.LoginID == "" {
		return nil, fmt.Errorf("%w: resolved record has no login id", domain.ErrValidation)
	}

	return user, nil
}
