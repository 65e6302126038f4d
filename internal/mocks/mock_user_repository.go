package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	CreateFunc          func(ctx context.Context, user *domain.UserIdentity) error
	FindByLoginIDFunc   func(ctx context.Context, loginID string) (*domain.UserIdentity, error)
	FindByEmailFunc     func(ctx context.Context, email string) (*domain.UserIdentity, error)
	ExistsByLoginIDFunc func(ctx context.Context, loginID string) (bool, error)
	ExistsByEmailFunc   func(ctx context.Context, email string) (bool, error)
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create inserts a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.UserIdentity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success, assign a stable id
	user.UserID = 1
	return nil
}

// FindByLoginID finds a user by login id
func (m *MockUserRepository) FindByLoginID(ctx context.Context, loginID string) (*domain.UserIdentity, error) {
	if m.FindByLoginIDFunc != nil {
		return m.FindByLoginIDFunc(ctx, loginID)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.UserIdentity, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// ExistsByLoginID reports whether a login id is taken
func (m *MockUserRepository) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	if m.ExistsByLoginIDFunc != nil {
		return m.ExistsByLoginIDFunc(ctx, loginID)
	}
	return false, nil
}

// ExistsByEmail reports whether an email is taken
func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}
