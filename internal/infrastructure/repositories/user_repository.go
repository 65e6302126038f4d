package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for a user record
type DBUser struct {
	UserID    int       `gorm:"primaryKey;autoIncrement;column:user_id"`
	LoginID   string    `gorm:"uniqueIndex;size:64;column:login_id"`
	Password  string    `gorm:"size:255;column:password"`
	UserName  string    `gorm:"size:128;column:user_name"`
	Email     string    `gorm:"uniqueIndex;size:255"`
	UserType  int       `gorm:"column:user_type"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "user_info"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. The unique indexes on login_id
// and email are the race-breaker for concurrent registrations: a duplicate
// slipping past the existence pre-checks fails here as ErrDuplicateUser.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.UserIdentity) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}
	user.UserID = dbUser.UserID
	return nil
}

// FindByLoginID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByLoginID(ctx context.Context, loginID string) (*domain.UserIdentity, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("login_id = ?", loginID).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.UserIdentity, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}
	return r.dbToDomain(&dbUser), nil
}

// ExistsByLoginID implements domain.UserRepository
func (r *UserRepositoryImpl) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("login_id = ?", loginID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}
	return count > 0, nil
}

// ExistsByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}
	return count > 0, nil
}

// domainToDB converts a domain identity to a database user
func (r *UserRepositoryImpl) domainToDB(user *domain.UserIdentity) *DBUser {
	return &DBUser{
		UserID:   user.UserID,
		LoginID:  user.LoginID,
		Password: user.PasswordHash,
		UserName: user.UserName,
		Email:    user.Email,
		UserType: user.UserType,
	}
}

// dbToDomain converts a database user to a domain identity
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.UserIdentity {
	return &domain.UserIdentity{
		UserID:       dbUser.UserID,
		LoginID:      dbUser.LoginID,
		PasswordHash: dbUser.Password,
		UserName:     dbUser.UserName,
		Email:        dbUser.Email,
		UserType:     dbUser.UserType,
	}
}
