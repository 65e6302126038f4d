package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *UserIdentity) error
	FindByLoginID(ctx context.Context, loginID string) (*UserIdentity, error)
	FindByEmail(ctx context.Context, email string) (*UserIdentity, error)
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionCache defines the TTL key-value store holding session snapshots,
// keyed by login id. Entries are written on login and refresh, deleted on
// logout, and only read by the request gate.
type SessionCache interface {
	Save(ctx context.Context, entry *SessionEntry) error
	Get(ctx context.Context, loginID string) (*SessionEntry, error)
	Delete(ctx context.Context, loginID string) error
}

// PasswordHasher defines one-way password hashing operations
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenClaims represents the payload carried inside a signed token
type TokenClaims struct {
	UserID    int    `json:"user_id"`
	LoginID   string `json:"login_id"`
	UserName  string `json:"user_name"`
	UserType  int    `json:"user_type,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenCodec signs and verifies identity-bearing tokens. Access and refresh
// tokens use different secrets under the same algorithm, so a token verified
// against the wrong secret always fails as invalid.
type TokenCodec interface {
	SignAccess(claims *TokenClaims) (string, error)
	SignRefresh(claims *TokenClaims) (string, error)
	DecodeAccess(token string) (*TokenClaims, error)
	DecodeRefresh(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// AuthService verifies login credentials against the user store
type AuthService interface {
	Authenticate(ctx context.Context, loginID, password string) (*UserIdentity, error)
}

// TokenService issues an access/refresh token pair for an identity.
// Issue is a pure computation; mirroring the result into the session cache
// is an explicit follow-up call owned by the caller.
type TokenService interface {
	Issue(user *UserIdentity) (*UserIdentity, *TokenPair, error)
}

// RegistrationService registers new users, enforcing login id and email
// uniqueness
type RegistrationService interface {
	Register(ctx context.Context, cmd *RegisterCommand) (*Registration, error)
}
