package domain

// UserIdentity represents an authenticated user snapshot.
//
// PasswordHash is only populated while credentials are being verified or a
// new record is being persisted; AuthService clears it before the identity
// leaves the authentication boundary.
type UserIdentity struct {
	UserID       int    `json:"user_id"`
	LoginID      string `json:"login_id"`
	PasswordHash string `json:"-"`
	UserName     string `json:"user_name"`
	Email        string `json:"email"`
	UserType     int    `json:"user_type"`
	TokenType    string `json:"token_type,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenPair represents an issued credential bundle
type TokenPair struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionEntry is the identity snapshot mirrored into the session cache,
// keyed by login id. Only claims and issued tokens are stored, never the
// password hash.
type SessionEntry struct {
	UserID       int    `json:"user_id"`
	LoginID      string `json:"login_id"`
	UserName     string `json:"user_name"`
	UserType     int    `json:"user_type"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterCommand represents registration input; the plaintext password is
// consumed once and discarded after hashing.
type RegisterCommand struct {
	LoginID  string
	UserName string
	Password string
	Email    string
	UserType int
}

// Registration represents the outcome of a successful registration
type Registration struct {
	UserID  int    `json:"user_id"`
	LoginID string `json:"login_id"`
}

// NewSessionEntry derives a cache entry from a token-bearing identity
func NewSessionEntry(user *UserIdentity) *SessionEntry {
	return &SessionEntry{
		UserID:       user.UserID,
		LoginID:      user.LoginID,
		UserName:     user.UserName,
		UserType:     user.UserType,
		Email:        user.Email,
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
	}
}

// Identity converts a cached session entry back into a user identity
func (e *SessionEntry) Identity() *UserIdentity {
	return &UserIdentity{
		UserID:       e.UserID,
		LoginID:      e.LoginID,
		UserName:     e.UserName,
		UserType:     e.UserType,
		Email:        e.Email,
		AccessToken:  e.AccessToken,
		RefreshToken: e.RefreshToken,
	}
}
