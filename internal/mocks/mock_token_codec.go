package mocks

import (
	"time"

	"github.com/you/authsvc/domain"
)

// MockTokenCodec implements domain.TokenCodec for testing
type MockTokenCodec struct {
	SignAccessFunc    func(claims *domain.TokenClaims) (string, error)
	SignRefreshFunc   func(claims *domain.TokenClaims) (string, error)
	DecodeAccessFunc  func(token string) (*domain.TokenClaims, error)
	DecodeRefreshFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLValue    time.Duration
	RefreshTTLValue   time.Duration
}

// NewMockTokenCodec creates a new MockTokenCodec with default behaviors
func NewMockTokenCodec() *MockTokenCodec {
	return &MockTokenCodec{
		AccessTTLValue:  15 * time.Minute,
		RefreshTTLValue: 3000 * time.Minute,
	}
}

// SignAccess signs access token claims
func (m *MockTokenCodec) SignAccess(claims *domain.TokenClaims) (string, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(claims)
	}
	return "access_" + claims.LoginID, nil
}

// SignRefresh signs refresh token claims
func (m *MockTokenCodec) SignRefresh(claims *domain.TokenClaims) (string, error) {
	if m.SignRefreshFunc != nil {
		return m.SignRefreshFunc(claims)
	}
	return "refresh_" + claims.LoginID, nil
}

// DecodeAccess decodes an access token
func (m *MockTokenCodec) DecodeAccess(token string) (*domain.TokenClaims, error) {
	if m.DecodeAccessFunc != nil {
		return m.DecodeAccessFunc(token)
	}
	// Default behavior: invalid token
	return nil, domain.ErrTokenInvalid
}

// DecodeRefresh decodes a refresh token
func (m *MockTokenCodec) DecodeRefresh(token string) (*domain.TokenClaims, error) {
	if m.DecodeRefreshFunc != nil {
		return m.DecodeRefreshFunc(token)
	}
	// Default behavior: invalid token
	return nil, domain.ErrTokenInvalid
}

// AccessTTL returns the configured access token lifetime
func (m *MockTokenCodec) AccessTTL() time.Duration { return m.AccessTTLValue }

// RefreshTTL returns the configured refresh token lifetime
func (m *MockTokenCodec) RefreshTTL() time.Duration { return m.RefreshTTLValue }
