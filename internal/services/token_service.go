package services

import (
	"fmt"

	"github.com/you/authsvc/domain"
)

const tokenType = "bearer"

// TokenServiceImpl implements domain.TokenService
type TokenServiceImpl struct {
	codec domain.TokenCodec
}

// NewTokenService creates a new token service
func NewTokenService(codec domain.TokenCodec) domain.TokenService {
	return &TokenServiceImpl{codec: codec}
}

// Issue implements domain.TokenService. It is a pure computation: the input
// identity is not mutated, and nothing is persisted. Callers mirror the
// result into the session cache as a separate explicit step.
func (s *TokenServiceImpl) Issue(user *domain.UserIdentity) (*domain.UserIdentity, *domain.TokenPair, error) {
	claims := &domain.TokenClaims{
		UserID:   user.UserID,
		LoginID:  user.LoginID,
		UserName: user.UserName,
		UserType: user.UserType,
	}

	accessToken, err := s.codec.SignAccess(claims)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.codec.SignRefresh(claims)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	issued := *user
	issued.TokenType = tokenType
	issued.AccessToken = accessToken
	issued.RefreshToken = refreshToken

	pair := &domain.TokenPair{
		TokenType:    tokenType,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	return &issued, pair, nil
}
