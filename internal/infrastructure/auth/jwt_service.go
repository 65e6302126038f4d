package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/authsvc/domain"
)

// JWTCodecImpl implements domain.TokenCodec with HMAC-SHA256 signed tokens.
// Access and refresh tokens are signed with different secrets, so a token
// presented against the wrong verifier decodes as invalid.
type JWTCodecImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTCodec creates a new token codec
func NewJWTCodec(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) domain.TokenCodec {
	return &JWTCodecImpl{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// generateJTI creates a unique JWT ID so two tokens minted for the same
// claims within the same second still differ
func (j *JWTCodecImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// SignAccess implements domain.TokenCodec
func (j *JWTCodecImpl) SignAccess(claims *domain.TokenClaims) (string, error) {
	return j.sign(claims, j.accessSecret, j.accessTTL)
}

// SignRefresh implements domain.TokenCodec
func (j *JWTCodecImpl) SignRefresh(claims *domain.TokenClaims) (string, error) {
	return j.sign(claims, j.refreshSecret, j.refreshTTL)
}

// DecodeAccess implements domain.TokenCodec
func (j *JWTCodecImpl) DecodeAccess(token string) (*domain.TokenClaims, error) {
	return j.decode(token, j.accessSecret)
}

// DecodeRefresh implements domain.TokenCodec
func (j *JWTCodecImpl) DecodeRefresh(token string) (*domain.TokenClaims, error) {
	return j.decode(token, j.refreshSecret)
}

// AccessTTL implements domain.TokenCodec
func (j *JWTCodecImpl) AccessTTL() time.Duration { return j.accessTTL }

// RefreshTTL implements domain.TokenCodec
func (j *JWTCodecImpl) RefreshTTL() time.Duration { return j.refreshTTL }

func (j *JWTCodecImpl) sign(claims *domain.TokenClaims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"user_id":  claims.UserID,
		"login_id": claims.LoginID,
		"iss":      j.issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
		"jti":      j.generateJTI(),
	}
	if claims.UserName != "" {
		mapClaims["user_name"] = claims.UserName
	}
	if claims.UserType != 0 {
		mapClaims["user_type"] = claims.UserType
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(secret)
}

// decode validates a token against the given secret and returns its claims.
// Outcomes are classified: structurally valid but expired tokens yield
// ErrTokenExpired, everything else that fails yields ErrTokenInvalid.
func (j *JWTCodecImpl) decode(tokenString string, secret []byte) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	loginID, ok := claims["login_id"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	tokenClaims := &domain.TokenClaims{
		UserID:    int(userID),
		LoginID:   loginID,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}

	if userName, ok := claims["user_name"].(string); ok {
		tokenClaims.UserName = userName
	}
	if userType, ok := claims["user_type"].(float64); ok {
		tokenClaims.UserType = int(userType)
	}

	return tokenClaims, nil
}
