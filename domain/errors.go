package domain

import "errors"

// Authentication errors
var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Validation and infrastructure errors
var (
	ErrValidation    = errors.New("validation error")
	ErrInternalStore = errors.New("store operation failed")
)
