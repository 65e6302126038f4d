// Package httperr maps domain failures to the wire-level error envelope.
// Every error response carries the shape {status, code, msg}; code is a
// stable numeric identifier that clients can branch on, msg is a diagnostic
// that never contains secrets or internal error detail.
package httperr

import (
	"errors"
	"net/http"

	"github.com/you/authsvc/domain"
)

// Stable error codes, grouped by class: 401xxxx authentication,
// 400xxxx validation, 500xxxx internal.
const (
	CodeNotAuthorized = "4010001"
	CodeExpiredToken  = "4010002"
	CodeUserNotFound  = "4010003"
	CodeDuplicateUser = "4010005"
	CodeInvalidToken  = "4010006"
	CodeValidation    = "4000001"
	CodeInternal      = "5000001"
)

// Response is the error envelope returned on every failed request
type Response struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Msg    string `json:"msg"`
}

// Classify maps a domain error to its envelope. Unclassified errors
// collapse to a generic internal error; the caller is responsible for
// logging the original before discarding its detail.
func Classify(err error) Response {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return Response{Status: http.StatusUnauthorized, Code: CodeNotAuthorized, Msg: "Not authorized"}
	case errors.Is(err, domain.ErrTokenExpired):
		return Response{Status: http.StatusUnauthorized, Code: CodeExpiredToken, Msg: "Token has expired"}
	case errors.Is(err, domain.ErrTokenInvalid):
		return Response{Status: http.StatusUnauthorized, Code: CodeInvalidToken, Msg: "Invalid token"}
	case errors.Is(err, domain.ErrUserNotFound):
		return Response{Status: http.StatusUnauthorized, Code: CodeUserNotFound, Msg: "User not found"}
	case errors.Is(err, domain.ErrDuplicateUser):
		return Response{Status: http.StatusConflict, Code: CodeDuplicateUser, Msg: "User already exists"}
	case errors.Is(err, domain.ErrValidation):
		return Response{Status: http.StatusBadRequest, Code: CodeValidation, Msg: "Validation error"}
	default:
		return Response{Status: http.StatusInternalServerError, Code: CodeInternal, Msg: "Internal server error"}
	}
}

// Validation builds a 400 envelope for request binding failures
func Validation(msg string) Response {
	return Response{Status: http.StatusBadRequest, Code: CodeValidation, Msg: msg}
}

// Internal reports whether the envelope hides an unclassified failure
func (r Response) Internal() bool {
	return r.Code == CodeInternal
}
