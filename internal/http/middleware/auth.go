package middleware

import (
	"strings"

	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
)

// Context keys set by the session gate for downstream handlers
const (
	PrincipalKey = "auth_principal"
	LoginIDKey   = "login_id"
)

// SessionMW wraps the token codec and session cache for the request gate
type SessionMW struct {
	codec  domain.TokenCodec
	cache  domain.SessionCache
	logger *zap.Logger

	publicPaths    map[string]struct{}
	publicPrefixes []string
}

// NewSessionMW creates the session gate middleware. The public surface
// covers the auth routes themselves, the health check, docs and root; the
// refresh route is exempt because it performs its own refresh-token
// validation and must stay reachable with an expired access token.
func NewSessionMW(codec domain.TokenCodec, cache domain.SessionCache, logger *zap.Logger) *SessionMW {
	return &SessionMW{
		codec:  codec,
		cache:  cache,
		logger: logger,
		publicPaths: map[string]struct{}{
			"/":                   {},
			"/health":             {},
			"/auth/register":      {},
			"/auth/login":         {},
			"/auth/refresh_token": {},
		},
		publicPrefixes: []string{"/docs"},
	}
}

func (mw *SessionMW) isPublic(path string) bool {
	if _, ok := mw.publicPaths[path]; ok {
		return true
	}
	for _, prefix := range mw.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
