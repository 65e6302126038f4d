package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/http/httperr"
)

// Gate returns the request-gating middleware. Evaluated once per inbound
// request, before any protected handler runs:
//
//	public path        -> call through, no token check
//	no candidate token -> 401 not authorized
//	expired token      -> 401 expired
//	malformed token    -> 401 invalid
//	no cached session  -> 401 user not found
//	otherwise          -> principal attached to the request context
//
// The middleware keeps no state across requests; all session state lives in
// the cache.
func (mw *SessionMW) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if mw.isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := extractAccessToken(c)
		if token == "" {
			mw.abort(c, domain.ErrNotAuthorized)
			return
		}

		claims, err := mw.codec.DecodeAccess(token)
		if err != nil {
			mw.abort(c, err)
			return
		}

		// A structurally valid token without a login id cannot be resolved
		// to a session.
		if claims.LoginID == "" {
			mw.abort(c, domain.ErrNotAuthorized)
			return
		}

		entry, err := mw.cache.Get(c.Request.Context(), claims.LoginID)
		if err != nil {
			mw.abort(c, err)
			return
		}

		c.Set(PrincipalKey, entry)
		c.Set(LoginIDKey, entry.LoginID)
		c.Next()
	}
}

// extractAccessToken pulls the candidate token from the Authorization
// header, falling back to the access_token cookie
func extractAccessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return header
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

func (mw *SessionMW) abort(c *gin.Context, err error) {
	resp := httperr.Classify(err)
	if resp.Internal() {
		mw.logger.Error("session gate failure",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(resp.Status, resp)
}

// Principal returns the cached session entry attached by the gate
func Principal(c *gin.Context) (*domain.SessionEntry, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	entry, ok := v.(*domain.SessionEntry)
	return entry, ok
}
