package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/http/httperr"
	"github.com/you/authsvc/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests. The handlers stay
// thin: they orchestrate the services and own the cookie attachment,
// which is a transport concern.
type AuthHandlers struct {
	authSvc  domain.AuthService
	tokenSvc domain.TokenService
	regSvc   domain.RegistrationService
	sessions domain.SessionCache
	codec    domain.TokenCodec
	logger   *zap.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(
	authSvc domain.AuthService,
	tokenSvc domain.TokenService,
	regSvc domain.RegistrationService,
	sessions domain.SessionCache,
	codec domain.TokenCodec,
	logger *zap.Logger,
) *AuthHandlers {
	return &AuthHandlers{
		authSvc:  authSvc,
		tokenSvc: tokenSvc,
		regSvc:   regSvc,
		sessions: sessions,
		codec:    codec,
		logger:   logger,
	}
}

// RegisterRequest represents registration input
type RegisterRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	UserType int    `json:"user_type" binding:"required,min=1,max=2"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := httperr.Validation(err.Error())
		c.JSON(resp.Status, resp)
		return
	}

	reg, err := h.regSvc.Register(c.Request.Context(), &domain.RegisterCommand{
		LoginID:  req.LoginID,
		UserName: req.UserName,
		Password: req.Password,
		Email:    req.Email,
		UserType: req.UserType,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": reg})
}

// Login handles credential-based login: authenticate, issue a token pair,
// mirror the session into the cache, then attach cookies.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := httperr.Validation(err.Error())
		c.JSON(resp.Status, resp)
		return
	}

	user, err := h.authSvc.Authenticate(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	issued, pair, err := h.tokenSvc.Issue(user)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.sessions.Save(c.Request.Context(), domain.NewSessionEntry(issued)); err != nil {
		h.writeError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token_type":    pair.TokenType,
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"user": gin.H{
				"user_id":   issued.UserID,
				"login_id":  issued.LoginID,
				"user_name": issued.UserName,
				"email":     issued.Email,
				"user_type": issued.UserType,
			},
		},
	})
}

// Refresh handles token refresh. The route is exempt from the session gate;
// the refresh token itself is validated here, against the refresh secret.
// A decoded token whose session is gone yields user-not-found, distinct
// from an invalid or expired token.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	token := extractRefreshToken(c)
	if token == "" {
		h.writeError(c, domain.ErrNotAuthorized)
		return
	}

	claims, err := h.codec.DecodeRefresh(token)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if claims.LoginID == "" {
		h.writeError(c, domain.ErrNotAuthorized)
		return
	}

	entry, err := h.sessions.Get(c.Request.Context(), claims.LoginID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	issued, pair, err := h.tokenSvc.Issue(entry.Identity())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.sessions.Save(c.Request.Context(), domain.NewSessionEntry(issued)); err != nil {
		h.writeError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"data": pair})
}

// Logout deletes the principal's cached session and expires the cookies.
// The access token itself stays valid until expiry; the cache miss is what
// locks it out.
func (h *AuthHandlers) Logout(c *gin.Context) {
	entry, ok := middleware.Principal(c)
	if !ok {
		h.writeError(c, domain.ErrNotAuthorized)
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), entry.LoginID); err != nil {
		h.writeError(c, err)
		return
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Successfully logged out"},
	})
}

// Me returns the authenticated principal's snapshot
func (h *AuthHandlers) Me(c *gin.Context) {
	entry, ok := middleware.Principal(c)
	if !ok {
		h.writeError(c, domain.ErrNotAuthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user_id":   entry.UserID,
			"login_id":  entry.LoginID,
			"user_name": entry.UserName,
			"email":     entry.Email,
			"user_type": entry.UserType,
		},
	})
}

// extractRefreshToken pulls the refresh token from its cookie, falling back
// to the Authorization header for non-browser clients
func extractRefreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie("refresh_token"); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if after, ok := cutBearer(header); ok {
			return after
		}
		return header
	}
	return ""
}

func cutBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}
	return "", false
}

func (h *AuthHandlers) setAuthCookies(c *gin.Context, pair *domain.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token_type", pair.TokenType, 0, "/", "", true, true)
	c.SetCookie("access_token", pair.AccessToken, int(h.codec.AccessTTL().Seconds()), "/", "", true, true)
	c.SetCookie("refresh_token", pair.RefreshToken, int(h.codec.RefreshTTL().Seconds()), "/", "", true, true)
}

func (h *AuthHandlers) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token_type", "", -1, "/", "", true, true)
	c.SetCookie("access_token", "", -1, "/", "", true, true)
	c.SetCookie("refresh_token", "", -1, "/", "", true, true)
}

// writeError maps a failure to the error envelope. Unclassified errors are
// logged with full detail and surfaced as a generic internal error.
func (h *AuthHandlers) writeError(c *gin.Context, err error) {
	resp := httperr.Classify(err)
	if resp.Internal() {
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.JSON(resp.Status, resp)
}
