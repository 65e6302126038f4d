package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
)

// BuildRouter wires the auth routes behind the session gate. The gate runs
// globally and bypasses its own public surface, so route groups carry no
// per-group auth wiring.
func BuildRouter(ah *handlers.AuthHandlers, gate *middleware.SessionMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gate.Gate())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.GET("/refresh_token", ah.Refresh)
	auth.POST("/logout", ah.Logout)
	auth.GET("/me", ah.Me)

	return r
}
