package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/authsvc/internal/config"
	httpx "github.com/you/authsvc/internal/http"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/infrastructure/auth"
	"github.com/you/authsvc/internal/infrastructure/database"
	"github.com/you/authsvc/internal/infrastructure/repositories"
	"github.com/you/authsvc/internal/services"
)

// Run wires the collaborators with explicit constructor injection and
// serves HTTP until the listener fails
func Run(cfg *config.Config) error {
	logger, err := newLogger(cfg.GinMode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}

	// Infrastructure services
	passwordSvc := auth.NewPasswordService()
	codec := auth.NewJWTCodec(cfg.AccessSecret, cfg.RefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)

	// Repositories
	userRepo := repositories.NewUserRepository(gdb)
	sessions := repositories.NewSessionRepository(rdb, cfg.RedisExpire)

	// Services
	authSvc := services.NewAuthService(userRepo, passwordSvc)
	tokenSvc := services.NewTokenService(codec)
	regSvc := services.NewRegistrationService(userRepo, passwordSvc)

	// HTTP layer
	authH := handlers.NewAuthHandlers(authSvc, tokenSvc, regSvc, sessions, codec, logger)
	gate := middleware.NewSessionMW(codec, sessions, logger)
	r := httpx.BuildRouter(authH, gate)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == gin.DebugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
