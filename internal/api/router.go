package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dhkim93/session-auth/internal/api/handler"
	"github.com/dhkim93/session-auth/internal/api/middleware"
	"github.com/dhkim93/session-auth/internal/core/service"
	"github.com/dhkim93/session-auth/internal/core/token"
	"github.com/dhkim93/session-auth/internal/infrastructure/config"
	"github.com/dhkim93/session-auth/internal/infrastructure/crypto"
	mongodb "github.com/dhkim93/session-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/dhkim93/session-auth/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// events may be nil; audit recording is then skipped.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, events handler.EventSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"http://127.0.0.1:5173", "http://localhost:5173"},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	hasher := crypto.NewBcryptHasher()
	accessCodec := token.NewCodec(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	refreshCodec := token.NewCodec(cfg.Auth.RefreshSecret, cfg.Auth.RefreshTTL)
	authService := service.NewAuthService(users, hasher, accessCodec, refreshCodec)
	activity := redisdb.NewActivityRecorder(rdb)
	authHandler := handler.NewAuthHandler(authService, events, activity)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.GET("/auth/me", authHandler.Me, middleware.Auth(accessCodec))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
