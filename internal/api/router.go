package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campdir/bootcamp-api/internal/api/handler"
	"github.com/campdir/bootcamp-api/internal/api/middleware"
	"github.com/campdir/bootcamp-api/internal/core/domain"
	"github.com/campdir/bootcamp-api/internal/core/ports"
	"github.com/campdir/bootcamp-api/internal/core/service"
	mongodb "github.com/campdir/bootcamp-api/internal/infrastructure/db/mongo"
	redisdb "github.com/campdir/bootcamp-api/internal/infrastructure/db/redis"
	"github.com/campdir/bootcamp-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, mailer ports.Mailer, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("bootcamp_auth"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	authService := service.NewAuthService(accountRepo, mailer, service.AuthConfig{
		JWTSecret: cfg.JWT.Secret,
		TokenTTL:  cfg.JWT.TokenTTL,
		ResetTTL:  cfg.JWT.ResetTTL,
	}, log)
	adminService := service.NewAccountAdminService(accountRepo, log)

	authHandler := handler.NewAuthHandler(authService, handler.CookieOptions{
		TTL:    cfg.JWT.CookieTTL,
		Secure: cfg.Production(),
	})
	accountHandler := handler.NewAccountHandler(adminService)

	protect := middleware.Auth(cfg.JWT.Secret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	limiter := redisdb.NewLoginLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login, middleware.RateLimit(limiter, "login", log))
	e.GET("/auth/logout", authHandler.Logout, protect)
	e.GET("/auth/me", authHandler.Me, protect)
	e.POST("/auth/forgotpassword", authHandler.ForgotPassword, middleware.RateLimit(limiter, "forgot_password", log))
	e.PUT("/auth/resetpassword/:token", authHandler.ResetPassword)
	e.PUT("/auth/updatedetails", authHandler.UpdateDetails, protect)
	e.PUT("/auth/updatepassword", authHandler.UpdatePassword, protect)

	// --- Admin account management ---
	users := e.Group("/users", protect, adminOnly)
	users.GET("", accountHandler.List)
	users.POST("", accountHandler.Create)
	users.GET("/:id", accountHandler.Get)
	users.PUT("/:id", accountHandler.Update)
	users.DELETE("/:id", accountHandler.Delete)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
