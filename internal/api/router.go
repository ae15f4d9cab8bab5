package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightdesk/user-directory/internal/api/handler"
	"github.com/brightdesk/user-directory/internal/api/middleware"
	"github.com/brightdesk/user-directory/internal/core/domain"
	"github.com/brightdesk/user-directory/internal/core/ports"
)

// Deps carries the wired services the router needs. Construction of the
// services themselves happens in cmd/server.
type Deps struct {
	Users     ports.UserService
	Auth      ports.AuthService
	Active    handler.ActiveUserSource
	Batch     handler.BatchNotifier
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("userdir"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.Active, deps.Batch)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- User routes (JWT required) ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	users := v1.Group("/users")
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.GET("/:id/relationships/:type", userHandler.GetRelationships)
	users.POST("/:id/relationships", userHandler.AddRelationship)

	// Mutating the directory is restricted to the admin tiers; moderators may
	// still trigger batch notifications.
	users.POST("", userHandler.Create, middleware.AdminOnly())
	users.DELETE("/:id", userHandler.Delete, middleware.AdminOnly())
	users.POST("/batch/notify", userHandler.NotifyBatch,
		middleware.RBAC(domain.RoleModerator, domain.RoleAdmin, domain.RoleSuperAdmin))

	return e
}
