package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onboardly/onboarding-system/internal/api/handler"
	"github.com/onboardly/onboarding-system/internal/api/middleware"
	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
	"github.com/onboardly/onboarding-system/internal/infrastructure/ws"
)

// Deps bundles everything the router needs. Services are constructed in
// main so their lifecycles (hub, broadcaster, pubsub) stay in one place.
type Deps struct {
	Auth          ports.AuthService
	Sessions      ports.SessionService
	Discovery     ports.DiscoveryService
	Applications  ports.ApplicationService
	Notifications ports.NotificationService
	Wishlist      ports.WishlistService
	Hub           *ws.Hub
	Mongo         *mongo.Database
	Redis         *redis.Client
	JWTSecret     string
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	auth := middleware.Auth(deps.JWTSecret)
	optionalAuth := middleware.OptionalAuth(deps.JWTSecret)
	orgOnly := middleware.RBAC(domain.RoleOrganization)
	seekerOnly := middleware.RBAC(domain.RoleJobSeeker)

	authHandler := handler.NewAuthHandler(deps.Auth)
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.Discovery)
	applicationHandler := handler.NewApplicationHandler(deps.Applications)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	wishlistHandler := handler.NewWishlistHandler(deps.Wishlist)
	wsHandler := handler.NewWSHandler(deps.Hub, deps.Log)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.DELETE("/auth/account", authHandler.Close, auth)

	v1 := e.Group("/v1")

	// --- Sessions ---
	v1.POST("/sessions", sessionHandler.Create, auth, orgOnly)
	v1.GET("/sessions", sessionHandler.ListMine, auth, orgOnly)
	v1.GET("/sessions/discover", sessionHandler.Discover, optionalAuth)
	v1.GET("/sessions/:id", sessionHandler.Details, optionalAuth)
	v1.PATCH("/sessions/:id", sessionHandler.Update, auth, orgOnly)
	v1.DELETE("/sessions/:id", sessionHandler.Delete, auth, orgOnly)

	// --- Applications ---
	v1.POST("/applications", applicationHandler.Submit, auth, seekerOnly)
	v1.GET("/applications", applicationHandler.List, auth)
	v1.PATCH("/applications/:id/status", applicationHandler.UpdateStatus, auth, orgOnly)

	// --- Notifications ---
	v1.GET("/notifications", notificationHandler.List, auth)
	v1.PATCH("/notifications/read-all", notificationHandler.MarkAllRead, auth)
	v1.PATCH("/notifications/:id/read", notificationHandler.MarkRead, auth)
	v1.GET("/ws", wsHandler.Serve, auth)

	// --- Wishlist ---
	v1.GET("/wishlist", wishlistHandler.List, auth, seekerOnly)
	v1.POST("/wishlist", wishlistHandler.Add, auth, seekerOnly)
	v1.DELETE("/wishlist/:sessionID", wishlistHandler.Remove, auth, seekerOnly)

	return e
}
