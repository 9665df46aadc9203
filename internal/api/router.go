package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/suitewaste/deskshell/internal/api/handler"
	"github.com/suitewaste/deskshell/internal/api/middleware"
	"github.com/suitewaste/deskshell/internal/core/domain"
	"github.com/suitewaste/deskshell/internal/core/ports"
)

// Deps carries everything the router needs; wiring happens in cmd/server.
type Deps struct {
	AuthService  ports.AuthService
	StateService ports.StateService
	Classifier   ports.Classifier
	Mongo        *mongo.Database
	Redis        *redis.Client
	JWTSecret    string
	Log          zerolog.Logger
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
	e.Use(echoprometheus.NewMiddleware("deskshell"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	operationsHandler := handler.NewOperationsHandler(deps.StateService)
	complianceHandler := handler.NewComplianceHandler(deps.StateService)
	paymentsHandler := handler.NewPaymentsHandler(deps.StateService)
	marketplaceHandler := handler.NewMarketplaceHandler(deps.StateService, deps.Classifier)
	trainingHandler := handler.NewTrainingHandler(deps.StateService)
	auditHandler := handler.NewAuditHandler(deps.StateService)
	chatHandler := handler.NewChatHandler(deps.StateService)

	// --- Public routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	protected := v1.Group("", middleware.Auth(deps.JWTSecret))

	protected.GET("/operations/routes", operationsHandler.Routes)

	protected.GET("/compliance/checklist", complianceHandler.Checklist)
	protected.PUT("/compliance/checklist", complianceHandler.UpdateItem)
	protected.POST("/compliance/audit", complianceHandler.RunAudit)

	protected.GET("/payments/transactions", paymentsHandler.Transactions)
	protected.POST("/payments/transactions", paymentsHandler.Create)

	protected.GET("/marketplace/listings", marketplaceHandler.Listings)
	protected.POST("/marketplace/listings", marketplaceHandler.CreateListing)
	protected.POST("/marketplace/classify", marketplaceHandler.Classify)

	protected.GET("/training/progress", trainingHandler.Progress)
	protected.PUT("/training/progress/:id", trainingHandler.UpdateProgress)
	protected.GET("/training/leaderboard", trainingHandler.Leaderboard)

	protected.GET("/audit/logs", auditHandler.Logs, middleware.RBAC(domain.RoleManager))

	protected.GET("/chat/sessions", chatHandler.List)
	protected.POST("/chat/sessions", chatHandler.Create)
	protected.DELETE("/chat/sessions/:id", chatHandler.Delete)
	protected.POST("/chat/sessions/:id/activity", chatHandler.Touch)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
