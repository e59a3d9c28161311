package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/roncloudtech/hospital-remittance/internal/api/handler"
	"github.com/roncloudtech/hospital-remittance/internal/api/middleware"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/guard"
	"github.com/roncloudtech/hospital-remittance/internal/core/idle"
	"github.com/roncloudtech/hospital-remittance/internal/core/service"
	"github.com/roncloudtech/hospital-remittance/internal/infrastructure/config"
	mongorepo "github.com/roncloudtech/hospital-remittance/internal/infrastructure/db/mongo"
	redisstore "github.com/roncloudtech/hospital-remittance/internal/infrastructure/db/redis"
	"github.com/roncloudtech/hospital-remittance/internal/infrastructure/http/handlers"
	"github.com/roncloudtech/hospital-remittance/internal/infrastructure/queue"
)

// Server bundles the Echo instance with the background components the
// caller must run: the notification dispatcher and the idle-session
// reaper.
type Server struct {
	Echo       *echo.Echo
	Dispatcher *queue.Dispatcher
	Reaper     *idle.Reaper
}

// NewServer builds the Echo instance with all routes registered and every
// dependency wired.
func NewServer(cfg *config.Config, db *mongodriver.Database, rdb *redis.Client, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("remitfund"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	hospitalRepo := mongorepo.NewHospitalRepository(db)
	remittanceRepo := mongorepo.NewRemittanceRepository(db)
	ticketRepo := mongorepo.NewTicketRepository(db)
	notificationRepo := mongorepo.NewNotificationRepository(db)
	auditRepo := mongorepo.NewAuditRepository(db)

	sessionStore := redisstore.NewSessionStore(rdb)
	refChecker := redisstore.NewRefChecker(rdb)
	resetStore := redisstore.NewResetStore(rdb)

	// --- Services ---
	notificationService := service.NewNotificationService(notificationRepo, log)
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, notificationService, log)

	authService := service.NewAuthService(userRepo, sessionStore, resetStore, auditRepo,
		cfg.JWTSecret, cfg.TokenTTL, cfg.IdleTimeout, log)
	userService := service.NewUserService(userRepo, auditRepo, log)
	hospitalService := service.NewHospitalService(hospitalRepo, userRepo, auditRepo, log)
	remittanceService := service.NewRemittanceService(remittanceRepo, hospitalRepo, refChecker, dispatcher, auditRepo, log)
	ticketService := service.NewTicketService(ticketRepo, dispatcher, log)

	reaper := idle.NewReaper(sessionStore, auditRepo, cfg.IdleTimeout, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	hospitalHandler := handler.NewHospitalHandler(hospitalService)
	remittanceHandler := handler.NewRemittanceHandler(remittanceService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	// --- Middleware chains ---
	// Admin-facing pages bounce to /unauthorized, the remitter portal has
	// its own page. Both share the login redirect.
	adminPaths := guard.Paths{Login: cfg.LoginPath, Unauthorized: cfg.UnauthorizedPath}
	userPaths := guard.Paths{Login: cfg.LoginPath, Unauthorized: cfg.UserUnauthorizedPath}

	auth := middleware.Auth(authService)

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/reset-password", authHandler.ResetPassword)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Any authenticated user ---
	authed := e.Group("", auth, middleware.RequireAuthenticated(userPaths))
	authed.POST("/logout", authHandler.Logout)
	authed.GET("/notifications", notificationHandler.List)
	authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
	authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)

	// --- Remitter portal ---
	remitter := e.Group("", auth, middleware.RequireRoles(userPaths, domain.RoleRemitter))
	remitter.GET("/my-hospitals", hospitalHandler.MyHospitals)
	remitter.POST("/remittances", remittanceHandler.Submit)
	remitter.GET("/getremittances", remittanceHandler.Mine)
	remitter.GET("/remitter-hospitals-summary", remittanceHandler.RemitterSummaries)
	remitter.POST("/tickets", ticketHandler.Open)
	remitter.GET("/user/tickets", ticketHandler.Mine)

	// --- Admin console ---
	admin := e.Group("", auth, middleware.RequireAdmin(adminPaths))
	admin.POST("/register", authHandler.Register)
	admin.GET("/getusers", userHandler.List)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/update/:id", userHandler.Update)

	admin.POST("/addhospital", hospitalHandler.Create)
	admin.GET("/hospitals", hospitalHandler.List)
	admin.GET("/onehospital/:id", hospitalHandler.Get)
	admin.PUT("/hospital/update/:id", hospitalHandler.Update)
	admin.DELETE("/hospital/delete/:id", hospitalHandler.Delete)
	admin.PATCH("/hospital/restore/:id", hospitalHandler.Restore)

	admin.GET("/allremittances", remittanceHandler.All)
	admin.PATCH("/updateremittance/:id/:action", remittanceHandler.Decide)
	admin.GET("/admin-hospitals-summary", remittanceHandler.AdminSummaries)
	admin.GET("/audit-logs", auditHandler.List)

	admin.GET("/admin/tickets", ticketHandler.All)
	admin.PATCH("/admin/tickets/:id", ticketHandler.UpdateStatus)

	return &Server{Echo: e, Dispatcher: dispatcher, Reaper: reaper}
}
