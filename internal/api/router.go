package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/empcore/employee-management/internal/api/handler"
	"github.com/empcore/employee-management/internal/api/middleware"
	"github.com/empcore/employee-management/internal/core/domain"
	"github.com/empcore/employee-management/internal/core/ports"
	"github.com/empcore/employee-management/internal/core/service"
	"github.com/empcore/employee-management/internal/infrastructure/config"
	mongorepo "github.com/empcore/employee-management/internal/infrastructure/db/mongo"
	redisinfra "github.com/empcore/employee-management/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("employee_mgmt"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	codeRepo := mongorepo.NewApprovalCodeRepository(db)
	employeeRepo := mongorepo.NewEmployeeRepository(db)

	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenTTL(), log)
	authService := service.NewAuthService(userRepo, tokenService, audit, log)
	accountService := service.NewAccountService(userRepo, codeRepo, audit, log)
	employeeService := service.NewEmployeeService(employeeRepo, log)

	limiter := redisinfra.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window())

	authHandler := handler.NewAuthHandler(authService, accountService, tokenService, limiter)
	adminHandler := handler.NewAdminHandler(accountService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)

	authRequired := middleware.Auth(middleware.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})

	// --- Auth routes (public) ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/validate", authHandler.Validate)
	auth.POST("/register", authHandler.Register)
	auth.POST("/redeem-moderator", authHandler.RedeemModerator)

	// --- Admin routes ---
	admin := e.Group("/api/admin", authRequired, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/users", adminHandler.CreateUser)
	admin.POST("/approval-codes", adminHandler.GenerateApprovalCode)

	// --- Employee routes ---
	employees := e.Group("/api/employees", authRequired)
	employees.GET("", employeeHandler.List, middleware.RBAC(domain.RoleAdmin, domain.RoleModerator, domain.RoleReadOnly))
	employees.GET("/:id", employeeHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RoleModerator, domain.RoleReadOnly))
	employees.POST("", employeeHandler.Create, middleware.RBAC(domain.RoleAdmin, domain.RoleModerator))
	employees.PUT("/:id", employeeHandler.Update, middleware.RBAC(domain.RoleAdmin, domain.RoleModerator))
	employees.DELETE("/:id", employeeHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
