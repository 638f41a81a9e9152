// Package server contains the HTTP surface: routes, middleware, and handlers.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dashstack/internal/auth"
	"dashstack/internal/cache"
	"dashstack/internal/config"
	"dashstack/internal/database"
	"dashstack/internal/email"
	"dashstack/internal/middleware"
	"dashstack/internal/models"
	"dashstack/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// sessionCookie is the cookie carrying the session token for browser flows;
// API clients may use the Authorization header instead.
const sessionCookie = "session"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	profileRepo    repository.ProfileRepository
	credentialRepo repository.CredentialRepository
	settingsRepo   repository.SettingsRepository
	issuer         *auth.SessionIssuer
	tokens         *auth.TokenStore
	mailer         email.Mailer
	authService    *auth.Service
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.Connect(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	profileRepo := repository.NewProfileRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	issuer := auth.NewSessionIssuer(cfg.JWTSecret)
	tokens := auth.NewTokenStore(redisClient)
	mailer := email.NewMailer(cfg.EmailAPIKey, cfg.EmailFrom, cfg.EmailFromName)

	prom := middleware.InitMetrics("dashstack-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		profileRepo:    profileRepo,
		credentialRepo: credentialRepo,
		settingsRepo:   settingsRepo,
		issuer:         issuer,
		tokens:         tokens,
		mailer:         mailer,
	}
	server.authService = auth.NewService(
		profileRepo, credentialRepo, settingsRepo,
		issuer, tokens, mailer,
		cfg.AppURL, cfg.EmailVerificationEnabled(),
	)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/logout", s.AuthRequired(), s.Logout)
	authGroup.Post("/reset-password", middleware.RateLimit(
		s.redis, 3, 15*time.Minute, "reset_password"), s.ResetPassword)
	// Works both authenticated (session) and unauthenticated (reset token).
	authGroup.Post("/update-password", s.UpdatePassword)
	authGroup.Get("/callback", s.AuthCallback)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)

	settings := protected.Group("/settings")
	settings.Get("/", s.GetMySettings)
	settings.Put("/", s.UpdateMySettings)

	// Admin API: JSON surface, 403 on non-admin
	adminAPI := protected.Group("/admin", s.AdminRequired())
	adminAPI.Get("/users", s.AdminListUsers)
	adminAPI.Post("/users/:id/promote", s.AdminPromoteUser)
	adminAPI.Post("/users/:id/demote", s.AdminDemoteUser)
	adminAPI.Post("/ensure-profile", s.AdminEnsureProfile)

	// Admin pages: browser surface, gated with redirects instead of 403s
	adminPages := app.Group("/admin", s.AdminGate())
	adminPages.Get("/", s.AdminDashboard)
	adminPages.Get("/users", s.AdminListUsers)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional: tokens and rate limits degrade without it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// bearerToken extracts the session token from the Authorization header or
// the session cookie, in that order.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies(sessionCookie)
}

// resolveSession parses and validates the presented token, including the
// sign-out deny-list check. Returns nil when no valid session is present.
func (s *Server) resolveSession(c *fiber.Ctx) *auth.Session {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil
	}
	session, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil
	}
	if s.tokens.IsJTIDenied(c.Context(), session.JTI) {
		return nil
	}
	return session
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := s.resolveSession(c)
		if session == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		c.Locals("userID", session.UserID)
		c.Locals("session", session)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, session.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// The role is read from the store on every request, never from the token,
// so a demotion takes effect immediately. Must run after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(string)

		role, err := s.currentRole(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !role.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// currentRole fetches the profile's role from the store. A missing profile
// resolves to the zero role, which grants nothing.
func (s *Server) currentRole(ctx context.Context, userID string) (models.Role, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", nil
	}
	return profile.Role, nil
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Dashstack API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
