// Package main is the entrypoint for the Witple API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/witple/witple/internal/auth"
	"github.com/witple/witple/internal/cache"
	"github.com/witple/witple/internal/config"
	"github.com/witple/witple/internal/handler"
	"github.com/witple/witple/internal/middleware"
	"github.com/witple/witple/internal/repository"
	"github.com/witple/witple/internal/server"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Create tables idempotently before accepting requests
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to initialize schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("schema ready")

	// Initialize cache (optional - backs the logout token denylist)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	} else {
		logger.Warn("no REDIS_URL configured; logout will not revoke tokens")
	}

	// Token issuer with the process-wide signing secret
	tokens, err := auth.NewTokenIssuerWithAlgorithm(cfg.SecretKey, cfg.TokenAlgorithm, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to configure token signing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize handlers
	h := handler.New(cfg.AppName, cfg.AppVersion)
	healthHandler := newHealthHandler(cfg, repo, cacheClient)
	authHandler := newAuthHandler(repo, tokens, cacheClient, logger)
	userHandler := handler.NewUserHandler(repo, logger)
	messageHandler := handler.NewMessageHandler(repo, logger)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, userHandler, messageHandler, repo, cacheClient, tokens, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"app", cfg.AppName,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newHealthHandler avoids passing a typed nil *cache.Cache as the
// HealthChecker interface when Redis is not configured.
func newHealthHandler(cfg *config.Config, repo *repository.Repository, cacheClient *cache.Cache) *handler.HealthHandler {
	if cacheClient == nil {
		return handler.NewHealthHandler(cfg, repo, nil)
	}
	return handler.NewHealthHandler(cfg, repo, cacheClient)
}

// newAuthHandler keeps the revoker nil when Redis is not configured.
func newAuthHandler(repo *repository.Repository, tokens *auth.TokenIssuer, cacheClient *cache.Cache, logger *slog.Logger) *handler.AuthHandler {
	if cacheClient == nil {
		return handler.NewAuthHandler(repo, tokens, nil, logger)
	}
	return handler.NewAuthHandler(repo, tokens, cacheClient, logger)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	messageHandler *handler.MessageHandler,
	repo *repository.Repository,
	cacheClient *cache.Cache,
	tokens *auth.TokenIssuer,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Probes (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Root)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: tokens,
		Users:  repo,
	}
	if cacheClient != nil {
		authCfg.Denylist = cacheClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/version", healthHandler.Version)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(middleware.Auth(authCfg)).Post("/logout", authHandler.Logout)
			r.With(middleware.Auth(authCfg)).Get("/me", authHandler.Me)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RequireActive())

			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Post("/change-password", userHandler.ChangePassword)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", messageHandler.Create)
			r.Get("/", messageHandler.List)
			r.Get("/{id}", messageHandler.Get)
			r.Put("/{id}", messageHandler.Update)
			r.Delete("/{id}", messageHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
