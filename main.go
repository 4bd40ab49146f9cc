package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/google/uuid"

	"transcript-gateway/cache"
	"transcript-gateway/config"
	"transcript-gateway/handlers"
	"transcript-gateway/logger"
	"transcript-gateway/middleware"
	"transcript-gateway/providers"
	"transcript-gateway/ratelimit"
	"transcript-gateway/services/gateway"
	"transcript-gateway/services/transcribe"
	"transcript-gateway/validation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, accessLogConfig, err := logger.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize cache store (Redis, or in-memory when unreachable)
	store := cache.New(cfg.Redis, appLogger)
	defer store.Close()

	// Initialize rate limiter
	limiter := ratelimit.NewLimiter(store, cfg.RateLimit, appLogger)

	// Initialize provider registry
	registry := providers.NewRegistry(
		providers.NewYouTube(appLogger),
		providers.NewTikTok(appLogger),
	)

	// Initialize fallback transcription when a key is configured
	var transcriber transcribe.Service
	if cfg.Transcribe.APIKey != "" {
		transcriber = transcribe.NewService(cfg.Transcribe, appLogger)
	} else {
		appLogger.Warn().Msg("OPENAI_API_KEY is not set, fallback transcription will not be available")
	}

	// Initialize gateway service
	gatewayService := gateway.NewService(
		registry,
		store,
		limiter,
		transcriber,
		gateway.Config{
			CacheTTL:              cfg.Cache.TTL,
			DefaultListingLimit:   50,
			FallbackTranscription: cfg.Transcribe.Enabled,
		},
		appLogger,
	)

	// Initialize validator
	validator := validation.NewValidator()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: !cfg.Debug,
		StrictRouting:         true,
		CaseSensitive:         true,
		AppName:               "transcript-gateway " + cfg.Version,
	})

	setupMiddleware(app, cfg, accessLogConfig)

	// Setup routes
	transcriptHandler := handlers.NewTranscriptHandler(gatewayService, validator)

	api := app.Group("/api/v1", middleware.APIKey(cfg.Auth))
	api.Post("/transcript", transcriptHandler.Transcript)
	api.Post("/channel/videos", transcriptHandler.ChannelVideos)

	// Health check
	app.Get("/health", handlers.HealthCheck)
	app.Get("/health/ping", handlers.Ping)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		appLogger.Info().Msg("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			appLogger.Error().Err(err).Msg("Server shutdown error")
		}
		if err := store.Close(); err != nil {
			appLogger.Error().Err(err).Msg("Store shutdown error")
		}
	}()

	// Start server
	serverAddr := ":" + cfg.ServerPort
	appLogger.Info().Str("addr", serverAddr).Msg("Server starting")

	if err := app.Listen(serverAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func setupMiddleware(app *fiber.App, cfg *config.Config, accessLogConfig *fiberLogger.Config) {
	if cfg.Middleware.EnableRecover {
		app.Use(recover.New(recover.Config{
			EnableStackTrace: cfg.Debug,
		}))
	}

	if cfg.Middleware.EnableRequestID {
		app.Use(requestid.New(requestid.Config{
			Header: "X-Request-ID",
			Generator: func() string {
				return uuid.New().String()
			},
		}))
	}

	if cfg.Middleware.EnableLogger {
		app.Use(fiberLogger.New(*accessLogConfig))
	}

	if cfg.Middleware.EnableTimeout {
		app.Use(timeout.New(func(c *fiber.Ctx) error {
			return c.Next()
		}, cfg.RequestTimeout))
	}

	if cfg.Middleware.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
			AllowMethods:     strings.Join(cfg.CORS.AllowedMethods, ","),
			AllowHeaders:     strings.Join(cfg.CORS.AllowedHeaders, ","),
			ExposeHeaders:    strings.Join(cfg.CORS.ExposedHeaders, ","),
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}
}
