package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"concierge/internal/config"
	"concierge/internal/handler"
	"concierge/internal/repository"
	"concierge/internal/service"
	"concierge/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Listing concierge",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Interaction log (optional)
	var interactions service.InteractionLogger
	var reader handler.InteractionReader
	var database handler.Pinger
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewInteractionRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()

		interactions = repo
		reader = repo
		database = repo
		logger.Info("Connected to PostgreSQL interaction log")
	} else {
		logger.Warn("Interaction log is disabled",
			zap.String("hint", "set DATABASE_URL or PG_HOST to record queries and overlay actions"),
		)
	}

	// Initialize clients
	assistant := service.NewAssistantClient(&cfg.Assistant)
	renovator, err := service.NewRenovationClient(&cfg.Renovation)
	if err != nil {
		logger.Fatal("Invalid renovation service configuration", zap.Error(err))
	}
	logger.Info("Clients initialized",
		zap.String("assistant", cfg.Assistant.BaseURL),
		zap.String("renovation", cfg.Renovation.BaseURL),
		zap.Float64("renovation_rpm", cfg.Renovation.RequestsPerMinute),
	)

	// Initialize services
	cache := service.NewEnhancementCache(renovator, logger)
	manager := service.NewSessionManager(service.SessionDeps{
		Locale:       service.LocaleFor(cfg.Session.Locale),
		Assistant:    assistant,
		Cache:        cache,
		Interactions: interactions,
		Logger:       logger,
	})

	// Initialize handlers
	handlers := handler.Handlers{
		Session:      handler.NewSessionHandler(manager, cfg.WaitTimeout(), logger),
		Overlay:      handler.NewOverlayHandler(manager),
		Enhancement:  handler.NewEnhancementHandler(manager, cfg.WaitTimeout()),
		Interactions: handler.NewInteractionHandler(reader, cfg.Session.HistoryLimit, cfg.Session.HistoryMaxLimit),
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	// Health check and version endpoints
	health := handler.NewHealthHandler(manager, database, handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	})
	router.GET("/health", health.Health)
	router.GET("/version", health.Version)

	// API routes
	handler.RegisterRoutes(router.Group("/api/v1"), handlers)

	// Placeholder image and static assets
	setupStaticFiles(router, cfg.Server.StaticDir, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// splitList splits a comma separated setting, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
