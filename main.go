package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/handlers"
	"github.com/onurcolak/message-dispatcher/internal/dispatch"
	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/internal/repository"
	"github.com/onurcolak/message-dispatcher/internal/scheduler"
	"github.com/onurcolak/message-dispatcher/internal/service"
	"github.com/onurcolak/message-dispatcher/pkg/database"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
	"github.com/onurcolak/message-dispatcher/pkg/platform"
	"github.com/onurcolak/message-dispatcher/pkg/redis"
	"github.com/onurcolak/message-dispatcher/pkg/validator"
	"github.com/onurcolak/message-dispatcher/pkg/webhook"
	"github.com/onurcolak/message-dispatcher/routes"

	_ "github.com/onurcolak/message-dispatcher/docs" // swagger docs
)

// @title Message Dispatcher API
// @version 1.0
// @description Scheduled multi-channel message dispatch over WhatsApp, TikTok and Telegram

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey ApiToken
// @in header
// @name x-api-token

// @schemes http https
func main() {
	// A missing .env is fine, the environment may already be populated.
	envErr := godotenv.Load()

	// Load config
	cfg := environments.Load()

	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	if envErr != nil {
		logger.Debugf("No .env file loaded: %v", envErr)
	}

	// Hard-fail if required secrets are missing
	if cfg.Auth.APIToken == "" {
		logger.Fatalf("API_TOKEN is required but not set")
	}

	logger.Infof("Starting Message Dispatcher...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis
	redisClient, err := redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, caching disabled: %v", err)
		redisClient = nil
	}

	// Channel adapters
	adapters := map[domain.Channel]dispatch.Adapter{
		domain.ChannelWhatsApp: platform.NewWhatsAppClient(cfg.WhatsApp),
		domain.ChannelTikTok:   platform.NewTikTokClient(cfg.TikTok),
	}
	if cfg.Telegram.BotToken != "" {
		telegramClient, err := platform.NewTelegramClient(cfg.Telegram)
		if err != nil {
			logger.Warnf("Telegram disabled: %v", err)
		} else {
			adapters[domain.ChannelTelegram] = telegramClient
		}
	} else {
		logger.Warnf("TELEGRAM_BOT_TOKEN not set, telegram channel disabled")
	}

	router := dispatch.NewRouter(adapters)
	logger.Infof("Channels enabled: %v", router.Channels())

	// Initialize repositories
	messageRepo := repository.NewMessageRepository(db)
	configRepo := repository.NewScheduleConfigRepository(db)

	// Initialize services. The cache is passed as an untyped nil when Redis is down.
	var (
		dispatcher     *service.Dispatcher
		messageService *service.MessageService
	)
	if redisClient != nil {
		dispatcher = service.NewDispatcher(messageRepo, router, redisClient)
		messageService = service.NewMessageService(messageRepo, redisClient, cfg.Message)
	} else {
		dispatcher = service.NewDispatcher(messageRepo, router, nil)
		messageService = service.NewMessageService(messageRepo, nil, cfg.Message)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if released, err := messageService.ReleaseStuckSending(ctx); err != nil {
		logger.Errorf("Failed to release messages stuck in sending: %v", err)
	} else if released > 0 {
		logger.Warnf("Released %d messages left in sending by a previous run", released)
	}

	// Initialize scheduler
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Warnf("Unknown timezone %q, falling back to UTC: %v", cfg.Scheduler.Timezone, err)
		location = time.UTC
	}

	opts := scheduler.Options{
		DefaultCadence: cfg.Scheduler.DefaultCronExpression,
		Location:       location,
		AlertThreshold: cfg.Alert.IterationCount,
	}

	var sched *scheduler.Scheduler
	if cfg.Alert.WebhookURL != "" {
		webhookClient := webhook.NewWebhookClient(cfg.Alert)
		logger.Infof("Alert webhook configured: %s", webhookClient.GetURL())
		sched = scheduler.NewScheduler(configRepo, dispatcher, webhookClient, opts)
	} else {
		sched = scheduler.NewScheduler(configRepo, dispatcher, nil, opts)
	}

	if err := sched.Init(ctx); err != nil {
		logger.Errorf("Scheduler not armed: %v", err)
	}

	scheduleConfigService := service.NewScheduleConfigService(configRepo, sched)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, nil, sched, router.Channels())
	if redisClient != nil {
		healthHandler = handlers.NewHealthHandler(db, redisClient, sched, router.Channels())
	}

	h := routes.Handlers{
		Health:         healthHandler,
		Message:        handlers.NewMessageHandler(messageService, dispatcher),
		ScheduleConfig: handlers.NewScheduleConfigHandler(scheduleConfigService),
		Scheduler:      handlers.NewSchedulerHandler(sched),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-api-token",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, h, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Stop scheduler first (with timeout) so no firing starts while the server drains
	logger.Infof("Stopping scheduler...")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	done := make(chan error, 1)
	go func() {
		done <- sched.Stop()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Errorf("Error stopping scheduler: %v", err)
		} else {
			logger.Infof("Scheduler stopped successfully")
		}
	case <-stopCtx.Done():
		logger.Warnf("Scheduler stop timeout, forcing shutdown")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
