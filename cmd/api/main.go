// Package main is the entry point for the Controle Financeiro API server
// and its Telegram bot gateway.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/controle-financeiro/backend/config"
	"github.com/controle-financeiro/backend/internal/application/usecase/linking"
	"github.com/controle-financeiro/backend/internal/application/usecase/transaction"
	"github.com/controle-financeiro/backend/internal/infra/db"
	"github.com/controle-financeiro/backend/internal/infra/server/router"
	"github.com/controle-financeiro/backend/internal/integration/adapters"
	"github.com/controle-financeiro/backend/internal/integration/entrypoint/controller"
	"github.com/controle-financeiro/backend/internal/integration/entrypoint/middleware"
	"github.com/controle-financeiro/backend/internal/integration/persistence"
	"github.com/controle-financeiro/backend/internal/integration/persistence/model"
	"github.com/controle-financeiro/backend/internal/integration/telegram"
	"github.com/controle-financeiro/backend/internal/integration/worker"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("Starting Controle Financeiro API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Process lifetime context; cancelling it stops the bot and the sweeper.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	var database *db.Database
	var dbHealthChecker func() bool

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Warn("Database connection failed, running without database",
			"error", err,
		)
		database = nil
		dbHealthChecker = func() bool { return false }
	} else {
		if err := database.AutoMigrate(
			&model.LinkingCodeModel{},
			&model.ChannelLinkModel{},
			&model.CategoryModel{},
			&model.TransactionModel{},
		); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")

		dbHealthChecker = database.HealthCheck
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()
	}

	healthController := controller.NewHealthController(dbHealthChecker)

	var telegramController *controller.TelegramController
	var codeRateLimiter *middleware.RateLimiter
	var authMiddleware *middleware.AuthMiddleware

	if database != nil {
		// Repositories
		codeRepo := persistence.NewLinkingCodeRepository(database.DB())
		linkRepo := persistence.NewChannelLinkRepository(database.DB())
		transactionRepo := persistence.NewTransactionRepository(database.DB())
		categoryRepo := persistence.NewCategoryRepository(database.DB())

		// Services
		tokenService := adapters.NewTokenService(cfg.JWT.Secret)

		// Use cases
		issueUseCase := linking.NewIssueLinkingCodeUseCase(codeRepo)
		consumeUseCase := linking.NewConsumeLinkingCodeUseCase(codeRepo, linkRepo)
		statusUseCase := linking.NewGetLinkStatusUseCase(linkRepo)
		unlinkUseCase := linking.NewUnlinkChannelUseCase(linkRepo)
		recordUseCase := transaction.NewRecordChannelTransactionUseCase(linkRepo, transactionRepo, categoryRepo)

		// HTTP layer
		telegramController = controller.NewTelegramController(issueUseCase, statusUseCase, unlinkUseCase)
		codeRateLimiter = middleware.NewRateLimiter()
		authMiddleware = middleware.NewAuthMiddleware(tokenService)

		// Telegram bot gateway
		if cfg.Telegram.BotToken != "" {
			botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
			if err != nil {
				slog.Error("Failed to initialize Telegram bot", "error", err)
				os.Exit(1)
			}

			limiter := adapters.NewLinkAttemptLimiter(
				newRedisClient(&cfg.Redis),
				cfg.Telegram.LinkMaxAttempts,
				cfg.Telegram.LinkAttemptWindow,
			)

			handler := telegram.NewHandler(botAPI, consumeUseCase, recordUseCase, limiter)
			gateway := telegram.NewGateway(botAPI, handler, cfg.Telegram.PollTimeout)
			go gateway.Run(ctx)
		} else {
			slog.Warn("TELEGRAM_BOT_TOKEN not set, bot gateway disabled")
		}

		// Expired code sweeper (housekeeping only; expiry is enforced at
		// consumption time either way)
		if cfg.Telegram.SweeperEnabled {
			sweeper := worker.NewCodeSweeper(codeRepo, worker.SweeperConfig{
				Interval: cfg.Telegram.SweepInterval,
			})
			go sweeper.Start(ctx)
		}

		slog.Info("Telegram integration initialized successfully")
	} else {
		slog.Warn("Telegram integration not initialized due to missing database connection")
	}

	// Setup router
	r := router.NewRouter(healthController, telegramController, codeRateLimiter, authMiddleware)
	engine := r.Setup(cfg.Server.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

// newRedisClient builds the Redis client for the linking attempt limiter.
// The limiter fails open, so a bad Redis config degrades the throttle
// instead of the process.
func newRedisClient(cfg *config.RedisConfig) *redis.Client {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("Invalid REDIS_URL, using defaults", "error", err)
		opts = &redis.Options{Addr: "localhost:6379"}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return redis.NewClient(opts)
}
