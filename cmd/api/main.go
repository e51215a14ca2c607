package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/config"
	"github.com/classpulse/classboard-api/internal/database"
	"github.com/classpulse/classboard-api/internal/handler"
	"github.com/classpulse/classboard-api/internal/middleware"
	"github.com/classpulse/classboard-api/internal/repository"
	"github.com/classpulse/classboard-api/internal/router"
	"github.com/classpulse/classboard-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, board snapshots are uncached")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	seatRepo := repository.NewSeatRepository(db)
	logRepo := repository.NewActivityLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	settingsService := service.NewSettingsService(settingsRepo, logger)
	liveFeed := service.NewLiveFeedService(logger)
	seatService := service.NewSeatService(seatRepo, logRepo, settingsService, liveFeed, cfg, logger)
	boardService := service.NewBoardService(seatRepo, logRepo, settingsService, redisClient, cfg, logger)
	adminService := service.NewAdminService(settingsService, sessionRepo, logRepo, boardService, cfg, logger)

	seatHandler := handler.NewSeatHandler(seatService, validate, logger)
	boardHandler := handler.NewBoardHandler(boardService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)
	liveFeedHandler := handler.NewLiveFeedHandler(liveFeed, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SeatHandler:     seatHandler,
		BoardHandler:    boardHandler,
		AdminHandler:    adminHandler,
		LiveFeedHandler: liveFeedHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
