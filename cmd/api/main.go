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

	"github.com/noah-isme/lentera-go-api/internal/config"
	"github.com/noah-isme/lentera-go-api/internal/database"
	"github.com/noah-isme/lentera-go-api/internal/handler"
	"github.com/noah-isme/lentera-go-api/internal/middleware"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/progresscache"
	"github.com/noah-isme/lentera-go-api/internal/repository"
	"github.com/noah-isme/lentera-go-api/internal/router"
	"github.com/noah-isme/lentera-go-api/internal/service"
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

	if err := db.AutoMigrate(
		&models.Course{},
		&models.CourseModule{},
		&models.Lesson{},
		&models.Quiz{},
		&models.User{},
		&models.Enrollment{},
		&models.LessonProgress{},
		&models.QuizAttempt{},
	); err != nil {
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
		logger.Warn().Msg("redis url not configured, activity feed caching disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	contentRepo := repository.NewContentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	seedRepo := repository.NewSeedRepository(db)

	resultCache := progresscache.New(cfg.ProgressCacheTTL, cfg.ProgressCacheCapacity)

	progressService := service.NewCourseProgressService(contentRepo, enrollmentRepo, progressRepo, resultCache, cfg.QuizAttemptFetchLimit, logger)
	activityService := service.NewActivityFeedService(contentRepo, progressRepo, redisClient, cfg.ActivityCacheTTL, cfg.ActivityFeedLimit, validate, logger)
	seedService := service.NewSeedService(seedRepo, !cfg.IsProduction(), cfg.SeedToken, logger)

	progressHandler := handler.NewCourseProgressHandler(progressService, logger)
	activityHandler := handler.NewActivityFeedHandler(activityService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ProgressHandler: progressHandler,
		ActivityHandler: activityHandler,
		SeedHandler:     seedHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
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
