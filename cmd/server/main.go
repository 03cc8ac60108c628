package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/shareit-app/shareit-server/internal/application"
	"github.com/shareit-app/shareit-server/internal/config"
	bookingEvents "github.com/shareit-app/shareit-server/internal/events"
	"github.com/shareit-app/shareit-server/internal/handler"
	"github.com/shareit-app/shareit-server/internal/metrics"
	"github.com/shareit-app/shareit-server/internal/platform/database"
	"github.com/shareit-app/shareit-server/internal/platform/health"
	"github.com/shareit-app/shareit-server/internal/platform/kafka"
	"github.com/shareit-app/shareit-server/internal/platform/logger"
	"github.com/shareit-app/shareit-server/internal/platform/middleware"
	"github.com/shareit-app/shareit-server/internal/repository"
	"github.com/shareit-app/shareit-server/migrations"
)

const serviceName = "shareit-server"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.Bool("kafka_enabled", cfg.KafkaConfig.Enabled),
		zap.Bool("legacy_booking_queries", cfg.LegacyBookingQueries),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Connect(ctx, cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}

	// Run database migrations
	if err := migrate(ctx, cfg.AppEnv, db, log); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		return err
	}

	// Initialize event publisher
	var publisher application.EventPublisher = application.NoopPublisher{}
	if cfg.KafkaConfig.Enabled {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormRequestRepository(db)
	tx := database.NewGormTransactor(db)

	policy := application.DefaultQueryPolicy()
	if cfg.LegacyBookingQueries {
		policy = application.LegacyQueryPolicy()
	}

	// Initialize application services
	bookingService := application.NewBookingService(bookingRepo, itemRepo, userRepo, tx, policy, publisher, log)
	itemService := application.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, requestRepo, tx, log)
	userService := application.NewUserService(userRepo, tx, log)
	requestService := application.NewRequestService(requestRepo, itemRepo, userRepo, tx, log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	itemHandler := handler.NewItemHandler(itemService)
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService)

	var verifier *middleware.TokenVerifier
	if cfg.JWTConfig.Secret != "" {
		verifier = middleware.NewTokenVerifier(cfg.JWTConfig.Secret)
	}
	authMW := middleware.AuthMiddleware(verifier)

	// Setup Gin router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(metrics.HTTPMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(serviceName, map[string]health.Checker{
		"postgres": func(ctx context.Context) error { return database.Ping(ctx, db) },
	})
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, authMW)
	itemHandler.RegisterRoutes(&router.RouterGroup, authMW)
	userHandler.RegisterRoutes(&router.RouterGroup)
	requestHandler.RegisterRoutes(&router.RouterGroup, authMW)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Start the approval command consumer
	if cfg.KafkaConfig.Enabled {
		groupID := cfg.KafkaConfig.GroupPrefix + "booking-commands"
		approvalConsumer := bookingEvents.NewApprovalCommandConsumer(cfg.KafkaConfig.Brokers, groupID, bookingService, log)
		defer func() { _ = approvalConsumer.Close() }()

		g.Go(func() error {
			log.Info("starting approval command consumer")
			if err := approvalConsumer.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("approval command consumer: %w", err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down " + serviceName + "...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server forced shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error(serviceName+" stopped with error", zap.Error(err))
		return err
	}
	log.Info(serviceName + " stopped")
	return nil
}

// migrate creates the schema. Development uses AutoMigrate; every other
// environment applies the embedded goose migrations.
func migrate(ctx context.Context, env string, db *gorm.DB, log *zap.Logger) error {
	if env == "development" {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info("database migration completed (dev auto-migrate)")
		return nil
	}
	return database.RunMigrations(ctx, db, migrations.FS, ".", log)
}
