package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/onboardly/onboarding-system/internal/api"
	"github.com/onboardly/onboarding-system/internal/core/service"
	mongodb "github.com/onboardly/onboarding-system/internal/infrastructure/db/mongo"
	redisdb "github.com/onboardly/onboarding-system/internal/infrastructure/db/redis"
	"github.com/onboardly/onboarding-system/internal/infrastructure/queue"
	"github.com/onboardly/onboarding-system/internal/infrastructure/ws"
	"github.com/onboardly/onboarding-system/internal/pkg/config"
	"github.com/onboardly/onboarding-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	sessions := mongodb.NewSessionRepository(db)
	applications := mongodb.NewApplicationRepository(db)
	notifications := mongodb.NewNotificationRepository(db)
	wishlists := mongodb.NewWishlistRepository(db)
	activityLogs := mongodb.NewActivityRepository(db)

	for name, idx := range map[string]interface {
		EnsureIndexes(ctx context.Context) error
	}{
		"users":         users,
		"sessions":      sessions,
		"applications":  applications,
		"notifications": notifications,
		"wishlists":     wishlists,
		"activity":      activityLogs,
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Real-time delivery ---
	hub := ws.NewHub(log)
	defer hub.Stop()

	notifier := redisdb.NewNotifier(rdb, log)
	go notifier.Subscribe(ctx, hub.Deliver)

	// --- Services ---
	clock := clockwork.NewRealClock()
	activity := service.NewActivityRecorder(activityLogs, log)

	notificationService := service.NewNotificationService(
		notifications, users, sessions, applications, notifier, log, clock)

	broadcaster := queue.NewBroadcaster(cfg.BroadcastWorkers, users, notificationService, log)
	broadcaster.Start(ctx)

	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, clock)
	sessionService := service.NewSessionService(
		sessions, applications, users, broadcaster, activity, log, clock)
	applicationService := service.NewApplicationService(
		applications, sessions, users, notificationService, activity, log, clock)
	discoveryService := service.NewDiscoveryService(
		sessions, applications, wishlists, users, log, clock)
	wishlistService := service.NewWishlistService(wishlists, sessions, users, log, clock)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Sessions:      sessionService,
		Discovery:     discoveryService,
		Applications:  applicationService,
		Notifications: notificationService,
		Wishlist:      wishlistService,
		Hub:           hub,
		Mongo:         db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		Log:           log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
