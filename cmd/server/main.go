package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/brightdesk/user-directory/internal/api"
	"github.com/brightdesk/user-directory/internal/app"
	"github.com/brightdesk/user-directory/internal/core/service"
	"github.com/brightdesk/user-directory/internal/infrastructure/config"
	mongodb "github.com/brightdesk/user-directory/internal/infrastructure/db/mongo"
	redisdb "github.com/brightdesk/user-directory/internal/infrastructure/db/redis"
	"github.com/brightdesk/user-directory/internal/infrastructure/notify"
	"github.com/brightdesk/user-directory/internal/infrastructure/queue"
	"github.com/brightdesk/user-directory/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "user-directory",
		Pretty:  cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ids, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid snowflake node id")
	}

	// --- Services ---
	userRepo := mongodb.NewUserRepository(db)
	roleLevels := service.NewRoleLevelCache(cfg.Cache.RoleLevelTTL)
	userService := service.NewUserService(userRepo, ids, roleLevels, log)
	authService := service.NewAuthService(userService, userRepo, cfg.JWTSecret, 24*time.Hour)

	publisher := notify.NewStreamPublisher(rdb)
	delivery := service.NewDeliveryService(publisher, log)
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, delivery, log)
	dispatcher.Start(ctx)
	notificationService := service.NewNotificationService(dispatcher, log)

	activeCache := redisdb.NewActiveUserCache(rdb, cfg.Cache.ActiveUsersTTL)

	// --- Application ---
	application := app.New(userService, notificationService, activeCache, userRepo, log)
	application.AddCloser(closerFunc(func() error {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return mongoClient.Disconnect(disconnectCtx)
	}))
	application.AddCloser(rdb)
	application.AddCloser(publisher)
	defer application.Cleanup()

	// Run covers Initialize plus the one-shot admin batch workflow.
	if cfg.Notify.StartupBatch {
		if err := application.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("startup workflow failed")
		}
	} else if err := application.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Users:     userService,
		Auth:      authService,
		Active:    application,
		Batch:     application,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// closerFunc adapts a func to io.Closer for cleanup registration.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }
