package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"threadline/internal/cache"
	"threadline/internal/config"
	"threadline/internal/database"
	"threadline/internal/handler"
	"threadline/internal/queue"
	"threadline/internal/redis"
	"threadline/internal/repository"
	"threadline/internal/service"
	"threadline/internal/worker"
)

const (
	streamMaxLen    = 10000
	shutdownTimeout = 10 * time.Second
)

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// 3. Connect to Redis
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// 4. Repositories, cache and queue
	userRepo := repository.NewUserRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	tokenRepo := repository.NewDeviceTokenRepository(db)

	activityCache := cache.NewActivityCache(redisClient.Client)
	publisher := queue.NewPublisher(redisClient.Client, streamMaxLen)
	consumer := queue.NewConsumer(redisClient.Client)

	// 5. Services
	userService := service.NewUserService(userRepo, threadRepo, publisher)
	userService.SetDefaultImage(cfg.DefaultAvatarURL)
	threadService := service.NewThreadService(threadRepo, publisher)
	activityService := service.NewActivityService(threadRepo, activityCache)
	deviceService := service.NewDeviceService(tokenRepo)

	var mediaService handler.MediaService
	if cfg.MediaEnabled() {
		ms, err := service.NewMediaService(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to init media service: %w", err)
		}
		mediaService = ms
	} else {
		log.Println("R2 is not configured, avatar uploads are disabled")
	}

	// 6. Background workers
	eventHandler := worker.NewHandler(activityCache, userRepo)
	if cfg.PushEnabled() {
		fcm, err := service.NewFCMClient(ctx, cfg.FCMProjectID, cfg.FCMClientEmail, cfg.FCMPrivateKey)
		if err != nil {
			return fmt.Errorf("failed to init FCM: %w", err)
		}
		eventHandler.SetPushSender(service.NewPushService(tokenRepo, fcm))
	} else {
		log.Println("FCM is not configured, push notifications are disabled")
	}

	workerCfg := worker.DefaultManagerConfig()
	workerCfg.WorkerCount = cfg.WorkerCount
	manager := worker.NewManager(consumer, eventHandler, workerCfg)
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	// 7. Setup Server
	router := NewRouter(RouterConfig{
		UserHandler:     handler.NewUserHandler(userService, activityService),
		ActivityHandler: handler.NewActivityHandler(userService, activityService),
		ThreadHandler:   handler.NewThreadHandler(userService, threadService),
		MediaHandler:    handler.NewMediaHandler(mediaService),
		DeviceHandler:   handler.NewDeviceHandler(userService, deviceService),
		JWTSecret:       cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
