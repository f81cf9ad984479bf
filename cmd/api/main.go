package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buildshare/internal/config"
	"buildshare/internal/db"
	apihttp "buildshare/internal/http"
	"buildshare/internal/repository"
	"buildshare/internal/service"
	"buildshare/internal/ws"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if err := db.ApplyMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		logger.Fatal("db migrations", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	notificationRepo := repository.NewPgNotificationRepository(pool)
	projectRepo := repository.NewPgProjectRepository(pool)
	updateRepo := repository.NewPgProjectUpdateRepository(pool)

	hub := ws.NewHub(logger)

	// Con Redis configurado, los broadcasts se replican entre instancias.
	var relay ws.Relay
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, running without relay", zap.Error(err))
			_ = redisClient.Close()
		} else {
			relay = ws.NewRedisRelay(logger, redisClient, hub.DeliverLocal)
			hub.UseRelay(relay)
		}
		cancel()
	}

	notifier := service.NewNotifier(logger, notificationRepo)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	userSvc := service.NewUserService(logger, userRepo)
	messageSvc := service.NewMessageService(logger, messageRepo, userRepo, hub, notifier)
	conversationSvc := service.NewConversationService(messageRepo, userRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	messageHandler := apihttp.NewMessageHandler(logger, messageSvc, conversationSvc)
	notificationHandler := apihttp.NewNotificationHandler(logger, notificationRepo)
	projectHandler := apihttp.NewProjectUpdateHandler(logger, projectRepo, updateRepo, notifier)
	wsHandler := ws.NewHandler(logger, hub, jwtSvc)

	router := apihttp.NewRouter(logger, jwtSvc, userHandler, messageHandler, notificationHandler, projectHandler, wsHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if relay != nil {
		_ = relay.Close()
	}
	notifier.Close()
}
