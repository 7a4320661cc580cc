package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/internlink/assessment-service/internal/cache"
	"github.com/internlink/assessment-service/internal/config"
	"github.com/internlink/assessment-service/internal/events"
	"github.com/internlink/assessment-service/internal/handlers"
	"github.com/internlink/assessment-service/internal/repositories/postgres"
	"github.com/internlink/assessment-service/internal/services"
	"github.com/internlink/assessment-service/internal/utils"
	"github.com/internlink/assessment-service/internal/validator"
	"github.com/internlink/assessment-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	defer repo.Close()

	var cacheService cache.CacheService = cache.NoopCache{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, catalog caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.ResultTopic,
		Logger:       logger,
	})
	if err != nil {
		if cfg.Environment == "production" {
			logger.Error("Failed to create Kafka publisher", "error", err)
			os.Exit(1)
		}
		logger.Warn("Kafka unavailable, result events will not leave the process", "error", err)
		publisher = events.NewMockEventPublisher()
	} else {
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	serviceManager := services.NewServiceManager(repo, cacheService, publisher, logger, validator.New())

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(logger))

	handlers.NewHandlerManager(serviceManager, cfg.JWTSecret, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting assessment service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
