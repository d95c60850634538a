package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/openexam/quiz-service/internal/cache"
	"github.com/openexam/quiz-service/internal/config"
	"github.com/openexam/quiz-service/internal/events"
	"github.com/openexam/quiz-service/internal/handlers"
	"github.com/openexam/quiz-service/internal/repositories/filestore"
	"github.com/openexam/quiz-service/internal/services"
	"github.com/openexam/quiz-service/internal/utils"
	"github.com/openexam/quiz-service/internal/validator"
	"github.com/openexam/quiz-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "development" {
		logger = utils.NewDevelopmentLogger()
	} else {
		logger = utils.NewDefaultLogger()
	}
	slogLogger := utils.ToSlogLogger(logger)

	logger.Info("Starting quiz service",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("Failed to create data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	v := validator.New()

	repo := filestore.NewRepository(filestore.Config{
		QuestionBankPath: cfg.QuestionBankPath(),
		ResponsesPath:    cfg.ResponsesPath(),
		ScoreLogPath:     cfg.ScoreLogPath(),
	}, v, slogLogger)

	var cacheService cache.CacheService
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogLogger)
	} else {
		logger.Info("No Redis URL configured, using in-memory cache")
		cacheService = cache.NewMemoryCache()
	}

	publisher, bus, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	subscriberCtx, subscriberCancel := context.WithCancel(context.Background())
	defer subscriberCancel()

	if bus != nil {
		subscriber := events.NewScoreLogSubscriber(bus, cfg.Events.Topic, repo.ScoreLog(), slogLogger)
		go func() {
			if err := subscriber.Run(subscriberCtx); err != nil {
				logger.Error("Score log subscriber stopped", "error", err)
			}
		}()
	}

	serviceManager := services.NewServiceManager(repo, cacheService, publisher, v, slogLogger, services.ManagerConfig{
		PenaltyRate:  cfg.PenaltyRate,
		CacheTTL:     cfg.CacheTTL,
		TickInterval: time.Second,
	})

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.GetAllowedOrigins()
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down gracefully", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	// Stop live session countdowns, then let the event bus drain.
	serviceManager.Shutdown()
	subscriberCancel()

	logger.Info("Shutdown complete")
}
