package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mathieu-neron/songrec/internal/config"
	"github.com/mathieu-neron/songrec/internal/db"
	"github.com/mathieu-neron/songrec/internal/handler"
	"github.com/mathieu-neron/songrec/internal/middleware"
	"github.com/mathieu-neron/songrec/internal/repository"
	"github.com/mathieu-neron/songrec/internal/repository/memory"
	"github.com/mathieu-neron/songrec/internal/router"
	"github.com/mathieu-neron/songrec/internal/service"
)

const (
	serviceName = "songrec"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", serviceName)
		middleware.Logger.Fatal().Err(err).Msg("invalid configuration")
	}
	middleware.InitLogger(cfg.LogLevel, serviceName)
	logger := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store service.RecommendationStore
		pool  *pgxpool.Pool
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		store = memory.New()
	default:
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply migrations")
		}
		store = repository.NewRecommendationRepo(pool)
	}

	cache := service.NewCacheService(cfg.RedisURL, logger)
	defer cache.Close()

	handler.InitMetrics(prometheus.DefaultRegisterer, pool)
	cache.SetObserver(handler.CacheHit, handler.CacheMiss)

	svc := service.NewRecommendationService(store, cache, cfg.Policy(), logger)

	app := fiber.New(fiber.Config{
		AppName:      "songrec API",
		ServerHeader: "songrec",
		ReadTimeout:  cfg.Timeouts.Read,
		WriteTimeout: cfg.Timeouts.Write,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: middleware.ErrorHandler,
	})

	closeLimiters := router.Setup(app, &router.Handlers{
		Recommendation: handler.NewRecommendationHandler(svc),
		Health:         handler.NewHealthHandler(pool, cache.Client(), version),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		EnableReset: cfg.IsTest(),
		Gatherer:    prometheus.DefaultGatherer,
	})
	defer closeLimiters()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Str("store", cfg.StoreDriver).
			Msg("songrec backend starting")
		listenErr <- app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-listenErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server stopped")
		}
		return
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", cfg.Timeouts.Shutdown).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
