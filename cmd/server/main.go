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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shopbot/backend/config"
	httpDelivery "github.com/shopbot/backend/internal/delivery/http"
	"github.com/shopbot/backend/internal/domain"
	"github.com/shopbot/backend/internal/infrastructure/cache"
	"github.com/shopbot/backend/internal/infrastructure/catalog"
	"github.com/shopbot/backend/internal/infrastructure/gemini"
	"github.com/shopbot/backend/internal/observability"
	"github.com/shopbot/backend/internal/usecase"
)

const version = "1.0.0"

// closableCache is a cache backend that holds resources
type closableCache interface {
	domain.CacheRepository
	Close() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "shopbot-backend",
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Str("catalog", cfg.Catalog.Source).
		Msg("starting shopbot backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := newCatalogSource(cfg.Catalog)
	if err != nil {
		return err
	}
	store := catalog.NewStore(source, logger)

	// Catalog load and cache connection are independent; run them together.
	var queryCache closableCache
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return store.Load(gctx)
	})
	g.Go(func() error {
		c, err := newCache(gctx, cfg.Cache)
		if err != nil {
			return err
		}
		queryCache = c
		return nil
	})
	if err := g.Wait(); err != nil {
		if queryCache != nil {
			_ = queryCache.Close()
		}
		return fmt.Errorf("startup failed: %w", err)
	}
	defer queryCache.Close()

	go store.Refresh(ctx, cfg.Catalog.RefreshInterval)

	geminiClient, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		TextModel:         cfg.Gemini.Model,
		VisionModel:       cfg.Gemini.VisionModel,
		Temperature:       cfg.Gemini.Temperature,
		MaxOutputTokens:   cfg.Gemini.MaxOutputTokens,
		RequestsPerSecond: cfg.Gemini.RequestsPerSecond,
		MaxRetries:        cfg.Gemini.MaxRetries,
	}, logger)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	chatbotService := usecase.NewChatbotService(
		queryCache,
		store,
		geminiClient,
		geminiClient,
		metrics,
		logger,
		usecase.ChatbotServiceConfig{
			CacheTTL:     cfg.Cache.TTL,
			TextTimeout:  cfg.Gemini.TextTimeout,
			ImageTimeout: cfg.Gemini.ImageTimeout,
			PriceVariant: cfg.Catalog.PriceVariant,
			MatchLimit:   cfg.Catalog.MatchLimit,
		},
	)

	handler := httpDelivery.NewHandler(chatbotService, httpDelivery.UploadPolicy{
		MaxBytes:     cfg.Upload.MaxBytes,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})

	router := httpDelivery.SetupRouter(cfg, handler, httpDelivery.RouterDeps{
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Int("products", len(store.Snapshot())).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

func newCatalogSource(cfg config.CatalogConfig) (catalog.Source, error) {
	switch cfg.Source {
	case "minio":
		return catalog.NewMinioSource(catalog.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			Key:       cfg.Minio.Key,
			UseSSL:    cfg.Minio.UseSSL,
		})
	default:
		return catalog.NewFileSource(cfg.Path), nil
	}
}

func newCache(ctx context.Context, cfg config.CacheConfig) (closableCache, error) {
	if cfg.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, "")
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	}
	return cache.NewMemoryCache(), nil
}
