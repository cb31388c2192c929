package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"shortlink/internal/analytics"
	"shortlink/internal/config"
	"shortlink/internal/http/server"
	"shortlink/internal/logger"
	"shortlink/internal/storage"
	"shortlink/internal/storage/badger"
	"shortlink/internal/storage/inmemory"
	"shortlink/internal/storage/redis"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fallback := logger.NewLogger("info")
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.NewLogger(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newLinkStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open link store")
	}
	defer store.Close()
	log.Info().Str("backend", cfg.StoreBackend).Msg("link store ready")

	sink, err := newAnalyticsSink(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open analytics store")
	}
	defer sink.Close()

	srv, err := server.NewServer(log, cfg, store, sink)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	go func() {
		if err := srv.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

func newLinkStore(ctx context.Context, cfg config.Config, log *zerolog.Logger) (storage.LinkStore, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		return redis.NewStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.StoreInMemory:
		return inmemory.NewStore(), nil
	default:
		return badger.NewStore(cfg.BadgerPath, log)
	}
}

func newAnalyticsSink(ctx context.Context, cfg config.Config, log *zerolog.Logger) (analytics.Sink, error) {
	if cfg.AnalyticsDSN == "" {
		log.Warn().Msg("no analytics DSN configured, access logs will be dropped")
		return analytics.NewNoopSink(log), nil
	}
	return analytics.NewPostgresSink(ctx, cfg.AnalyticsDSN, cfg.AnalyticsDataset)
}
