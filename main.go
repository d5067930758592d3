package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstyler/internal/config"
	"github.com/cristianadrielbraun/qrstyler/internal/export"
	"github.com/cristianadrielbraun/qrstyler/internal/handlers"
	"github.com/cristianadrielbraun/qrstyler/internal/log"
	"github.com/cristianadrielbraun/qrstyler/internal/media/logo"
	"github.com/cristianadrielbraun/qrstyler/internal/media/raster"
	"github.com/cristianadrielbraun/qrstyler/internal/metrics"
	"github.com/cristianadrielbraun/qrstyler/internal/server"
	"github.com/cristianadrielbraun/qrstyler/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	kv, err := store.NewKV(ctx, store.KVConfig{
		Backend: cfg.Persistence.Backend,
		Redis: store.RedisConfig{
			Addr:     cfg.Persistence.Redis.Addr,
			Password: cfg.Persistence.Redis.Password,
			DB:       cfg.Persistence.Redis.DB,
			TTL:      cfg.Persistence.Redis.TTL,
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Persistence.Backend).Msg("failed to init persistence")
	}

	st := store.New(logger, kv, cfg.Persistence.Key)
	if err := st.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("saved settings unavailable, using defaults")
	}

	sanitizer := logo.NewSanitizer(logger, m, logo.Options{
		MaxBytes: cfg.Upload.MaxBytes,
		Limits: raster.Limits{
			MaxDimension: cfg.Upload.MaxDimension,
			MaxPixels:    cfg.Upload.MaxPixels,
		},
	})

	h := handlers.New(handlers.Deps{
		Log:       logger,
		Store:     st,
		Sanitizer: sanitizer,
		Exporter:  export.NewDispatcher(logger, m, nil),
		Metrics:   m,
	})
	httpServer := server.NewHTTPServer(cfg, logger, m, h)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, kv, cfg.HTTP.ShutdownTimeout)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, kv store.KV, timeout time.Duration) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if err := kv.Close(); err != nil {
		logger.Error().Err(err).Msg("persistence close error")
	}

	logger.Info().Msg("server exited cleanly")
}
