package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/streamly/internal/api"
	"github.com/Belphemur/streamly/internal/cache"
	"github.com/Belphemur/streamly/internal/config"
	"github.com/Belphemur/streamly/internal/engine"
	"github.com/Belphemur/streamly/internal/ingest"
	"github.com/Belphemur/streamly/internal/metrics"
	"github.com/Belphemur/streamly/internal/store"
)

func main() {
	runIngest := flag.Bool("ingest", false, "clean and load the raw CSV exports before serving")
	dropDB := flag.Bool("drop-db", false, "delete the database file before starting")
	flag.Parse()

	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("store_provider", cfg.Store.Provider).
		Str("cache_provider", cfg.Cache.Provider).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if *dropDB && cfg.Store.Provider == "sqlite" {
		if err := os.Remove(cfg.Store.Path); err != nil && !os.IsNotExist(err) {
			logger.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to drop database")
		}
		logger.Info().Str("path", cfg.Store.Path).Msg("Dropped database file")
	}

	db, err := store.Open(cfg.Store.Provider, store.Options{Path: cfg.Store.Path})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close store")
		}
	}()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate schema")
	}

	snapshotCache, err := newSnapshotCache(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create cache")
	}
	defer func() {
		if err := snapshotCache.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close cache")
		}
	}()

	catalog := store.NewCachedCatalog(db, snapshotCache, logger)

	if *runIngest {
		loader := ingest.NewLoader(db, catalog, logger)
		report, err := loader.Run(context.Background(), cfg.Data.RawDir, cfg.Data.ReportDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("Ingest failed")
		}
		logger.Info().
			Int("titles", report.TitlesRead).
			Int("profiles", report.ProfilesRead).
			Int("accounts", report.AccountsDerived).
			Msg("Ingest complete")
	}

	eng := engine.New(catalog, db, cfg, logger)
	server := api.NewServer(eng, catalog, db, logger)

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         address,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}
	}()

	logger.Info().Str("address", address).Msg("Starting HTTP server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to serve HTTP")
	}

	logger.Info().Msg("Server stopped gracefully")
}

// newSnapshotCache builds the catalog snapshot cache from configuration.
func newSnapshotCache(cfg *config.Config) (cache.Cache, error) {
	ttl, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("parsing cache TTL: %w", err)
	}
	return cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           ttl,
		RedisAddress:  cfg.Cache.RedisAddress,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		Group:         "catalog",
	})
}
