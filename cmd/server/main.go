// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package main is the entry point for the Retrospectus server.
//
// Retrospectus turns a Google Takeout watch-history export into a yearly
// "rewind" report: top genres and channels, completion rate, viewing
// hours, binge sessions, and advertisement exposure. Video metadata is
// resolved through the YouTube Data API v3.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and config files (Koanf v2)
//  2. YouTube client: Data API v3 client with rate limiting and circuit breaker
//  3. Pipeline: normalize -> enrich -> session -> binge -> aggregate
//  4. HTTP server: REST API routed with Chi
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, then config.yaml, then built-in
// defaults. The only required setting is the API key:
//
//	export YOUTUBE_API_KEY=your-data-api-key
//	./retrospectus
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and waits up to 10 seconds for in-flight
// report generations to complete.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/retrospectus/internal/api"
	"github.com/tomtom215/retrospectus/internal/config"
	"github.com/tomtom215/retrospectus/internal/enrich"
	"github.com/tomtom215/retrospectus/internal/logging"
	"github.com/tomtom215/retrospectus/internal/pipeline"
	"github.com/tomtom215/retrospectus/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("batch_size", cfg.YouTube.BatchSize).
		Float64("completion_threshold", cfg.Pipeline.CompletionThreshold).
		Msg("Starting Retrospectus")

	// YouTube Data API client with circuit breaker for fault tolerance.
	// The breaker prevents cascading failures when the API is unavailable
	// or quota-exhausted.
	ytClient := youtube.NewCircuitBreakerClient(&cfg.YouTube)

	enricher := enrich.New(ytClient, cfg.YouTube.BatchSize, cfg.YouTube.Concurrency)
	pipe := pipeline.New(cfg.Pipeline, enricher)

	handler := api.NewHandler(pipe, ytClient)
	router := api.NewRouter(cfg, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
