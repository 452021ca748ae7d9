// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/G-Villarinho/book-wise/internal/config"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", cfg.Server.Version).
		Str("environment", cfg.Server.Environment).
		Str("api", cfg.API.BaseURL).
		Str("session_store", cfg.Session.Store).
		Msg("Starting Book Wise web with supervisor tree")

	if cfg.Session.Store == "memory" && cfg.IsProduction() {
		logging.Warn().Msg("Session store is 'memory': sessions are lost on restart. Set BOOKWISE_SESSION_STORE=badger to keep them")
	}
	if cfg.Session.EncryptionKey == "" {
		logging.Warn().Msg("Session encryption key not set: API tokens are stored in plain text")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (BOOKWISE_DISABLE_RATE_LIMIT=true)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	app, err := build(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build web applications")
	}
	defer app.close()

	app.register(tree)

	logging.Info().
		Str("admin_addr", cfg.Server.AdminAddr).
		Str("portal_addr", cfg.Server.PortalAddr).
		Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel receives exactly one value and is never closed.
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Book Wise web stopped gracefully")
}
