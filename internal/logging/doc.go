// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package logging provides centralized zerolog-based structured logging for
// the Book Wise web frontends.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("Portal listening")
//	logging.Error().Err(err).Msg("Failed to open session store")
//
//	// Context-aware logging (app, request_id, correlation_id)
//	logging.Ctx(ctx).Warn().Err(err).Msg("List fetch failed")
//
// # Components
//
// Long-lived collaborators take a component logger:
//
//	log := logging.WithComponent("apiclient")
//
// The supervisor tree logs through NewSlogLogger, which adapts zerolog to
// log/slog for sutureslog.
//
// # Security Events
//
// Sign-in, sign-out and rejected sessions go through SecurityLogger, which
// masks emails and session IDs before they reach the log stream.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
