// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package logging

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is a sign-in related event worth an audit line.
type SecurityEvent struct {
	// Event is the event type: sign_in_requested, sign_in_completed,
	// sign_out, session_rejected, forbidden.
	Event     string
	Email     string
	UserID    string
	SessionID string
	IPAddress string
	Success   bool
	Reason    string
}

// SecurityLogger writes sanitized authentication events.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger with the "auth" component.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent logs a security event. Emails and session IDs are never written
// in full.
func (l *SecurityLogger) LogEvent(ctx context.Context, event *SecurityEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}

	e = e.Str("event", event.Event).Bool("success", event.Success)

	if app := AppFromContext(ctx); app != "" {
		e = e.Str("app", app)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		e = e.Str("request_id", requestID)
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.UserID != "" {
		e = e.Str("user_id", event.UserID)
	}
	if event.SessionID != "" {
		e = e.Str("session_id", SanitizeSessionID(event.SessionID))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Reason != "" {
		e = e.Str("reason", truncateString(event.Reason, 200))
	}

	e.Msg("security event")
}

// SanitizeEmail keeps the first character of the local part and the domain.
func SanitizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// SanitizeSessionID keeps only the first 8 characters of a session ID.
func SanitizeSessionID(id string) string {
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
