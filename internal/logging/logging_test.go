// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// captureLogs swaps the global logger for one writing to a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if idx := strings.LastIndex(line, "\n"); idx >= 0 {
		line = line[idx+1:]
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("log line is not JSON: %q: %v", line, err)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	defer func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	}()

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "console", Output: &buf})
	Debug().Msg("console line")

	if !strings.Contains(buf.String(), "console line") {
		t.Errorf("console output missing message: %q", buf.String())
	}
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Error("console format should not emit JSON")
	}
}

func TestCtx_AddsContextFields(t *testing.T) {
	buf := captureLogs(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithApp(ctx, "admin")

	Ctx(ctx).Info().Msg("hello")

	fields := decodeLine(t, buf)
	if fields["request_id"] != "req-1" {
		t.Errorf("request_id = %v", fields["request_id"])
	}
	if fields["correlation_id"] != "corr-1" {
		t.Errorf("correlation_id = %v", fields["correlation_id"])
	}
	if fields["app"] != "admin" {
		t.Errorf("app = %v", fields["app"])
	}
}

func TestCtx_NoFieldsOnBareContext(t *testing.T) {
	buf := captureLogs(t)
	Ctx(context.Background()).Info().Msg("bare")

	fields := decodeLine(t, buf)
	if _, ok := fields["request_id"]; ok {
		t.Error("bare context should not add request_id")
	}
}

func TestGenerateIDs(t *testing.T) {
	if got := GenerateCorrelationID(); len(got) != 8 {
		t.Errorf("correlation ID length = %d, want 8", len(got))
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == b {
		t.Error("request IDs should be unique")
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureLogs(t)
	l := WithComponent("cache")
	l.Info().Msg("x")

	if fields := decodeLine(t, buf); fields["component"] != "cache" {
		t.Errorf("component = %v", fields["component"])
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.With("service", "admin-http").Warn("service restarted", slog.Group("restart", "count", 2))

	fields := decodeLine(t, &buf)
	if fields["level"] != "warn" {
		t.Errorf("level = %v, want warn", fields["level"])
	}
	if fields["service"] != "admin-http" {
		t.Errorf("service = %v", fields["service"])
	}
	if fields["restart.count"] != float64(2) {
		t.Errorf("restart.count = %v", fields["restart.count"])
	}
}

func TestSecurityLogger_MasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewSecurityLoggerWithLogger(NewTestLogger(&buf))

	l.LogEvent(context.Background(), &SecurityEvent{
		Event:     "sign_in_requested",
		Email:     "ana@bookwise.dev",
		SessionID: "0123456789abcdef",
		Success:   true,
	})

	out := buf.String()
	if strings.Contains(out, "ana@bookwise.dev") {
		t.Error("email should be masked")
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Error("session id should be truncated")
	}
	fields := decodeLine(t, &buf)
	if fields["email"] != "a***@bookwise.dev" {
		t.Errorf("email = %v", fields["email"])
	}
	if fields["component"] != "auth" {
		t.Errorf("component = %v", fields["component"])
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := map[string]string{
		"ana@x.io": "a***@x.io",
		"noat":     "***",
		"@x.io":    "***",
	}
	for in, want := range tests {
		if got := SanitizeEmail(in); got != want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
