// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Villarinho/book-wise/internal/config"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("BOOKWISE_API_BASE_URL", "http://api.test/v1")
	t.Setenv("BOOKWISE_ADMIN_ADDR", "127.0.0.1:15173")
	t.Setenv("BOOKWISE_PORTAL_ADDR", "127.0.0.1:15174")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := loadTestConfig(t)

	app, err := build(cfg)
	require.NoError(t, err)
	t.Cleanup(app.close)

	assert.Equal(t, "127.0.0.1:15173", app.admin.Addr)
	assert.Equal(t, cfg.Server.ReadTimeout, app.portal.ReadTimeout)
	assert.Len(t, app.csrf, 2)

	for name, srv := range map[string]*http.Server{"admin": app.admin, "portal": app.portal} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.Contains(t, rec.Body.String(), `"app":"`+name+`"`)
	}

	rec := httptest.NewRecorder()
	app.portal.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuild_BadEncryptionKey(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Session.EncryptionKey = "c2hvcnQ="

	_, err := build(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create token encryptor")
}
