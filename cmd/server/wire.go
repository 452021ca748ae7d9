// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/cache"
	"github.com/G-Villarinho/book-wise/internal/config"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/metrics"
	"github.com/G-Villarinho/book-wise/internal/mutation"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/session"
	"github.com/G-Villarinho/book-wise/internal/supervisor"
	"github.com/G-Villarinho/book-wise/internal/supervisor/services"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/web"
	"github.com/G-Villarinho/book-wise/internal/web/admin"
	"github.com/G-Villarinho/book-wise/internal/web/portal"
)

// application holds everything the supervisor tree runs.
type application struct {
	cfg *config.Config

	cache       *cache.Cache
	store       session.Store
	storeCloser io.Closer
	csrf        map[string]*session.CSRF

	admin  *http.Server
	portal *http.Server
}

// build wires the shared stack and both web applications. The API client,
// result cache, network warning and session store are shared; cookies,
// CSRF tokens and templates are per application.
func build(cfg *config.Config) (*application, error) {
	client, err := apiclient.New(apiclient.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		UserAgent:         cfg.API.UserAgent,
		CookieName:        cfg.API.CookieName,
		RequestsPerSecond: cfg.API.RateLimit,
		Burst:             cfg.API.Burst,
		Breaker: apiclient.BreakerConfig{
			MaxRequests:  cfg.API.Breaker.MaxRequests,
			Interval:     cfg.API.Breaker.Interval,
			Timeout:      cfg.API.Breaker.Timeout,
			FailureRatio: cfg.API.Breaker.FailureRatio,
			MinRequests:  cfg.API.Breaker.MinRequests,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}

	results := cache.New(cfg.Query.Capacity, cfg.Query.Freshness)
	queries := query.New(query.Config{
		MaxAttempts:   cfg.Query.MaxAttempts,
		BaseBackoff:   cfg.Query.BaseBackoff,
		Freshness:     cfg.Query.Freshness,
		AuthFreshness: cfg.Query.AuthFreshness,
	}, results, &toast.NetworkWarning{})
	commands := mutation.New(client, results)

	store, closer, err := session.NewStore(cfg.Session.Store, cfg.Session.BadgerPath)
	if err != nil {
		results.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}
	enc, err := session.NewTokenEncryptor(cfg.Session.EncryptionKey, "")
	if err != nil {
		results.Close()
		_ = closer.Close()
		return nil, fmt.Errorf("create token encryptor: %w", err)
	}

	a := &application{
		cfg:         cfg,
		cache:       results,
		store:       store,
		storeCloser: closer,
		csrf:        map[string]*session.CSRF{},
	}

	deps := func(app string) (web.Deps, error) {
		renderer, err := render.New(app)
		if err != nil {
			return web.Deps{}, fmt.Errorf("load %s templates: %w", app, err)
		}

		secure := cfg.Session.CookieSecure || cfg.IsProduction()
		scfg := session.DefaultConfig(app)
		scfg.TTL = cfg.Session.TTL
		scfg.CookieSecure = secure
		if cfg.Session.CookieName != "" {
			scfg.CookieName = cfg.Session.CookieName + "_" + app
		}
		ccfg := session.DefaultCSRFConfig(app)
		ccfg.CookieSecure = secure

		csrf := session.NewCSRF(ccfg)
		a.csrf[app] = csrf

		return web.Deps{
			Renderer: renderer,
			Sessions: session.NewManager(store, enc, scfg),
			CSRF:     csrf,
			Queries:  queries,
			Commands: commands,
		}, nil
	}

	mw := web.DefaultMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.CORSAllowCredentials = true
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mw.MaxBodyBytes = cfg.Security.MaxBodyBytes

	adminDeps, err := deps(admin.App)
	if err != nil {
		a.close()
		return nil, err
	}
	a.admin = a.server(cfg.Server.AdminAddr, admin.New(admin.Config{
		Version:     cfg.Server.Version,
		CallbackURL: cfg.Server.PublicAdminURL + "/auth/callback",
		Middleware:  mw,
		Metrics:     true,
	}, adminDeps, client))

	portalDeps, err := deps(portal.App)
	if err != nil {
		a.close()
		return nil, err
	}
	a.portal = a.server(cfg.Server.PortalAddr, portal.New(portal.Config{
		Version:     cfg.Server.Version,
		CallbackURL: cfg.Server.PublicPortalURL + "/auth/callback",
		Middleware:  mw,
		PageLimit:   cfg.Query.PageLimit,
	}, portalDeps, client))

	return a, nil
}

func (a *application) server(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}
}

// register adds the HTTP servers and the sweepers to the tree.
func (a *application) register(tree *supervisor.SupervisorTree) {
	shutdown := a.cfg.Server.ShutdownTimeout
	tree.AddWebService(services.NewHTTPServerService("admin-http", a.admin, shutdown))
	tree.AddWebService(services.NewHTTPServerService("portal-http", a.portal, shutdown))

	tree.AddMaintenanceService(services.NewSweeperService("query-cache", a.cfg.Query.Freshness,
		func(context.Context) (int, error) { return a.cache.Cleanup(), nil },
	).OnSweep(func(int) {
		metrics.SetCacheEntries(a.cache.Len())
	}))

	tree.AddMaintenanceService(services.NewSweeperService("sessions", a.cfg.Session.CleanupInterval,
		a.store.CleanupExpired,
	))

	for app, csrf := range a.csrf {
		csrf := csrf
		tree.AddMaintenanceService(services.NewSweeperService(app+"-csrf", a.cfg.Session.CleanupInterval,
			func(context.Context) (int, error) { return csrf.CleanupExpired(), nil },
		))
	}

	logging.Info().Msg("Web servers and sweepers added to supervisor tree")
}

// close releases the cache and the session store.
func (a *application) close() {
	a.cache.Close()
	if err := a.storeCloser.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing session store")
	}
}
