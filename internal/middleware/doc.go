// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package middleware provides HTTP middleware shared by the admin dashboard and
the member portal.

Key Components:

  - RequestID: UUID-based request tracking, echoed as X-Request-ID
  - App: tags the request context with the serving application
  - PrometheusMetrics: request count, latency and in-flight gauges labelled
    by app and chi route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.App("admin"))
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

App must run before PrometheusMetrics so the app label is set.
*/
package middleware
