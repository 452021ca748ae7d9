// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package services adapts the long-running parts of the Book Wise frontends to
suture's Serve(ctx) error contract.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server for the admin or portal application
  - Graceful shutdown with its own timeout once the context is canceled
  - http.ErrServerClosed is treated as a clean stop

Sweeper (SweeperService):
  - Calls a SweepFunc on a ticker
  - Used for the query cache, the session store and the CSRF token store
  - OnSweep hooks metrics such as the cache entry gauge

# Usage

	tree.AddWebService(services.NewHTTPServerService("portal-http", portalServer, 10*time.Second))

	tree.AddMaintenanceService(
		services.NewSweeperService("cache-sweeper", time.Minute, func(context.Context) (int, error) {
			return c.Cleanup(), nil
		}).OnSweep(func(int) { metrics.SetCacheEntries(c.Len()) }),
	)
*/
package services
