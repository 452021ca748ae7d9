// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package supervisor runs the Book Wise web frontends under suture v4.

# Overview

	RootSupervisor ("book-wise")
	├── WebSupervisor ("web-layer")
	│   ├── HTTPServerService ("admin-http")
	│   └── HTTPServerService ("portal-http")
	└── MaintenanceSupervisor ("maintenance-layer")
	    ├── SweeperService ("cache-sweeper")
	    ├── SweeperService ("session-sweeper")
	    └── SweeperService ("csrf-sweeper")

A crashed sweeper is restarted with backoff inside its own layer and never
restarts the HTTP servers.

# Logging

Supervisor events (restarts, backoff, timeouts) go through sutureslog:

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())

# Shutdown

Serve blocks until its context is canceled. Every HTTP server then gets
TreeConfig.ShutdownTimeout to drain; anything still running afterwards is
listed by UnstoppedServiceReport.
*/
package supervisor
