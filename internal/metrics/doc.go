// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus instrumentation for the Book Wise web
frontends.

Metrics are registered on the default registry with promauto and exposed at
/metrics on both the admin and the portal listeners.

# Available Metrics

HTTP Metrics:
  - bookwise_http_requests_total (app, method, route, status_code)
  - bookwise_http_request_duration_seconds (app, method, route)
  - bookwise_http_active_requests (app)
  - bookwise_http_rate_limit_hits_total (app)

Upstream API Metrics:
  - bookwise_api_requests_total (endpoint, status_code)
  - bookwise_api_request_duration_seconds (endpoint)

Query and Cache Metrics:
  - bookwise_query_results_total (resource, result)
  - bookwise_query_retries_total (resource)
  - bookwise_network_warnings_total
  - bookwise_cache_invalidations_total (resource, kind)
  - bookwise_cache_entries

Mutation and Session Metrics:
  - bookwise_mutations_total (command, result)
  - bookwise_session_operations_total (operation)

Circuit Breaker Metrics:
  - circuit_breaker_state (name): 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_consecutive_failures (name)
  - circuit_breaker_state_transitions_total (name, from_state, to_state)

Route labels are chi route patterns (for example /admins/{id}/block), never
raw paths, to keep cardinality bounded.
*/
package metrics
