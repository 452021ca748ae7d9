// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package query reads remote data through the result cache.
//
// Fetch answers from the cache while an entry is fresh. Otherwise it calls
// the fetch function, retrying retryable failures with exponential backoff
// up to MaxAttempts, and stores the result. When every attempt fails with a
// retryable error the process-wide network warning is raised, once per
// burst.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/cache"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/metrics"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

// Config holds the retry and freshness policy.
type Config struct {
	// MaxAttempts counts the first call, so 3 means at most two retries.
	// Only network errors and 5xx answers are retried; any other API error
	// fails on the first attempt, since repeating it cannot change the
	// answer.
	MaxAttempts   int
	BaseBackoff   time.Duration
	Freshness     time.Duration
	AuthFreshness time.Duration
}

// DefaultConfig returns the default policy: 3 attempts, 5 minute freshness
// and 15 minutes for the signed-in user.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		BaseBackoff:   250 * time.Millisecond,
		Freshness:     5 * time.Minute,
		AuthFreshness: 15 * time.Minute,
	}
}

// Client binds the policy to a cache and the network warning.
type Client struct {
	cfg     Config
	store   cache.Store
	warning *toast.NetworkWarning
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates a query client.
func New(cfg Config, store cache.Store, warning *toast.NetworkWarning) *Client {
	def := DefaultConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = def.BaseBackoff
	}
	if cfg.Freshness <= 0 {
		cfg.Freshness = def.Freshness
	}
	if cfg.AuthFreshness <= 0 {
		cfg.AuthFreshness = def.AuthFreshness
	}
	if warning == nil {
		warning = &toast.NetworkWarning{}
	}
	return &Client{
		cfg:     cfg,
		store:   store,
		warning: warning,
		sleep:   sleepContext,
	}
}

// Store returns the underlying cache.
func (c *Client) Store() cache.Store {
	return c.store
}

// Warning returns the network warning raised by failed reads.
func (c *Client) Warning() *toast.NetworkWarning {
	return c.warning
}

// Config returns the active policy.
func (c *Client) Config() Config {
	return c.cfg
}

// Key builds a cache key scoped to one API session. Mutation commands use
// the same scope, so invalidations never cross users.
func Key(scope string, parts ...string) cache.Key {
	return cache.NewKey(scope).Append(parts...)
}

// Options tunes a single Fetch.
type Options struct {
	// TTL overrides the freshness window.
	TTL time.Duration
}

// Fetch returns the value stored under key or loads it with fn.
//
//	page, err := query.Fetch(ctx, qc, key, func(ctx context.Context) (*models.Page[models.Admin], error) {
//	    return api.ListAdmins(ctx, token, q)
//	})
func Fetch[T any](ctx context.Context, c *Client, key cache.Key, fn func(context.Context) (T, error), opts ...Options) (T, error) {
	resource := resourceOf(key)

	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			metrics.RecordQueryResult(resource, "hit")
			return typed, nil
		}
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.RecordQueryRetry(resource)
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				return zero, fmt.Errorf("query %s: %w", resource, err)
			}
		}

		v, err := fn(ctx)
		if err == nil {
			ttl := c.cfg.Freshness
			for _, o := range opts {
				if o.TTL > 0 {
					ttl = o.TTL
				}
			}
			c.store.SetWithTTL(key, v, ttl)
			metrics.RecordQueryResult(resource, "fetched")
			return v, nil
		}

		lastErr = err
		if !apiclient.IsRetryable(err) {
			break
		}
		logging.Ctx(ctx).Debug().Err(err).Str("resource", resource).Int("attempt", attempt).Msg("Query attempt failed")
	}

	metrics.RecordQueryResult(resource, "error")
	if apiclient.IsRetryable(lastErr) && c.warning.Raise() {
		metrics.RecordNetworkWarning()
		logging.Ctx(ctx).Warn().Err(lastErr).Str("resource", resource).Msg("Raised network warning")
	}
	return zero, lastErr
}

// backoff returns the delay before the given attempt: base, 2*base, 4*base...
func (c *Client) backoff(attempt int) time.Duration {
	d := c.cfg.BaseBackoff
	for i := 2; i < attempt; i++ {
		d *= 2
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// resourceOf returns the resource component of a session-scoped key.
func resourceOf(key cache.Key) string {
	if len(key) > 1 {
		return key[1]
	}
	if len(key) == 1 {
		return key[0]
	}
	return "unknown"
}
