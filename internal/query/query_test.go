// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/cache"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

func newTestClient(t *testing.T) (*Client, *cache.Cache, *[]time.Duration) {
	t.Helper()
	store := cache.New(100, time.Minute)
	c := New(Config{MaxAttempts: 3, BaseBackoff: 10 * time.Millisecond}, store, &toast.NetworkWarning{})

	var sleeps []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return c, store, &sleeps
}

var errNet = fmt.Errorf("%w: dial tcp: connection refused", apiclient.ErrNetwork)

func TestFetch_CachesResult(t *testing.T) {
	c, _, _ := newTestClient(t)
	key := Key("s1", "admins", "", "", "1")
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), c, key, fn)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
}

func TestFetch_RetriesAtMostThreeTimes(t *testing.T) {
	c, _, sleeps := newTestClient(t)
	calls := 0

	_, err := Fetch(context.Background(), c, Key("s1", "library", "1"), func(context.Context) (int, error) {
		calls++
		return 0, errNet
	})

	require.ErrorIs(t, err, apiclient.ErrNetwork)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *sleeps)
}

func TestFetch_SucceedsAfterRetry(t *testing.T) {
	c, store, _ := newTestClient(t)
	key := Key("s1", "authors", "", "", "1")
	calls := 0

	v, err := Fetch(context.Background(), c, key, func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", &apiclient.Error{Status: 503}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
	_, cached := store.Get(key)
	assert.True(t, cached)
	assert.False(t, c.Warning().Active(), "warning must not be raised when a retry succeeds")
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	c, store, _ := newTestClient(t)
	key := Key("s1", "admin", "42")
	calls := 0

	_, err := Fetch(context.Background(), c, key, func(context.Context) (int, error) {
		calls++
		return 0, &apiclient.Error{Status: 401}
	})

	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Equal(t, 1, calls)
	assert.False(t, c.Warning().Active())
	assert.Equal(t, 0, store.Len())
}

func TestFetch_WarningRaisedOncePerBurst(t *testing.T) {
	c, _, _ := newTestClient(t)
	failing := func(context.Context) (int, error) { return 0, errNet }

	_, _ = Fetch(context.Background(), c, Key("s1", "a"), failing)
	require.True(t, c.Warning().Active())
	_, _ = Fetch(context.Background(), c, Key("s1", "b"), failing)
	assert.Equal(t, int64(1), c.Warning().Count())

	c.Warning().Dismiss()
	_, _ = Fetch(context.Background(), c, Key("s1", "c"), failing)
	assert.Equal(t, int64(2), c.Warning().Count())
}

func TestFetch_ContextCancelStopsRetries(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Fetch(ctx, c, Key("s1", "x"), func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errNet
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestFetch_DistinctKeysDoNotMix(t *testing.T) {
	c, _, _ := newTestClient(t)
	a, err := Fetch(context.Background(), c, Key("s1", "books", "dune", "1"), func(context.Context) (string, error) { return "A", nil })
	require.NoError(t, err)
	b, err := Fetch(context.Background(), c, Key("s1", "books", "emma", "1"), func(context.Context) (string, error) { return "B", nil })
	require.NoError(t, err)
	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)
}

func TestMe_UsesAuthFreshness(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.New(10, time.Minute, cache.WithClock(func() time.Time { return now }))
	c := New(Config{Freshness: time.Minute, AuthFreshness: 15 * time.Minute}, store, nil)
	calls := 0
	fn := func(context.Context) (*models.User, error) {
		calls++
		return &models.User{ID: "u1"}, nil
	}

	_, err := Me(context.Background(), c, "s1", fn)
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	_, err = Me(context.Background(), c, "s1", fn)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "user should stay fresh for 15 minutes")

	now = now.Add(6 * time.Minute)
	_, err = Me(context.Background(), c, "s1", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestForgetScope(t *testing.T) {
	c, store, _ := newTestClient(t)
	store.Set(Key("s1", "admins", "1"), 1)
	store.Set(Key("s1", "me"), 2)
	store.Set(Key("s2", "admins", "1"), 3)

	assert.Equal(t, 2, c.ForgetScope("s1"))
	_, ok := store.Get(Key("s2", "admins", "1"))
	assert.True(t, ok)
}

func TestBackoff(t *testing.T) {
	c := New(Config{BaseBackoff: 100 * time.Millisecond}, cache.New(1, time.Minute), nil)
	assert.Equal(t, 100*time.Millisecond, c.backoff(2))
	assert.Equal(t, 200*time.Millisecond, c.backoff(3))
	assert.Equal(t, 400*time.Millisecond, c.backoff(4))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.AuthFreshness)
}
