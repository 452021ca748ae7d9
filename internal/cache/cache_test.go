// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"sync"
	"testing"
	"time"

	"pgregory.net/rapid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestKey_String(t *testing.T) {
	a := NewKey("admins", "a|b", "")
	b := NewKey("admins", "a", "b|")
	if a.String() == b.String() {
		t.Errorf("distinct keys encoded identically: %s", a.String())
	}
	if got := NewKey().String(); got != "[]" {
		t.Errorf("empty key = %q", got)
	}
}

func TestKey_HasPrefix(t *testing.T) {
	k := NewKey("library", "Dune", "", "", "", "2")

	tests := []struct {
		prefix Key
		want   bool
	}{
		{NewKey(), true},
		{NewKey("library"), true},
		{NewKey("library", "Dune"), true},
		{NewKey("librar"), false},
		{NewKey("admins"), false},
		{NewKey("library", "Dune", "", "", "", "2", "x"), false},
	}
	for _, tt := range tests {
		if got := k.HasPrefix(tt.prefix); got != tt.want {
			t.Errorf("HasPrefix(%v) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestKey_AppendDoesNotAlias(t *testing.T) {
	base := make(Key, 1, 4)
	base[0] = "books"
	a := base.Append("x")
	b := base.Append("y")
	if a[1] != "x" || b[1] != "y" {
		t.Errorf("Append aliased backing array: %v %v", a, b)
	}
}

func TestCache_SetGet(t *testing.T) {
	c := New(10, time.Minute)
	key := NewKey("admins", "", "", "1")

	if _, ok := c.Get(key); ok {
		t.Fatal("empty cache reported a hit")
	}
	c.Set(key, "page-1")

	v, ok := c.Get(key)
	if !ok || v != "page-1" {
		t.Fatalf("Get = %v, %v", v, ok)
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if rate := c.HitRate(); rate != 50 {
		t.Errorf("HitRate = %v, want 50", rate)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	clock := newFakeClock()
	c := New(10, time.Minute, WithClock(clock.Now))
	key := NewKey("me")

	c.SetWithTTL(key, "user", 15*time.Minute)
	clock.Advance(10 * time.Minute)
	if _, ok := c.Get(key); !ok {
		t.Fatal("entry expired before its TTL")
	}

	clock.Advance(6 * time.Minute)
	if _, ok := c.Get(key); ok {
		t.Fatal("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, len = %d", c.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(3, time.Minute)
	a, b, cc, d := NewKey("a"), NewKey("b"), NewKey("c"), NewKey("d")

	c.Set(a, 1)
	c.Set(b, 2)
	c.Set(cc, 3)
	c.Get(a)
	c.Set(d, 4)

	if _, ok := c.Get(b); ok {
		t.Error("expected b to be evicted")
	}
	for _, k := range []Key{a, cc, d} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %v to be present", k)
		}
	}
	if ev := c.GetStats().Evictions; ev != 1 {
		t.Errorf("evictions = %d, want 1", ev)
	}
}

func TestCache_UpdateKeepsExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New(10, time.Minute, WithClock(clock.Now))
	key := NewKey("library", "", "", "", "", "1")
	c.Set(key, 1)

	clock.Advance(50 * time.Second)
	if !c.Update(key, func(v interface{}) interface{} { return v.(int) + 1 }) {
		t.Fatal("Update missed a live entry")
	}

	v, _ := c.Get(key)
	if v != 2 {
		t.Errorf("value = %v, want 2", v)
	}

	clock.Advance(11 * time.Second)
	if _, ok := c.Get(key); ok {
		t.Error("Update extended the entry's expiry")
	}
	if c.Update(NewKey("missing"), func(v interface{}) interface{} { return v }) {
		t.Error("Update reported success for a missing key")
	}
}

func TestCache_EntriesAndInvalidatePrefix(t *testing.T) {
	c := New(100, time.Minute)
	c.Set(NewKey("admins", "", "", "1"), 1)
	c.Set(NewKey("admins", "Ana", "active", "1"), 2)
	c.Set(NewKey("admin", "42"), 3)
	c.Set(NewKey("authors", "", "", "1"), 4)

	if got := len(c.Entries(NewKey("admins"))); got != 2 {
		t.Errorf("Entries(admins) = %d, want 2", got)
	}

	if n := c.InvalidatePrefix(NewKey("admins")); n != 2 {
		t.Errorf("InvalidatePrefix removed %d, want 2", n)
	}
	if _, ok := c.Get(NewKey("admin", "42")); !ok {
		t.Error("(admin, 42) must not match prefix (admins)")
	}
	if _, ok := c.Get(NewKey("authors", "", "", "1")); !ok {
		t.Error("unrelated entry was invalidated")
	}
}

func TestCache_Cleanup(t *testing.T) {
	clock := newFakeClock()
	c := New(10, time.Minute, WithClock(clock.Now))
	c.Set(NewKey("a"), 1)
	c.SetWithTTL(NewKey("b"), 2, time.Hour)

	clock.Advance(2 * time.Minute)
	if n := c.Cleanup(); n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestCache_CloseIdempotent(t *testing.T) {
	c := New(10, time.Minute, WithCleanupInterval(time.Millisecond))
	c.Close()
	c.Close()
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(50, time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := NewKey("books", string(rune('a'+n)), string(rune('a'+j%26)))
				c.Set(key, j)
				c.Get(key)
				c.Update(key, func(v interface{}) interface{} { return v })
				if j%50 == 0 {
					c.InvalidatePrefix(NewKey("books", string(rune('a'+n))))
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("cache grew past capacity: %d", c.Len())
	}
}

// After InvalidatePrefix(p), no stored key has prefix p and every other key
// that was present is still present.
func TestCache_InvalidatePrefixProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New(1000, time.Hour)
		component := rapid.SampledFrom([]string{"admins", "authors", "library", "", "1", "2"})
		keys := rapid.SliceOfN(rapid.SliceOfN(component, 1, 4), 0, 30).Draw(t, "keys")
		prefix := Key(rapid.SliceOfN(component, 0, 2).Draw(t, "prefix"))

		for _, k := range keys {
			c.Set(Key(k), true)
		}
		c.InvalidatePrefix(prefix)

		for _, k := range keys {
			_, ok := c.Get(Key(k))
			if Key(k).HasPrefix(prefix) && ok {
				t.Fatalf("key %v survived InvalidatePrefix(%v)", k, prefix)
			}
			if !Key(k).HasPrefix(prefix) && !ok {
				t.Fatalf("key %v was removed by InvalidatePrefix(%v)", k, prefix)
			}
		}
	})
}
