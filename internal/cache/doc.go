// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package cache provides the thread-safe result cache behind the web frontends'
query layer.

Results fetched from the Book Wise API are stored under a Key, an ordered
tuple of strings such as ("admins", fullName, status, page). Keys are
compared component-wise so a mutation can invalidate or patch every page of a
listing by prefix:

	c := cache.New(5000, 5*time.Minute)
	c.Set(cache.NewKey("admins", "", "", "1"), page)

	// after a delete
	c.InvalidatePrefix(cache.NewKey("admins"))

	// after a block, patch each cached page in place
	for _, it := range c.Entries(cache.NewKey("admins")) {
	    c.Update(it.Key, patch)
	}

Entries expire after a TTL (lazily on Get, or eagerly with
WithCleanupInterval) and the least recently used entry is evicted once the
configured capacity is reached. Update keeps an entry's expiry, so a patched
result is refetched when it would have been anyway.
*/
package cache
