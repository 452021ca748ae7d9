// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import "time"

// Store is the subset of Cache used by the query and mutation layers.
type Store interface {
	Get(key Key) (interface{}, bool)
	Set(key Key, value interface{})
	SetWithTTL(key Key, value interface{}, ttl time.Duration)
	Update(key Key, fn func(interface{}) interface{}) bool
	Entries(prefix Key) []Item
	Delete(key Key) bool
	InvalidatePrefix(prefix Key) int
}

var _ Store = (*Cache)(nil)
