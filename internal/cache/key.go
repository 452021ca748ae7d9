// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"strings"

	"github.com/goccy/go-json"
)

// Key is an ordered tuple identifying a cached result, for example
// ("admins", "Ana", "active", "2"). Keys compare component-wise, so
// ("admins") is a prefix of every admins page key.
type Key []string

// NewKey builds a key from its components.
func NewKey(parts ...string) Key {
	k := make(Key, len(parts))
	copy(k, parts)
	return k
}

// String returns an unambiguous encoding of the key suitable for map lookup.
// Components may contain any character.
func (k Key) String() string {
	if len(k) == 0 {
		return "[]"
	}
	b, err := json.Marshal([]string(k))
	if err != nil {
		// []string always marshals; fall back to a joined form anyway.
		return strings.Join(k, "\x1f")
	}
	return string(b)
}

// HasPrefix reports whether prefix matches the leading components of k.
// The empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Append returns a new key with extra components. The receiver is not
// modified.
func (k Key) Append(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

// Equal reports whether two keys have identical components.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}
