// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
)

// Store types accepted by NewStore.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// NewStore builds the configured store. The returned closer releases the
// badger database and is a no-op for the memory store.
func NewStore(storeType, badgerPath string) (Store, io.Closer, error) {
	switch storeType {
	case "", StoreMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case StoreBadger:
		db, err := OpenBadger(badgerPath)
		if err != nil {
			return nil, nil, err
		}
		return NewBadgerStore(db), badgerCloser{db}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", storeType)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type badgerCloser struct{ db *badger.DB }

func (c badgerCloser) Close() error { return c.db.Close() }
