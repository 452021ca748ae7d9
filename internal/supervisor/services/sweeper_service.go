// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/G-Villarinho/book-wise/internal/logging"
)

// SweepFunc removes expired entries and reports how many were dropped.
type SweepFunc func(ctx context.Context) (int, error)

// SweeperService runs a SweepFunc on a fixed interval.
//
// A sweep error is returned to suture so the failure counts towards the
// maintenance layer's backoff; the next Serve starts a fresh ticker.
type SweeperService struct {
	name     string
	interval time.Duration
	sweep    SweepFunc
	after    func(removed int)
}

// NewSweeperService creates a sweeper. A non-positive interval defaults
// to one minute.
func NewSweeperService(name string, interval time.Duration, sweep SweepFunc) *SweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperService{
		name:     name,
		interval: interval,
		sweep:    sweep,
	}
}

// OnSweep registers a callback run after every successful sweep.
func (s *SweeperService) OnSweep(fn func(removed int)) *SweeperService {
	s.after = fn
	return s
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.sweep(ctx)
			if err != nil {
				return fmt.Errorf("%s sweep failed: %w", s.name, err)
			}
			if removed > 0 {
				logging.Debug().Str("service", s.name).Int("removed", removed).Msg("Expired entries swept")
			}
			if s.after != nil {
				s.after(removed)
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *SweeperService) String() string {
	return s.name
}
