// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package toast

import (
	"sync"
	"testing"
)

func TestNetworkWarning_RaiseOnce(t *testing.T) {
	var w NetworkWarning

	if !w.Raise() {
		t.Fatal("first Raise should report true")
	}
	if w.Raise() {
		t.Fatal("second Raise while visible should report false")
	}
	if got, ok := w.Toast(); !ok || got.Message != NetworkWarningMessage || got.Kind != KindWarning {
		t.Errorf("Toast() = %+v, %v", got, ok)
	}

	w.Dismiss()
	if w.Active() {
		t.Fatal("warning still active after Dismiss")
	}
	if !w.Raise() {
		t.Fatal("Raise after Dismiss should report true")
	}
	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}
}

func TestNetworkWarning_ConcurrentRaise(t *testing.T) {
	var w NetworkWarning
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.Raise() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("%d goroutines raised the warning, want 1", winners)
	}
	if w.RaisedAt().IsZero() {
		t.Error("RaisedAt not recorded")
	}
}
