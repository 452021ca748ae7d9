// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package toast models the transient notifications shown by the web
// frontends.
//
// Per-request toasts (success and error feedback for a mutation) travel in
// the session flash and are rendered once. The network warning is a single
// process-wide toast raised when reads keep failing with retryable errors;
// raising it while it is already visible is a no-op.
package toast

import (
	"sync"
	"sync/atomic"
	"time"
)

// Kind is the visual style of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Messages shown when the API response carries no usable text.
const (
	FallbackMutationError = "Erro ao processar operação!"
	FallbackUnexpected    = "Erro inesperado, tente novamente."
	NetworkWarningMessage = "A aplicação está demorando mais que o esperado para carregar, tente novamente em alguns minutos."
)

// Toast is a single notification.
type Toast struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Success returns a success toast.
func Success(msg string) Toast { return Toast{Kind: KindSuccess, Message: msg} }

// Error returns an error toast.
func Error(msg string) Toast { return Toast{Kind: KindError, Message: msg} }

// Warning returns a warning toast.
func Warning(msg string) Toast { return Toast{Kind: KindWarning, Message: msg} }

// NetworkWarning is the process-wide "taking longer than expected" toast.
// The zero value is ready to use.
type NetworkWarning struct {
	raised   atomic.Bool
	mu       sync.Mutex
	raisedAt time.Time
	count    atomic.Int64
}

// Raise shows the warning. It returns true only for the call that made the
// warning visible; while it stays visible further calls return false.
func (w *NetworkWarning) Raise() bool {
	if !w.raised.CompareAndSwap(false, true) {
		return false
	}
	w.mu.Lock()
	w.raisedAt = time.Now()
	w.mu.Unlock()
	w.count.Add(1)
	return true
}

// Dismiss hides the warning so the next failure burst raises it again.
func (w *NetworkWarning) Dismiss() {
	w.raised.Store(false)
}

// Active reports whether the warning is visible.
func (w *NetworkWarning) Active() bool {
	return w.raised.Load()
}

// Toast returns the warning as a toast and whether it is visible.
func (w *NetworkWarning) Toast() (Toast, bool) {
	if !w.Active() {
		return Toast{}, false
	}
	return Warning(NetworkWarningMessage), true
}

// RaisedAt returns when the warning last became visible.
func (w *NetworkWarning) RaisedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.raisedAt
}

// Count returns how many times the warning has been raised.
func (w *NetworkWarning) Count() int64 {
	return w.count.Load()
}
