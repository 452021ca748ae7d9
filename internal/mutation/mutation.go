// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package mutation runs write commands against the API and keeps the result
// cache in step with them.
//
// A command calls the API exactly once. On success it patches or
// invalidates the affected cache entries and returns a success toast. On
// failure the cache is left untouched and an error toast is returned, except
// for 401 and 403 which are returned bare so the caller can redirect.
package mutation

import (
	"context"
	"errors"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/cache"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/metrics"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/validation"
)

// API is the subset of the API client the commands call.
type API interface {
	CreateAdmin(ctx context.Context, token string, payload models.CreateAdminPayload) error
	UpdateAdmin(ctx context.Context, token string, payload models.UpdateAdminPayload) error
	BlockAdmin(ctx context.Context, token, adminID string) error
	UnblockAdmin(ctx context.Context, token, adminID string) error
	DeleteAdmin(ctx context.Context, token, adminID string) error
	CreateAuthor(ctx context.Context, token string, payload models.CreateAuthorPayload) error
	DeleteAuthor(ctx context.Context, token, authorID string) error
	CreateBook(ctx context.Context, token string, payload models.CreateBookRequest) error
	PublishBook(ctx context.Context, token, bookID string) error
	UnpublishBook(ctx context.Context, token, bookID string) error
	DeleteBook(ctx context.Context, token, bookID string) error
	EvaluateBook(ctx context.Context, token string, payload models.EvaluateBookPayload) error
	CreateMember(ctx context.Context, payload models.CreateMemberPayload) error
}

var _ API = (*apiclient.Client)(nil)

// Actor identifies who runs a command: the API token sent upstream and the
// cache scope of their session.
type Actor struct {
	Token string
	Scope string
}

// Commands bundles the API and the cache.
type Commands struct {
	api   API
	store cache.Store
}

// New creates the command set.
func New(api API, store cache.Store) *Commands {
	return &Commands{api: api, store: store}
}

// run calls the API and, on success, applies the cache effect.
func (c *Commands) run(ctx context.Context, name, success string, call func() error, effect func()) (toast.Toast, error) {
	err := call()
	metrics.RecordMutation(name, err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("command", name).Msg("Mutation failed")
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrForbidden) {
			return toast.Toast{}, err
		}
		return FailureToast(err), err
	}

	if effect != nil {
		effect()
	}
	logging.Ctx(ctx).Info().Str("command", name).Msg("Mutation applied")
	return toast.Success(success), nil
}

// FailureToast picks the error toast for a failed command: the API's details
// or message, the generic operation error for API and network failures, and
// the unexpected-error text otherwise.
func FailureToast(err error) toast.Toast {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) || errors.Is(err, apiclient.ErrNetwork) {
		return toast.Error(apiclient.UserMessage(err, toast.FallbackMutationError))
	}
	return toast.Error(toast.FallbackUnexpected)
}

func (c *Commands) invalidate(scope, resource string, parts ...string) {
	n := c.store.InvalidatePrefix(query.Key(scope, resource).Append(parts...))
	metrics.RecordCacheInvalidation(resource, "invalidate", n)
}

// patchPages applies fn to every cached page under (scope, resource). fn
// returns whether it changed the page; patched pages are written back as
// copies so readers holding the old value never see a partial update.
func patchPages[T any](store cache.Store, scope, resource string, fn func(*models.Page[T]) bool) int {
	patched := 0
	for _, it := range store.Entries(query.Key(scope, resource)) {
		page, ok := it.Value.(*models.Page[T])
		if !ok || page == nil {
			continue
		}
		store.Update(it.Key, func(v interface{}) interface{} {
			current, ok := v.(*models.Page[T])
			if !ok {
				return v
			}
			next := current.Clone()
			if fn(next) {
				patched++
				return next
			}
			return current
		})
	}
	metrics.RecordCacheInvalidation(resource, "patch", patched)
	return patched
}

func validate(payload interface{}) error {
	if verr := validation.ValidateStruct(payload); verr != nil {
		return verr
	}
	return nil
}
