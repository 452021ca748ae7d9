// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package admin

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/testinfra"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

func sampleAdmins() models.Page[models.Admin] {
	return testinfra.Page(
		models.Admin{ID: "a1", FullName: "Carla Dias", Email: "carla@bookwise.dev", Role: models.RoleAdmin, Status: models.StatusActive},
		models.Admin{ID: "a2", FullName: "Davi Rocha", Email: "davi@bookwise.dev", Role: models.RoleAdmin, Status: models.StatusBlocked},
	)
}

func TestListAdmins(t *testing.T) {
	t.Run("canonical filters", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, sampleAdmins())

		res := b.Get("/admins?status=blocked&fullName=Carla")
		require.Equal(t, http.StatusFound, res.Status)
		assert.Equal(t, "/admins?fullName=Carla&page=1&status=blocked", res.Location)
		assert.Empty(t, env.API.CallsTo(http.MethodGet, "/users/admins"))

		page := b.FollowRedirect(res)
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, "Carla Dias")
		assert.Contains(t, page.Body, `href="/admins"`)

		calls := env.API.CallsTo(http.MethodGet, "/users/admins")
		require.Len(t, calls, 1)
		assert.Equal(t, "/v1/users/admins?fullName=Carla&page=1&status=blocked", calls[0].URI())
		assert.Equal(t, testinfra.TestToken, calls[0].Token)
	})

	t.Run("status all is dropped", func(t *testing.T) {
		_, b := signedIn(t)

		res := b.Get("/admins?status=all")
		require.Equal(t, http.StatusFound, res.Status)
		assert.Equal(t, "/admins?page=1", res.Location)
	})

	t.Run("served from cache", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, sampleAdmins())

		b.Get("/admins")
		b.Get("/admins")
		b.Get("/admins?page=2")

		assert.Len(t, env.API.CallsTo(http.MethodGet, "/users/admins"), 2)
	})

	t.Run("empty", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, testinfra.Page[models.Admin]())

		page := b.Get("/admins")
		assert.Contains(t, page.Body, "Nenhum administrador encontrado.")
	})

	t.Run("API down", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Status(http.MethodGet, "/users/admins", http.StatusInternalServerError)

		page := b.Get("/admins")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Len(t, env.API.CallsTo(http.MethodGet, "/users/admins"), 3)
		assert.Contains(t, page.Body, toast.NetworkWarningMessage)
		assert.NotContains(t, page.Body, toast.FallbackUnexpected)
		assert.True(t, env.Warning.Active())
	})

	t.Run("client error shows one toast", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Fail(http.MethodGet, "/users/admins", http.StatusBadRequest, "Filtro inválido")

		page := b.Get("/admins")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Len(t, env.API.CallsTo(http.MethodGet, "/users/admins"), 1)
		assert.Equal(t, 1, strings.Count(page.Body, "Filtro inválido"))
		assert.NotContains(t, page.Body, toast.NetworkWarningMessage)
	})
}

func TestCreateAdmin(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		env, b := signedIn(t)

		res := b.PostForm("/admins", url.Values{"fullName": {" "}, "email": {"carla"}})
		require.Equal(t, http.StatusUnprocessableEntity, res.Status)
		assert.Contains(t, res.Body, "Nome completo é obrigatório")
		assert.Contains(t, res.Body, "E-mail inválido")
		assert.Contains(t, res.Body, `value="carla"`)
		assert.Empty(t, env.API.CallsTo(http.MethodPost, "/users/admin"))
	})

	t.Run("success", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Status(http.MethodPost, "/users/admin", http.StatusCreated)
		env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, sampleAdmins())

		res := b.PostForm("/admins", url.Values{"fullName": {"Carla Dias"}, "email": {"carla@bookwise.dev"}})
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, HomePath, res.Location)

		calls := env.API.CallsTo(http.MethodPost, "/users/admin")
		require.Len(t, calls, 1)
		var payload models.CreateAdminPayload
		require.NoError(t, calls[0].DecodeBody(&payload))
		assert.Equal(t, models.CreateAdminPayload{FullName: "Carla Dias", Email: "carla@bookwise.dev"}, payload)

		assert.Contains(t, b.FollowRedirect(res).Body, "Administrador criado com sucesso.")
	})

	t.Run("API conflict keeps the form", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Fail(http.MethodPost, "/users/admin", http.StatusConflict, "E-mail já cadastrado")

		res := b.PostForm("/admins", url.Values{"fullName": {"Carla Dias"}, "email": {"carla@bookwise.dev"}})
		require.Equal(t, http.StatusUnprocessableEntity, res.Status)
		assert.Contains(t, res.Body, "E-mail já cadastrado")
		assert.Contains(t, res.Body, `value="Carla Dias"`)
	})
}

func TestEditAdmin(t *testing.T) {
	t.Run("prefilled", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/users/admins/a1", http.StatusOK, sampleAdmins().Data[0])

		res := b.Get("/admins/a1/edit")
		require.Equal(t, http.StatusOK, res.Status)
		assert.Contains(t, res.Body, `value="Carla Dias"`)
		assert.Contains(t, res.Body, `action="/admins/a1"`)
	})

	t.Run("not found", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, sampleAdmins())

		res := b.Get("/admins/missing/edit")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, HomePath, res.Location)
		assert.Contains(t, b.FollowRedirect(res).Body, "Administrador não encontrado.")
	})

	t.Run("update", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/users/admins/a1", http.StatusOK, sampleAdmins().Data[0])
		env.API.Status(http.MethodPut, "/users/admins", http.StatusNoContent)
		b.Get("/admins/a1/edit")

		res := b.PostForm("/admins/a1", url.Values{"fullName": {"Carla Dias Souza"}, "email": {"carla@bookwise.dev"}})
		require.Equal(t, http.StatusSeeOther, res.Status)

		calls := env.API.CallsTo(http.MethodPut, "/users/admins")
		require.Len(t, calls, 1)
		var payload models.UpdateAdminPayload
		require.NoError(t, calls[0].DecodeBody(&payload))
		assert.Equal(t, "a1", payload.AdminID)
		assert.Equal(t, "Carla Dias Souza", payload.FullName)

		_, cached := env.Cache.Get(adminKey(t, env, b, "a1"))
		assert.False(t, cached, "edited admin must be refetched")
	})
}

func TestBlockAdmin(t *testing.T) {
	env, b := signedIn(t)
	env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, sampleAdmins())
	env.API.Status(http.MethodPatch, "/users/admin/block", http.StatusNoContent)

	before := b.Get("/admins?page=1")
	require.Contains(t, before.Body, `action="/admins/a1/block"`)

	b.Referer = "/admins?page=1"
	res := b.PostForm("/admins/a1/block", nil)
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/admins?page=1", res.Location)

	calls := env.API.CallsTo(http.MethodPatch, "/users/admin/block")
	require.Len(t, calls, 1)
	var payload models.AdminIDPayload
	require.NoError(t, calls[0].DecodeBody(&payload))
	assert.Equal(t, "a1", payload.AdminID)

	after := b.FollowRedirect(res)
	assert.Contains(t, after.Body, `action="/admins/a1/unblock"`)
	assert.Contains(t, after.Body, "Administrador bloqueado com sucesso.")
	assert.Len(t, env.API.CallsTo(http.MethodGet, "/users/admins"), 1, "list must be patched in cache")
}

func TestUnblockAdminFailure(t *testing.T) {
	env, b := signedIn(t)
	env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, sampleAdmins())
	env.API.Fail(http.MethodPatch, "/users/admins/unblock", http.StatusBadRequest, "Administrador não está bloqueado")

	b.Get("/admins?page=1")
	b.Referer = "/admins?page=1"
	res := b.PostForm("/admins/a2/unblock", nil)
	require.Equal(t, http.StatusSeeOther, res.Status)

	after := b.FollowRedirect(res)
	assert.Contains(t, after.Body, "Administrador não está bloqueado")
	assert.Contains(t, after.Body, `action="/admins/a2/unblock"`)
}

func TestDeleteAdmin(t *testing.T) {
	env, b := signedIn(t)
	env.API.JSON(http.MethodGet, "/users/admins", http.StatusOK, sampleAdmins())
	env.API.Status(http.MethodDelete, "/users/admins/a2", http.StatusNoContent)

	b.Get("/admins?page=1")
	res := b.PostForm("/admins/a2/delete", nil)
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, HomePath, res.Location, "no referer falls back to the list")

	assert.Empty(t, env.Cache.Entries(listKey(t, env, b, "admins")))
}
