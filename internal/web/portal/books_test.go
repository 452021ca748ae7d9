// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package portal

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/testinfra"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

func publishedBooks() models.Page[models.PublishedBook] {
	return testinfra.Page(
		models.PublishedBook{ID: "b1", Title: "Dom Casmurro", Authors: []string{"Machado de Assis"}, RateAverage: 4.5, TotalEvaluations: 2},
		models.PublishedBook{ID: "b2", Title: "Vidas Secas", Authors: []string{"Graciliano Ramos"}, HasRead: true},
	)
}

func topCategories() []models.Category {
	return []models.Category{{ID: "c1", Name: "Romance"}, {ID: "c2", Name: "Fantasia"}}
}

func TestExplore(t *testing.T) {
	t.Run("filters and chips", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.JSON(http.MethodGet, "/categories/top", http.StatusOK, topCategories())

		res := b.Get("/explore?q=dom")
		require.Equal(t, http.StatusFound, res.Status)
		assert.Equal(t, "/explore?page=1&q=dom", res.Location)

		page := b.FollowRedirect(res)
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, "Dom Casmurro")
		assert.Contains(t, page.Body, `href="/books/b1/evaluations"`)
		assert.Contains(t, page.Body, "categoryId=c1&amp;page=1&amp;q=dom")
		assert.Contains(t, page.Body, `href="/explore?page=1&amp;q=dom" aria-current="true">Tudo`)

		calls := env.API.CallsTo(http.MethodGet, "/books/published")
		require.Len(t, calls, 1)
		assert.Equal(t, "/v1/books/published?limit=15&page=1&q=dom", calls[0].URI())
	})

	t.Run("active category", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.JSON(http.MethodGet, "/categories/top", http.StatusOK, topCategories())

		page := b.Get("/explore?categoryId=c2&page=1")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, `aria-current="true">Fantasia`)
		assert.Contains(t, page.Body, `href="/explore?page=1">Tudo`)
	})

	t.Run("categories unavailable", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.Fail(http.MethodGet, "/categories/top", http.StatusBadRequest, "")

		page := b.Get("/explore")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, "Dom Casmurro")
		assert.NotContains(t, page.Body, "Romance")
	})

	t.Run("API down", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Status(http.MethodGet, "/books/published", http.StatusBadGateway)
		env.API.JSON(http.MethodGet, "/categories/top", http.StatusOK, topCategories())

		page := b.Get("/explore")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, toast.NetworkWarningMessage)
		assert.NotContains(t, page.Body, toast.FallbackUnexpected)
		assert.Len(t, env.API.CallsTo(http.MethodGet, "/books/published"), 3)
	})
}

func TestCategoryChips(t *testing.T) {
	state := querystate.Parse(url.Values{"q": {"casa"}, "categoryId": {"c2"}, "page": {"3"}}, exploreFilters...)

	chips := categoryChips(state, topCategories())
	assert.Equal(t, []CategoryChip{
		{Name: "Romance", Href: "/explore?categoryId=c1&page=1&q=casa"},
		{Name: "Fantasia", Href: "/explore?categoryId=c2&page=1&q=casa", Active: true},
	}, chips)
	assert.Empty(t, categoryChips(state, nil))
}

func TestEvaluations(t *testing.T) {
	t.Run("book and evaluations", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.JSON(http.MethodGet, "/books/b1/evaluations", http.StatusOK, testinfra.Page(
			models.Evaluation{ID: "e1", Rate: 5, Description: "Capitu!", UserFullName: "Carla Dias", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		))

		page := b.Get("/books/b1/evaluations?page=1")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, "Dom Casmurro")
		assert.Contains(t, page.Body, "Machado de Assis")
		assert.Contains(t, page.Body, "Capitu!")
		assert.Contains(t, page.Body, "Carla Dias")
		assert.Contains(t, page.Body, `action="/books/b1/evaluations"`)

		calls := env.API.CallsTo(http.MethodGet, "/books/b1/evaluations")
		require.Len(t, calls, 1)
		assert.Equal(t, "/v1/books/b1/evaluations?limit=10&page=1", calls[0].URI())
	})

	t.Run("header comes from the explore listing", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.JSON(http.MethodGet, "/categories/top", http.StatusOK, topCategories())
		env.API.Status(http.MethodGet, "/books/b1", http.StatusForbidden)
		env.API.JSON(http.MethodGet, "/books/b1/evaluations", http.StatusOK, testinfra.Page[models.Evaluation]())

		require.Equal(t, http.StatusOK, b.Get("/explore").Status)

		page := b.Get("/books/b1/evaluations?page=1")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, "Dom Casmurro")
		assert.Empty(t, env.API.CallsTo(http.MethodGet, "/books/b1"))
		assert.Len(t, env.API.CallsTo(http.MethodGet, "/books/published"), 1)
	})

	t.Run("walks the listing on a cache miss", func(t *testing.T) {
		env, b := signedIn(t)
		first := testinfra.Page(models.PublishedBook{ID: "b2", Title: "Vidas Secas"})
		first.TotalPages = 2
		second := testinfra.Page(models.PublishedBook{ID: "b3", Title: "Iracema"})
		second.TotalPages, second.Page = 2, 2
		env.API.JSONPages(http.MethodGet, "/books/published", first, second)
		env.API.JSON(http.MethodGet, "/books/b3/evaluations", http.StatusOK, testinfra.Page[models.Evaluation]())

		page := b.Get("/books/b3/evaluations?page=1")
		require.Equal(t, http.StatusOK, page.Status)
		assert.Contains(t, page.Body, "Iracema")

		calls := env.API.CallsTo(http.MethodGet, "/books/published")
		require.Len(t, calls, 2)
		assert.Equal(t, "/v1/books/published?limit=15&page=1", calls[0].URI())
		assert.Equal(t, "/v1/books/published?limit=15&page=2", calls[1].URI())

		scope := b.Cookie(env.SessionCookieName()).Value
		_, ok := env.Cache.Get(query.Key(scope, query.ResourceBooks).Append("", "", "2"))
		assert.True(t, ok, "walked pages are cached for explore")
	})

	t.Run("no evaluations", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.JSON(http.MethodGet, "/books/b1/evaluations", http.StatusOK, testinfra.Page[models.Evaluation]())

		assert.Contains(t, b.Get("/books/b1/evaluations?page=1").Body, "Nenhuma avaliação ainda.")
	})

	t.Run("unknown book", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())

		res := b.Get("/books/nope/evaluations?page=1")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, HomePath, res.Location)

		explore := b.FollowRedirect(res)
		require.Equal(t, http.StatusOK, explore.Status)
		assert.Contains(t, explore.Body, "Livro não encontrado.")
	})
}

func TestEvaluate(t *testing.T) {
	t.Run("marks the book as read", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.JSON(http.MethodGet, "/books/b1/evaluations", http.StatusOK, testinfra.Page[models.Evaluation]())
		env.API.Status(http.MethodPost, "/books/b1/evaluations", http.StatusCreated)

		require.Equal(t, http.StatusOK, b.Get("/explore").Status)
		b.Get("/books/b1/evaluations?page=1")

		b.Referer = "/books/b1/evaluations?page=1"
		res := b.PostForm("/books/b1/evaluations", url.Values{"rate": {"4"}, "description": {"Um clássico."}})
		require.Equal(t, http.StatusSeeOther, res.Status, res.Body)
		assert.Equal(t, "/books/b1/evaluations?page=1", res.Location)

		calls := env.API.CallsTo(http.MethodPost, "/books/b1/evaluations")
		require.Len(t, calls, 1)
		var payload models.EvaluateBookPayload
		require.NoError(t, calls[0].DecodeBody(&payload))
		assert.Equal(t, 4, payload.Rate)
		assert.Equal(t, "Um clássico.", payload.Description)

		assert.Contains(t, b.FollowRedirect(res).Body, "Avaliação enviada com sucesso!")
		assert.Len(t, env.API.CallsTo(http.MethodGet, "/books/b1/evaluations"), 2, "evaluations are refetched")

		scope := b.Cookie(env.SessionCookieName()).Value
		v, ok := env.Cache.Get(query.Key(scope, query.ResourceBooks).Append("", "", "1"))
		require.True(t, ok, "explore page stays cached")
		cached := v.(*models.Page[models.PublishedBook])
		assert.True(t, cached.Data[0].HasRead)

		b.Get("/explore")
		assert.Len(t, env.API.CallsTo(http.MethodGet, "/books/published"), 1)
	})

	t.Run("validation", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.JSON(http.MethodGet, "/books/published", http.StatusOK, publishedBooks())
		env.API.JSON(http.MethodGet, "/books/b1/evaluations", http.StatusOK, testinfra.Page[models.Evaluation]())

		res := b.PostForm("/books/b1/evaluations", url.Values{"rate": {"0"}, "description": {""}})
		require.Equal(t, http.StatusUnprocessableEntity, res.Status)
		assert.Contains(t, res.Body, "A avaliação deve ser entre 1 e 5")
		assert.Contains(t, res.Body, "A descrição é obrigatória")
		assert.Contains(t, res.Body, "Dom Casmurro")
		assert.Empty(t, env.API.CallsTo(http.MethodPost, "/books/b1/evaluations"))
	})

	t.Run("API session expired", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Fail(http.MethodPost, "/books/b1/evaluations", http.StatusUnauthorized, "")

		res := b.PostForm("/books/b1/evaluations", url.Values{"rate": {"5"}, "description": {"Ótimo"}})
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, SignInPath, res.Location)
		assert.Nil(t, b.Cookie(env.SessionCookieName()))
	})
}

func TestBookPath(t *testing.T) {
	assert.Equal(t, "/books/b1/evaluations?page=1", bookPath("b1"))
	assert.Equal(t, "/books/a%2Fb%3Fx/evaluations?page=1", bookPath("a/b?x"))
}
