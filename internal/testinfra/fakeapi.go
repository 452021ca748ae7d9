// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/models"
)

// APIPrefix is the version prefix the fake API is mounted under.
const APIPrefix = "/v1"

// DefaultCookieName is the API session cookie set by the fake magic link.
const DefaultCookieName = "book-wise-session"

// Call is one request received by a FakeAPI.
type Call struct {
	Method      string
	Path        string // without APIPrefix
	RawQuery    string
	Token       string // bearer token, empty for anonymous calls
	ContentType string
	Body        []byte
}

// URI returns the request URI as sent by the client, prefix included.
func (c Call) URI() string {
	if c.RawQuery == "" {
		return APIPrefix + c.Path
	}
	return APIPrefix + c.Path + "?" + c.RawQuery
}

// DecodeBody unmarshals the JSON body of the call into v.
func (c Call) DecodeBody(v interface{}) error {
	return json.Unmarshal(c.Body, v)
}

// FakeAPI is an in-process stand-in for the Book Wise REST API.
type FakeAPI struct {
	Server     *httptest.Server
	CookieName string

	mu       sync.Mutex
	calls    []Call
	handlers map[string]http.HandlerFunc
}

// NewFakeAPI starts a fake API that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		CookieName: DefaultCookieName,
		handlers:   make(map[string]http.HandlerFunc),
	}

	r := chi.NewRouter()
	r.Route(APIPrefix, func(r chi.Router) {
		r.HandleFunc("/*", f.dispatch)
	})
	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the API, version prefix included.
func (f *FakeAPI) URL() string {
	return f.Server.URL + APIPrefix
}

// Client returns an API client pointed at the fake.
func (f *FakeAPI) Client(t testing.TB) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(apiclient.Config{
		BaseURL:    f.URL(),
		Timeout:    2 * time.Second,
		CookieName: f.CookieName,
	})
	if err != nil {
		t.Fatalf("create api client: %v", err)
	}
	return c
}

// Handle registers h for method and path, replacing any previous handler.
func (f *FakeAPI) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

// JSON answers method and path with status and v encoded as JSON. A nil v
// writes no body.
func (f *FakeAPI) JSON(method, path string, status int, v interface{}) {
	var body []byte
	if v != nil {
		var err error
		if body, err = json.Marshal(v); err != nil {
			panic("testinfra: encode fake response: " + err.Error())
		}
	}
	f.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, status, body)
	})
}

// JSONPages answers method and path with 200 and pages[n-1], where n is
// the "page" query parameter. Missing or out of range pages answer 404.
func (f *FakeAPI) JSONPages(method, path string, pages ...interface{}) {
	bodies := make([][]byte, len(pages))
	for i, v := range pages {
		body, err := json.Marshal(v)
		if err != nil {
			panic("testinfra: encode fake response: " + err.Error())
		}
		bodies[i] = body
	}
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || n < 1 || n > len(bodies) {
			writeBody(w, http.StatusNotFound, nil)
			return
		}
		writeBody(w, http.StatusOK, bodies[n-1])
	})
}

// Status answers method and path with an empty body.
func (f *FakeAPI) Status(method, path string, status int) {
	f.JSON(method, path, status, nil)
}

// Fail answers method and path with an API error payload.
func (f *FakeAPI) Fail(method, path string, status int, message string) {
	f.JSON(method, path, status, models.ErrorPayload{Message: message})
}

// SignedIn makes GET /users/me return user.
func (f *FakeAPI) SignedIn(user models.User) {
	f.JSON(http.MethodGet, "/users/me", http.StatusOK, user)
}

// MagicLink makes GET /auth/link accept code: the API session cookie is set
// to token and the browser redirected. Other codes are refused with 401.
func (f *FakeAPI) MagicLink(code, token string) {
	f.Handle(http.MethodGet, "/auth/link", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") != code {
			body, _ := json.Marshal(models.ErrorPayload{Message: "Link inválido"})
			writeBody(w, http.StatusUnauthorized, body)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: f.CookieName, Value: token, Path: "/"})
		target := r.URL.Query().Get("redirect")
		if target == "" {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}

// Calls returns every request received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the requests received for method and path.
func (f *FakeAPI) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets the recorded requests. Registered handlers are kept.
func (f *FakeAPI) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeAPI) dispatch(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()

	call := Call{
		Method:      r.Method,
		Path:        strings.TrimPrefix(r.URL.Path, APIPrefix),
		RawQuery:    r.URL.RawQuery,
		Token:       strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h, ok := f.handlers[call.Method+" "+call.Path]
	f.mu.Unlock()

	if !ok {
		payload, _ := json.Marshal(models.ErrorPayload{Code: "NOT_FOUND", Message: "Recurso não encontrado"})
		writeBody(w, http.StatusNotFound, payload)
		return
	}

	// Handlers may read the body again, multipart parsing included.
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	h(w, r)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	if len(body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	if len(body) > 0 {
		_, _ = w.Write(body)
	}
}
