// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package testinfra

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// csrfField is the form field the CSRF middleware reads.
const csrfField = "csrf_token"

// Response is a finished request made by a Browser.
type Response struct {
	Status   int
	Header   http.Header
	Body     string
	Location string
}

// Browser drives an application over HTTP with a cookie jar. Redirects are
// returned, not followed.
type Browser struct {
	t      testing.TB
	Server *httptest.Server
	client *http.Client

	// CSRFCookie names the cookie echoed into posted forms.
	CSRFCookie string
	// CSRFPath is fetched to obtain a CSRF cookie before the first post.
	CSRFPath string
	// Referer, when set, is sent with every post.
	Referer string
}

// NewBrowser serves h on a test server and returns a browser for it.
func NewBrowser(t testing.TB, h http.Handler, csrfCookie string) *Browser {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &Browser{
		t:      t,
		Server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		CSRFCookie: csrfCookie,
		CSRFPath:   "/sign-in",
	}
}

// Get requests path.
func (b *Browser) Get(path string) *Response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.Server.URL+path, nil)
	if err != nil {
		b.t.Fatalf("build GET %s: %v", path, err)
	}
	return b.do(req)
}

// PostForm posts an urlencoded form with the CSRF token added.
func (b *Browser) PostForm(path string, form url.Values) *Response {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfField, b.CSRFToken())

	req, err := http.NewRequest(http.MethodPost, b.Server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		b.t.Fatalf("build POST %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if b.Referer != "" {
		req.Header.Set("Referer", b.Server.URL+b.Referer)
	}
	return b.do(req)
}

// File is an upload of a multipart form.
type File struct {
	Field   string
	Name    string
	Content []byte
}

// PostMultipart posts a multipart form with the CSRF token added.
func (b *Browser) PostMultipart(path string, fields map[string]string, files ...File) *Response {
	b.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField(csrfField, b.CSRFToken())
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			b.t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(f.Content)
	}
	if err := mw.Close(); err != nil {
		b.t.Fatalf("close multipart body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, b.Server.URL+path, &body)
	if err != nil {
		b.t.Fatalf("build POST %s: %v", path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

// Do sends req through the browser's jar. Headers such as Referer are kept.
func (b *Browser) Do(req *http.Request) *Response {
	b.t.Helper()
	return b.do(req)
}

// CSRFToken returns the CSRF cookie, fetching CSRFPath first when the jar
// has none yet.
func (b *Browser) CSRFToken() string {
	b.t.Helper()
	if c := b.Cookie(b.CSRFCookie); c != nil {
		return c.Value
	}
	b.Get(b.CSRFPath)
	c := b.Cookie(b.CSRFCookie)
	if c == nil {
		b.t.Fatalf("no %s cookie after GET %s", b.CSRFCookie, b.CSRFPath)
	}
	return c.Value
}

// Cookie returns the jar's cookie called name, or nil.
func (b *Browser) Cookie(name string) *http.Cookie {
	u, _ := url.Parse(b.Server.URL)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FollowRedirect requests the Location of res with a GET.
func (b *Browser) FollowRedirect(res *Response) *Response {
	b.t.Helper()
	if res.Location == "" {
		b.t.Fatalf("response %d has no Location", res.Status)
	}
	loc, err := url.Parse(res.Location)
	if err != nil {
		b.t.Fatalf("parse Location %q: %v", res.Location, err)
	}
	return b.Get(loc.RequestURI())
}

func (b *Browser) do(req *http.Request) *Response {
	b.t.Helper()
	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body of %s %s: %v", req.Method, req.URL.Path, err)
	}
	return &Response{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     string(body),
		Location: resp.Header.Get("Location"),
	}
}
