// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/G-Villarinho/book-wise/internal/logging"
)

//go:embed templates
var templateFS embed.FS

// layoutTemplate is the entry point every page executes.
const layoutTemplate = "layout"

// Renderer holds the parsed page templates of one application.
type Renderer struct {
	app   string
	pages map[string]*template.Template
	// bufPool reuses render buffers across requests.
	bufPool sync.Pool
}

// New parses the shared templates and the pages of app ("admin" or
// "portal") from the embedded template tree.
func New(app string) (*Renderer, error) {
	return NewFromFS(templateFS, app)
}

// NewFromFS parses templates from fsys, which must contain
// templates/shared/*.html and templates/<app>/*.html. Each page is parsed
// into its own clone of the shared set so page blocks never collide.
func NewFromFS(fsys fs.FS, app string) (*Renderer, error) {
	base, err := template.New(app).Funcs(funcMap()).ParseFS(fsys, "templates/shared/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse shared templates: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/"+app+"/*.html")
	if err != nil {
		return nil, fmt.Errorf("list %s templates: %w", app, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates for app %q", app)
	}

	r := &Renderer{
		app:   app,
		pages: make(map[string]*template.Template, len(files)),
		bufPool: sync.Pool{
			New: func() interface{} { return new(bytes.Buffer) },
		},
	}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone shared templates for %s: %w", name, err)
		}
		page, err := clone.ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = page
	}
	return r, nil
}

// Has reports whether page exists.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Execute renders page into a string. Used by tests and error pages.
func (r *Renderer) Execute(page string, data interface{}) (string, error) {
	buf, err := r.execute(page, data)
	if err != nil {
		return "", err
	}
	defer r.bufPool.Put(buf)
	return buf.String(), nil
}

// HTML renders page with data and writes it with status. The page is fully
// rendered into a buffer first; on a template error a plain 500 is written
// instead.
func (r *Renderer) HTML(w http.ResponseWriter, status int, page string, data interface{}) {
	buf, err := r.execute(page, data)
	if err != nil {
		logging.Error().Err(err).Str("app", r.app).Str("page", page).Msg("Template render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer r.bufPool.Put(buf)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug().Err(err).Str("page", page).Msg("Client went away during render")
	}
}

func (r *Renderer) execute(page string, data interface{}) (*bytes.Buffer, error) {
	tmpl, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q for app %s", page, r.app)
	}
	buf, _ := r.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	if err := tmpl.ExecuteTemplate(buf, layoutTemplate, data); err != nil {
		r.bufPool.Put(buf)
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf, nil
}
