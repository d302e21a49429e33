// Package handler contains the page controllers: one handler struct per
// route area, each owning the gateway/aggregator calls its pages need and
// feeding the template layer already-normalized data.
//
// Controllers are the only layer that produces user-visible error text. The
// consistency model is re-fetch after write: every mutation is a POST that
// redirects to a GET, which re-reads upstream state.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/arefin/qoverflow/internal/model"
)

// pageNames lists every content template. Each is parsed together with
// base.html so the content block can fill the base layout.
var pageNames = []string{
	"home",
	"login",
	"register",
	"question",
	"ask",
	"profile",
	"tags",
	"search",
	"notfound",
	"test_answer",
	"test_user",
}

// templateFuncs are the display-level helpers available to templates. Logic
// beyond formatting lives in the controllers, not here.
var templateFuncs = template.FuncMap{
	"dateFmt": func(t model.Timestamp) string {
		if t.IsZero() {
			return "unknown date"
		}
		return t.Format("Jan 2, 2006")
	},
	"truncate": func(s string, n int) string {
		runes := []rune(s)
		if len(runes) <= n {
			return s
		}
		return strings.TrimSpace(string(runes[:n])) + "..."
	},
}

// Renderer holds the parsed templates, one set per page, all sharing the
// base layout. Parsing happens once at startup.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("base.html").Funcs(templateFuncs).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes the named page inside the base layout. A failed render
// falls back to a bare 500; by then part of the body may already be written,
// which is the accepted tradeoff for streaming templates straight to the
// response.
func (rd *Renderer) Render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		rd.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// RenderStatus is Render with an explicit status code (used by the not-found
// page).
func (rd *Renderer) RenderStatus(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown template", slog.String("page", page))
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		rd.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}
