package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arefin/qoverflow/internal/aggregate"
	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/session"
)

type searcher interface {
	GlobalSearch(ctx context.Context, keyword string) (*aggregate.SearchResults, error)
}

// SearchHandler serves the combined question-and-user search page.
type SearchHandler struct {
	agg      searcher
	sess     *session.Store
	renderer *Renderer
	logger   *slog.Logger
}

func NewSearchHandler(agg searcher, sess *session.Store, renderer *Renderer, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{agg: agg, sess: sess, renderer: renderer, logger: logger}
}

type searchPage struct {
	basePage
	Keyword string
	Tab     string
	Results *aggregate.SearchResults
	Error   string
}

// HandleSearch serves GET /search?q=&tab=. A blank keyword renders the empty
// page without hitting the upstream at all.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = "all"
	}

	page := searchPage{
		basePage: newBasePage(h.sess, r, "Search"),
		Keyword:  keyword,
		Tab:      tab,
	}
	if keyword == "" {
		h.renderer.Render(w, "search", page)
		return
	}

	results, err := h.agg.GlobalSearch(r.Context(), keyword)
	if err != nil {
		if !errors.Is(err, apperror.ErrInvalidArgument) {
			h.logger.Warn("search failed",
				slog.String("keyword", keyword),
				slog.String("error", err.Error()),
			)
		}
		page.Error = userMessage(err, "Search is unavailable right now.")
		h.renderer.Render(w, "search", page)
		return
	}

	page.Results = results
	h.renderer.Render(w, "search", page)
}
