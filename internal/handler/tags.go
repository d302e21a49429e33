package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/arefin/qoverflow/internal/model"
	"github.com/arefin/qoverflow/internal/session"
)

type tagLister interface {
	AllTags(ctx context.Context) ([]model.Tag, error)
}

// TagHandler serves the tag index.
type TagHandler struct {
	api      tagLister
	sess     *session.Store
	renderer *Renderer
	logger   *slog.Logger
}

func NewTagHandler(api tagLister, sess *session.Store, renderer *Renderer, logger *slog.Logger) *TagHandler {
	return &TagHandler{api: api, sess: sess, renderer: renderer, logger: logger}
}

type tagsPage struct {
	basePage
	Tags  []model.Tag
	Error string
}

// HandleIndex serves GET /tags, sorted by question count descending.
func (h *TagHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	page := tagsPage{basePage: newBasePage(h.sess, r, "Tags")}

	tags, err := h.api.AllTags(r.Context())
	if err != nil {
		h.logger.Warn("failed to load tags", slog.String("error", err.Error()))
		page.Error = userMessage(err, "Failed to load tags. Please try again later.")
		h.renderer.Render(w, "tags", page)
		return
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].QuestionCount > tags[j].QuestionCount
	})
	page.Tags = tags
	h.renderer.Render(w, "tags", page)
}
