package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/arefin/qoverflow/internal/model"
	"github.com/arefin/qoverflow/internal/session"
)

// questionLister is the slice of the gateway the listing page needs.
type questionLister interface {
	AllQuestions(ctx context.Context) ([]model.Question, error)
	SearchQuestions(ctx context.Context, keyword string) ([]model.Question, error)
	QuestionsByTag(ctx context.Context, tagName string) ([]model.Question, error)
}

// HomeHandler serves the question listing: all questions, keyword-filtered,
// or tag-filtered, with a client-chosen sort order.
type HomeHandler struct {
	api      questionLister
	sess     *session.Store
	renderer *Renderer
	logger   *slog.Logger
}

func NewHomeHandler(api questionLister, sess *session.Store, renderer *Renderer, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{api: api, sess: sess, renderer: renderer, logger: logger}
}

type homePage struct {
	basePage
	Heading   string
	TagName   string
	Keyword   string
	Sort      string
	Questions []model.Question
	Error     string
}

// HandleHome serves GET / (optionally ?search= and ?sort=).
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.serveListing(w, r, "")
}

// HandleTag serves GET /tags/{tagName}: the same listing filtered by tag.
func (h *HomeHandler) HandleTag(w http.ResponseWriter, r *http.Request) {
	h.serveListing(w, r, chi.URLParam(r, "tagName"))
}

func (h *HomeHandler) serveListing(w http.ResponseWriter, r *http.Request, tagName string) {
	keyword := r.URL.Query().Get("search")
	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = "newest"
	}

	page := homePage{
		basePage: newBasePage(h.sess, r, "All Questions"),
		TagName:  tagName,
		Keyword:  keyword,
		Sort:     sortKey,
		Heading:  "All Questions",
	}
	switch {
	case keyword != "":
		page.Heading = `Search Results for "` + keyword + `"`
	case tagName != "":
		page.Heading = "Questions tagged [" + tagName + "]"
	}

	var (
		questions []model.Question
		err       error
	)
	switch {
	case keyword != "":
		questions, err = h.api.SearchQuestions(r.Context(), keyword)
	case tagName != "":
		questions, err = h.api.QuestionsByTag(r.Context(), tagName)
	default:
		questions, err = h.api.AllQuestions(r.Context())
	}
	if err != nil {
		h.logger.Warn("failed to load questions", slog.String("error", err.Error()))
		page.Error = userMessage(err, "Failed to load questions. Please try again later.")
		h.renderer.Render(w, "home", page)
		return
	}

	sortQuestions(questions, sortKey)
	page.Questions = questions
	h.renderer.Render(w, "home", page)
}

// sortQuestions orders a listing in place. Stable, so equal keys keep the
// upstream order.
func sortQuestions(questions []model.Question, key string) {
	switch key {
	case "votes":
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Votes > questions[j].Votes
		})
	case "answers":
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].AnswersCount > questions[j].AnswersCount
		})
	default: // newest
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].CreatedAt.After(questions[j].CreatedAt.Time)
		})
	}
}
