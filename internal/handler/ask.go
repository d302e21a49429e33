package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/arefin/qoverflow/internal/model"
	"github.com/arefin/qoverflow/internal/session"
)

type questionCreator interface {
	CreateQuestion(ctx context.Context, authorID, title, text, image string, tags model.TagNames) (*model.Question, error)
}

// AskHandler serves the question composer.
type AskHandler struct {
	api      questionCreator
	sess     *session.Store
	renderer *Renderer
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAskHandler(api questionCreator, sess *session.Store, renderer *Renderer, logger *slog.Logger) *AskHandler {
	return &AskHandler{
		api:      api,
		sess:     sess,
		renderer: renderer,
		validate: validator.New(),
		logger:   logger,
	}
}

type askForm struct {
	Title string `validate:"required,min=10,max=150"`
	Text  string `validate:"required,min=20"`
	Tags  string `validate:"required"`
	Code  string `validate:"omitempty"`
}

type askPage struct {
	basePage
	Form    askForm
	Errors  map[string]string
	Message string
}

// HandleForm serves GET /ask.
func (h *AskHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	if !h.sess.IsAuthenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, "ask", askPage{basePage: newBasePage(h.sess, r, "Ask a Question")})
}

// HandleSubmit serves POST /ask. Tags arrive comma-separated; empty entries
// are dropped before the create call.
func (h *AskHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	current := h.sess.Current()
	if current == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := askForm{
		Title: strings.TrimSpace(r.PostFormValue("title")),
		Text:  strings.TrimSpace(r.PostFormValue("text")),
		Tags:  r.PostFormValue("tags"),
		Code:  r.PostFormValue("code"),
	}

	page := askPage{
		basePage: newBasePage(h.sess, r, "Ask a Question"),
		Form:     form,
	}
	if err := h.validate.Struct(form); err != nil {
		page.Errors = formErrors(err)
		h.renderer.Render(w, "ask", page)
		return
	}

	tags := splitTags(form.Tags)
	if len(tags) == 0 {
		page.Errors = map[string]string{"Tags": "At least one tag is required"}
		h.renderer.Render(w, "ask", page)
		return
	}

	question, err := h.api.CreateQuestion(r.Context(), formatID(current.ID), form.Title, form.Text, form.Code, tags)
	if err != nil {
		h.logger.Warn("failed to create question", slog.String("error", err.Error()))
		page.Message = userMessage(err, "Failed to post your question. Please try again.")
		h.renderer.Render(w, "ask", page)
		return
	}
	http.Redirect(w, r, "/questions/"+formatID(question.ID), http.StatusSeeOther)
}

func splitTags(raw string) model.TagNames {
	var tags model.TagNames
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			tags = append(tags, name)
		}
	}
	return tags
}
