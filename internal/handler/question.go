package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
	"github.com/arefin/qoverflow/internal/session"
)

type questionAPI interface {
	QuestionByID(ctx context.Context, id string) (*model.Question, error)
	AnswersByQuestion(ctx context.Context, questionID string) ([]model.Answer, error)
	CreateAnswer(ctx context.Context, authorID, questionID, text, code string) (*model.Answer, error)
	VoteQuestion(ctx context.Context, userID, questionID int64, voteType model.VoteType) error
	VoteAnswer(ctx context.Context, userID, answerID int64, voteType model.VoteType) error
	AcceptAnswer(ctx context.Context, questionID, answerID string) error
	DeleteQuestion(ctx context.Context, id, userID string) error
	DeleteAnswer(ctx context.Context, id, userID string) error
}

// QuestionHandler serves the question detail page and the mutations hanging
// off it: answering, voting, accepting, deleting.
type QuestionHandler struct {
	api      questionAPI
	sess     *session.Store
	renderer *Renderer
	logger   *slog.Logger
}

func NewQuestionHandler(api questionAPI, sess *session.Store, renderer *Renderer, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{api: api, sess: sess, renderer: renderer, logger: logger}
}

type questionPage struct {
	basePage
	Question     *model.Question
	Answers      []model.Answer
	AnswersError string
	Error        string
	IsOwner      bool
}

// HandleDetail serves GET /questions/{id}. The question itself must load;
// a failure fetching answers degrades to an empty list with a notice, so a
// half-broken upstream still shows the question body.
func (h *QuestionHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	question, err := h.api.QuestionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalidArgument) {
			h.renderer.RenderStatus(w, http.StatusNotFound, "notfound",
				notFoundPage{basePage: newBasePage(h.sess, r, "Question not found")})
			return
		}
		h.logger.Warn("failed to load question",
			slog.String("questionId", id),
			slog.String("error", err.Error()),
		)
		h.renderer.RenderStatus(w, http.StatusBadGateway, "notfound",
			notFoundPage{basePage: newBasePage(h.sess, r, "Question unavailable")})
		return
	}

	page := questionPage{
		basePage: newBasePage(h.sess, r, question.Title),
		Question: question,
		Error:    r.URL.Query().Get("error"),
	}
	if current := h.sess.Current(); current != nil {
		page.IsOwner = current.ID == question.AuthorID || current.IsModerator
	}

	answers, err := h.api.AnswersByQuestion(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to load answers",
			slog.String("questionId", id),
			slog.String("error", err.Error()),
		)
		page.AnswersError = "Answers could not be loaded right now."
	} else {
		page.Answers = answers
	}

	h.renderer.Render(w, "question", page)
}

// HandleAnswer serves POST /questions/{id}/answers.
func (h *QuestionHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target := "/questions/" + id

	current := h.sess.Current()
	if current == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("text")
	code := r.PostFormValue("code")

	if _, err := h.api.CreateAnswer(r.Context(), formatID(current.ID), id, text, code); err != nil {
		h.logger.Warn("failed to post answer",
			slog.String("questionId", id),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, target, userMessage(err, "Failed to post your answer. Please try again."))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleVoteQuestion serves POST /questions/{id}/vote with a "direction"
// form field of "up" or "down".
func (h *QuestionHandler) HandleVoteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.castVote(w, r, "/questions/"+id, func(ctx context.Context, userID, targetID int64, vt model.VoteType) error {
		return h.api.VoteQuestion(ctx, userID, targetID, vt)
	}, id)
}

// HandleVoteAnswer serves POST /answers/{id}/vote. The answer's question ID
// travels in the form so the redirect can land back on the right page.
func (h *QuestionHandler) HandleVoteAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	target := "/questions/" + r.PostFormValue("questionId")
	h.castVote(w, r, target, func(ctx context.Context, userID, targetID int64, vt model.VoteType) error {
		return h.api.VoteAnswer(ctx, userID, targetID, vt)
	}, id)
}

func (h *QuestionHandler) castVote(
	w http.ResponseWriter,
	r *http.Request,
	target string,
	vote func(context.Context, int64, int64, model.VoteType) error,
	rawID string,
) {
	current := h.sess.Current()
	if current == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var voteType model.VoteType
	switch r.PostFormValue("direction") {
	case "up":
		voteType = model.VoteUp
	case "down":
		voteType = model.VoteDown
	default:
		redirectWithError(w, r, target, "Invalid vote")
		return
	}

	targetID, err := parseID(rawID)
	if err != nil {
		redirectWithError(w, r, target, "Invalid vote target")
		return
	}

	if err := vote(r.Context(), current.ID, targetID, voteType); err != nil {
		h.logger.Warn("vote failed",
			slog.String("target", target),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, target, userMessage(err, "Your vote could not be recorded."))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleAccept serves POST /questions/{id}/accept/{answerID}. Only the
// question owner may accept, which the upstream also enforces.
func (h *QuestionHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	answerID := chi.URLParam(r, "answerID")
	target := "/questions/" + id

	if h.sess.Current() == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := h.api.AcceptAnswer(r.Context(), id, answerID); err != nil {
		h.logger.Warn("failed to accept answer",
			slog.String("questionId", id),
			slog.String("answerId", answerID),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, target, userMessage(err, "Failed to accept the answer."))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleDeleteQuestion serves POST /questions/{id}/delete.
func (h *QuestionHandler) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	current := h.sess.Current()
	if current == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := h.api.DeleteQuestion(r.Context(), id, formatID(current.ID)); err != nil {
		h.logger.Warn("failed to delete question",
			slog.String("questionId", id),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, "/questions/"+id, userMessage(err, "Failed to delete the question."))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDeleteAnswer serves POST /answers/{id}/delete.
func (h *QuestionHandler) HandleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	current := h.sess.Current()
	if current == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	target := "/questions/" + r.PostFormValue("questionId")

	if err := h.api.DeleteAnswer(r.Context(), id, formatID(current.ID)); err != nil {
		h.logger.Warn("failed to delete answer",
			slog.String("answerId", id),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, target, userMessage(err, "Failed to delete the answer."))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
