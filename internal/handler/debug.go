package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arefin/qoverflow/internal/model"
	"github.com/arefin/qoverflow/internal/session"
)

type debugAPI interface {
	CreateAnswer(ctx context.Context, authorID, questionID, text, code string) (*model.Answer, error)
	DebugAnswer(ctx context.Context, authorID, questionID, text, code string) (*model.Answer, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
}

// DebugHandler serves the developer test pages for exercising the upstream
// answer-creation and user-lookup endpoints directly. Only mounted when the
// server runs in debug mode.
type DebugHandler struct {
	api      debugAPI
	sess     *session.Store
	renderer *Renderer
	logger   *slog.Logger
}

func NewDebugHandler(api debugAPI, sess *session.Store, renderer *Renderer, logger *slog.Logger) *DebugHandler {
	return &DebugHandler{api: api, sess: sess, renderer: renderer, logger: logger}
}

type testAnswerPage struct {
	basePage
	QuestionID string
	AuthorID   string
	Text       string
	Code       string
	Mode       string
	Result     string
	Error      string
}

// HandleTestAnswerForm serves GET /test/answer.
func (h *DebugHandler) HandleTestAnswerForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "test_answer", testAnswerPage{
		basePage: newBasePage(h.sess, r, "Test: Create Answer"),
		Mode:     "direct",
	})
}

// HandleTestAnswer serves POST /test/answer. Mode "direct" uses the same
// call the question page uses; "debug" uses the upstream's JSON-body
// endpoint instead.
func (h *DebugHandler) HandleTestAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	page := testAnswerPage{
		basePage:   newBasePage(h.sess, r, "Test: Create Answer"),
		QuestionID: r.PostFormValue("questionId"),
		AuthorID:   r.PostFormValue("authorId"),
		Text:       r.PostFormValue("text"),
		Code:       r.PostFormValue("code"),
		Mode:       r.PostFormValue("mode"),
	}

	call := h.api.CreateAnswer
	if page.Mode == "debug" {
		call = h.api.DebugAnswer
	}

	answer, err := call(r.Context(), page.AuthorID, page.QuestionID, page.Text, page.Code)
	if err != nil {
		page.Error = err.Error()
		h.renderer.Render(w, "test_answer", page)
		return
	}
	page.Result = prettyJSON(answer)
	h.renderer.Render(w, "test_answer", page)
}

type testUserPage struct {
	basePage
	Lookup string
	Value  string
	Result string
	Error  string
}

// HandleTestUserForm serves GET /test/user.
func (h *DebugHandler) HandleTestUserForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, "test_user", testUserPage{
		basePage: newBasePage(h.sess, r, "Test: User Lookup"),
		Lookup:   "id",
	})
}

// HandleTestUser serves POST /test/user, fetching by numeric ID or by
// username and dumping the raw record.
func (h *DebugHandler) HandleTestUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	page := testUserPage{
		basePage: newBasePage(h.sess, r, "Test: User Lookup"),
		Lookup:   r.PostFormValue("lookup"),
		Value:    r.PostFormValue("value"),
	}

	var (
		user *model.User
		err  error
	)
	if page.Lookup == "username" {
		user, err = h.api.UserByUsername(r.Context(), page.Value)
	} else {
		user, err = h.api.UserByID(r.Context(), page.Value)
	}
	if err != nil {
		page.Error = err.Error()
		h.renderer.Render(w, "test_user", page)
		return
	}
	page.Result = prettyJSON(user)
	h.renderer.Render(w, "test_user", page)
}

func prettyJSON(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(out)
}
