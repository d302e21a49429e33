package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
	"github.com/arefin/qoverflow/internal/session"
)

type profileAPI interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
	QuestionsByAuthor(ctx context.Context, authorID string) ([]model.Question, error)
	AnswersByAuthor(ctx context.Context, authorID string) ([]model.Answer, error)
	UpdateUser(ctx context.Context, id string, user model.User) (*model.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
}

type profileAggregator interface {
	UserStatistics(ctx context.Context, userID string) (*model.UserStatistics, error)
	UserActivity(ctx context.Context, userID string) ([]model.ActivityEntry, error)
}

// ProfileHandler serves user profile pages and the account mutations hanging
// off them: profile edits, password changes, and the moderator controls.
type ProfileHandler struct {
	api      profileAPI
	agg      profileAggregator
	sess     *session.Store
	renderer *Renderer
	validate *validator.Validate
	logger   *slog.Logger
}

func NewProfileHandler(api profileAPI, agg profileAggregator, sess *session.Store, renderer *Renderer, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		api:      api,
		agg:      agg,
		sess:     sess,
		renderer: renderer,
		validate: validator.New(),
		logger:   logger,
	}
}

type profilePage struct {
	basePage
	User       *model.User
	Tab        string
	IsSelf     bool
	Questions  []model.Question
	Answers    []model.Answer
	Stats      *model.UserStatistics
	Activity   []model.ActivityEntry
	TabError   string
	Error      string
	FormErrors map[string]string
}

// HandleProfile serves GET /users/{id}?tab=. Only the selected tab's data is
// fetched; the other tabs stay empty until requested.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = "profile"
	}

	user, err := h.api.UserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalidArgument) {
			h.renderer.RenderStatus(w, http.StatusNotFound, "notfound",
				notFoundPage{basePage: newBasePage(h.sess, r, "User not found")})
			return
		}
		h.logger.Warn("failed to load user",
			slog.String("userId", id),
			slog.String("error", err.Error()),
		)
		h.renderer.RenderStatus(w, http.StatusBadGateway, "notfound",
			notFoundPage{basePage: newBasePage(h.sess, r, "User unavailable")})
		return
	}

	page := profilePage{
		basePage: newBasePage(h.sess, r, user.Username),
		User:     user,
		Tab:      tab,
		Error:    r.URL.Query().Get("error"),
	}
	if current := h.sess.Current(); current != nil {
		page.IsSelf = current.ID == user.ID
	}

	switch tab {
	case "questions":
		page.Questions, err = h.api.QuestionsByAuthor(r.Context(), id)
	case "answers":
		page.Answers, err = h.api.AnswersByAuthor(r.Context(), id)
	case "activity":
		page.Activity, err = h.agg.UserActivity(r.Context(), id)
	case "stats":
		page.Stats, err = h.agg.UserStatistics(r.Context(), id)
	}
	if err != nil {
		h.logger.Warn("failed to load profile tab",
			slog.String("userId", id),
			slog.String("tab", tab),
			slog.String("error", err.Error()),
		)
		page.TabError = userMessage(err, "This section could not be loaded right now.")
	}

	h.renderer.Render(w, "profile", page)
}

type profileForm struct {
	Email       string `validate:"required,email"`
	PhoneNumber string `validate:"omitempty,min=7,max=20"`
	Bio         string `validate:"omitempty,max=500"`
	Location    string `validate:"omitempty,max=100"`
	Website     string `validate:"omitempty,url"`
}

// HandleUpdateProfile serves POST /users/{id}/profile. The upstream update
// is a full replace, so the submitted fields are merged onto the current
// record before sending.
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target := "/users/" + id

	current := h.sess.Current()
	if current == nil || formatID(current.ID) != id {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := profileForm{
		Email:       r.PostFormValue("email"),
		PhoneNumber: r.PostFormValue("phoneNumber"),
		Bio:         r.PostFormValue("bio"),
		Location:    r.PostFormValue("location"),
		Website:     r.PostFormValue("website"),
	}
	if err := h.validate.Struct(form); err != nil {
		msg := "Please check the form and try again."
		for _, m := range formErrors(err) {
			msg = m
			break
		}
		redirectWithError(w, r, target, msg)
		return
	}

	updated := *current
	updated.Email = form.Email
	updated.PhoneNumber = form.PhoneNumber
	updated.Bio = form.Bio
	updated.Location = form.Location
	updated.Website = form.Website

	if _, err := h.api.UpdateUser(r.Context(), id, updated); err != nil {
		h.logger.Warn("failed to update profile",
			slog.String("userId", id),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, target, userMessage(err, "Failed to update your profile."))
		return
	}

	h.sess.RefreshCurrent(r.Context())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleChangePassword serves POST /users/{id}/password.
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target := "/users/" + id

	current := h.sess.Current()
	if current == nil || formatID(current.ID) != id {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	currentPassword := r.PostFormValue("currentPassword")
	newPassword := r.PostFormValue("newPassword")
	confirm := r.PostFormValue("confirmPassword")

	switch {
	case currentPassword == "" || newPassword == "":
		redirectWithError(w, r, target, "All password fields are required")
		return
	case len(newPassword) < 6:
		redirectWithError(w, r, target, "New password must be at least 6 characters")
		return
	case newPassword != confirm:
		redirectWithError(w, r, target, "New passwords do not match")
		return
	}

	if err := h.api.ChangePassword(r.Context(), id, currentPassword, newPassword); err != nil {
		h.logger.Warn("failed to change password",
			slog.String("userId", id),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, target, userMessage(err, "Failed to change your password."))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleToggleBan serves POST /users/{id}/ban. Moderator only. The flag flip
// rides the same full-replace update as profile edits.
func (h *ProfileHandler) HandleToggleBan(w http.ResponseWriter, r *http.Request) {
	h.toggleFlag(w, r, func(u *model.User) { u.Banned = !u.Banned }, "Failed to update the ban status.")
}

// HandleToggleModerator serves POST /users/{id}/moderator. Moderator only.
func (h *ProfileHandler) HandleToggleModerator(w http.ResponseWriter, r *http.Request) {
	h.toggleFlag(w, r, func(u *model.User) { u.IsModerator = !u.IsModerator }, "Failed to update the moderator status.")
}

func (h *ProfileHandler) toggleFlag(w http.ResponseWriter, r *http.Request, flip func(*model.User), failMsg string) {
	id := chi.URLParam(r, "id")
	target := "/users/" + id

	if !h.sess.IsModerator() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	user, err := h.api.UserByID(r.Context(), id)
	if err != nil {
		redirectWithError(w, r, target, userMessage(err, failMsg))
		return
	}
	flip(user)

	if _, err := h.api.UpdateUser(r.Context(), id, *user); err != nil {
		h.logger.Warn("failed to toggle user flag",
			slog.String("userId", id),
			slog.String("error", err.Error()),
		)
		redirectWithError(w, r, target, userMessage(err, failMsg))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
