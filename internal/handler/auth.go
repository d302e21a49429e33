package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/arefin/qoverflow/internal/session"
)

// AuthHandler serves the login and register pages and drives the session
// store. It never talks to the gateway directly; the store owns the
// credential-check handshake.
type AuthHandler struct {
	sess     *session.Store
	renderer *Renderer
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAuthHandler(sess *session.Store, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sess:     sess,
		renderer: renderer,
		validate: validator.New(),
		logger:   logger,
	}
}

type loginPage struct {
	basePage
	Username string
	Message  string
	Reason   string
}

// HandleLoginForm serves GET /login.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sess.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, "login", loginPage{basePage: newBasePage(h.sess, r, "Log in")})
}

// HandleLogin serves POST /login. A denial from the upstream (banned account
// and the like) is shown with its message and reason verbatim; every other
// failure gets the store's generic message.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	page := loginPage{
		basePage: newBasePage(h.sess, r, "Log in"),
		Username: username,
	}
	if username == "" || password == "" {
		page.Message = "Username and password are required"
		h.renderer.Render(w, "login", page)
		return
	}

	result := h.sess.Login(r.Context(), username, password)
	if !result.Success {
		page.Message = result.Message
		page.Reason = result.Reason
		h.renderer.Render(w, "login", page)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// registerForm is validated declaratively; field names below match the form
// input names.
type registerForm struct {
	Username    string `validate:"required,min=3,max=30"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	PhoneNumber string `validate:"omitempty,min=7,max=20"`
}

type registerPage struct {
	basePage
	Form    registerForm
	Errors  map[string]string
	Message string
}

// HandleRegisterForm serves GET /register.
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.sess.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, "register", registerPage{basePage: newBasePage(h.sess, r, "Sign up")})
}

// HandleRegister serves POST /register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := registerForm{
		Username:    r.PostFormValue("username"),
		Email:       r.PostFormValue("email"),
		Password:    r.PostFormValue("password"),
		PhoneNumber: r.PostFormValue("phoneNumber"),
	}

	page := registerPage{
		basePage: newBasePage(h.sess, r, "Sign up"),
		Form:     form,
	}
	if err := h.validate.Struct(form); err != nil {
		page.Errors = formErrors(err)
		h.renderer.Render(w, "register", page)
		return
	}

	result := h.sess.Register(r.Context(), form.Username, form.Email, form.Password, form.PhoneNumber)
	if !result.Success {
		page.Message = result.Message
		h.renderer.Render(w, "register", page)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout serves POST /logout. Logout cannot fail.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sess.Logout(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
