package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
	"github.com/arefin/qoverflow/internal/session"
)

// basePage carries the fields every template needs: titlebar text and the
// session-derived identity flags. Identity is read-only here; only the
// session store mutates it.
type basePage struct {
	Title           string
	CurrentUser     *model.User
	IsAuthenticated bool
	IsModerator     bool
	SearchQuery     string
}

func newBasePage(sess *session.Store, r *http.Request, title string) basePage {
	return basePage{
		Title:           title,
		CurrentUser:     sess.Current(),
		IsAuthenticated: sess.IsAuthenticated(),
		IsModerator:     sess.IsModerator(),
		SearchQuery:     r.URL.Query().Get("q"),
	}
}

// userMessage converts any error into the string shown to the user,
// preferring the upstream-supplied message carried by AppError over generic
// text.
func userMessage(err error, fallback string) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// redirectWithError redirects to target with the message attached as a query
// parameter, so the next GET can surface it. This replaces the original
// behavior of silently swallowing write failures and reloading the page.
func redirectWithError(w http.ResponseWriter, r *http.Request, target, message string) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	http.Redirect(w, r, target+sep+"error="+url.QueryEscape(message), http.StatusSeeOther)
}

// formErrors flattens validator output into a field -> message map.
func formErrors(err error) map[string]string {
	msgs := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		msgs[""] = "Please check the form and try again."
		return msgs
	}
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs[field] = field + " is required"
		case "email":
			msgs[field] = "A valid email address is required"
		case "min":
			msgs[field] = field + " must be at least " + fe.Param() + " characters"
		case "max":
			msgs[field] = field + " must be at most " + fe.Param() + " characters"
		default:
			msgs[field] = field + " is invalid"
		}
	}
	return msgs
}

// formatID renders an int64 identifier in the string form gateway calls
// expect.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
