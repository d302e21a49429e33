package handler

import (
	"net/http"

	"github.com/arefin/qoverflow/internal/session"
)

type notFoundPage struct {
	basePage
}

// NotFound returns the catch-all handler for unknown routes.
func NotFound(sess *session.Store, renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.RenderStatus(w, http.StatusNotFound, "notfound",
			notFoundPage{basePage: newBasePage(sess, r, "Page not found")})
	}
}
