// Package server wires the application together: gateway client, session
// store, aggregator, handlers, and the chi route table. It is the
// composition root; nothing else constructs cross-package dependencies.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arefin/qoverflow/internal/aggregate"
	"github.com/arefin/qoverflow/internal/config"
	"github.com/arefin/qoverflow/internal/gateway"
	"github.com/arefin/qoverflow/internal/handler"
	"github.com/arefin/qoverflow/internal/middleware"
	"github.com/arefin/qoverflow/internal/session"
	sessionsqlite "github.com/arefin/qoverflow/internal/session/sqlite"
)

// Server owns the router and the resources that must be released on
// shutdown, which today is the session database.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	slot   *sessionsqlite.Slot
}

// New assembles the full dependency chain and restores any persisted
// session before the first request can arrive.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	slot, err := sessionsqlite.Open(cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	api := gateway.New(cfg.APIBaseURL, logger)
	sess := session.New(api, slot, logger)
	sess.Restore(context.Background())

	agg := aggregate.New(api, logger)

	renderer, err := handler.NewRenderer(cfg.TemplateDir, logger)
	if err != nil {
		slot.Close()
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		slot:   slot,
	}
	s.setupRoutes(api, sess, agg, renderer)
	return s, nil
}

func (s *Server) setupRoutes(api *gateway.Client, sess *session.Store, agg *aggregate.Service, renderer *handler.Renderer) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	home := handler.NewHomeHandler(api, sess, renderer, s.logger)
	auth := handler.NewAuthHandler(sess, renderer, s.logger)
	question := handler.NewQuestionHandler(api, sess, renderer, s.logger)
	ask := handler.NewAskHandler(api, sess, renderer, s.logger)
	profile := handler.NewProfileHandler(api, agg, sess, renderer, s.logger)
	tags := handler.NewTagHandler(api, sess, renderer, s.logger)
	search := handler.NewSearchHandler(agg, sess, renderer, s.logger)

	s.router.Get("/", home.HandleHome)
	s.router.Get("/tags/{tagName}", home.HandleTag)
	s.router.Get("/tags", tags.HandleIndex)
	s.router.Get("/search", search.HandleSearch)

	s.router.Get("/login", auth.HandleLoginForm)
	s.router.Post("/login", auth.HandleLogin)
	s.router.Get("/register", auth.HandleRegisterForm)
	s.router.Post("/register", auth.HandleRegister)
	s.router.Post("/logout", auth.HandleLogout)

	s.router.Get("/questions/{id}", question.HandleDetail)
	s.router.Post("/questions/{id}/answers", question.HandleAnswer)
	s.router.Post("/questions/{id}/vote", question.HandleVoteQuestion)
	s.router.Post("/questions/{id}/accept/{answerID}", question.HandleAccept)
	s.router.Post("/questions/{id}/delete", question.HandleDeleteQuestion)
	s.router.Post("/answers/{id}/vote", question.HandleVoteAnswer)
	s.router.Post("/answers/{id}/delete", question.HandleDeleteAnswer)

	s.router.Get("/ask", ask.HandleForm)
	s.router.Post("/ask", ask.HandleSubmit)

	s.router.Get("/users/{id}", profile.HandleProfile)
	s.router.Post("/users/{id}/profile", profile.HandleUpdateProfile)
	s.router.Post("/users/{id}/password", profile.HandleChangePassword)
	s.router.Post("/users/{id}/ban", profile.HandleToggleBan)
	s.router.Post("/users/{id}/moderator", profile.HandleToggleModerator)

	if s.config.Debug {
		debug := handler.NewDebugHandler(api, sess, renderer, s.logger)
		s.router.Get("/test/answer", debug.HandleTestAnswerForm)
		s.router.Post("/test/answer", debug.HandleTestAnswer)
		s.router.Get("/test/user", debug.HandleTestUserForm)
		s.router.Post("/test/user", debug.HandleTestUser)
	}

	s.router.NotFound(handler.NotFound(sess, renderer))
}

// Router exposes the configured mux, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the session database.
func (s *Server) Start() error {
	defer s.slot.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("upstream", s.config.APIBaseURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
