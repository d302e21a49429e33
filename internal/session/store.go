// Package session owns the process-wide authenticated identity. The current
// identity lives in memory and is mirrored into a durable key-value slot so
// it survives restarts; the store is the slot's only writer.
//
// State machine: Uninitialized -> Anonymous or Authenticated (via Restore),
// Anonymous -> Authenticated (Login/Register), Authenticated -> Anonymous
// (Logout). Logout is unconditional and cannot fail.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// Slot is the durable single-value store backing the session. Absent means
// anonymous.
type Slot interface {
	Read(ctx context.Context) (value []byte, present bool, err error)
	Write(ctx context.Context, value []byte) error
	Clear(ctx context.Context) error
}

// Authenticator is the slice of the API gateway the store depends on.
// *gateway.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (bool, error)
	Register(ctx context.Context, username, email, password, phoneNumber string) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Result reports the outcome of a login or register attempt. Message and
// Reason carry upstream-denial text verbatim when present.
type Result struct {
	Success bool
	Message string
	Reason  string
	User    *model.User
}

// Store holds the current identity. Safe for concurrent use.
type Store struct {
	api    Authenticator
	slot   Slot
	logger *slog.Logger

	mu      sync.RWMutex
	current *model.User
	subs    map[int]func(*model.User)
	nextSub int
}

func New(api Authenticator, slot Slot, logger *slog.Logger) *Store {
	return &Store{
		api:    api,
		slot:   slot,
		logger: logger,
		subs:   make(map[int]func(*model.User)),
	}
}

// Restore loads the persisted identity at startup. A present value that does
// not parse as a user is treated as corrupt: the slot is cleared and the
// store stays anonymous. Restore itself never fails the caller.
func (s *Store) Restore(ctx context.Context) {
	raw, present, err := s.slot.Read(ctx)
	if err != nil {
		s.logger.Warn("session slot unreadable", slog.String("error", err.Error()))
		return
	}
	if !present {
		return
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.Username == "" {
		s.logger.Warn("clearing corrupt session slot")
		if err := s.slot.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear session slot", slog.String("error", err.Error()))
		}
		return
	}

	user.Normalize()
	s.setCurrent(&user)
	s.logger.Info("session restored",
		slog.Int64("userId", user.ID),
		slog.String("username", user.Username),
	)
}

// Login checks credentials upstream and, on the literal success signal,
// fetches the full identity by username, normalizes it, and persists it.
// A structured denial (403) surfaces its message and reason verbatim; any
// other failure yields a generic message. State only changes on success.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	ok, err := s.api.Login(ctx, username, password)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(err, apperror.ErrAuthDenied) {
			return Result{Message: appErr.Message, Reason: appErr.Reason}
		}
		return Result{Message: "Login failed. Please try again."}
	}
	if !ok {
		return Result{Message: "Invalid credentials"}
	}

	user, err := s.api.UserByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login succeeded but identity fetch failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return Result{Message: "Login failed. Please try again."}
	}

	user.Normalize()
	s.persist(ctx, user)
	s.setCurrent(user)
	s.logger.Info("logged in", slog.Int64("userId", user.ID), slog.String("username", user.Username))
	return Result{Success: true, User: user}
}

// Register creates an account and signs the new identity in, exactly like a
// successful login.
func (s *Store) Register(ctx context.Context, username, email, password, phoneNumber string) Result {
	user, err := s.api.Register(ctx, username, email, password, phoneNumber)
	if err != nil {
		s.logger.Warn("registration failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return Result{Message: "Registration failed. Please try again."}
	}

	user.Normalize()
	s.persist(ctx, user)
	s.setCurrent(user)
	s.logger.Info("registered", slog.Int64("userId", user.ID), slog.String("username", user.Username))
	return Result{Success: true, User: user}
}

// Logout clears the in-memory identity and the durable slot. Unconditional.
func (s *Store) Logout(ctx context.Context) {
	if err := s.slot.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session slot", slog.String("error", err.Error()))
	}
	s.setCurrent(nil)
	s.logger.Info("logged out")
}

// Current returns a copy of the authenticated identity, or nil when
// anonymous. Callers must treat the session as read-only; profile mutations
// go through the gateway and re-fetch.
func (s *Store) Current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// IsAuthenticated reports whether an identity is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// IsModerator reports the identity's moderator flag; false when anonymous.
func (s *Store) IsModerator() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.IsModerator
}

// Subscribe registers fn to be called with the new identity (nil on logout)
// after every state change. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(*model.User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// RefreshCurrent replaces the stored identity with a freshly fetched copy.
// Used after the signed-in user edits their own profile.
func (s *Store) RefreshCurrent(ctx context.Context) {
	current := s.Current()
	if current == nil {
		return
	}
	user, err := s.api.UserByUsername(ctx, current.Username)
	if err != nil {
		s.logger.Warn("failed to refresh identity", slog.String("error", err.Error()))
		return
	}
	user.Normalize()
	s.persist(ctx, user)
	s.setCurrent(user)
}

func (s *Store) persist(ctx context.Context, user *model.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("failed to encode identity", slog.String("error", err.Error()))
		return
	}
	if err := s.slot.Write(ctx, raw); err != nil {
		s.logger.Warn("failed to persist identity", slog.String("error", err.Error()))
	}
}

func (s *Store) setCurrent(user *model.User) {
	s.mu.Lock()
	s.current = user
	fns := make([]func(*model.User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		var copyForSub *model.User
		if user != nil {
			u := *user
			copyForSub = &u
		}
		fn(copyForSub)
	}
}
