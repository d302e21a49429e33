package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// memorySlot is an in-memory Slot.
type memorySlot struct {
	value   []byte
	present bool
	readErr error
	clears  int
}

func (m *memorySlot) Read(context.Context) ([]byte, bool, error) {
	return m.value, m.present, m.readErr
}

func (m *memorySlot) Write(_ context.Context, value []byte) error {
	m.value = append([]byte(nil), value...)
	m.present = true
	return nil
}

func (m *memorySlot) Clear(context.Context) error {
	m.value = nil
	m.present = false
	m.clears++
	return nil
}

// fakeAuth scripts the gateway's authentication surface.
type fakeAuth struct {
	loginOK    bool
	loginErr   error
	user       *model.User
	userErr    error
	registered *model.User
	regErr     error
	loginCalls int
	fetchCalls int
}

func (f *fakeAuth) Login(context.Context, string, string) (bool, error) {
	f.loginCalls++
	return f.loginOK, f.loginErr
}

func (f *fakeAuth) Register(context.Context, string, string, string, string) (*model.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.registered, nil
}

func (f *fakeAuth) UserByUsername(context.Context, string) (*model.User, error) {
	f.fetchCalls++
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func newTestStore(t *testing.T, api *fakeAuth, slot *memorySlot) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(api, slot, logger)
}

func TestLoginSuccess(t *testing.T) {
	api := &fakeAuth{loginOK: true, user: &model.User{UserID: 7, Username: "ada"}}
	slot := &memorySlot{}
	store := newTestStore(t, api, slot)

	result := store.Login(context.Background(), "ada", "pw")

	require.True(t, result.Success)
	require.NotNil(t, result.User)
	assert.Equal(t, int64(7), result.User.ID)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, 1, api.fetchCalls, "success must trigger the full identity fetch")

	// The persisted record carries the normalized numeric ID under both keys.
	require.True(t, slot.present)
	var persisted map[string]any
	require.NoError(t, json.Unmarshal(slot.value, &persisted))
	assert.Equal(t, float64(7), persisted["id"])
	assert.Equal(t, float64(7), persisted["userId"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	api := &fakeAuth{loginOK: false}
	store := newTestStore(t, api, &memorySlot{})

	result := store.Login(context.Background(), "ada", "wrong")

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid credentials", result.Message)
	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, api.fetchCalls)
}

func TestLoginDenialSurfacesVerbatim(t *testing.T) {
	api := &fakeAuth{loginErr: apperror.AuthDenied("Account suspended", "Repeated spam")}
	store := newTestStore(t, api, &memorySlot{})

	result := store.Login(context.Background(), "ada", "pw")

	assert.False(t, result.Success)
	assert.Equal(t, "Account suspended", result.Message)
	assert.Equal(t, "Repeated spam", result.Reason)
}

func TestLoginUpstreamFailureIsGeneric(t *testing.T) {
	api := &fakeAuth{loginErr: apperror.Upstream("internal detail")}
	store := newTestStore(t, api, &memorySlot{})

	result := store.Login(context.Background(), "ada", "pw")

	assert.False(t, result.Success)
	assert.Equal(t, "Login failed. Please try again.", result.Message)
}

func TestLoginIdentityFetchFailure(t *testing.T) {
	api := &fakeAuth{loginOK: true, userErr: errors.New("boom")}
	slot := &memorySlot{}
	store := newTestStore(t, api, slot)

	result := store.Login(context.Background(), "ada", "pw")

	assert.False(t, result.Success)
	assert.False(t, store.IsAuthenticated())
	assert.False(t, slot.present)
}

func TestRegisterSignsIn(t *testing.T) {
	api := &fakeAuth{registered: &model.User{ID: 3, Username: "new"}}
	slot := &memorySlot{}
	store := newTestStore(t, api, slot)

	result := store.Register(context.Background(), "new", "new@x.io", "pw", "")

	require.True(t, result.Success)
	assert.True(t, store.IsAuthenticated())
	assert.True(t, slot.present)
}

func TestRegisterFailureIsGeneric(t *testing.T) {
	api := &fakeAuth{regErr: apperror.Upstream("duplicate key violation")}
	store := newTestStore(t, api, &memorySlot{})

	result := store.Register(context.Background(), "new", "new@x.io", "pw", "")

	assert.False(t, result.Success)
	assert.Equal(t, "Registration failed. Please try again.", result.Message)
}

func TestLogoutIsUnconditional(t *testing.T) {
	api := &fakeAuth{loginOK: true, user: &model.User{ID: 7, Username: "ada"}}
	slot := &memorySlot{}
	store := newTestStore(t, api, slot)
	store.Login(context.Background(), "ada", "pw")

	store.Logout(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Current())
	assert.False(t, slot.present)

	// Logging out while anonymous is a no-op, not an error.
	store.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())
}

func TestRestore(t *testing.T) {
	slot := &memorySlot{}
	user := model.User{ID: 7, UserID: 7, Username: "ada", IsModerator: true}
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, slot.Write(context.Background(), raw))

	store := newTestStore(t, &fakeAuth{}, slot)
	store.Restore(context.Background())

	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsModerator())
	assert.Equal(t, "ada", store.Current().Username)
}

func TestRestoreClearsCorruptSlot(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{"not json", []byte("garbage{")},
		{"missing username", []byte(`{"id":7}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := &memorySlot{value: tt.value, present: true}
			store := newTestStore(t, &fakeAuth{}, slot)

			store.Restore(context.Background())

			assert.False(t, store.IsAuthenticated())
			assert.Equal(t, 1, slot.clears)
		})
	}
}

func TestRestoreEmptySlotStaysAnonymous(t *testing.T) {
	slot := &memorySlot{}
	store := newTestStore(t, &fakeAuth{}, slot)

	store.Restore(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, slot.clears)
}

func TestCurrentReturnsCopy(t *testing.T) {
	api := &fakeAuth{loginOK: true, user: &model.User{ID: 7, Username: "ada"}}
	store := newTestStore(t, api, &memorySlot{})
	store.Login(context.Background(), "ada", "pw")

	first := store.Current()
	first.Username = "mutated"

	assert.Equal(t, "ada", store.Current().Username)
}

func TestSubscribe(t *testing.T) {
	api := &fakeAuth{loginOK: true, user: &model.User{ID: 7, Username: "ada"}}
	store := newTestStore(t, api, &memorySlot{})

	var seen []*model.User
	unsubscribe := store.Subscribe(func(u *model.User) { seen = append(seen, u) })

	store.Login(context.Background(), "ada", "pw")
	store.Logout(context.Background())

	require.Len(t, seen, 2)
	assert.Equal(t, "ada", seen[0].Username)
	assert.Nil(t, seen[1])

	unsubscribe()
	store.Login(context.Background(), "ada", "pw")
	assert.Len(t, seen, 2)
}

func TestRefreshCurrent(t *testing.T) {
	api := &fakeAuth{loginOK: true, user: &model.User{ID: 7, Username: "ada", Reputation: 10}}
	slot := &memorySlot{}
	store := newTestStore(t, api, slot)
	store.Login(context.Background(), "ada", "pw")

	api.user = &model.User{ID: 7, Username: "ada", Reputation: 25}
	store.RefreshCurrent(context.Background())

	assert.Equal(t, 25, store.Current().Reputation)
}

func TestRefreshCurrentWhileAnonymousIsNoop(t *testing.T) {
	api := &fakeAuth{}
	store := newTestStore(t, api, &memorySlot{})

	store.RefreshCurrent(context.Background())

	assert.Zero(t, api.fetchCalls)
}
