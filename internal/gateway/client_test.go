package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arefin/qoverflow/internal/apperror"
	"github.com/arefin/qoverflow/internal/model"
)

// recordingDoer captures every request and plays back a canned response.
type recordingDoer struct {
	requests []*http.Request
	bodies   []string
	status   int
	body     string
	err      error
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req)
	var body string
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		body = string(raw)
	}
	d.bodies = append(d.bodies, body)

	if d.err != nil {
		return nil, d.err
	}
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(d.body))),
		Header:     make(http.Header),
	}, nil
}

func newTestClient(t *testing.T, doer *recordingDoer) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	c := New("http://upstream", logger)
	c.SetTransport(doer)
	return c
}

func TestUserByIDRejectsBadIdentifiers(t *testing.T) {
	for _, id := range []string{"", "undefined", "null"} {
		t.Run("id="+id, func(t *testing.T) {
			doer := &recordingDoer{}
			c := newTestClient(t, doer)

			_, err := c.UserByID(context.Background(), id)

			assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
			assert.Empty(t, doer.requests, "no request must be issued for a bad identifier")
		})
	}
}

func TestSearchRejectsBlankKeyword(t *testing.T) {
	doer := &recordingDoer{}
	c := newTestClient(t, doer)

	_, err := c.SearchQuestions(context.Background(), "   ")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = c.SearchUsers(context.Background(), "")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	assert.Empty(t, doer.requests)
}

func TestUserByIDNormalizes(t *testing.T) {
	doer := &recordingDoer{body: `{"userId":12,"username":"ada"}`}
	c := newTestClient(t, doer)

	user, err := c.UserByID(context.Background(), "12")

	require.NoError(t, err)
	assert.Equal(t, int64(12), user.ID)
	assert.Equal(t, int64(12), user.UserID)
	require.Len(t, doer.requests, 1)
	assert.Equal(t, "/users/id/12", doer.requests[0].URL.Path)
}

func TestQuestionListNormalizesEveryItem(t *testing.T) {
	doer := &recordingDoer{body: `[{"questionId":1,"title":"a","tagList":["go"]},{"id":2,"title":"b"}]`}
	c := newTestClient(t, doer)

	questions, err := c.AllQuestions(context.Background())

	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, int64(1), questions[0].ID)
	assert.Equal(t, model.TagNames{"go"}, questions[0].Tags)
	assert.Equal(t, int64(2), questions[1].QuestionID)
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{
			"404 with message",
			http.StatusNotFound,
			`{"message":"Question not found"}`,
			apperror.ErrNotFound,
			"Question not found",
		},
		{
			"500 prefers message over error",
			http.StatusInternalServerError,
			`{"message":"boom","error":"other"}`,
			apperror.ErrUpstream,
			"boom",
		},
		{
			"500 falls back to error field",
			http.StatusInternalServerError,
			`{"error":"broken"}`,
			apperror.ErrUpstream,
			"broken",
		},
		{
			"500 with empty body gets generic text",
			http.StatusInternalServerError,
			``,
			apperror.ErrUpstream,
			"The server rejected the request (status 500).",
		},
		{
			"plain-text body is used verbatim",
			http.StatusBadRequest,
			`something went wrong`,
			apperror.ErrUpstream,
			"something went wrong",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &recordingDoer{status: tt.status, body: tt.body}
			c := newTestClient(t, doer)

			_, err := c.QuestionByID(context.Background(), "1")

			assert.ErrorIs(t, err, tt.sentinel)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestTransportFailureIsUpstream(t *testing.T) {
	doer := &recordingDoer{err: errors.New("connection refused")}
	c := newTestClient(t, doer)

	_, err := c.AllTags(context.Background())
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestLoginDenialCarriesMessageAndReason(t *testing.T) {
	doer := &recordingDoer{
		status: http.StatusForbidden,
		body:   `{"message":"Account suspended","reason":"Repeated spam"}`,
	}
	c := newTestClient(t, doer)

	ok, err := c.Login(context.Background(), "ada", "pw")

	assert.False(t, ok)
	assert.ErrorIs(t, err, apperror.ErrAuthDenied)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Account suspended", appErr.Message)
	assert.Equal(t, "Repeated spam", appErr.Reason)
}

func TestLoginDecodesBoolean(t *testing.T) {
	doer := &recordingDoer{body: `true`}
	c := newTestClient(t, doer)

	ok, err := c.Login(context.Background(), "ada", "pw")

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, doer.bodies, 1)
	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(doer.bodies[0]), &sent))
	assert.Equal(t, "ada", sent["username"])
}

func TestCreateAnswerCoercesIDs(t *testing.T) {
	doer := &recordingDoer{body: `{"id":9,"questionId":4,"text":"hi"}`}
	c := newTestClient(t, doer)

	a, err := c.CreateAnswer(context.Background(), "2", "4", "  hi  ", "code")

	require.NoError(t, err)
	assert.Equal(t, int64(9), a.ID)
	require.Len(t, doer.requests, 1)
	req := doer.requests[0]
	assert.Equal(t, "/answers/direct-create", req.URL.Path)
	assert.Equal(t, "4", req.URL.Query().Get("questionId"))
	assert.Equal(t, "2", req.URL.Query().Get("authorId"))
	assert.Equal(t, "hi", req.URL.Query().Get("text"))
	assert.Equal(t, "code", req.URL.Query().Get("image"))
}

func TestCreateAnswerRejectsNonNumericIDs(t *testing.T) {
	doer := &recordingDoer{}
	c := newTestClient(t, doer)

	_, err := c.CreateAnswer(context.Background(), "abc", "4", "hi", "")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = c.CreateAnswer(context.Background(), "2", "4x", "hi", "")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = c.CreateAnswer(context.Background(), "2", "4", "   ", "")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	assert.Empty(t, doer.requests)
}

func TestDebugAnswerDefaultsText(t *testing.T) {
	doer := &recordingDoer{body: `{"id":1}`}
	c := newTestClient(t, doer)

	_, err := c.DebugAnswer(context.Background(), "2", "4", "", "")

	require.NoError(t, err)
	require.Len(t, doer.bodies, 1)
	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(doer.bodies[0]), &sent))
	assert.Equal(t, "Test answer", sent["text"])
	assert.Equal(t, "4", sent["id"])
	assert.Equal(t, "2", sent["authorId"])
}

func TestCreateQuestionJoinsTags(t *testing.T) {
	doer := &recordingDoer{body: `{"id":5,"title":"t"}`}
	c := newTestClient(t, doer)

	q, err := c.CreateQuestion(context.Background(), "1", "t", "body", "", model.TagNames{"go", "http"})

	require.NoError(t, err)
	assert.Equal(t, int64(5), q.QuestionID)
	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(doer.bodies[0]), &sent))
	assert.Equal(t, "go,http", sent["tags"])
}

func TestVoteQuestionValidation(t *testing.T) {
	doer := &recordingDoer{}
	c := newTestClient(t, doer)
	ctx := context.Background()

	assert.ErrorIs(t, c.VoteQuestion(ctx, 0, 4, model.VoteUp), apperror.ErrInvalidArgument)
	assert.ErrorIs(t, c.VoteQuestion(ctx, 2, 0, model.VoteUp), apperror.ErrInvalidArgument)
	assert.ErrorIs(t, c.VoteQuestion(ctx, 2, 4, model.VoteType("sideways")), apperror.ErrInvalidArgument)
	assert.ErrorIs(t, c.VoteAnswer(ctx, 2, 0, model.VoteDown), apperror.ErrInvalidArgument)
	assert.Empty(t, doer.requests)
}

func TestVoteQuestionSendsPayload(t *testing.T) {
	doer := &recordingDoer{}
	c := newTestClient(t, doer)

	require.NoError(t, c.VoteQuestion(context.Background(), 2, 4, model.VoteDown))

	require.Len(t, doer.requests, 1)
	assert.Equal(t, "/votes/question", doer.requests[0].URL.Path)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(doer.bodies[0]), &sent))
	assert.Equal(t, "DOWN", sent["voteType"])
	assert.Equal(t, float64(4), sent["questionId"])
}

func TestChangePasswordRequiresBoth(t *testing.T) {
	doer := &recordingDoer{}
	c := newTestClient(t, doer)

	err := c.ChangePassword(context.Background(), "1", "", "new")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	assert.Empty(t, doer.requests)
}

func TestSearchUsersEncodesKeyword(t *testing.T) {
	doer := &recordingDoer{body: `[]`}
	c := newTestClient(t, doer)

	_, err := c.SearchUsers(context.Background(), "ada lovelace")

	require.NoError(t, err)
	require.Len(t, doer.requests, 1)
	assert.Equal(t, "ada lovelace", doer.requests[0].URL.Query().Get("keyword"))
}
