// Package gateway is the typed client for the remote Q&A REST API. One file
// per upstream resource (users, questions, answers, votes, tags).
//
// Two rules apply to every call:
//
//  1. Caller-supplied identifiers and keywords are validated before any
//     request is issued; violations fail with apperror.ErrInvalidArgument and
//     the transport is never touched.
//  2. Question-shaped responses are normalized immediately after decoding, so
//     downstream consumers always see the dual-ID invariant satisfied.
//
// The gateway performs no caching and no retries; a failed call surfaces the
// upstream's own message when one can be decoded.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arefin/qoverflow/internal/apperror"
)

const defaultTimeout = 10 * time.Second

// Doer is the transport the client issues requests through. *http.Client
// satisfies it; tests substitute a recording fake.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the upstream API. All methods are safe for concurrent use.
type Client struct {
	baseURL string
	httpc   Doer
	logger  *slog.Logger
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// SetTransport swaps the underlying transport. Used by tests and by callers
// that need custom timeouts.
func (c *Client) SetTransport(d Doer) {
	c.httpc = d
}

// errorBody is the shape of upstream error payloads. Not every endpoint fills
// every field; message is preferred, then error, then a generic fallback.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Reason  string `json:"reason"`
}

// get issues a GET and decodes the response into out (may be nil).
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

// send issues one request with JSON headers. A non-nil body is encoded as
// JSON. Status >= 400 is mapped onto the apperror taxonomy: 404 to
// ErrNotFound, 403 to ErrForbidden (carrying the upstream reason), everything
// else to ErrUpstream.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return apperror.Upstream("The server could not be reached. Please try again later.")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(method, path, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("upstream response not decodable",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return apperror.Upstream("The server returned an unexpected response.")
	}
	return nil
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &eb); err != nil {
			// Some endpoints answer with a plain-text body.
			eb.Message = strings.TrimSpace(string(raw))
		}
	}
	message := eb.Message
	if message == "" {
		message = eb.Error
	}
	if message == "" {
		message = fmt.Sprintf("The server rejected the request (status %d).", resp.StatusCode)
	}

	c.logger.Warn("upstream returned error status",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("message", message),
	)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &apperror.AppError{Err: apperror.ErrNotFound, Message: message}
	case http.StatusForbidden:
		return &apperror.AppError{Err: apperror.ErrForbidden, Message: message, Reason: eb.Reason}
	default:
		return apperror.Upstream(message)
	}
}

// validateID rejects the identifier values the upstream is known to choke on:
// the empty string and the literal strings "undefined" and "null" that leak
// out of sloppy callers. No request is issued on rejection.
func validateID(field, id string) error {
	if id == "" || id == "undefined" || id == "null" {
		return apperror.InvalidArgument(field, fmt.Sprintf("Invalid %s", field))
	}
	return nil
}

// validateKeyword rejects empty and whitespace-only search keywords.
func validateKeyword(keyword string) error {
	if strings.TrimSpace(keyword) == "" {
		return apperror.InvalidArgument("keyword", "Search keyword is required")
	}
	return nil
}
