package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avantaimpex/console-backend/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Client issues JSON requests against the remote backend. It holds no state
// beyond connection settings; every call is independent and never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Client for the backend at baseURL. token, when set, is
// sent as a bearer credential on every request.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// errorBody is the shape of an error response from the backend. The message
// field is optional; when present it is surfaced verbatim to the user.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one request and decodes a successful response into out (when
// out is non-nil). Failures are always returned as *domain.RemoteError so
// callers can tell an unreachable backend apart from a rejected request.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domain.NewRemoteError(domain.FailureServer, "", fmt.Errorf("encode request: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return domain.NewRemoteError(domain.FailureServer, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response reached the backend
		return domain.NewRemoteError(domain.FailureNetwork, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.failureFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewRemoteError(domain.FailureServer, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// failureFromResponse maps an error status to the failure taxonomy, carrying
// the backend's message when its body has one.
func (c *Client) failureFromResponse(resp *http.Response) error {
	var msg string
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	}

	kind := domain.FailureServer
	switch {
	case resp.StatusCode == http.StatusNotFound:
		kind = domain.FailureNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		kind = domain.FailureValidation
	}

	return domain.NewRemoteError(kind, msg, fmt.Errorf("backend returned %d", resp.StatusCode))
}
