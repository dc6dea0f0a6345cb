package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"orchid-storefront/internal/config"
	"orchid-storefront/internal/events"
	"orchid-storefront/internal/sessionstore"

	"go.uber.org/zap"
)

// TokenSource provides the current access token for outbound requests. An
// empty string means no token is attached.
type TokenSource interface {
	AccessToken() string
}

// APIError is a non-2xx response converted to a typed error.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Client is the HTTP client shared by every service. It attaches the
// bearer token to every request, enforces the configured timeout, and
// handles authorization failures uniformly so individual callers never do.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	store   sessionstore.Store
	bus     *events.Bus
	logger  *zap.Logger

	Auth       *AuthService
	Accounts   *AccountService
	Orchids    *OrchidService
	Categories *CategoryService
	Orders     *OrderService
}

// NewClient creates the API client and its typed services.
func NewClient(cfg config.APIConfig, tokens TokenSource, store sessionstore.Store, bus *events.Bus, logger *zap.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
		store:   store,
		bus:     bus,
		logger:  logger,
	}

	c.Auth = &AuthService{client: c}
	c.Accounts = &AccountService{client: c}
	c.Orchids = newOrchidService(c)
	c.Categories = &CategoryService{client: c}
	c.Orders = &OrderService{client: c}

	return c
}

// do performs a request and decodes a JSON response into out, when out is
// non-nil. Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	token := c.tokens.AccessToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		if token != "" && !isAuthEndpoint(path) {
			c.handleAuthFailure(apiErr)
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// isAuthEndpoint reports whether path is a credential-exchange endpoint.
// Rejections there are authentication failures (wrong password,
// registration conflict), never a verdict on the current session.
func isAuthEndpoint(path string) bool {
	return strings.HasPrefix(path, "/api/auth/")
}

// handleAuthFailure implements the passive session-expiry path: a 401, or
// a 403 whose message indicates an expired, invalid or unauthorized token,
// clears persisted storage and notifies subscribers once. Only responses
// to requests that carried a bearer token outside the auth endpoints get
// here: an anonymous or credential-exchange rejection says nothing about
// the session.
func (c *Client) handleAuthFailure(apiErr *APIError) {
	if apiErr.Status != http.StatusUnauthorized && apiErr.Status != http.StatusForbidden {
		return
	}

	if apiErr.Status == http.StatusForbidden && !looksLikeTokenFailure(apiErr.Message) {
		return
	}

	c.logger.Warn("Authorization failure, expiring session",
		zap.Int("status", apiErr.Status),
		zap.String("message", apiErr.Message),
	)

	if err := c.store.Clear(); err != nil {
		c.logger.Error("Failed to clear persisted session", zap.Error(err))
	}

	c.bus.PublishSessionExpired(events.SessionExpired{
		Status:  apiErr.Status,
		Message: apiErr.Message,
	})
}

func looksLikeTokenFailure(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "expired") ||
		strings.Contains(m, "invalid") ||
		strings.Contains(m, "unauthorized")
}

// errorBody covers the error envelopes the backend is known to produce:
// a flat {"message": ...}, a flat {"error": "..."} and the structured
// {"error": {"code": ..., "message": ...}} shape.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}

	if eb.Message != "" {
		apiErr.Message = eb.Message
	}

	if len(eb.Error) > 0 {
		var detail errorDetail
		if err := json.Unmarshal(eb.Error, &detail); err == nil {
			if detail.Message != "" {
				apiErr.Message = detail.Message
			}
			apiErr.Code = detail.Code
		} else {
			var plain string
			if err := json.Unmarshal(eb.Error, &plain); err == nil && apiErr.Message == "" {
				apiErr.Message = plain
			}
		}
	}

	return apiErr
}
