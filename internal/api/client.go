// Package api is the typed client for the Fiba backend REST API. Reads can
// degrade to built-in demo payloads when the backend is unreachable; writes
// always surface their failure. A 401 from any endpoint invalidates the
// stored credential and fires the unauthorized hook.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fiba/internal/core"
	applog "fiba/internal/log"
)

// DefaultTimeout bounds every request; a timed-out request counts as a
// transport failure.
const DefaultTimeout = 10 * time.Second

// ErrUnauthorized reports a 401; by the time the caller sees it the stored
// credential has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx response other than 401.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// TokenStore supplies and invalidates the bearer credential. An empty token
// means "send no Authorization header".
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Options configures a Client.
type Options struct {
	Tokens  TokenStore
	Timeout time.Duration

	// DegradeToMockOnError substitutes fixed demo payloads for failed reads
	// instead of surfacing the error. Writes are never degraded.
	DegradeToMockOnError bool

	// OnUnauthorized runs after a 401 has cleared the stored credential,
	// whatever call triggered it.
	OnUnauthorized func()

	HTTPClient *http.Client
	Logger     *applog.Logger
}

type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenStore
	degradeToMock  bool
	onUnauthorized func()
	logger         *applog.Logger
}

func NewClient(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentAPI)
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           httpClient,
		tokens:         opts.Tokens,
		degradeToMock:  opts.DegradeToMockOnError,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
	}
}

// DashboardData fetches the dashboard payload, degrading to the demo
// dashboard on failure.
func (c *Client) DashboardData(ctx context.Context) (core.Dashboard, error) {
	var out core.Dashboard
	err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &out)
	if err == nil {
		return out, nil
	}
	if fallback := c.readFallback(ctx, "/dashboard", err); fallback {
		return MockDashboard(), nil
	}
	return core.Dashboard{}, err
}

// Transactions fetches the transaction list matching the query, degrading to
// the demo transactions on failure.
func (c *Client) Transactions(ctx context.Context, q core.Query) ([]core.Transaction, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" && q.Category != core.FilterAll {
		params.Set("category", q.Category)
	}
	if q.InputType != "" && q.InputType != core.FilterAll {
		params.Set("inputType", q.InputType)
	}

	var out []core.Transaction
	err := c.do(ctx, http.MethodGet, "/transactions", params, nil, &out)
	if err == nil {
		return out, nil
	}
	if fallback := c.readFallback(ctx, "/transactions", err); fallback {
		// The demo set is filtered locally so the degraded mode honors the
		// caller's query the way the live endpoint would.
		return core.FilterTransactions(MockTransactions(), q), nil
	}
	return nil, err
}

// CreateTransaction records a new transaction. No degraded mode: failures
// propagate and the caller keeps its state unchanged.
func (c *Client) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	var out core.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, tx, &out); err != nil {
		return core.Transaction{}, err
	}
	return out, nil
}

// UpdateTransaction replaces an existing transaction. Failures propagate.
func (c *Client) UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	var out core.Transaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), nil, tx, &out); err != nil {
		return core.Transaction{}, err
	}
	return out, nil
}

// DeleteTransaction removes a transaction. Failures propagate.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil, nil)
}

// Analytics fetches the analytics payload for the window, degrading to the
// demo analytics on failure.
func (c *Client) Analytics(ctx context.Context, timeRange core.TimeRange) (core.Analytics, error) {
	params := url.Values{}
	params.Set("timeRange", string(timeRange))

	var out core.Analytics
	err := c.do(ctx, http.MethodGet, "/analytics", params, nil, &out)
	if err == nil {
		return out, nil
	}
	if fallback := c.readFallback(ctx, "/analytics", err); fallback {
		return MockAnalytics(), nil
	}
	return core.Analytics{}, err
}

// Anomalies fetches the anomaly list, degrading to the demo anomalies on
// failure.
func (c *Client) Anomalies(ctx context.Context) ([]core.Anomaly, error) {
	var out []core.Anomaly
	err := c.do(ctx, http.MethodGet, "/analytics/anomalies", nil, nil, &out)
	if err == nil {
		return out, nil
	}
	if fallback := c.readFallback(ctx, "/analytics/anomalies", err); fallback {
		return MockAnomalies(), nil
	}
	return nil, err
}

// UserProfile fetches the account profile, degrading to the demo profile on
// failure.
func (c *Client) UserProfile(ctx context.Context) (core.UserProfile, error) {
	var out core.UserProfile
	err := c.do(ctx, http.MethodGet, "/user/profile", nil, nil, &out)
	if err == nil {
		return out, nil
	}
	if fallback := c.readFallback(ctx, "/user/profile", err); fallback {
		return MockProfile(), nil
	}
	return core.UserProfile{}, err
}

// UpdateUserProfile saves profile changes. Failures propagate.
func (c *Client) UpdateUserProfile(ctx context.Context, profile core.UserProfile) (core.UserProfile, error) {
	var out core.UserProfile
	if err := c.do(ctx, http.MethodPut, "/user/profile", nil, profile, &out); err != nil {
		return core.UserProfile{}, err
	}
	return out, nil
}

// WhatsAppStatus fetches the linked-session state, degrading to a
// disconnected status on failure.
func (c *Client) WhatsAppStatus(ctx context.Context) (core.WhatsAppStatus, error) {
	var out core.WhatsAppStatus
	err := c.do(ctx, http.MethodGet, "/whatsapp/status", nil, nil, &out)
	if err == nil {
		return out, nil
	}
	if fallback := c.readFallback(ctx, "/whatsapp/status", err); fallback {
		return core.WhatsAppStatus{Connected: false}, nil
	}
	return core.WhatsAppStatus{}, err
}

// WhatsAppMessages fetches the message history, degrading to the demo
// history on failure.
func (c *Client) WhatsAppMessages(ctx context.Context) ([]core.Message, error) {
	var out []core.Message
	err := c.do(ctx, http.MethodGet, "/whatsapp/messages", nil, nil, &out)
	if err == nil {
		return out, nil
	}
	if fallback := c.readFallback(ctx, "/whatsapp/messages", err); fallback {
		return MockMessages(), nil
	}
	return nil, err
}

// DisconnectWhatsApp unlinks the WhatsApp session. Failures propagate.
func (c *Client) DisconnectWhatsApp(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/whatsapp/disconnect", nil, nil, nil)
}

// readFallback decides whether a failed read is absorbed by the degraded
// mode. A 401 is never absorbed: the session is already invalidated and the
// caller must see it.
func (c *Client) readFallback(ctx context.Context, endpoint string, err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return false
	}
	if !c.degradeToMock {
		return false
	}
	c.logger.WarnContext(ctx, "Read failed, serving demo payload",
		applog.FieldEndpoint, endpoint,
		applog.FieldError, err.Error(),
		applog.FieldFallback, true)
	return true
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.logger.WarnContext(ctx, "Token lookup failed", applog.FieldError, err.Error())
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(ctx)
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// invalidateSession clears the stored credential and notifies the
// application, regardless of which call hit the 401.
func (c *Client) invalidateSession(ctx context.Context) {
	if c.tokens != nil {
		if err := c.tokens.ClearToken(ctx); err != nil {
			c.logger.ErrorContext(ctx, "Failed to clear credential after 401", applog.FieldError, err.Error())
		}
	}
	c.logger.WarnContext(ctx, "Session invalidated by 401")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
