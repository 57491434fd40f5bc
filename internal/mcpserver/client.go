package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the configuration for reaching the dashboard API.
type Config struct {
	APIURL  string        // Base URL, e.g. "http://localhost:8080"
	Timeout time.Duration // Per-request timeout; zero means 30s
}

// Client is a plain HTTP client for the dashboard's /v1 API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// apiError represents an error response from the server.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// FeedStats returns the live feed counters.
func (c *Client) FeedStats(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/feed/stats", nil, nil)
}

// AlertCounts returns alert counts per review status.
func (c *Client) AlertCounts(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/alerts/counts", nil, nil)
}

// Chat sends one message to the assistant.
func (c *Client) Chat(ctx context.Context, message, language, mode, conversationID string) (json.RawMessage, error) {
	body := map[string]string{"message": message}
	if language != "" {
		body["language"] = language
	}
	if mode != "" {
		body["mode"] = mode
	}
	if conversationID != "" {
		body["conversationId"] = conversationID
	}
	return c.doRequest(ctx, http.MethodPost, "/v1/chat", nil, body)
}

// ListAlerts lists alerts, newest first.
func (c *Client) ListAlerts(ctx context.Context, status, severity, wallet string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if severity != "" {
		q.Set("severity", severity)
	}
	if wallet != "" {
		q.Set("wallet", wallet)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/alerts", q, nil)
}

// UpdateAlert moves an alert to a new review status.
func (c *Client) UpdateAlert(ctx context.Context, id, status string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPatch, "/v1/alerts/"+url.PathEscape(id), nil, map[string]string{"status": status})
}

// WalletHistory returns a wallet's recorded transactions.
func (c *Client) WalletHistory(ctx context.Context, address string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/wallets/"+address+"/history", q, nil)
}

// WalletProfile returns a wallet's reputation profile.
func (c *Client) WalletProfile(ctx context.Context, address string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/wallets/"+address, nil, nil)
}

// BlockWallet adds address to the block list.
func (c *Client) BlockWallet(ctx context.Context, address string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/wallets/"+address+"/block", nil, nil)
}

// UnblockWallet removes address from the block list.
func (c *Client) UnblockWallet(ctx context.Context, address string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodDelete, "/v1/wallets/"+address+"/block", nil, nil)
}

// Breakdown returns the risk factor breakdown for a feed transaction.
func (c *Client) Breakdown(ctx context.Context, txID string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/transactions/"+url.PathEscape(txID)+"/breakdown", nil, nil)
}
