// Package telegram – outbound Bot API client.
//
// The client wraps the three Bot API calls the service makes: sendMessage,
// answerCallbackQuery, and the one-time administrative setWebhook. All calls
// are best-effort relative to state commitment: callers log failures and move
// on, they never roll back or retry indefinitely, so a platform outage cannot
// stall or corrupt session progress.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAPIBase is the production Bot API endpoint. Tests point the client
// at an httptest server instead.
const DefaultAPIBase = "https://api.telegram.org"

// ErrDisabled is returned by outbound calls when no bot token is configured.
var ErrDisabled = errors.New("telegram: bot token not configured")

// Client is a minimal Telegram Bot API client. The zero value is a disabled
// client; construct with NewClient.
type Client struct {
	token   string
	apiBase string
	hc      *http.Client
}

// NewClient builds a client for the given bot token. An empty token yields a
// disabled client whose calls return ErrDisabled; the webhook layer checks
// Enabled before accepting traffic. apiBase overrides the production endpoint
// when non-empty (used by tests).
func NewClient(token, apiBase string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		token:   token,
		apiBase: apiBase,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a bot token is configured. When false the whole
// Telegram subsystem is disabled and the webhook returns 503.
func (c *Client) Enabled() bool { return c != nil && c.token != "" }

// apiResponse is the envelope every Bot API method returns.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// call POSTs a JSON payload to one Bot API method and decodes the envelope.
func (c *Client) call(ctx context.Context, method string, payload any) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Bot API errors still return a JSON envelope; reads are capped at 1 MiB.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	var env apiResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("telegram: %s: status %d: %w", method, resp.StatusCode, err)
	}
	if !env.OK {
		return fmt.Errorf("telegram: %s: api error %d: %s", method, env.ErrorCode, env.Description)
	}
	return nil
}

// SendMessage delivers text (and an optional inline keyboard) to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID, text string, kb *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if kb != nil {
		payload["reply_markup"] = kb
	}
	return c.call(ctx, "sendMessage", payload)
}

// AnswerCallbackQuery acknowledges an inline-keyboard tap so the client's
// loading spinner stops. Telegram tolerates missed acknowledgments, which is
// why callers treat failures as log-only.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	})
}

// SetWebhook registers the webhook URL with the platform, attaching the
// shared secret Telegram will echo in X-Telegram-Bot-Api-Secret-Token.
// One-time administrative call, invoked from main when a public base URL is
// configured.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	payload := map[string]any{
		"url":             url,
		"allowed_updates": []string{"message", "callback_query"},
	}
	if secret != "" {
		payload["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", payload)
}
