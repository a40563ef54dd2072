// Package handlers – Telegram webhook endpoint.
//
// This file implements the single inbound surface of the service: the webhook
// Telegram POSTs updates to. The handler is deliberately forgiving towards
// the platform — Telegram retries any non-2xx response, so after the secret
// gate only two failure shapes exist: 503 when the bot is not configured at
// all, and 200 for everything else. Processing failures are logged and
// acknowledged; the idempotency ledger makes a platform retry harmless, and
// an unprocessable payload must never be retried forever.
package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Amruta907/smart-grievance-system/internal/http/middleware"
	"github.com/Amruta907/smart-grievance-system/internal/telegram"
)

// SecretTokenHeader is the header Telegram echoes on every webhook delivery
// when a secret was registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler processes one inbound Telegram update end to end.
// *services.ConversationService satisfies it.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u *telegram.Update) error
}

// WebhookHandler owns the webhook route.
type WebhookHandler struct {
	// Conversations processes parsed updates.
	Conversations UpdateHandler
	// Secret is the expected value of the secret token header; empty disables
	// the check.
	Secret string
	// Enabled reflects whether a bot token is configured. When false the
	// route answers 503 so Telegram keeps the delivery queued until the
	// deployment is fixed.
	Enabled bool
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(conversations UpdateHandler, secret string, enabled bool) *WebhookHandler {
	return &WebhookHandler{Conversations: conversations, Secret: secret, Enabled: enabled}
}

// ackBody is the constant acknowledgement Telegram expects.
var ackBody = gin.H{"ok": true}

// Receive handles POST /telegram/webhook.
//
// Response contract:
//   - 401 when a secret is configured and the header does not match; the
//     delivery is treated as forged and nothing is recorded.
//   - 503 when no bot token is configured; no side effects.
//   - 200 {"ok":true} for everything else, including malformed JSON and
//     downstream processing failures. By the time the acknowledgement is
//     written, session and ticket state is durable.
//
// @Summary      Telegram webhook
// @Description  Receives one Telegram Bot API update and acknowledges it.
// @Tags         telegram
// @Accept       json
// @Produce      json
// @Param        update  body      telegram.Update  true  "Bot API update"
// @Success      200     {object}  map[string]bool
// @Failure      401     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /telegram/webhook [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	if h.Secret != "" {
		got := c.GetHeader(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid webhook secret")
			return
		}
	}
	if !h.Enabled {
		fail(c, http.StatusServiceUnavailable, ErrCodeBotDisabled, "telegram bot is not configured")
		return
	}

	var u telegram.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&u); err != nil {
		// A payload this service cannot parse will never become parseable;
		// acknowledge so Telegram drops it instead of retrying forever.
		middleware.LoggerFrom(c).Warn().Err(err).Msg("unparseable webhook payload")
		ok(c, http.StatusOK, ackBody)
		return
	}

	// Expose the chat id to the logging middleware.
	if chatID := u.ChatID(); chatID != "" {
		c.Set("chatID", chatID)
	}

	if err := h.Conversations.HandleUpdate(c.Request.Context(), &u); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Int64("update_id", u.UpdateID).Msg("update processing failed")
	}
	ok(c, http.StatusOK, ackBody)
}
