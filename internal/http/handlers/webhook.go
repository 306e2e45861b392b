// Package handlers implements the HTTP endpoints of the webhook surface.
// The service sits behind a chat-platform adapter: the adapter posts each
// inbound message here and delivers the returned recipient→text map back to
// the platform.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutrilog/nutrilog/internal/bot"
	"github.com/nutrilog/nutrilog/internal/http/middleware"
)

// WebhookRequest is one inbound chat message.
type WebhookRequest struct {
	// SenderID is the chat platform's user identifier.
	SenderID int64 `json:"sender_id" binding:"required"`
	// SenderName is the display name used in administrator copies.
	SenderName string `json:"sender_name"`
	// LanguageCode is the platform-reported language ("en", "ru-RU", ...).
	LanguageCode string `json:"language_code"`
	// Text is the raw message text.
	Text string `json:"text"`
}

// WebhookResponse carries the replies to deliver, keyed by recipient id.
type WebhookResponse struct {
	Replies map[int64]string `json:"replies"`
}

// Handler bundles the webhook endpoints' dependencies.
type Handler struct {
	Bot *bot.Router
}

// New constructs a Handler.
func New(b *bot.Router) *Handler {
	return &Handler{Bot: b}
}

// PostMessage handles POST /webhook: routes one inbound message through the
// bot and returns the replies to deliver.
func (h *Handler) PostMessage(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid webhook payload")
		return
	}
	c.Set("senderID", strconv.FormatInt(req.SenderID, 10))

	replies, err := h.Bot.HandleMessage(c.Request.Context(), bot.Inbound{
		SenderID:     req.SenderID,
		SenderName:   req.SenderName,
		LanguageCode: normalizeLanguage(req.LanguageCode),
		Text:         req.Text,
	})
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Int64("sender_id", req.SenderID).Msg("message handling failed")
		Fail(c, http.StatusInternalServerError, ErrCodeInternal, "message handling failed")
		return
	}

	outcome := "entry"
	switch {
	case len(replies) == 0:
		outcome = "rejected"
	case strings.HasPrefix(strings.TrimSpace(req.Text), "/"):
		outcome = "command"
	}
	middleware.CountBotMessage(outcome)

	c.JSON(http.StatusOK, WebhookResponse{Replies: replies})
}

// normalizeLanguage reduces a platform language code to its primary subtag.
func normalizeLanguage(code string) string {
	code, _, _ = strings.Cut(code, "-")
	return strings.ToLower(strings.TrimSpace(code))
}
