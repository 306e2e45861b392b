package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPSender delivers outbound messages by POSTing them to a chat-platform
// adapter. The adapter owns platform credentials and message formatting;
// this service only hands over recipient and text.
type HTTPSender struct {
	URL    string
	Client *http.Client
}

// NewHTTPSender constructs an HTTPSender with a bounded request timeout.
func NewHTTPSender(url string) *HTTPSender {
	return &HTTPSender{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type outboundPayload struct {
	RecipientID int64  `json:"recipient_id"`
	Text        string `json:"text"`
}

// Send posts one message to the adapter. Any non-2xx response is an error
// so the outbox keeps the row leased and retries later.
func (s *HTTPSender) Send(ctx context.Context, recipientID int64, text string) error {
	raw, err := json.Marshal(outboundPayload{RecipientID: recipientID, Text: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("adapter returned %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes outbound messages to the application log instead of a
// chat platform. Used when no adapter endpoint is configured.
type LogSender struct{}

// Send logs the message and reports success.
func (LogSender) Send(_ context.Context, recipientID int64, text string) error {
	log.Info().Int64("recipient_id", recipientID).Str("text", text).Msg("outbound message (no adapter configured)")
	return nil
}
