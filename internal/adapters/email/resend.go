package email

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendTimeout bounds a single API call.
const resendTimeout = 30 * time.Second

// ResendSender relays messages through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender for the given API key. from is used when a
// request carries no From address.
// PRE: apiKey is non-empty
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewCustomClient(&http.Client{Timeout: resendTimeout}, apiKey),
		from:   from,
	}
}

// Send posts one message to Resend and returns its email ID.
// POST: On failure the error is a *DeliveryError carrying Resend's own message
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}
	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		derr := &DeliveryError{Provider: "resend", Message: resendMessage(err), Err: err}
		slog.Error("resend_send_failed", "error", derr.Message, "to", req.To)
		return SendResult{}, derr
	}

	slog.Info("resend_sent", "message_id", sent.Id, "to", req.To)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// resendMessage recovers the API's message from the client's error. The client
// prefixes API messages with "[ERROR]: " and reports rate limits separately.
func resendMessage(err error) string {
	var rl *resend.RateLimitError
	if errors.As(err, &rl) && rl.Message != "" {
		return rl.Message
	}
	return strings.TrimPrefix(err.Error(), "[ERROR]: ")
}
