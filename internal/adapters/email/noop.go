package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NoopSender stands in for a provider in development: notifications are logged
// and reported as accepted so checkout and registration flows can be exercised.
type NoopSender struct{}

// NewNoopSender creates a NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the recipient and subject. The body is never delivered.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	slog.Info("noop_email_send", "to", req.To, "subject", req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
