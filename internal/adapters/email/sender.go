package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message. From may be empty, in which case each sender
// falls back to the address it was constructed with (MAIL_FROM, or the SMTP username).
type SendRequest struct {
	To      []string
	From    string
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult identifies a message the provider accepted.
type SendResult struct {
	MessageID string // Resend email ID, SMTP Message-ID header, or a noop marker
	SentAt    time.Time
}

// Sender delivers a message through a provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// DeliveryError is a failure reported by the provider itself. Message is the
// provider's text with no adapter context, suitable for returning to relay callers.
type DeliveryError struct {
	Provider string
	Message  string
	Err      error
}

func (e *DeliveryError) Error() string { return e.Provider + ": " + e.Message }

func (e *DeliveryError) Unwrap() error { return e.Err }
