package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	emailAdapter "storefront/internal/adapters/email"
	emailDomain "storefront/internal/domain/email"
)

// ErrSenderNotConfigured is returned when no delivery provider has credentials.
var ErrSenderNotConfigured = errors.New("Server configuration error: Missing credentials")

// ProviderError wraps a failure reported by the delivery provider. Error returns the
// provider's own message so it can be handed back to the relay caller unchanged.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	var derr *emailAdapter.DeliveryError
	if errors.As(e.Err, &derr) {
		return derr.Message
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SendEmailDeps holds dependencies for SendEmail.
type SendEmailDeps struct {
	Sender      emailAdapter.Sender // nil when no provider is configured
	FromAddress string
}

// SendEmailResult carries the provider's identifier for the accepted message.
type SendEmailResult struct {
	MessageID string
}

// ExecuteSendEmail relays a single message to the configured provider.
// PRE: none
// POST: Returns the provider message ID, emailDomain.ErrMissingFields,
// ErrSenderNotConfigured, or a *ProviderError
func ExecuteSendEmail(ctx context.Context, msg emailDomain.Message, deps SendEmailDeps) (SendEmailResult, error) {
	if err := msg.Validate(); err != nil {
		return SendEmailResult{}, err
	}
	if deps.Sender == nil {
		slog.Error("email_event", "event", "relay_not_configured")
		return SendEmailResult{}, ErrSenderNotConfigured
	}

	slog.Debug("email_event", "event", "relay_sending", "to", msg.To)
	res, err := deps.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{msg.To},
		From:    deps.FromAddress,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		slog.Error("email_event", "event", "relay_failed", "to", msg.To, "error", err)
		return SendEmailResult{}, &ProviderError{Err: err}
	}

	slog.Info("email_event", "event", "relay_sent", "to", msg.To, "message_id", res.MessageID)
	return SendEmailResult{MessageID: res.MessageID}, nil
}
