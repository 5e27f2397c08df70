package orchestrators

import (
	"context"
	"log/slog"

	emailAdapter "storefront/internal/adapters/email"
	"storefront/internal/adapters/markdown"
)

// notify renders a markdown body and sends it to a single recipient.
// Delivery failures are logged and never returned: the action that triggered
// the notification has already succeeded.
func notify(ctx context.Context, sender emailAdapter.Sender, kind, to, subject, body string) bool {
	if sender == nil {
		slog.Warn("email_event", "event", "notification_skipped", "kind", kind, "to", to, "reason", "no_sender")
		return false
	}
	_, err := sender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{to},
		Subject: subject,
		HTML:    markdown.ToHTML(body),
	})
	if err != nil {
		slog.Error("email_event", "event", "notification_failed", "kind", kind, "to", to, "error", err)
		return false
	}
	slog.Info("email_event", "event", "notification_sent", "kind", kind, "to", to)
	return true
}
