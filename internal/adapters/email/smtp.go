package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/go-mail/mail"
	"github.com/google/uuid"
)

// SMTPConfig configures a mail relay connection.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // Defaults to Username when empty
	UseTLS   bool   // STARTTLS when true; implicit TLS is used on port 465 regardless
	Timeout  time.Duration
}

// SMTPSender sends emails through an SMTP relay.
type SMTPSender struct {
	cfg  SMTPConfig
	send func(m *mail.Message) error
}

// NewSMTPSender creates a sender that dials the relay for every message.
// PRE: cfg.Host, cfg.Username and cfg.Password are set
// POST: Returns a ready-to-use sender
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = cfg.Timeout
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	if cfg.Port == 465 {
		d.SSL = true
	} else if cfg.UseTLS {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}

	return &SMTPSender{cfg: cfg, send: func(m *mail.Message) error { return d.DialAndSend(m) }}
}

// Send delivers a single HTML email. The returned MessageID is the Message-ID header
// generated for the message.
// PRE: req has at least one recipient
// POST: Message handed to the relay, or an error describing the relay failure
func (s *SMTPSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	from := req.From
	if from == "" {
		from = s.cfg.From
	}
	messageID := newMessageID(from)

	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", req.To...)
	m.SetHeader("Subject", req.Subject)
	m.SetHeader("Message-ID", messageID)
	if req.ReplyTo != "" {
		m.SetHeader("Reply-To", req.ReplyTo)
	}
	m.SetBody("text/html", req.HTML)

	slog.Debug("smtp_sending", "host", s.cfg.Host, "port", s.cfg.Port, "to", req.To)
	if err := s.send(m); err != nil {
		slog.Error("smtp_send_failed", "error", err, "host", s.cfg.Host, "to", req.To)
		return SendResult{}, &DeliveryError{Provider: "smtp", Message: err.Error(), Err: err}
	}

	slog.Info("smtp_sent", "message_id", messageID, "to", req.To)
	return SendResult{MessageID: messageID, SentAt: time.Now()}, nil
}

// newMessageID builds an RFC 5322 Message-ID on the sender's domain.
func newMessageID(from string) string {
	domain := "localhost"
	addr := from
	if parsed, err := netmail.ParseAddress(from); err == nil {
		addr = parsed.Address
	}
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		domain = addr[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
