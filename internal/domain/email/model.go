package email

import (
	"errors"
	"strings"
)

// ErrMissingFields is returned when a message lacks a recipient, subject or body.
var ErrMissingFields = errors.New("Missing required fields: to, subject, html")

// Message is a single outbound email handed to a delivery provider.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Validate checks that every field is present.
// PRE: none
// POST: Returns ErrMissingFields if any field is blank, nil otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.HTML) == "" {
		return ErrMissingFields
	}
	return nil
}
