package web

import (
	"errors"
	"io"
	"net/http"

	"storefront/internal/application/orchestrators"
	emailDomain "storefront/internal/domain/email"
)

// handleRelayStatus handles GET /api/
func handleRelayStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Email Service is Running!")
}

// handleSendEmail handles POST /api/send-email
func handleSendEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, emailDomain.ErrMissingFields.Error())
		return
	}
	msg := emailDomain.Message{To: fields["to"], Subject: fields["subject"], HTML: fields["html"]}

	res, err := orchestrators.ExecuteSendEmail(r.Context(), msg, orchestrators.SendEmailDeps{
		Sender:      emailSender,
		FromAddress: emailFromAddress,
	})
	var providerErr *orchestrators.ProviderError
	switch {
	case errors.Is(err, emailDomain.ErrMissingFields):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, orchestrators.ErrSenderNotConfigured):
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	case errors.As(err, &providerErr):
		writeError(w, http.StatusInternalServerError, providerErr.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": res.MessageID})
}
