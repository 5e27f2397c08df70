package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/adapters/http/middleware"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	middleware.WriteJSONError(w, status, msg)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

var errBadRequestBody = errors.New("request body must be a JSON object or a form")

// readFields reads a flat set of fields from a JSON object or a form body.
// Numbers and booleans in JSON are converted to their string form so that
// browser forms and API clients share one code path.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	fields := make(map[string]string)
	if isJSONRequest(r) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, errBadRequestBody
		}
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fields[k] = val
			case float64:
				fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
			case bool:
				fields[k] = strconv.FormatBool(val)
			case nil:
			default:
				return nil, errBadRequestBody
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errBadRequestBody
	}
	for k := range r.PostForm {
		fields[k] = strings.TrimSpace(r.PostForm.Get(k))
	}
	return fields, nil
}
