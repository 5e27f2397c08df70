package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// requestIDCounter is an atomic counter for request IDs.
var requestIDCounter uint64

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// Timing returns middleware that logs request duration.
// Normal requests log at DEBUG; requests at or above thresholdMs log at WARN.
// A non-positive threshold falls back to DefaultSlowRequestMs.
func Timing(thresholdMs int) func(http.Handler) http.Handler {
	return timing(thresholdMs, slog.Warn)
}

func timing(thresholdMs int, warn func(msg string, args ...any)) func(http.Handler) http.Handler {
	if thresholdMs <= 0 {
		thresholdMs = DefaultSlowRequestMs
	}
	threshold := time.Duration(thresholdMs) * time.Millisecond

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				args := []any{
					"request_id", reqID,
					"method", r.Method,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", float64(elapsed.Microseconds()) / 1000.0,
				}
				if elapsed >= threshold {
					warn("slow_request", args...)
				} else {
					slog.Debug("request", args...)
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
