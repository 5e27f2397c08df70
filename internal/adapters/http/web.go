package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/adapters/email"
	"storefront/internal/adapters/http/middleware"
	accountStore "storefront/internal/adapters/storage/account"
	productStore "storefront/internal/adapters/storage/product"
	purchaseStore "storefront/internal/adapters/storage/purchase"
	"storefront/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore  accountStore.Store
	ProductStore  productStore.Store
	PurchaseStore purchaseStore.Store
}

// Config carries the HTTP-level settings resolved by cmd/server.
type Config struct {
	Production     bool
	CSRFKey        []byte   // 32 bytes
	TrustedOrigins []string // extra origins accepted by the CSRF check
	AllowedOrigin  string   // CORS origin for the email relay; empty allows any
	BaseURL        string   // public URL used in emailed links
	SlowRequestMs  int
	ResetTokens    orchestrators.ResetTokens
}

// LoadCSRFKey decodes a hex-encoded 32-byte CSRF secret. In production the key
// MUST be set; in development a random key is generated per startup.
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("STOREFRONT_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, errors.New("STOREFRONT_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_random", "detail", "form tokens won't survive restart; set STOREFRONT_CSRF_KEY")
	return key, nil
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global config (set by NewMux)
var config Config

// RateLimitPerSecond controls the global per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// Per-route limits for credential endpoints, per IP per minute.
var (
	RegisterPerMinute = 5
	LoginPerMinute    = 10
)

// Global email sender instance (set by SetEmailSender). Nil means no provider is configured.
var emailSender email.Sender

var emailFromAddress string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from string) {
	emailSender = sender
	emailFromAddress = from
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, cfg Config) http.Handler {
	stores = s
	config = cfg
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = cfg.Production

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Applied inner to outer: RateLimit -> Auth -> CSRF -> SecurityHeaders -> Timing
	return middleware.Chain(mux,
		middleware.RateLimit(limiter),
		middleware.Auth(sessions),
		middleware.CSRF(cfg.CSRFKey, cfg.Production, cfg.TrustedOrigins),
		middleware.SecurityHeaders,
		middleware.Timing(cfg.SlowRequestMs),
	)
}
