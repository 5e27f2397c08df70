package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "storefront/internal/adapters/email"
	web "storefront/internal/adapters/http"
	"storefront/internal/adapters/resettoken"
	"storefront/internal/adapters/storage"
	accountStore "storefront/internal/adapters/storage/account"
	productStore "storefront/internal/adapters/storage/product"
	purchaseStore "storefront/internal/adapters/storage/purchase"
	"storefront/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const defaultFrom = "Ponte Once <onboarding@resend.dev>"

func main() {
	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: could not read .env: %v", err)
	}
	production := os.Getenv("STOREFRONT_ENV") == "production"

	// WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("STOREFRONT_DB_PATH", "storefront.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Println("Database initialized successfully!")

	timedDB := storage.NewTimedDB(db, envInt("STOREFRONT_SLOW_QUERY_MS", storage.DefaultSlowQueryMs))
	stores := &web.Stores{
		AccountStore:  accountStore.NewSQLiteStore(timedDB),
		ProductStore:  productStore.NewSQLiteStore(timedDB),
		PurchaseStore: purchaseStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()
	now := time.Now

	// Seed the launch catalog and the admin account (both idempotent)
	if err := orchestrators.ExecuteSeedProducts(ctx, orchestrators.SeedProductsDeps{
		ProductStore: stores.ProductStore, GenerateID: newID, Now: now,
	}); err != nil {
		log.Fatalf("failed to seed products: %v", err)
	}
	adminEmail := envOrDefault("STOREFRONT_ADMIN_EMAIL", "admin@ponteonce.ec")
	adminPassword := os.Getenv("STOREFRONT_ADMIN_PASSWORD")
	if adminPassword == "" {
		if production {
			log.Fatal("STOREFRONT_ADMIN_PASSWORD is required in production")
		}
		adminPassword = "admin-dev-password"
	}
	if err := orchestrators.ExecuteSeedAdmin(ctx, adminEmail, adminPassword, orchestrators.RegisterDeps{
		AccountStore: stores.AccountStore, GenerateID: newID, Now: now,
	}); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	configureEmail(production)

	secret := os.Getenv("STOREFRONT_SECRET_KEY")
	if secret == "" {
		if production {
			log.Fatal("STOREFRONT_SECRET_KEY is required in production")
		}
		secret = "dev-secret-change-me"
		log.Println("WARNING: STOREFRONT_SECRET_KEY is not set; using an insecure development secret")
	}
	tokens, err := resettoken.NewSigner(secret, resettoken.DefaultTTL)
	if err != nil {
		log.Fatalf("failed to create reset token signer: %v", err)
	}

	csrfKey, err := web.LoadCSRFKey(os.Getenv("STOREFRONT_CSRF_KEY"), production)
	if err != nil {
		log.Fatalf("invalid CSRF configuration: %v", err)
	}

	addr := envOrDefault("STOREFRONT_ADDR", ":8080")
	mux := web.NewMux(stores, web.Config{
		Production:     production,
		CSRFKey:        csrfKey,
		TrustedOrigins: splitList(os.Getenv("STOREFRONT_TRUSTED_ORIGINS")),
		AllowedOrigin:  os.Getenv("STOREFRONT_ALLOWED_ORIGIN"),
		BaseURL:        envOrDefault("STOREFRONT_BASE_URL", "http://localhost"+addr),
		SlowRequestMs:  envInt("STOREFRONT_SLOW_REQUEST_MS", 200),
		ResetTokens:    tokens,
	})

	log.Printf("Storefront %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("STOREFRONT_ENV", "development"), storage.LatestSchemaVersion())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// configureEmail picks the provider: Resend when RESEND_API_KEY is set, otherwise an
// SMTP relay when MAIL_SERVER is set. With neither, the relay endpoint reports missing
// credentials; in development notifications are logged by the noop sender instead.
func configureEmail(production bool) {
	from := envOrDefault("MAIL_FROM", defaultFrom)

	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		web.SetEmailSender(emailPkg.NewResendSender(key, from), from)
		log.Println("Email sender configured (Resend)")
		return
	}

	if host := os.Getenv("MAIL_SERVER"); host != "" {
		web.SetEmailSender(emailPkg.NewSMTPSender(emailPkg.SMTPConfig{
			Host:     host,
			Port:     envInt("MAIL_PORT", 587),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     os.Getenv("MAIL_FROM"),
			UseTLS:   envOrDefault("MAIL_USE_TLS", "true") == "true",
		}), os.Getenv("MAIL_FROM"))
		log.Printf("Email sender configured (SMTP %s)", host)
		return
	}

	if production {
		web.SetEmailSender(nil, from)
		log.Println("WARNING: no email provider configured; email delivery is DISABLED in production")
		return
	}
	web.SetEmailSender(emailPkg.NewNoopSender(), from)
	log.Println("Email sender configured (noop; set RESEND_API_KEY or MAIL_SERVER for real delivery)")
}

func newID() string {
	return uuid.New().String()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
