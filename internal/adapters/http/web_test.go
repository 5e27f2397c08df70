package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	emailAdapter "storefront/internal/adapters/email"
	"storefront/internal/adapters/http/middleware"
	"storefront/internal/adapters/resettoken"
	"storefront/internal/adapters/storage"
	accountStore "storefront/internal/adapters/storage/account"
	productStore "storefront/internal/adapters/storage/product"
	purchaseStore "storefront/internal/adapters/storage/purchase"
	"storefront/internal/application/orchestrators"
	"storefront/internal/domain/product"
	"storefront/internal/domain/purchase"
)

func init() {
	RateLimitPerSecond = 10_000
}

type recordingSender struct {
	err  error
	sent []emailAdapter.SendRequest
}

// Send records the request and returns the configured error.
func (s *recordingSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	s.sent = append(s.sent, req)
	if s.err != nil {
		return emailAdapter.SendResult{}, s.err
	}
	return emailAdapter.SendResult{MessageID: "msg-123", SentAt: time.Now()}, nil
}

type testServer struct {
	handler http.Handler
	stores  *Stores
	sender  *recordingSender
	tokens  *resettoken.Signer
}

const adminPassword = "admin-password-123"

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	tdb := storage.NewTimedDB(db, 0)

	s := &Stores{
		AccountStore:  accountStore.NewSQLiteStore(tdb),
		ProductStore:  productStore.NewSQLiteStore(tdb),
		PurchaseStore: purchaseStore.NewSQLiteStore(tdb),
	}
	ctx := context.Background()
	err = s.ProductStore.Save(ctx, product.Product{
		ID: "gpu-1", Name: "NVIDIA RTX 4090", Category: "GPU", Price: 1999.99, Stock: 1,
		Description: "**24GB** GDDR6X", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	err = orchestrators.ExecuteSeedAdmin(ctx, "admin@example.com", adminPassword, orchestrators.RegisterDeps{
		AccountStore: s.AccountStore, GenerateID: generateID, Now: time.Now,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	tokens, _ := resettoken.NewSigner("test-secret", time.Hour)
	sender := &recordingSender{}
	SetEmailSender(sender, "Ponte Once <onboarding@resend.dev>")
	t.Cleanup(func() { SetEmailSender(nil, "") })

	h := NewMux(s, Config{
		CSRFKey:     make([]byte, 32),
		BaseURL:     "https://shop.example.com",
		ResetTokens: tokens,
	})
	return &testServer{handler: h, stores: s, sender: sender, tokens: tokens}
}

func (ts *testServer) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:40000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rr := ts.do("POST", "/login", `{"email":"`+email+`","password":"`+password+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func (ts *testServer) registerCustomer(t *testing.T) *http.Cookie {
	t.Helper()
	rr := ts.do("POST", "/register", `{"username":"ana","email":"ana@example.com","password":"customer-pass-123"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rr.Code, rr.Body.String())
	}
	return ts.login(t, "ana@example.com", "customer-pass-123")
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return m
}

// --- Email relay ---

// TestRelay_Status tests the health endpoint.
func TestRelay_Status(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("GET", "/api/", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "Email Service is Running!" {
		t.Errorf("GET /api/ = %d %q", rr.Code, rr.Body.String())
	}
}

// TestRelay_Preflight tests CORS preflight handling.
func TestRelay_Preflight(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("OPTIONS", "/api/send-email", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") != "POST,OPTIONS" {
		t.Errorf("Allow-Methods = %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
	if len(ts.sender.sent) != 0 {
		t.Error("preflight sent an email")
	}
}

// TestRelay_MethodNotAllowed tests non-POST requests.
func TestRelay_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("GET", "/api/send-email", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
	if decodeBody(t, rr)["error"] != "Method not allowed" {
		t.Errorf("body = %s", rr.Body.String())
	}
}

// TestRelay_MissingFields tests the 400 response.
func TestRelay_MissingFields(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("POST", "/api/send-email", `{"to":"a@example.com","subject":"Hi"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if decodeBody(t, rr)["error"] != "Missing required fields: to, subject, html" {
		t.Errorf("body = %s", rr.Body.String())
	}
}

// TestRelay_Success tests a relayed message.
func TestRelay_Success(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("POST", "/api/send-email", `{"to":"a@example.com","subject":"Hi","html":"<p>Hello</p>"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["success"] != true || body["id"] != "msg-123" {
		t.Errorf("body = %v", body)
	}
	if len(ts.sender.sent) != 1 || ts.sender.sent[0].From != "Ponte Once <onboarding@resend.dev>" {
		t.Errorf("sent = %+v", ts.sender.sent)
	}
}

// TestRelay_ProviderError tests that the provider's message is forwarded.
func TestRelay_ProviderError(t *testing.T) {
	ts := newTestServer(t)
	ts.sender.err = &emailAdapter.DeliveryError{
		Provider: "resend",
		Message:  "The resend.dev domain is not verified",
		Err:      errors.New("[ERROR]: The resend.dev domain is not verified"),
	}
	rr := ts.do("POST", "/api/send-email", `{"to":"a@example.com","subject":"Hi","html":"<p>x</p>"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if decodeBody(t, rr)["error"] != "The resend.dev domain is not verified" {
		t.Errorf("body = %s", rr.Body.String())
	}
}

// TestRelay_NotConfigured tests the missing-credentials response.
func TestRelay_NotConfigured(t *testing.T) {
	ts := newTestServer(t)
	SetEmailSender(nil, "")
	rr := ts.do("POST", "/api/send-email", `{"to":"a@example.com","subject":"Hi","html":"<p>x</p>"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if decodeBody(t, rr)["error"] != "Server configuration error: Missing credentials" {
		t.Errorf("body = %s", rr.Body.String())
	}
}

// --- Checkout helpers ---

// TestValidateCedula tests the validation endpoint.
func TestValidateCedula(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		in     string
		valid  bool
		reason string
	}{
		{"1710034065", true, "ok"},
		{"171003406-5", true, "ok"},
		{"1710034066", false, "checksum"},
		{"2510000000", false, "region"},
		{"1111111111", false, "repeated_digits"},
		{"12345", false, "length"},
	}
	for _, tt := range tests {
		rr := ts.do("POST", "/api/cedula/validate", `{"cedula":"`+tt.in+`"}`)
		body := decodeBody(t, rr)
		if body["valid"] != tt.valid || body["reason"] != tt.reason {
			t.Errorf("validate(%q) = %v", tt.in, body)
		}
	}
}

// TestCardBrand tests the brand detection endpoint.
func TestCardBrand(t *testing.T) {
	ts := newTestServer(t)
	body := decodeBody(t, ts.do("POST", "/api/card/brand", `{"number":"5500000000000004"}`))
	if body["brand"] != "mastercard" || body["formatted"] != "5500 0000 0000 0004" || body["accepted"] != true {
		t.Errorf("body = %v", body)
	}
}

// --- Catalog ---

// TestProducts tests the catalog endpoints.
func TestProducts(t *testing.T) {
	ts := newTestServer(t)

	body := decodeBody(t, ts.do("GET", "/api/products", ""))
	if products := body["products"].([]any); len(products) != 1 {
		t.Errorf("products = %v", products)
	}

	body = decodeBody(t, ts.do("GET", "/api/products/featured", ""))
	if products := body["products"].([]any); len(products) != 1 {
		t.Errorf("featured = %v", products)
	}

	rr := ts.do("GET", "/api/products/gpu-1", "")
	body = decodeBody(t, rr)
	if body["name"] != "NVIDIA RTX 4090" || !strings.Contains(body["description_html"].(string), "<strong>24GB</strong>") {
		t.Errorf("product = %v", body)
	}

	if rr := ts.do("GET", "/api/products/nope", ""); rr.Code != http.StatusNotFound {
		t.Errorf("missing product status = %d, want 404", rr.Code)
	}
}

// --- Purchases ---

const buyBody = `{"product_id":"gpu-1","name":"Ana Torres","cedula":"1710034065","email":"ana@example.com","phone":"0991234567","payment_method":"card","card_number":"4111111111111111","price":1}`

// TestBuy_RequiresLogin tests that anonymous purchases are refused.
func TestBuy_RequiresLogin(t *testing.T) {
	ts := newTestServer(t)
	if rr := ts.do("POST", "/api/buy", buyBody); rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

// TestBuy_Flow tests a purchase, the stock-out that follows, and the history.
func TestBuy_Flow(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerCustomer(t)
	ts.sender.sent = nil

	rr := ts.do("POST", "/api/buy", buyBody, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("buy status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["status"] != "success" || body["total"] != 1999.99 || body["confirmation_sent"] != true {
		t.Errorf("buy = %v", body)
	}
	if len(ts.sender.sent) != 1 {
		t.Errorf("confirmation emails = %d, want 1", len(ts.sender.sent))
	}

	rr = ts.do("POST", "/api/buy", buyBody, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("second buy status = %d, want 400", rr.Code)
	}
	body = decodeBody(t, rr)
	if body["status"] != "error" || body["message"] != product.ErrOutOfStock.Error() {
		t.Errorf("second buy = %v", body)
	}

	body = decodeBody(t, ts.do("GET", "/api/profile/purchases", "", cookie))
	purchases := body["purchases"].([]any)
	if len(purchases) != 1 || purchases[0].(map[string]any)["card_brand"] != "Visa" {
		t.Errorf("history = %v", purchases)
	}
}

// TestBuy_InvalidCedula tests the server-side national ID check.
func TestBuy_InvalidCedula(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerCustomer(t)
	rr := ts.do("POST", "/api/buy", strings.Replace(buyBody, "1710034065", "1710034066", 1), cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// TestBuy_NoPaymentMethod tests a checkout that posts only buyer and product fields.
func TestBuy_NoPaymentMethod(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerCustomer(t)

	payload := `{"name":"Ana Torres","cedula":"1710034065","email":"ana@example.com","phone":"0991234567","product_id":"gpu-1","price":1999.99}`
	rr := ts.do("POST", "/api/buy", payload, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if body := decodeBody(t, rr); body["status"] != "success" {
		t.Errorf("buy = %v", body)
	}

	body := decodeBody(t, ts.do("GET", "/api/profile/purchases", "", cookie))
	purchases := body["purchases"].([]any)
	if len(purchases) != 1 {
		t.Fatalf("history = %v", purchases)
	}
	row := purchases[0].(map[string]any)
	if row["payment_method"] != "" || row["card_brand"] != nil {
		t.Errorf("history row = %v, want no payment method or brand", row)
	}
}

// TestBuy_PaymentFieldName tests that the "payment" radio name selects the method.
func TestBuy_PaymentFieldName(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerCustomer(t)

	payload := `{"name":"Ana Torres","cedula":"1710034065","email":"ana@example.com","product_id":"gpu-1","payment":"card","card_number":"9111111111111111"}`
	rr := ts.do("POST", "/api/buy", payload, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body := decodeBody(t, rr); body["message"] != purchase.ErrCardNotAccepted.Error() {
		t.Errorf("buy = %v", body)
	}
}

// --- Accounts ---

// TestRegister_Duplicate tests the conflict response.
func TestRegister_Duplicate(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("POST", "/register", `{"username":"x","email":"admin@example.com","password":"whatever-pass-123"}`)
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

// TestRegister_RateLimited tests the per-IP registration limit.
func TestRegister_RateLimited(t *testing.T) {
	ts := newTestServer(t)
	var last int
	for i := 0; i <= RegisterPerMinute; i++ {
		last = ts.do("POST", "/register", `{"username":"x","email":"bad","password":"short"}`).Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("status after %d attempts = %d, want 429", RegisterPerMinute+1, last)
	}
}

// TestLogin_WrongPassword tests the generic failure.
func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("POST", "/login", `{"email":"admin@example.com","password":"nope-nope-nope"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

// TestLogout tests that the session is invalidated.
func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "admin@example.com", adminPassword)
	if rr := ts.do("POST", "/logout", `{}`, cookie); rr.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rr.Code)
	}
	if rr := ts.do("GET", "/api/admin/dashboard", "", cookie); rr.Code != http.StatusUnauthorized {
		t.Errorf("dashboard after logout = %d, want 401", rr.Code)
	}
}

// TestPasswordReset_Flow tests forgot-password, the emailed token and the reset.
func TestPasswordReset_Flow(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do("POST", "/forgot-password", `{"email":"ghost@example.com"}`)
	unknown := rr.Body.String()
	if rr.Code != http.StatusOK || len(ts.sender.sent) != 0 {
		t.Fatalf("unknown email: status = %d, sent = %d", rr.Code, len(ts.sender.sent))
	}

	rr = ts.do("POST", "/forgot-password", `{"email":"admin@example.com"}`)
	if rr.Code != http.StatusOK || rr.Body.String() != unknown {
		t.Errorf("known email response differs: %s", rr.Body.String())
	}
	if len(ts.sender.sent) != 1 || !strings.Contains(ts.sender.sent[0].HTML, "https://shop.example.com/reset-password?token=") {
		t.Fatalf("reset email = %+v", ts.sender.sent)
	}

	token, _ := ts.tokens.Issue("admin@example.com")
	rr = ts.do("POST", "/reset-password", `{"token":"`+token+`","password":"fresh-admin-pass-1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body = %s", rr.Code, rr.Body.String())
	}
	ts.login(t, "admin@example.com", "fresh-admin-pass-1")

	rr = ts.do("POST", "/reset-password", `{"token":"garbage","password":"fresh-admin-pass-2"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad token status = %d, want 400", rr.Code)
	}
}

// TestCSRFToken tests the token endpoint.
func TestCSRFToken(t *testing.T) {
	ts := newTestServer(t)
	body := decodeBody(t, ts.do("GET", "/api/csrf-token", ""))
	if tok, _ := body["csrf_token"].(string); tok == "" || body["header"] != middleware.CSRFHeader {
		t.Errorf("body = %v", body)
	}
}

// --- Admin ---

// TestAdmin_Access tests role enforcement.
func TestAdmin_Access(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.registerCustomer(t)
	if rr := ts.do("GET", "/api/admin/dashboard", "", customer); rr.Code != http.StatusForbidden {
		t.Errorf("customer dashboard status = %d, want 403", rr.Code)
	}
	if rr := ts.do("GET", "/api/admin/dashboard", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous dashboard status = %d, want 401", rr.Code)
	}
}

// TestAdmin_AddProductAndDashboard tests adding a product and reading the dashboard.
func TestAdmin_AddProductAndDashboard(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, "admin@example.com", adminPassword)

	rr := ts.do("POST", "/api/admin/products", `{"name":"Corsair RM1000x","category":"PSU","price":189.99,"stock":4}`, admin)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add product status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = ts.do("POST", "/api/admin/products", `{"name":"","category":"PSU","price":1}`, admin)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid product status = %d, want 400", rr.Code)
	}

	body := decodeBody(t, ts.do("GET", "/api/admin/dashboard", "", admin))
	if products := body["products"].([]any); len(products) != 2 {
		t.Errorf("dashboard products = %d, want 2", len(products))
	}
	if body["purchase_count"] != float64(0) {
		t.Errorf("purchase_count = %v", body["purchase_count"])
	}
}

// TestCSRF_FormPostRejected tests that form posts need a token.
func TestCSRF_FormPostRejected(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest("POST", "/login", strings.NewReader("email=admin%40example.com&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

// TestLoadCSRFKey tests key decoding.
func TestLoadCSRFKey(t *testing.T) {
	if _, err := LoadCSRFKey("", true); err == nil {
		t.Error("missing key accepted in production")
	}
	if key, err := LoadCSRFKey("", false); err != nil || len(key) != 32 {
		t.Errorf("dev key = %d bytes, err = %v", len(key), err)
	}
	if _, err := LoadCSRFKey("abcd", false); err == nil {
		t.Error("short key accepted")
	}
	if key, err := LoadCSRFKey(strings.Repeat("ab", 32), true); err != nil || key[0] != 0xab {
		t.Errorf("hex key = %v, err = %v", key, err)
	}
}

// TestChangePassword tests the profile password endpoint.
func TestChangePassword(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.registerCustomer(t)

	rr := ts.do("POST", "/api/profile/password", `{"current_password":"wrong-wrong-wrong","new_password":"brand-new-pass-1"}`, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("wrong current status = %d, want 400", rr.Code)
	}
	rr = ts.do("POST", "/api/profile/password", `{"current_password":"customer-pass-123","new_password":"brand-new-pass-1"}`, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("change status = %d, body = %s", rr.Code, rr.Body.String())
	}
	ts.login(t, "ana@example.com", "brand-new-pass-1")
}
