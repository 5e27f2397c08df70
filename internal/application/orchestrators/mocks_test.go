package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	emailAdapter "storefront/internal/adapters/email"
	"storefront/internal/domain/account"
	"storefront/internal/domain/product"
	"storefront/internal/domain/purchase"
)

var fixedTime = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func testNow() time.Time {
	return fixedTime
}

func newIDGenerator(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// --- Mock email sender ---

type mockEmailSender struct {
	fail     bool
	sentReqs []emailAdapter.SendRequest
}

// Send records the request and optionally fails.
// PRE: req is valid
// POST: Request appended to sentReqs
func (m *mockEmailSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	m.sentReqs = append(m.sentReqs, req)
	if m.fail {
		return emailAdapter.SendResult{}, errors.New("domain is not verified")
	}
	return emailAdapter.SendResult{MessageID: "mock-msg-id", SentAt: fixedTime}, nil
}

// --- Mock account store ---

type mockAccountStore struct {
	accounts map[string]account.Account // keyed by email
	saveErr  error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

// GetByEmail returns the account with the given email.
// PRE: email is non-empty
// POST: Returns the account or account.ErrNotFound
func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

// GetByID scans for the account with the given ID.
func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

// Save stores the account keyed by email.
// PRE: a has an email
// POST: Account stored unless saveErr is set
func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.accounts[a.Email] = a
	return nil
}

// Count returns the number of stored accounts.
func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// --- Mock product store ---

type mockProductStore struct {
	products map[string]product.Product
}

func newMockProductStore(ps ...product.Product) *mockProductStore {
	m := &mockProductStore{products: make(map[string]product.Product)}
	for _, p := range ps {
		m.products[p.ID] = p
	}
	return m
}

// GetByID returns the product or product.ErrNotFound.
func (m *mockProductStore) GetByID(_ context.Context, id string) (product.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

// Save stores the product.
func (m *mockProductStore) Save(_ context.Context, p product.Product) error {
	m.products[p.ID] = p
	return nil
}

// Count returns the number of stored products.
func (m *mockProductStore) Count(_ context.Context) (int, error) {
	return len(m.products), nil
}

// --- Mock purchase store ---

// mockPurchaseStore decrements stock in the linked product store like the SQLite store does.
type mockPurchaseStore struct {
	products  *mockProductStore
	purchases []purchase.Purchase
}

// Record takes one unit of stock and appends the purchase.
// PRE: p has been validated
// POST: Stock decremented and purchase stored, or product.ErrOutOfStock
func (m *mockPurchaseStore) Record(_ context.Context, p purchase.Purchase) error {
	prod, ok := m.products.products[p.ProductID]
	if !ok {
		return product.ErrNotFound
	}
	if prod.Stock <= 0 {
		return product.ErrOutOfStock
	}
	prod.Stock--
	m.products.products[p.ProductID] = prod
	m.purchases = append(m.purchases, p)
	return nil
}

// --- Mock reset tokens ---

type mockResetTokens struct {
	issued []string
}

// Issue returns a predictable token for email.
func (m *mockResetTokens) Issue(email string) (string, error) {
	m.issued = append(m.issued, email)
	return "token:" + email, nil
}

// Verify accepts tokens produced by Issue.
func (m *mockResetTokens) Verify(token string) (string, error) {
	if len(token) > 6 && token[:6] == "token:" {
		return token[6:], nil
	}
	return "", errors.New("bad token")
}
