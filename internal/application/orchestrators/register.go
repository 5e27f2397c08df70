package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "storefront/internal/adapters/email"
	"storefront/internal/adapters/markdown"
	"storefront/internal/domain/account"
)

// AccountStoreForRegister defines the store interface needed by Register.
type AccountStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// RegisterInput carries input for the register orchestrator.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	AccountStore AccountStoreForRegister
	EmailSender  emailAdapter.Sender // optional: nil skips the welcome email
	GenerateID   func() string
	Now          func() time.Time
}

// ErrEmailAlreadyExists is returned when registering an email that is already in use.
var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteRegister creates a customer account and sends a welcome email.
// PRE: Username and email are non-empty; password >= 12 chars
// POST: Customer account created with hashed password
// INVARIANT: Email must be unique
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (account.Account, error) {
	acct, err := createAccount(ctx, input, account.RoleCustomer, deps)
	if err != nil {
		return account.Account{}, err
	}
	notify(ctx, deps.EmailSender, "welcome", acct.Email, "Welcome to PONTE ONCE Store!",
		fmt.Sprintf("Hello %s,\n\nThanks for registering at our store. We hope you find the hardware of your dreams!\n\nThe PONTE ONCE team", markdown.Escape(acct.Username)))
	return acct, nil
}

// ExecuteSeedAdmin creates the admin account if no accounts exist.
// PRE: Database is initialized
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, email, password string, deps RegisterDeps) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := createAccount(ctx, RegisterInput{Username: "admin", Email: email, Password: password}, account.RoleAdmin, deps); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}

func createAccount(ctx context.Context, input RegisterInput, role string, deps RegisterDeps) (account.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return account.Account{}, account.ErrEmptyEmail
	}

	_, err := deps.AccountStore.GetByEmail(ctx, email)
	if err == nil {
		return account.Account{}, ErrEmailAlreadyExists
	}
	if !errors.Is(err, account.ErrNotFound) {
		return account.Account{}, err
	}

	acct := account.Account{
		ID:        deps.GenerateID(),
		Username:  strings.TrimSpace(input.Username),
		Email:     email,
		Role:      role,
		CreatedAt: deps.Now(),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return account.Account{}, ErrEmailAlreadyExists
		}
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "email", email, "role", role)
	return acct, nil
}
