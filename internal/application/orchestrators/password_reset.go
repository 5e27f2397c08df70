package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	emailAdapter "storefront/internal/adapters/email"
	"storefront/internal/adapters/markdown"
	"storefront/internal/domain/account"
)

// ResetTokens issues and verifies password reset tokens.
type ResetTokens interface {
	Issue(email string) (string, error)
	Verify(token string) (string, error)
}

// AccountStoreForReset defines the store interface needed by the password reset flow.
type AccountStoreForReset interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// PasswordResetDeps holds dependencies for ForgotPassword and ResetPassword.
type PasswordResetDeps struct {
	AccountStore AccountStoreForReset
	Tokens       ResetTokens
	EmailSender  emailAdapter.Sender
	BaseURL      string // e.g. https://shop.example.com; the link is BaseURL + /reset-password?token=...
}

// ErrResetLinkInvalid is returned for tokens that are malformed, expired or point to no account.
var ErrResetLinkInvalid = errors.New("the reset link is invalid or has expired")

// ExecuteForgotPassword emails a time-limited reset link when the account exists.
// PRE: none
// POST: Returns nil for unknown emails too, so callers cannot probe which accounts exist
func ExecuteForgotPassword(ctx context.Context, email string, deps PasswordResetDeps) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return account.ErrEmptyEmail
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, account.ErrNotFound) {
		slog.Info("auth_event", "event", "reset_requested", "email", email, "reason", "not_found")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := deps.Tokens.Issue(acct.Email)
	if err != nil {
		return err
	}
	link := strings.TrimRight(deps.BaseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)

	notify(ctx, deps.EmailSender, "password_reset", acct.Email, "Password recovery",
		fmt.Sprintf("Hello %s,\n\nFollow this link to reset your password:\n%s\n\nIf this wasn't you, ignore this message.", markdown.Escape(acct.Username), link))
	slog.Info("auth_event", "event", "reset_requested", "email", email)
	return nil
}

// ResetPasswordInput carries input for the reset-password orchestrator.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ExecuteResetPassword verifies a reset token and sets a new password.
// PRE: Token was issued by ExecuteForgotPassword
// POST: Password updated and lockout cleared, or ErrResetLinkInvalid
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps PasswordResetDeps) error {
	email, err := deps.Tokens.Verify(input.Token)
	if err != nil {
		slog.Info("auth_event", "event", "reset_rejected", "reason", err.Error())
		return ErrResetLinkInvalid
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, account.ErrNotFound) {
		return ErrResetLinkInvalid
	}
	if err != nil {
		return err
	}

	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	acct.ResetFailedLogins()
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_reset", "email", email)
	return nil
}
