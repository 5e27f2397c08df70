package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	emailAdapter "storefront/internal/adapters/email"
	"storefront/internal/adapters/markdown"
	"storefront/internal/domain/account"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string
	NewPassword     string
}

// AccountStoreForChangePassword defines the store interface needed by ChangePassword.
type AccountStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForChangePassword
	EmailSender  emailAdapter.Sender // optional: nil skips the security notice
}

var (
	ErrPasswordFieldsRequired = errors.New("current and new password are required")
	ErrCurrentPasswordWrong   = errors.New("current password is incorrect")
	ErrNewPasswordSame        = errors.New("new password must be different from current password")
)

// ExecuteChangePassword checks the current password and stores the new one.
// PRE: AccountID belongs to the signed-in user
// POST: Password updated and a security notice sent (best effort)
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return ErrPasswordFieldsRequired
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return err
	}
	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		return ErrCurrentPasswordWrong
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_changed", "account_id", acct.ID)
	notify(ctx, deps.EmailSender, "password_changed", acct.Email, "Your PONTE ONCE password was changed",
		"Hello "+markdown.Escape(acct.Username)+",\n\nThe password for your account was just changed. "+
			"If this wasn't you, use **Forgot password** to recover access.")
	return nil
}
