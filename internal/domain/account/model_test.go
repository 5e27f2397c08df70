package account_test

import (
	"testing"
	"time"

	"storefront/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{
			name:    "valid admin account",
			account: account.Account{ID: "1", Username: "admin", Email: "admin@ponteonce.ec", Role: account.RoleAdmin},
		},
		{
			name:    "valid customer account",
			account: account.Account{ID: "2", Username: "ana", Email: "ana@example.com", Role: account.RoleCustomer},
		},
		{
			name:    "empty username",
			account: account.Account{ID: "3", Email: "ana@example.com", Role: account.RoleCustomer},
			wantErr: true,
		},
		{
			name:    "empty email",
			account: account.Account{ID: "4", Username: "ana", Role: account.RoleCustomer},
			wantErr: true,
		},
		{
			name:    "invalid email no at sign",
			account: account.Account{ID: "5", Username: "ana", Email: "not-an-email", Role: account.RoleCustomer},
			wantErr: true,
		},
		{
			name:    "invalid role",
			account: account.Account{ID: "6", Username: "ana", Email: "ana@example.com", Role: "coach"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Account.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_Password tests hashing and verification.
func TestAccount_Password(t *testing.T) {
	a := account.Account{}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("SetPassword(\"\") = %v, want ErrEmptyPassword", err)
	}
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword() = %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "correct horse battery" {
		t.Fatal("password was not hashed")
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("wrong password!!"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout tests that repeated failures lock the account.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := account.Account{}

	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("account locked before reaching the limit")
	}

	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("account not locked after reaching the limit")
	}
	if a.IsLocked(now.Add(account.LockoutDuration + time.Second)) {
		t.Error("lock did not expire")
	}

	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Error("ResetFailedLogins did not clear the lock")
	}
}
