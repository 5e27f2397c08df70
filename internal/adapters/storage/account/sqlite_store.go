package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/adapters/storage"
	domain "storefront/internal/domain/account"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const selectAccount = `SELECT id, username, email, password_hash, role, created_at, failed_logins, locked_until FROM account`

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE id = ?", id))
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE email = ?", email))
}

// Save persists an Account (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted; a duplicate email on a different ID returns domain.ErrEmailTaken
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	var lockedUntil any
	if !a.LockedUntil.IsZero() {
		lockedUntil = a.LockedUntil.UTC().Format(timeLayout)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, username, email, password_hash, role, created_at, failed_logins, locked_until)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   username=excluded.username, email=excluded.email, password_hash=excluded.password_hash,
		   role=excluded.role, failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Role,
		a.CreatedAt.UTC().Format(timeLayout), a.FailedLogins, lockedUntil)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// Count returns the number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&n)
	return n, err
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &createdAt, &a.FailedLogins, &lockedUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if lockedUntil.Valid {
		a.LockedUntil, _ = time.Parse(timeLayout, lockedUntil.String)
	}
	return a, nil
}

// isUniqueViolation matches SQLite's UNIQUE constraint error text.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
