package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations is the ordered schema history. Append only; never edit a shipped step.
var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS account (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL,
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS product (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				category TEXT NOT NULL,
				price REAL NOT NULL,
				stock INTEGER NOT NULL DEFAULT 10,
				image_url TEXT,
				description TEXT,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS purchase (
				id TEXT PRIMARY KEY,
				buyer_name TEXT NOT NULL,
				cedula TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT,
				product_id TEXT NOT NULL,
				total_price REAL NOT NULL,
				created_at TEXT NOT NULL,
				FOREIGN KEY (product_id) REFERENCES product(id)
			)`,
		},
	},
	{
		version: 2,
		name:    "purchase_payment",
		stmts: []string{
			`ALTER TABLE purchase ADD COLUMN payment_method TEXT NOT NULL DEFAULT 'card'`,
			`ALTER TABLE purchase ADD COLUMN card_brand TEXT`,
			`CREATE INDEX IF NOT EXISTS idx_purchase_email ON purchase(email, created_at)`,
		},
	},
}

// LatestSchemaVersion returns the version the database is at after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, or 0 for an untracked database.
// PRE: db is a valid database connection
// POST: Returns the highest applied migration version
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion; already-applied steps are skipped
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}
