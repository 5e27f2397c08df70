package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB and logs statements slower than a threshold.
type TimedDB struct {
	db        *sql.DB
	threshold time.Duration
	log       func(msg string, args ...any)
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db; statements at or above thresholdMs are logged at WARN.
// A non-positive threshold falls back to DefaultSlowQueryMs.
// PRE: db is a valid database connection
// POST: Returns a TimedDB usable wherever SQLDB is accepted
func NewTimedDB(db *sql.DB, thresholdMs int) *TimedDB {
	if thresholdMs <= 0 {
		thresholdMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		threshold: time.Duration(thresholdMs) * time.Millisecond,
		log:       slog.Warn,
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) observe(op, query string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed < t.threshold {
		slog.Debug("query", "op", op, "stmt", statementLabel(query), "duration_ms", elapsed.Milliseconds())
		return
	}
	t.log("slow_query", "op", op, "stmt", statementLabel(query), "duration_ms", elapsed.Milliseconds())
}

// statementLabel reduces a query to its verb and first table, e.g. "SELECT product".
func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	verb := strings.ToUpper(fields[0])
	for i, f := range fields {
		switch strings.ToUpper(f) {
		case "FROM", "INTO", "UPDATE":
			if i+1 < len(fields) {
				return verb + " " + strings.Trim(fields[i+1], "(,")
			}
		}
	}
	return verb
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe("exec", query, start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe("query", query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe("query_row", query, start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe("begin", "BEGIN", start)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}
