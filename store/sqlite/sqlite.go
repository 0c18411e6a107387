/*
Package sqlite provides the SQLite-backed account registry.

PURPOSE:
  The period resolver itself is pure; the accounts it resolves for live here.
  An account supplies the inception date and fiscal year-end that make up the
  non-as-of part of a periods.TemporalContext, plus the period set requested
  for it by default.

KEY TABLES:
  accounts:         Account identity, inception date, fiscal year-end
  period_sets:      Named custom code lists (beyond the built-in presets)
  period_snapshots: Cached filtered batches per account + as-of + request key

SNAPSHOT INVALIDATION:
  Saving or deleting an account drops its snapshots. A snapshot is a pure
  function of the account and the request, so nothing else can stale it.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite runs in WAL mode, so readers
  don't block each other.

USAGE:
  store, err := sqlite.New("./data/periods.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  acct, err := store.GetAccount(ctx, "ACME-GROWTH")

SEE ALSO:
  - factory/account.go: profile parsing into Account records
  - periods/resolver.go: TemporalContext
*/
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/periods"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is the account registry.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each connection would otherwise open its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		inception_date TEXT NOT NULL DEFAULT '',
		fiscal_year_end TEXT NOT NULL DEFAULT '',
		period_set TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS period_sets (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		codes_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Cached filtered batches; dropped whenever the account changes
	CREATE TABLE IF NOT EXISTS period_snapshots (
		account_code TEXT NOT NULL REFERENCES accounts(code) ON DELETE CASCADE,
		as_of TEXT NOT NULL,
		request_key TEXT NOT NULL,
		periods_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (account_code, as_of, request_key)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ACCOUNT STORE
// =============================================================================

// Account is a registered account. Inception and fiscal year-end may be zero.
type Account struct {
	Code          string
	Name          string
	InceptionDate calendar.Date
	FiscalYearEnd calendar.FiscalYearEnd
	PeriodSet     string // preset name, stored period set name, or empty
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TemporalContext builds the resolver context for this account on asOf.
func (a Account) TemporalContext(asOf calendar.Date) periods.TemporalContext {
	return periods.TemporalContext{
		AsOf:          asOf,
		Inception:     a.InceptionDate,
		FiscalYearEnd: a.FiscalYearEnd,
	}
}

// SaveAccount inserts or updates an account and drops its cached snapshots.
func (s *Store) SaveAccount(ctx context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO accounts (code, name, inception_date, fiscal_year_end, period_set, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			inception_date = excluded.inception_date,
			fiscal_year_end = excluded.fiscal_year_end,
			period_set = excluded.period_set,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, query,
		a.Code, a.Name, formatDate(a.InceptionDate), formatFiscalYearEnd(a.FiscalYearEnd),
		a.PeriodSet, now, now,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM period_snapshots WHERE account_code = ?", a.Code); err != nil {
		return err
	}
	return tx.Commit()
}

// GetAccount retrieves an account by code. Returns nil, nil if not found.
func (s *Store) GetAccount(ctx context.Context, code string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT code, name, inception_date, fiscal_year_end, period_set, created_at, updated_at FROM accounts WHERE code = ?",
		code,
	)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAccounts returns all accounts ordered by code.
func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, name, inception_date, fiscal_year_end, period_set, created_at, updated_at FROM accounts ORDER BY code",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes an account and its snapshots. It reports whether the
// account existed.
func (s *Store) DeleteAccount(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE code = ?", code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var a Account
	var inception, fye, createdAt, updatedAt string

	if err := row.Scan(&a.Code, &a.Name, &inception, &fye, &a.PeriodSet, &createdAt, &updatedAt); err != nil {
		return Account{}, err
	}

	if inception != "" {
		d, err := calendar.ParseISO(inception)
		if err != nil {
			return Account{}, fmt.Errorf("account %s: %w", a.Code, err)
		}
		a.InceptionDate = d
	}
	if fye != "" {
		f, err := calendar.ParseFiscalYearEnd(fye)
		if err != nil {
			return Account{}, fmt.Errorf("account %s: %w", a.Code, err)
		}
		a.FiscalYearEnd = f
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}

// =============================================================================
// PERIOD SET STORE
// =============================================================================

// PeriodSetRecord is a named, stored list of period codes.
type PeriodSetRecord struct {
	Name        string
	Description string
	Codes       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SavePeriodSet inserts or updates a period set.
func (s *Store) SavePeriodSet(ctx context.Context, ps PeriodSetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	codesJSON, err := json.Marshal(ps.Codes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO period_sets (name, description, codes_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			codes_json = excluded.codes_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query, ps.Name, ps.Description, string(codesJSON), now, now)
	return err
}

// GetPeriodSet retrieves a period set by name. Returns nil, nil if not found.
func (s *Store) GetPeriodSet(ctx context.Context, name string) (*PeriodSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ps PeriodSetRecord
	var codesJSON, createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT name, description, codes_json, created_at, updated_at FROM period_sets WHERE name = ?",
		name,
	).Scan(&ps.Name, &ps.Description, &codesJSON, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(codesJSON), &ps.Codes); err != nil {
		return nil, fmt.Errorf("period set %s: %w", ps.Name, err)
	}
	ps.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	ps.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &ps, nil
}

// ListPeriodSets returns all stored period sets ordered by name.
func (s *Store) ListPeriodSets(ctx context.Context) ([]PeriodSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, codes_json, created_at, updated_at FROM period_sets ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []PeriodSetRecord
	for rows.Next() {
		var ps PeriodSetRecord
		var codesJSON, createdAt, updatedAt string
		if err := rows.Scan(&ps.Name, &ps.Description, &codesJSON, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(codesJSON), &ps.Codes); err != nil {
			return nil, fmt.Errorf("period set %s: %w", ps.Name, err)
		}
		ps.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		ps.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		sets = append(sets, ps)
	}
	return sets, rows.Err()
}

// DeletePeriodSet removes a period set.
func (s *Store) DeletePeriodSet(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM period_sets WHERE name = ?", name)
	return err
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotRecord is a cached filtered batch, stored as JSON.
type SnapshotRecord struct {
	AccountCode string
	AsOf        calendar.Date
	RequestKey  string
	PeriodsJSON string
	CreatedAt   time.Time
}

// RequestKey derives a stable cache key from request fields. Field order
// does not matter; values are compared case-insensitively.
func RequestKey(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var canonical strings.Builder
	for _, k := range keys {
		canonical.WriteString(k + "=" + strings.ToUpper(strings.TrimSpace(fields[k])) + "|")
	}

	hash := sha256.Sum256([]byte(canonical.String()))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// SaveSnapshot stores a batch for account + as-of + request key.
func (s *Store) SaveSnapshot(ctx context.Context, snap SnapshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO period_snapshots (account_code, as_of, request_key, periods_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account_code, as_of, request_key) DO UPDATE SET
			periods_json = excluded.periods_json,
			created_at = excluded.created_at
	`

	_, err := s.db.ExecContext(ctx, query,
		snap.AccountCode, snap.AsOf.String(), snap.RequestKey, snap.PeriodsJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetSnapshot retrieves a cached batch. Returns nil, nil if not cached.
func (s *Store) GetSnapshot(ctx context.Context, accountCode string, asOf calendar.Date, requestKey string) (*SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := SnapshotRecord{AccountCode: accountCode, AsOf: asOf, RequestKey: requestKey}
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT periods_json, created_at FROM period_snapshots
		 WHERE account_code = ? AND as_of = ? AND request_key = ?`,
		accountCode, asOf.String(), requestKey,
	).Scan(&snap.PeriodsJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &snap, nil
}

// CountSnapshots returns the number of cached batches for an account.
func (s *Store) CountSnapshots(ctx context.Context, accountCode string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM period_snapshots WHERE account_code = ?", accountCode,
	).Scan(&n)
	return n, err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"period_snapshots", "accounts", "period_sets"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func formatFiscalYearEnd(f calendar.FiscalYearEnd) string {
	if f.IsZero() {
		return ""
	}
	return f.String()
}
