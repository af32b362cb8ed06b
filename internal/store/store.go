// Package store keeps a copy of the ledger in SQLite and serves it to the
// report service the same way the CSV repository does.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dateLayout = "2006-01-02"

// Store is a SQLite-backed ledger.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// A single connection avoids SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %s: %w", path, err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	// m.Close would close the shared *sql.DB, so only the source is released.
	defer src.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			s.log.Debug("database schema up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}
	s.log.Info("database migrations applied")
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace swaps the stored chart and journal for the given ones in a single
// transaction.
func (s *Store) Replace(ctx context.Context, accts []model.Account, entries []model.JournalEntry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, q := range []string{"DELETE FROM journal_entries", "DELETE FROM accounts"} {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("clearing ledger: %w", err)
		}
	}

	acctStmt, err := tx.PrepareContext(ctx, `INSERT INTO accounts
		(account_id, code, name, category, nature, active, statement_role)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing account insert: %w", err)
	}
	defer acctStmt.Close()
	for _, a := range accts {
		role := a.Role
		if role == "" {
			role = model.RoleNone
		}
		if _, err = acctStmt.ExecContext(ctx, a.ID, a.Code, a.Name, string(a.Category), string(a.Nature), a.Active, string(role)); err != nil {
			return fmt.Errorf("inserting account %s: %w", a.ID, err)
		}
	}

	entryStmt, err := tx.PrepareContext(ctx, `INSERT INTO journal_entries
		(entry_id, entry_date, account_id, transaction_id, entry_type, amount, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()
	for _, e := range entries {
		if _, err = entryStmt.ExecContext(ctx, e.ID, e.Date.Format(dateLayout), e.AccountID, e.TransactionID, string(e.Type), e.Amount, e.Description); err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing ledger: %w", err)
	}
	s.log.Info("ledger stored", zap.Int("accounts", len(accts)), zap.Int("entries", len(entries)))
	return nil
}

// Accounts returns the chart of accounts in insertion order.
func (s *Store) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_id, code, name, category, nature, active, statement_role
		FROM accounts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		var category, nature, role string
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &category, &nature, &a.Active, &role); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Category = model.Category(category)
		a.Nature = model.Nature(nature)
		a.Role = model.StatementRole(role)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Entries returns entries dated in the half-open window [from, to) in the
// order they were stored. A zero bound is open.
func (s *Store) Entries(ctx context.Context, from, to time.Time) ([]model.JournalEntry, error) {
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "entry_date >= ?")
		args = append(args, from.Format(dateLayout))
	}
	if !to.IsZero() {
		where = append(where, "entry_date < ?")
		args = append(args, to.Format(dateLayout))
	}
	q := `SELECT entry_id, entry_date, account_id, transaction_id, entry_type, amount, description FROM journal_entries`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []model.JournalEntry
	for rows.Next() {
		var e model.JournalEntry
		var date, typ string
		if err := rows.Scan(&e.ID, &date, &e.AccountID, &e.TransactionID, &typ, &e.Amount, &e.Description); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("entry %s: bad date %q: %w", e.ID, date, err)
		}
		e.Type = model.EntryType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}
