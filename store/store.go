// Package store persists accounts in a SQL database, either SQLite or
// PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/reconcile"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no account matches an id.
var ErrNotFound = errors.New("account not found")

// Store is a database of accounts.
type Store struct {
	db     *sql.DB
	driver string
}

// AccountInfo describes a stored account.
type AccountInfo struct {
	ID      string
	Name    string
	Days    int
	Created time.Time
}

// Open connects to the database and creates the schema if needed. driver is
// "sqlite3" or "pgx".
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case "sqlite3", "pgx":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites the '?' placeholders of query into the '$n' form PostgreSQL
// expects.
func (s *Store) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveAccount stores a new copy of account under name and returns its id.
func (s *Store) SaveAccount(ctx context.Context, name string, account *reconcile.Account) (string, error) {
	now := time.Now().UTC()
	id, err := newID(now)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO accounts (id, name, days, created_at) VALUES (?, ?, ?, ?)`),
		id, name, account.Len(), now.Format(time.RFC3339Nano)); err != nil {
		return "", fmt.Errorf("insert account: %w", err)
	}

	insertSnapshot := s.rebind(`INSERT INTO snapshots (account_id, day) VALUES (?, ?)`)
	insertPosition := s.rebind(`INSERT INTO positions (account_id, day, symbol, quantity) VALUES (?, ?, ?, ?)`)
	insertTransaction := s.rebind(`INSERT INTO transactions (account_id, day, seq, symbol, operation, quantity, value) VALUES (?, ?, ?, ?, ?, ?, ?)`)

	for offset, day := range account.Days() {
		if day.HasSnapshot() {
			if _, err := tx.ExecContext(ctx, insertSnapshot, id, offset); err != nil {
				return "", fmt.Errorf("insert snapshot of day %d: %w", offset, err)
			}
			for symbol, quantity := range day.Positions().All() {
				if _, err := tx.ExecContext(ctx, insertPosition, id, offset, symbol, quantity); err != nil {
					return "", fmt.Errorf("insert position %s of day %d: %w", symbol, offset, err)
				}
			}
		}
		seq := 0
		for t := range day.Transactions() {
			if _, err := tx.ExecContext(ctx, insertTransaction, id, offset, seq, t.Symbol, t.Kind.String(), t.Quantity, t.Value); err != nil {
				return "", fmt.Errorf("insert transaction %s of day %d: %w", t, offset, err)
			}
			seq++
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit account: %w", err)
	}
	return id, nil
}

// LoadAccount rebuilds the account stored under id. It fails with
// ErrNotFound if there is none.
func (s *Store) LoadAccount(ctx context.Context, id string) (*reconcile.Account, error) {
	var days int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT days FROM accounts WHERE id = ?`), id).Scan(&days)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query account %q: %w", id, err)
	}

	account := reconcile.NewAccount()
	if days > 0 {
		if _, err := account.Day(days - 1); err != nil {
			return nil, err
		}
	}

	if err := s.loadSnapshots(ctx, id, account); err != nil {
		return nil, err
	}
	if err := s.loadTransactions(ctx, id, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Store) loadSnapshots(ctx context.Context, id string, account *reconcile.Account) error {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT day FROM snapshots WHERE account_id = ?`), id)
	if err != nil {
		return fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var offset int
		if err := rows.Scan(&offset); err != nil {
			return err
		}
		day, err := account.Day(offset)
		if err != nil {
			return err
		}
		if err := day.RecordSnapshot(); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, s.rebind(`SELECT day, symbol, quantity FROM positions WHERE account_id = ?`), id)
	if err != nil {
		return fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var offset int
		var symbol string
		var quantity float64
		if err := rows.Scan(&offset, &symbol, &quantity); err != nil {
			return err
		}
		day, err := account.Day(offset)
		if err != nil {
			return err
		}
		if err := day.SetPosition(symbol, quantity); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadTransactions(ctx context.Context, id string, account *reconcile.Account) error {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT day, symbol, operation, quantity, value FROM transactions WHERE account_id = ? ORDER BY day, seq`), id)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var offset int
		var symbol, operation string
		var quantity, value float64
		if err := rows.Scan(&offset, &symbol, &operation, &quantity, &value); err != nil {
			return err
		}
		t, err := reconcile.NewTransaction(operation, symbol, quantity, value)
		if err != nil {
			return fmt.Errorf("stored transaction of day %d: %w", offset, err)
		}
		day, err := account.Day(offset)
		if err != nil {
			return err
		}
		if err := day.AddTransaction(t); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ListAccounts returns every stored account, oldest first.
func (s *Store) ListAccounts(ctx context.Context) ([]AccountInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, days, created_at FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var infos []AccountInfo
	for rows.Next() {
		var info AccountInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Name, &info.Days, &created); err != nil {
			return nil, err
		}
		if info.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("account %s creation time: %w", info.ID, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
