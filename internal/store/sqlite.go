package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"MVPScreener/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteStore reads observations from a local SQLite database.
// Prices are stored as text so they round-trip exactly.
type SQLiteStore struct {
	db    *sql.DB
	table string
	mu    sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and ensures the table exists.
func NewSQLiteStore(path, table string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// In-memory databases are per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	s := &SQLiteStore{db: db, table: table}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *SQLiteStore) migrate() error {
	t := quoteIdent(s.table)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + t + ` (
			stock_symbol TEXT NOT NULL,
			date         TEXT NOT NULL,
			price        TEXT NOT NULL,
			volume       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + quoteIdent("idx_"+s.table+"_symbol_date") + ` ON ` + t + `(stock_symbol, date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// SaveObservations inserts rows in a single transaction.
func (s *SQLiteStore) SaveObservations(ctx context.Context, obs []model.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+quoteIdent(s.table)+
		` (stock_symbol, date, price, volume) VALUES (?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, o.Symbol, o.Date.Format(dateLayout), o.Price.String(), o.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s %s: %w", o.Symbol, o.Date.Format(dateLayout), err)
		}
	}
	return tx.Commit()
}

// FetchObservations limits rows per symbol with a window function.
func (s *SQLiteStore) FetchObservations(ctx context.Context, depth int) ([]model.Observation, error) {
	query := `
		SELECT stock_symbol, date, price, volume
		FROM (
			SELECT stock_symbol, date, price, volume,
				ROW_NUMBER() OVER (PARTITION BY stock_symbol ORDER BY date DESC) AS rn
			FROM ` + quoteIdent(s.table) + `
		)
		WHERE rn <= ?
		ORDER BY stock_symbol, date DESC`

	rows, err := s.db.QueryContext(ctx, query, depth)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var (
			o           model.Observation
			date, price string
		)
		if err := rows.Scan(&o.Symbol, &date, &price, &o.Volume); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		if o.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parse date %q for %s: %w", date, o.Symbol, err)
		}
		if o.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price %q for %s: %w", price, o.Symbol, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
