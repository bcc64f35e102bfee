package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"MVPScreener/internal/model"
)

// PostgresStore reads observations from a Postgres table with columns
// stock_symbol, date, price (numeric) and volume (bigint).
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore opens a connection pool and verifies it.
func NewPostgresStore(ctx context.Context, url, table string, maxConns, minConns int) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(maxConns)
	poolConfig.MinConns = int32(minConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool, table: table}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// FetchObservations limits rows per symbol on the server side.
func (s *PostgresStore) FetchObservations(ctx context.Context, depth int) ([]model.Observation, error) {
	query := fmt.Sprintf(`
		SELECT stock_symbol, date, price::text, volume
		FROM (
			SELECT stock_symbol, date, price, volume,
				ROW_NUMBER() OVER (PARTITION BY stock_symbol ORDER BY date DESC) AS rn
			FROM %s
		) ranked
		WHERE rn <= $1
		ORDER BY stock_symbol, date DESC
	`, pgx.Identifier{s.table}.Sanitize())

	rows, err := s.pool.Query(ctx, query, depth)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var (
			o     model.Observation
			price string
		)
		if err := rows.Scan(&o.Symbol, &o.Date, &price, &o.Volume); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		if o.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price %q for %s: %w", price, o.Symbol, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
