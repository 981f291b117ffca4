package order

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore persists orders in Postgres via a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database and verifies the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("order: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("order: ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the schema if absent. It must run exactly once at
// startup, before any session is accepted.
func Migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("order: open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("order: set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("order: run migrations: %w", err)
	}
	return nil
}

// Save inserts one pending order and returns the assigned id.
func (s *PostgresStore) Save(ctx context.Context, item string, quantity int, price float64) (int64, error) {
	if err := validate(item, quantity, price); err != nil {
		return 0, err
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO orders (item, quantity, price, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		item, quantity, price, StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("order: insert: %w", err)
	}
	return id, nil
}

// ListAll returns all orders, newest first.
func (s *PostgresStore) ListAll(ctx context.Context) ([]Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, item, quantity, price, status, created_at
		 FROM orders
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Item, &o.Quantity, &o.Price, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("order: scan: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order: iterate: %w", err)
	}
	return orders, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

var _ Store = (*PostgresStore)(nil)
