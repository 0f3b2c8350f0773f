// Package orders provides the customer order lookup store.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure-Go SQLite driver for database/sql
)

// ErrNotFound is returned by Get when no order matches the id.
var ErrNotFound = errors.New("order not found")

// Order statuses as stored in the database.
const (
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Order is one customer order.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Status        string
	ShippedAt     string // YYYY-MM-DD, empty until shipped
	ETA           string // YYYY-MM-DD, empty until shipped
	Carrier       string // empty until shipped
	TotalAmount   float64
}

// Store is a SQLite-backed order store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the order database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id             TEXT PRIMARY KEY,
		customer_name  TEXT NOT NULL,
		customer_email TEXT,
		status         TEXT NOT NULL,
		shipped_at     TEXT,
		eta            TEXT,
		carrier        TEXT,
		total_amount   REAL,
		created_at     TEXT DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the order with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, customer_name, customer_email, status, shipped_at, eta, carrier, total_amount
		 FROM orders WHERE id = ?`, id)

	var o Order
	var email, shippedAt, eta, carrier sql.NullString
	var total sql.NullFloat64
	err := row.Scan(&o.ID, &o.CustomerName, &email, &o.Status, &shippedAt, &eta, &carrier, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order %s: %w", id, err)
	}

	o.CustomerEmail = email.String
	o.ShippedAt = shippedAt.String
	o.ETA = eta.String
	o.Carrier = carrier.String
	o.TotalAmount = total.Float64
	return &o, nil
}

// Count returns the number of orders in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
