package orders

import (
	"context"
	"fmt"
)

// demoOrders are the demo rows installed by Seed so the bot can be
// exercised immediately after setup. #4521 is the one used throughout
// the documentation and tests.
var demoOrders = []Order{
	{ID: "4521", CustomerName: "Karim Benali", CustomerEmail: "karim@example.com", Status: StatusShipped, ShippedAt: "2025-02-18", ETA: "2025-02-21", Carrier: "Colissimo", TotalAmount: 89.99},
	{ID: "4520", CustomerName: "Sarah Martin", CustomerEmail: "sarah@example.com", Status: StatusDelivered, ShippedAt: "2025-02-15", ETA: "2025-02-18", Carrier: "DHL", TotalAmount: 45.50},
	{ID: "4519", CustomerName: "Lucas Dupont", CustomerEmail: "lucas@example.com", Status: StatusProcessing, TotalAmount: 120.00},
	{ID: "4518", CustomerName: "Emma Lefebvre", CustomerEmail: "emma@example.com", Status: StatusShipped, ShippedAt: "2025-02-17", ETA: "2025-02-20", Carrier: "UPS", TotalAmount: 67.80},
	{ID: "4517", CustomerName: "Thomas Bernard", CustomerEmail: "thomas@example.com", Status: StatusCancelled, TotalAmount: 34.99},
	{ID: "4516", CustomerName: "Julie Moreau", CustomerEmail: "julie@example.com", Status: StatusDelivered, ShippedAt: "2025-02-10", ETA: "2025-02-13", Carrier: "Colissimo", TotalAmount: 210.50},
	{ID: "4515", CustomerName: "Nicolas Petit", CustomerEmail: "nicolas@example.com", Status: StatusShipped, ShippedAt: "2025-02-19", ETA: "2025-02-22", Carrier: "DHL", TotalAmount: 78.00},
	{ID: "1000", CustomerName: "Test Client", CustomerEmail: "test@example.com", Status: StatusProcessing, TotalAmount: 50.00},
}

// Seed inserts the demo orders, skipping ids that already exist.
// Returns the total number of orders in the store afterward.
func (s *Store) Seed(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO orders
			(id, customer_name, customer_email, status, shipped_at, eta, carrier, total_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, o := range demoOrders {
		if _, err := stmt.ExecContext(ctx, o.ID, o.CustomerName, o.CustomerEmail, o.Status,
			nullable(o.ShippedAt), nullable(o.ETA), nullable(o.Carrier), o.TotalAmount); err != nil {
			return 0, fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return s.Count(ctx)
}

// nullable maps "" to NULL so unshipped orders match the schema the
// rest of the formatting code expects.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
