package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modeexpress/shopbot/internal/orders"
)

// fakeOrderStore serves a fixed order set and can simulate failures.
type fakeOrderStore struct {
	orders map[string]*orders.Order
	err    error
	lastID string
}

func (f *fakeOrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

func newOrderRegistry(store *fakeOrderStore) *Registry {
	r := NewRegistry(testLogger())
	RegisterOrderTool(r, store)
	return r
}

func TestCheckOrderStatuses(t *testing.T) {
	store := &fakeOrderStore{orders: map[string]*orders.Order{
		"4521": {ID: "4521", CustomerName: "Karim Benali", Status: orders.StatusShipped,
			ShippedAt: "2025-02-18", ETA: "2025-02-21", Carrier: "Colissimo"},
		"4518": {ID: "4518", CustomerName: "Julie Moreau", Status: orders.StatusDelivered,
			ShippedAt: "2025-02-10", ETA: "2025-02-13", Carrier: "Chronopost"},
		"4530": {ID: "4530", CustomerName: "Thomas Petit", Status: orders.StatusProcessing},
		"4515": {ID: "4515", CustomerName: "Emma Leroy", Status: orders.StatusCancelled},
	}}
	r := newOrderRegistry(store)

	tests := []struct {
		name     string
		argsJSON string
		want     []string
	}{
		{
			name:     "shipped",
			argsJSON: `{"order_id":"4521"}`,
			want:     []string{"Commande #4521 de Karim Benali", "EN TRANSIT", "2025-02-18", "2025-02-21", "Colissimo"},
		},
		{
			name:     "delivered",
			argsJSON: `{"order_id":"4518"}`,
			want:     []string{"LIVRÉE le 2025-02-13", "Chronopost"},
		},
		{
			name:     "processing",
			argsJSON: `{"order_id":"4530"}`,
			want:     []string{"EN PRÉPARATION", "24-48h"},
		},
		{
			name:     "cancelled",
			argsJSON: `{"order_id":"4515"}`,
			want:     []string{"ANNULÉE", "Contactez le support"},
		},
		{
			name:     "not found",
			argsJSON: `{"order_id":"9999"}`,
			want:     []string{"Commande #9999 introuvable", "email de confirmation"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Dispatch(context.Background(), "check_order", tt.argsJSON)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("result %q missing %q", got, want)
				}
			}
		})
	}
}

func TestCheckOrderNormalizesID(t *testing.T) {
	store := &fakeOrderStore{orders: map[string]*orders.Order{
		"4521": {ID: "4521", CustomerName: "Karim Benali", Status: orders.StatusShipped,
			ShippedAt: "2025-02-18", ETA: "2025-02-21", Carrier: "Colissimo"},
	}}
	r := newOrderRegistry(store)

	for _, raw := range []string{"#4521", " 4521 ", "# 4521"} {
		r.Dispatch(context.Background(), "check_order", `{"order_id":"`+raw+`"}`)
		if store.lastID != "4521" {
			t.Errorf("order id %q normalized to %q, want 4521", raw, store.lastID)
		}
	}
}

func TestCheckOrderDatabaseError(t *testing.T) {
	store := &fakeOrderStore{err: errors.New("disque plein")}
	r := newOrderRegistry(store)

	got := r.Dispatch(context.Background(), "check_order", `{"order_id":"4521"}`)
	if !strings.Contains(got, "Erreur base de données") || !strings.Contains(got, "Veuillez réessayer") {
		t.Errorf("result = %q, want a database error message", got)
	}
}

func TestCheckOrderMissingID(t *testing.T) {
	r := newOrderRegistry(&fakeOrderStore{})

	got := r.Dispatch(context.Background(), "check_order", `{}`)
	if !strings.Contains(got, "le paramètre 'order_id' est requis") {
		t.Errorf("result = %q, want a required-parameter message", got)
	}
}
