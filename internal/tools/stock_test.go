package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modeexpress/shopbot/internal/inventory"
)

func newStockRegistry() *Registry {
	r := NewRegistry(testLogger())
	RegisterStockTool(r, inventory.New())
	return r
}

func TestCheckStock(t *testing.T) {
	r := newStockRegistry()

	tests := []struct {
		name     string
		argsJSON string
		want     []string
	}{
		{
			name:     "plenty in stock",
			argsJSON: `{"product_ref":"M"}`,
			want:     []string{"Taille M : 15 unités disponibles"},
		},
		{
			name:     "low stock warning",
			argsJSON: `{"product_ref":"L"}`,
			want:     []string{"Taille L : 3 unité(s)", "Stock limité"},
		},
		{
			name:     "out of stock lists alternatives",
			argsJSON: `{"product_ref":"XL"}`,
			want:     []string{"Taille XL : RUPTURE DE STOCK", "XS (2)", "S (8)", "M (15)", "L (3)", "XXL (6)", "alerte de réapprovisionnement"},
		},
		{
			name:     "lowercase normalized",
			argsJSON: `{"product_ref":"xxl"}`,
			want:     []string{"Taille XXL : 6 unités"},
		},
		{
			name:     "unknown reference",
			argsJSON: `{"product_ref":"ROBE-ETE-42"}`,
			want:     []string{"Référence 'ROBE-ETE-42' non trouvée", "moteur de recherche"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Dispatch(context.Background(), "check_stock", tt.argsJSON)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("result %q missing %q", got, want)
				}
			}
		})
	}
}

func TestCheckStockAlternativesOrdered(t *testing.T) {
	r := newStockRegistry()

	got := r.Dispatch(context.Background(), "check_stock", `{"product_ref":"XL"}`)
	// Alternatives follow size order, smallest first.
	wantOrder := []string{"XS (2)", "S (8)", "M (15)", "L (3)", "XXL (6)"}
	last := -1
	for _, alt := range wantOrder {
		idx := strings.Index(got, alt)
		if idx < 0 {
			t.Fatalf("result %q missing alternative %q", got, alt)
		}
		if idx < last {
			t.Errorf("alternative %q out of order in %q", alt, got)
		}
		last = idx
	}
}

func TestCheckStockMissingRef(t *testing.T) {
	r := newStockRegistry()

	got := r.Dispatch(context.Background(), "check_stock", `{}`)
	if !strings.Contains(got, "le paramètre 'product_ref' est requis") {
		t.Errorf("result = %q, want a required-parameter message", got)
	}
}
