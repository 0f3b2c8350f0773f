package inventory

import "testing"

func TestQuantity(t *testing.T) {
	inv := New()

	tests := []struct {
		ref     string
		wantQty int
		wantOK  bool
	}{
		{ref: "M", wantQty: 15, wantOK: true},
		{ref: "m", wantQty: 15, wantOK: true},
		{ref: " xl ", wantQty: 0, wantOK: true},
		{ref: "XXL", wantQty: 6, wantOK: true},
		{ref: "ROBE-42", wantQty: 0, wantOK: false},
	}
	for _, tt := range tests {
		qty, ok := inv.Quantity(tt.ref)
		if qty != tt.wantQty || ok != tt.wantOK {
			t.Errorf("Quantity(%q) = %d, %v, want %d, %v", tt.ref, qty, ok, tt.wantQty, tt.wantOK)
		}
	}
}

func TestSet(t *testing.T) {
	inv := New()
	inv.Set("xl", 4)

	qty, ok := inv.Quantity("XL")
	if !ok || qty != 4 {
		t.Errorf("Quantity(XL) after Set = %d, %v", qty, ok)
	}
}

func TestAvailableOrderedAndSkipsEmpty(t *testing.T) {
	inv := New()

	got := inv.Available()
	want := []SizeCount{
		{Ref: "XS", Quantity: 2},
		{Ref: "S", Quantity: 8},
		{Ref: "M", Quantity: 15},
		{Ref: "L", Quantity: 3},
		{Ref: "XXL", Quantity: 6},
	}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMatching(t *testing.T) {
	inv := NewFromMap(map[string]int{
		"XS": 2, "S": 8, "XL": 0, "XXL": 6, "PULL-XL-NOIR": 1,
	})

	got := inv.Matching("XL")
	// Size references first in size order, then other refs alphabetically.
	want := []SizeCount{
		{Ref: "XL", Quantity: 0},
		{Ref: "XXL", Quantity: 6},
		{Ref: "PULL-XL-NOIR", Quantity: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("Matching(XL) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Matching(XL)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if inv.Matching("") != nil {
		t.Errorf("Matching(\"\") should be nil")
	}
	if inv.Matching("INTROUVABLE") != nil {
		t.Errorf("Matching(INTROUVABLE) should be nil")
	}
}
