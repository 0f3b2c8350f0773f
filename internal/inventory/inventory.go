// Package inventory provides the product stock lookup used by the
// check_stock tool. The backing data is an in-process table seeded with
// the demo catalog; a production deployment would swap this for the
// warehouse inventory API.
package inventory

import (
	"sort"
	"strings"
	"sync"
)

// sizeOrder fixes the display order of size references, smallest first.
var sizeOrder = []string{"XS", "S", "M", "L", "XL", "XXL"}

// SizeCount pairs a product reference with its available quantity.
type SizeCount struct {
	Ref      string
	Quantity int
}

// Inventory is a thread-safe stock table keyed by product reference.
type Inventory struct {
	mu    sync.RWMutex
	stock map[string]int
}

// New returns an inventory seeded with the demo stock levels.
func New() *Inventory {
	return NewFromMap(map[string]int{
		"XS":  2,
		"S":   8,
		"M":   15,
		"L":   3,
		"XL":  0,
		"XXL": 6,
	})
}

// NewFromMap returns an inventory backed by a copy of m.
func NewFromMap(m map[string]int) *Inventory {
	stock := make(map[string]int, len(m))
	for k, v := range m {
		stock[strings.ToUpper(k)] = v
	}
	return &Inventory{stock: stock}
}

// Quantity returns the available quantity for an exact reference.
// The second return value is false when the reference is unknown.
func (i *Inventory) Quantity(ref string) (int, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	qty, ok := i.stock[normalize(ref)]
	return qty, ok
}

// Set updates the quantity for a reference, creating it if needed.
func (i *Inventory) Set(ref string, qty int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stock[normalize(ref)] = qty
}

// Available returns all references with stock remaining, in size order.
func (i *Inventory) Available() []SizeCount {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var out []SizeCount
	for _, ref := range i.ordered() {
		if qty := i.stock[ref]; qty > 0 {
			out = append(out, SizeCount{Ref: ref, Quantity: qty})
		}
	}
	return out
}

// Matching returns references containing ref as a substring, in size
// order. Used for partial product-reference lookups.
func (i *Inventory) Matching(ref string) []SizeCount {
	needle := normalize(ref)
	if needle == "" {
		return nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	var out []SizeCount
	for _, candidate := range i.ordered() {
		if strings.Contains(candidate, needle) {
			out = append(out, SizeCount{Ref: candidate, Quantity: i.stock[candidate]})
		}
	}
	return out
}

// ordered returns all references sorted by size order, with unknown
// references appended alphabetically. Callers must hold the lock.
func (i *Inventory) ordered() []string {
	rank := make(map[string]int, len(sizeOrder))
	for idx, s := range sizeOrder {
		rank[s] = idx
	}

	refs := make([]string, 0, len(i.stock))
	for ref := range i.stock {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(a, b int) bool {
		ra, aok := rank[refs[a]]
		rb, bok := rank[refs[b]]
		switch {
		case aok && bok:
			return ra < rb
		case aok:
			return true
		case bok:
			return false
		default:
			return refs[a] < refs[b]
		}
	})
	return refs
}

func normalize(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}
