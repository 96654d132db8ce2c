// Package prices holds the per-workspace price table and the tabular
// price import path. Prices weight the catalog's valuation; a resource
// with no price simply values at zero.
package prices

import (
	"github.com/echomine/planetctl/internal/storage"
)

// Table is the in-memory price snapshot backed by a PriceStore. It is
// mutated wholesale (ReplaceAll) or per-key (Set/Update); it never
// merges stale persisted values over live ones.
type Table struct {
	store  storage.PriceStore
	prices map[string]float64
}

func NewTable(store storage.PriceStore) *Table {
	return &Table{store: store, prices: make(map[string]float64)}
}

// Load replaces the in-memory snapshot with the persisted one.
func (t *Table) Load() {
	t.prices = t.store.LoadPrices()
	if t.prices == nil {
		t.prices = make(map[string]float64)
	}
}

// Save persists the current snapshot.
func (t *Table) Save() error {
	return t.store.SavePrices(t.prices)
}

// Get returns the price for a resource, zero when absent.
func (t *Table) Get(name string) float64 {
	return t.prices[name]
}

// All returns a copy of the snapshot, safe to hand to valuation while
// the table keeps being edited.
func (t *Table) All() map[string]float64 {
	out := make(map[string]float64, len(t.prices))
	for name, price := range t.prices {
		out[name] = price
	}
	return out
}

// Set updates one resource price.
func (t *Table) Set(name string, price float64) {
	t.prices[name] = price
}

// Update overwrites only the supplied keys.
func (t *Table) Update(update map[string]float64) {
	for name, price := range update {
		t.prices[name] = price
	}
}

// ReplaceAll swaps the whole snapshot.
func (t *Table) ReplaceAll(prices map[string]float64) {
	t.prices = make(map[string]float64, len(prices))
	for name, price := range prices {
		t.prices[name] = price
	}
}

// Len reports the number of priced resources.
func (t *Table) Len() int {
	return len(t.prices)
}
