/*
repository.go - Persistence interface for the catalog and ledgers

PURPOSE:
  Defines the boundary between the engine and storage. Persistence is one
  key-value slot per collection, written as a whole JSON value on every state
  change ("replace on write"). Defaults apply only on first read, when a slot
  has never been written.

SLOTS:
  products   Catalog
  invoices   []Invoice (sales ledger)
  purchases  []Purchase (restocking ledger)

IMPLEMENTATIONS:
  - vyapar/store: in-memory (testing/dev)
  - store/sqlite: SQLite slot table
  - store/redis:  Redis string keys

SEE ALSO:
  - service.go: the only writer
*/
package vyapar

import (
	"context"
	"encoding/json"
	"fmt"
)

// Slot keys. One whole JSON value per key; no partial-field writes.
const (
	KeyProducts  = "products"
	KeyInvoices  = "invoices"
	KeyPurchases = "purchases"
)

// Repository stores whole JSON-encoded values by string key.
type Repository interface {
	// Get returns the stored value for key, with ok=false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
}

// loadSlot reads and decodes one slot, falling back to def when the slot has
// never been written. The default is NOT written back; it only materializes
// on the first state change.
func loadSlot[T any](ctx context.Context, repo Repository, key string, def T) (T, error) {
	raw, ok, err := repo.Get(ctx, key)
	if err != nil {
		return def, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// saveSlot encodes and writes one slot as a whole value.
func saveSlot(ctx context.Context, repo Repository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := repo.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// DefaultCatalog is the seed catalog applied when the products slot has never
// been written.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "p1", Name: "Wireless Mouse", Price: MustParseDecimal("2500"), CostPrice: MustParseDecimal("1800"), Stock: 150, ImageURL: "https://picsum.photos/seed/mouse/200"},
		{ID: "p2", Name: "Mechanical Keyboard", Price: MustParseDecimal("8000"), CostPrice: MustParseDecimal("6000"), Stock: 80, ImageURL: "https://picsum.photos/seed/keyboard/200"},
		{ID: "p3", Name: "4K Monitor", Price: MustParseDecimal("35000"), CostPrice: MustParseDecimal("28000"), Stock: 50, ImageURL: "https://picsum.photos/seed/monitor/200"},
		{ID: "p4", Name: "USB-C Hub", Price: MustParseDecimal("4500"), CostPrice: MustParseDecimal("3000"), Stock: 200, ImageURL: "https://picsum.photos/seed/hub/200"},
	}
}
