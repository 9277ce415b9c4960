/*
Package vyapar provides the core inventory and invoicing engine.

PURPOSE:
  This package contains the domain types and algorithms for a small-business
  catalog: products, sales invoices, and stock purchases. The Transaction
  Engine keeps all three mutually consistent (stock math, price snapshotting,
  total computation) while the reporting functions fold the ledgers into
  time-windowed dashboard figures.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: A catalog entry owning price, cost price, and stock
  - InvoiceItem: A line on an invoice carrying price SNAPSHOTS
  - Invoice / Purchase: Immutable ledger records
  - Catalog: The current ordered collection of products

DESIGN PRINCIPLES:
  1. Snapshots: ledger records copy price/cost/name at creation time and
     never track later catalog edits
  2. Precision: decimal.Decimal for all money, never float64
  3. Explicit ordering: every ledger record carries a strictly increasing
     sequence number, so display order never depends on container position

SEE ALSO:
  - engine.go: Transaction Engine operations
  - report.go: Time-windowed aggregation and recency ordering
*/
package vyapar

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT - Catalog entry
// =============================================================================

// Product is a catalog entry. ID is unique within the catalog and immutable
// once assigned. Stock is mutated as a side effect of invoice and purchase
// transactions; the other fields only change through UpdateProduct.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`     // selling price
	CostPrice decimal.Decimal `json:"costPrice"` // cost basis for profit
	Stock     int             `json:"stock"`
	ImageURL  string          `json:"imageUrl"`
}

// Catalog is the current ordered collection of products.
type Catalog []Product

// Find returns the product with the given id, or nil.
func (c Catalog) Find(id string) *Product {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// FindByName returns the product whose name matches exactly (case-sensitive),
// or nil. Duplicate names are permitted; the first match wins.
func (c Catalog) FindByName(name string) *Product {
	for i := range c {
		if c[i].Name == name {
			return &c[i]
		}
	}
	return nil
}

// Clone returns an independent copy of the catalog. Engine operations clone
// before mutating so callers keep their snapshot untouched.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

// =============================================================================
// INVOICE - Sales ledger record
// =============================================================================

// InvoiceItem is one line of an invoice. Price and CostPriceAtSale are
// snapshots of the product's fields at sale time, not live references; once
// written they never change even if the product is later edited.
type InvoiceItem struct {
	ProductID       string          `json:"productId"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	CostPriceAtSale decimal.Decimal `json:"costPriceAtSale"`
}

// InvoiceStatus is the payment state recorded at creation.
type InvoiceStatus string

const (
	StatusPaid    InvoiceStatus = "Paid"
	StatusDue     InvoiceStatus = "Due"
	StatusOverdue InvoiceStatus = "Overdue"
)

// Invoice is an immutable sales record. Total is computed once at creation
// (sum of price x quantity over items) and stored, never recomputed.
type Invoice struct {
	ID           string          `json:"id"`
	Seq          uint64          `json:"seq"`
	CustomerName string          `json:"customerName"`
	Items        []InvoiceItem   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Date         string          `json:"date"` // ISO YYYY-MM-DD, display only
	Status       InvoiceStatus   `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// CostOfGoods returns the snapshotted cost basis of this invoice's items.
func (inv Invoice) CostOfGoods() decimal.Decimal {
	cost := decimal.Zero
	for _, it := range inv.Items {
		cost = cost.Add(it.CostPriceAtSale.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return cost
}

// =============================================================================
// PURCHASE - Restocking ledger record
// =============================================================================

// Purchase is an immutable restocking record. ProductName is a snapshot of
// the product's name at purchase time.
type Purchase struct {
	ID          string          `json:"id"`
	Seq         uint64          `json:"seq"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// =============================================================================
// HELPERS
// =============================================================================

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ISODate formats t as the YYYY-MM-DD display date stored on ledger records.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
