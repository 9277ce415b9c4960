/*
engine.go - Transaction Engine

PURPOSE:
  Pure functions that, given the current catalog and a requested action,
  produce the next catalog state plus a new ledger record. This is the only
  place stock math, price snapshotting, and total computation happen, so the
  consistency rules live in one spot.

CRITICAL INVARIANTS:
  1. ATOMICITY: an operation either fully applies or leaves state untouched.
     CreateInvoice validates every referenced product id BEFORE touching
     anything; a single unknown id rejects the whole request.
  2. SNAPSHOTS: invoice items copy price/costPrice and purchases copy the
     product name at creation time. Later catalog edits never reach history.
  3. STOCK MATH: stock after N invoices and M purchases equals
     initial - sum(invoice quantities) + sum(purchase quantities).
  4. ORDERING: ids and sequence numbers are strictly creation-ordered.

PERMISSIVENESS:
  The engine performs no range validation. Negative prices or over-sell
  (stock going negative) are accepted; stricter checks belong to the caller.

PURITY:
  Inputs are never mutated. Callers pass a catalog snapshot and receive a new
  one; the Service (service.go) owns committing the result.

SEE ALSO:
  - types.go: record definitions
  - service.go: stateful wrapper that persists engine output
*/
package vyapar

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUESTS
// =============================================================================

// InvoiceRequest asks for a new invoice. Items carry only product ids and
// quantities; prices are resolved by the engine from the catalog snapshot.
type InvoiceRequest struct {
	CustomerName string
	Items        []RequestedItem
	Status       InvoiceStatus
}

// RequestedItem is one requested invoice line before price resolution.
type RequestedItem struct {
	ProductID string
	Quantity  int
}

// PurchaseRequest asks for a new stock purchase.
type PurchaseRequest struct {
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
}

// ProductInput carries the caller-settable fields of a new product.
type ProductInput struct {
	Name      string
	Price     decimal.Decimal
	CostPrice decimal.Decimal
	Stock     int
	ImageURL  string
}

// =============================================================================
// INVOICE CREATION
// =============================================================================

// CreateInvoice resolves the requested items against the catalog, snapshots
// prices, computes the total, and decrements stock for every line. The id and
// seq come from a Sequence; now supplies the record date.
//
// If any requested product id is absent, a ProductNotFoundError is returned
// and both returned values are zero: no invoice, no partial stock mutation.
// An empty item list is permitted and produces a zero-total invoice.
func CreateInvoice(catalog Catalog, req InvoiceRequest, id string, seq uint64, now time.Time) (Invoice, Catalog, error) {
	// Reference check first: all ids must resolve before any state changes.
	for _, item := range req.Items {
		if catalog.Find(item.ProductID) == nil {
			return Invoice{}, nil, &ProductNotFoundError{ProductID: item.ProductID, Op: "invoice"}
		}
	}

	next := catalog.Clone()
	items := make([]InvoiceItem, 0, len(req.Items))
	total := decimal.Zero

	for _, item := range req.Items {
		p := next.Find(item.ProductID)
		line := InvoiceItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			Price:           p.Price,     // snapshot, taken once
			CostPriceAtSale: p.CostPrice, // snapshot, taken once
		}
		items = append(items, line)
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		p.Stock -= item.Quantity
	}

	inv := Invoice{
		ID:           id,
		Seq:          seq,
		CustomerName: req.CustomerName,
		Items:        items,
		Total:        total,
		Date:         ISODate(now),
		Status:       req.Status,
		CreatedAt:    now,
	}
	return inv, next, nil
}

// =============================================================================
// PURCHASE CREATION
// =============================================================================

// CreatePurchase records a stock purchase and increments the product's stock
// atomically with the ledger record. The product name is snapshotted.
func CreatePurchase(catalog Catalog, req PurchaseRequest, id string, seq uint64, now time.Time) (Purchase, Catalog, error) {
	if catalog.Find(req.ProductID) == nil {
		return Purchase{}, nil, &ProductNotFoundError{ProductID: req.ProductID, Op: "purchase"}
	}

	next := catalog.Clone()
	p := next.Find(req.ProductID)
	p.Stock += req.Quantity

	pur := Purchase{
		ID:          id,
		Seq:         seq,
		ProductID:   req.ProductID,
		ProductName: p.Name,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		TotalCost:   req.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Date:        ISODate(now),
		CreatedAt:   now,
	}
	return pur, next, nil
}

// =============================================================================
// CATALOG MAINTENANCE
// =============================================================================

// AddProduct assigns the id and appends to the catalog. Duplicate names are
// permitted and not deduplicated.
func AddProduct(catalog Catalog, in ProductInput, id string) (Product, Catalog) {
	p := Product{
		ID:        id,
		Name:      in.Name,
		Price:     in.Price,
		CostPrice: in.CostPrice,
		Stock:     in.Stock,
		ImageURL:  in.ImageURL,
	}
	next := catalog.Clone()
	return p, append(next, p)
}

// UpdateProduct replaces the product with matching id wholesale. The id is
// the lookup key and therefore immutable; an unknown id is rejected. Ledger
// history is untouched because its fields are snapshots.
func UpdateProduct(catalog Catalog, updated Product) (Catalog, error) {
	if catalog.Find(updated.ID) == nil {
		return nil, &ProductNotFoundError{ProductID: updated.ID, Op: "update"}
	}
	next := catalog.Clone()
	*next.Find(updated.ID) = updated
	return next, nil
}

// DeleteProduct removes the product from the catalog. Historical invoices and
// purchases keep their snapshotted name and prices, so deletion cannot
// corrupt ledger history. Deletion is not blocked while stock remains.
func DeleteProduct(catalog Catalog, id string) (Catalog, error) {
	idx := -1
	for i := range catalog {
		if catalog[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &ProductNotFoundError{ProductID: id, Op: "delete"}
	}
	next := make(Catalog, 0, len(catalog)-1)
	next = append(next, catalog[:idx]...)
	next = append(next, catalog[idx+1:]...)
	return next, nil
}
