/*
service.go - Stateful wrapper committing engine output to the repository

PURPOSE:
  The Service owns the live catalog and ledgers. Every mutation runs the pure
  engine against the current snapshot, and on success persists the affected
  slots as whole values before the new state becomes visible. On engine
  failure nothing is written and nothing changes.

CONCURRENCY:
  A single mutex serializes mutations. The original system is single-user and
  single-threaded; the mutex preserves the "no concurrent operations against
  the same snapshot" precondition when the engine is served over HTTP.

RECOVERY:
  On startup the Service loads all three slots (seeding the default catalog
  on first run) and restores the id sequence from the highest persisted
  sequence number, so record ordering survives restarts.
*/
package vyapar

import (
	"context"
	"sync"
	"time"
)

// Service wires the Transaction Engine to a Repository.
type Service struct {
	mu   sync.RWMutex
	repo Repository
	seq  *Sequence
	now  func() time.Time

	products  Catalog
	invoices  []Invoice
	purchases []Purchase
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source. Tests use this to pin record dates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService loads state from the repository, applying defaults on first run.
func NewService(ctx context.Context, repo Repository, opts ...ServiceOption) (*Service, error) {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.products, err = loadSlot(ctx, repo, KeyProducts, DefaultCatalog()); err != nil {
		return nil, err
	}
	if s.invoices, err = loadSlot(ctx, repo, KeyInvoices, []Invoice{}); err != nil {
		return nil, err
	}
	if s.purchases, err = loadSlot(ctx, repo, KeyPurchases, []Purchase{}); err != nil {
		return nil, err
	}

	var last uint64
	for _, inv := range s.invoices {
		if inv.Seq > last {
			last = inv.Seq
		}
	}
	for _, pur := range s.purchases {
		if pur.Seq > last {
			last = pur.Seq
		}
	}
	s.seq = NewSequence(last)
	return s, nil
}

// =============================================================================
// READ SNAPSHOTS
// =============================================================================

// Products returns a copy of the current catalog.
func (s *Service) Products() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.Clone()
}

// Invoices returns a copy of the sales ledger, creation order.
func (s *Service) Invoices() []Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// Purchases returns a copy of the restocking ledger, creation order.
func (s *Service) Purchases() []Purchase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Purchase, len(s.purchases))
	copy(out, s.purchases)
	return out
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateInvoice runs the engine and, on success, persists the invoice ledger
// and catalog together. On failure state and storage are untouched.
func (s *Service) CreateInvoice(ctx context.Context, req InvoiceRequest) (Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, id := s.seq.Next(PrefixInvoice)
	inv, next, err := CreateInvoice(s.products, req, id, seq, s.now())
	if err != nil {
		return Invoice{}, err
	}

	invoices := append([]Invoice{}, s.invoices...)
	invoices = append(invoices, inv)
	if err := saveSlot(ctx, s.repo, KeyInvoices, invoices); err != nil {
		return Invoice{}, err
	}
	if err := saveSlot(ctx, s.repo, KeyProducts, next); err != nil {
		return Invoice{}, err
	}

	s.invoices = invoices
	s.products = next
	return inv, nil
}

// CreatePurchase runs the engine and persists the purchase ledger and catalog.
func (s *Service) CreatePurchase(ctx context.Context, req PurchaseRequest) (Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, id := s.seq.Next(PrefixPurchase)
	pur, next, err := CreatePurchase(s.products, req, id, seq, s.now())
	if err != nil {
		return Purchase{}, err
	}

	purchases := append([]Purchase{}, s.purchases...)
	purchases = append(purchases, pur)
	if err := saveSlot(ctx, s.repo, KeyPurchases, purchases); err != nil {
		return Purchase{}, err
	}
	if err := saveSlot(ctx, s.repo, KeyProducts, next); err != nil {
		return Purchase{}, err
	}

	s.purchases = purchases
	s.products = next
	return pur, nil
}

// AddProduct appends a product with a fresh id and persists the catalog.
func (s *Service) AddProduct(ctx context.Context, in ProductInput) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, id := s.seq.Next(PrefixProduct)
	p, next := AddProduct(s.products, in, id)
	if err := saveSlot(ctx, s.repo, KeyProducts, next); err != nil {
		return Product{}, err
	}
	s.products = next
	return p, nil
}

// UpdateProduct replaces a product wholesale and persists the catalog.
func (s *Service) UpdateProduct(ctx context.Context, updated Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := UpdateProduct(s.products, updated)
	if err != nil {
		return err
	}
	if err := saveSlot(ctx, s.repo, KeyProducts, next); err != nil {
		return err
	}
	s.products = next
	return nil
}

// DeleteProduct removes a product from the catalog and persists it. Ledger
// history keeps its snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := DeleteProduct(s.products, id)
	if err != nil {
		return err
	}
	if err := saveSlot(ctx, s.repo, KeyProducts, next); err != nil {
		return err
	}
	s.products = next
	return nil
}

// =============================================================================
// REPORTING
// =============================================================================

// Dashboard aggregates both ledgers over the window ending now.
func (s *Service) Dashboard(r TimeRange) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	return Aggregate(
		FilterInvoices(s.invoices, r, now),
		FilterPurchases(s.purchases, r, now),
	)
}

// RecentInvoices returns the n newest invoices regardless of window.
func (s *Service) RecentInvoices(n int) []Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RecentInvoices(s.invoices, n)
}
