package vyapar_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar/inventory-engine/vyapar"
	"github.com/vyapar/inventory-engine/vyapar/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T, repo vyapar.Repository) *vyapar.Service {
	t.Helper()
	svc, err := vyapar.NewService(context.Background(), repo,
		vyapar.WithClock(func() time.Time { return testTime }))
	require.NoError(t, err)
	return svc
}

// failingRepo rejects writes to one key, to prove nothing is committed when
// persistence fails mid-operation.
type failingRepo struct {
	*store.Memory
	failKey string
}

func (f *failingRepo) Put(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, key, value)
}

// =============================================================================
// STARTUP / DEFAULTS
// =============================================================================

func TestNewService_SeedsDefaultCatalogOnFirstRun(t *testing.T) {
	repo := store.NewMemory()
	svc := newTestService(t, repo)

	catalog := svc.Products()
	require.Len(t, catalog, 4)
	assert.Equal(t, "Wireless Mouse", catalog[0].Name)
	assert.Empty(t, svc.Invoices())
	assert.Empty(t, svc.Purchases())

	// The default is applied on read, not written back: the slot stays
	// absent until the first state change.
	assert.Empty(t, repo.Keys())
}

func TestNewService_ReloadsPersistedStateAndSequence(t *testing.T) {
	repo := store.NewMemory()
	ctx := context.Background()

	svc := newTestService(t, repo)
	first, err := svc.CreateInvoice(ctx, vyapar.InvoiceRequest{
		CustomerName: "John",
		Items:        []vyapar.RequestedItem{{ProductID: "p1", Quantity: 2}},
		Status:       vyapar.StatusDue,
	})
	require.NoError(t, err)

	// Restart against the same repository.
	reloaded := newTestService(t, repo)
	invoices := reloaded.Invoices()
	require.Len(t, invoices, 1)
	assert.Equal(t, first.ID, invoices[0].ID)
	assert.Equal(t, 148, reloaded.Products().Find("p1").Stock)

	// New ids continue after the persisted sequence.
	second, err := reloaded.CreateInvoice(ctx, vyapar.InvoiceRequest{
		CustomerName: "Asha",
		Items:        []vyapar.RequestedItem{{ProductID: "p1", Quantity: 1}},
		Status:       vyapar.StatusPaid,
	})
	require.NoError(t, err)
	assert.Greater(t, second.Seq, first.Seq)
}

// =============================================================================
// COMMIT SEMANTICS
// =============================================================================

func TestCreateInvoice_PersistsWholeSlots(t *testing.T) {
	repo := store.NewMemory()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, vyapar.InvoiceRequest{
		CustomerName: "John",
		Items:        []vyapar.RequestedItem{{ProductID: "p1", Quantity: 2}},
		Status:       vyapar.StatusDue,
	})
	require.NoError(t, err)

	raw, ok, err := repo.Get(ctx, vyapar.KeyProducts)
	require.NoError(t, err)
	require.True(t, ok)
	var catalog vyapar.Catalog
	require.NoError(t, json.Unmarshal(raw, &catalog))
	assert.Equal(t, 148, catalog.Find("p1").Stock)

	raw, ok, err = repo.Get(ctx, vyapar.KeyInvoices)
	require.NoError(t, err)
	require.True(t, ok)
	var invoices []vyapar.Invoice
	require.NoError(t, json.Unmarshal(raw, &invoices))
	require.Len(t, invoices, 1)
	assert.True(t, invoices[0].Total.Equal(dec("5000")))
}

func TestCreateInvoice_EngineFailure_NothingPersisted(t *testing.T) {
	repo := store.NewMemory()
	svc := newTestService(t, repo)

	_, err := svc.CreateInvoice(context.Background(), vyapar.InvoiceRequest{
		CustomerName: "Eve",
		Items:        []vyapar.RequestedItem{{ProductID: "ghost", Quantity: 1}},
		Status:       vyapar.StatusDue,
	})
	require.Error(t, err)

	assert.Empty(t, repo.Keys(), "no slot may be written on failure")
	assert.Equal(t, 150, svc.Products().Find("p1").Stock)
	assert.Empty(t, svc.Invoices())
}

func TestCreateInvoice_StoreFailure_StateUnchanged(t *testing.T) {
	repo := &failingRepo{Memory: store.NewMemory(), failKey: vyapar.KeyInvoices}
	svc := newTestService(t, repo)

	_, err := svc.CreateInvoice(context.Background(), vyapar.InvoiceRequest{
		CustomerName: "John",
		Items:        []vyapar.RequestedItem{{ProductID: "p1", Quantity: 2}},
		Status:       vyapar.StatusDue,
	})
	require.Error(t, err)

	// In-memory state must not advance past a failed persist.
	assert.Equal(t, 150, svc.Products().Find("p1").Stock)
	assert.Empty(t, svc.Invoices())
}

func TestCreatePurchase_EndToEnd(t *testing.T) {
	repo := store.NewMemory()
	svc := newTestService(t, repo)
	ctx := context.Background()

	// Sell down to 148, then restock 10 at 1900.
	_, err := svc.CreateInvoice(ctx, vyapar.InvoiceRequest{
		CustomerName: "John",
		Items:        []vyapar.RequestedItem{{ProductID: "p1", Quantity: 2}},
		Status:       vyapar.StatusDue,
	})
	require.NoError(t, err)

	pur, err := svc.CreatePurchase(ctx, vyapar.PurchaseRequest{
		ProductID: "p1", Quantity: 10, UnitCost: dec("1900"),
	})
	require.NoError(t, err)
	assert.True(t, pur.TotalCost.Equal(dec("19000")))
	assert.Equal(t, 158, svc.Products().Find("p1").Stock)
}

func TestProductLifecycle_AddUpdateDelete(t *testing.T) {
	repo := store.NewMemory()
	svc := newTestService(t, repo)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, vyapar.ProductInput{
		Name: "Webcam", Price: dec("3200"), CostPrice: dec("2100"), Stock: 30,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	require.Len(t, svc.Products(), 5)

	p.Price = dec("3000")
	require.NoError(t, svc.UpdateProduct(ctx, p))
	assert.True(t, svc.Products().Find(p.ID).Price.Equal(dec("3000")))

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Nil(t, svc.Products().Find(p.ID))

	err = svc.DeleteProduct(ctx, p.ID)
	assert.True(t, errors.Is(err, vyapar.ErrProductNotFound))
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard_EndToEndScenario(t *testing.T) {
	repo := store.NewMemory()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, vyapar.InvoiceRequest{
		CustomerName: "John",
		Items:        []vyapar.RequestedItem{{ProductID: "p1", Quantity: 2}},
		Status:       vyapar.StatusDue,
	})
	require.NoError(t, err)
	_, err = svc.CreatePurchase(ctx, vyapar.PurchaseRequest{
		ProductID: "p1", Quantity: 10, UnitCost: dec("1900"),
	})
	require.NoError(t, err)

	s := svc.Dashboard(vyapar.RangeAllTime)
	assert.True(t, s.TotalSales.Equal(dec("5000")))
	assert.True(t, s.TotalPurchaseCost.Equal(dec("19000")))
	assert.True(t, s.CostOfGoodsSold.Equal(dec("3600")))
	assert.True(t, s.GrossProfit.Equal(dec("1400")))

	recent := svc.RecentInvoices(5)
	require.Len(t, recent, 1)
	assert.Equal(t, "John", recent[0].CustomerName)
}
