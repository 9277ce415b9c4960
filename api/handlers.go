/*
handlers.go - HTTP handlers for the inventory/invoicing engine

PURPOSE:
  Exposes the engine via REST. Handlers parse and validate input, delegate to
  the Service (the only writer of committed state), and serialize responses.

VALIDATION SPLIT:
  Malformed numerics, empty required fields, and bad enum values are rejected
  here with 400, before reaching the engine. The engine itself only enforces
  referential integrity (409) and stays permissive about ranges, matching the
  reference behavior.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: validation errors, invalid input
  - 404: unknown product id on update/delete
  - 409: invoice/purchase referencing a missing product
  - 410: assist result for a closed draft (discarded)
  - 503: AI collaborator unavailable
  - 500: internal errors

SEE ALSO:
  - dto.go: request/response structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vyapar/inventory-engine/assist"
	"github.com/vyapar/inventory-engine/vyapar"
)

// recentInvoiceCount is the size of the quick-glance table on the dashboard.
const recentInvoiceCount = 5

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service   *vyapar.Service
	Drafts    *vyapar.DraftBook
	Parser    assist.CommandParser
	Matcher   assist.ImageMatcher
	Dictation assist.Dictation
	Logger    *slog.Logger
}

// NewHandler creates a handler. Parser and Matcher may be the same client.
func NewHandler(svc *vyapar.Service, parser assist.CommandParser, matcher assist.ImageMatcher, dictation assist.Dictation, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Service:   svc,
		Drafts:    vyapar.NewDraftBook(),
		Parser:    parser,
		Matcher:   matcher,
		Dictation: dictation,
		Logger:    logger,
	}
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns the current catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	catalog := h.Service.Products()
	dtos := make([]ProductDTO, len(catalog))
	for i, p := range catalog {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProduct adds a product to the catalog.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	in, errMsg := productInput(req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg, "validation")
		return
	}

	p, err := h.Service.AddProduct(r.Context(), in)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(p))
}

// UpdateProduct replaces a product wholesale. The id in the URL is
// authoritative; the body cannot change it.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	in, errMsg := productInput(req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg, "validation")
		return
	}

	updated := vyapar.Product{
		ID:        id,
		Name:      in.Name,
		Price:     in.Price,
		CostPrice: in.CostPrice,
		Stock:     in.Stock,
		ImageURL:  in.ImageURL,
	}
	if err := h.Service.UpdateProduct(r.Context(), updated); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(updated))
}

// DeleteProduct removes a product. Ledger history keeps its snapshots.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// productInput validates a ProductRequest. Empty name and malformed numerics
// are caller errors; range checks deliberately stay out of the engine.
func productInput(req ProductRequest) (vyapar.ProductInput, string) {
	if strings.TrimSpace(req.Name) == "" {
		return vyapar.ProductInput{}, "name is required"
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return vyapar.ProductInput{}, "price must be numeric"
	}
	cost, err := decimal.NewFromString(req.CostPrice)
	if err != nil {
		return vyapar.ProductInput{}, "costPrice must be numeric"
	}
	return vyapar.ProductInput{
		Name:      req.Name,
		Price:     price,
		CostPrice: cost,
		Stock:     req.Stock,
		ImageURL:  req.ImageURL,
	}, ""
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns the sales ledger, most recent first.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices := h.Service.Invoices()
	writeJSON(w, http.StatusOK, toInvoiceDTOs(vyapar.RecentInvoices(invoices, len(invoices))))
}

// CreateInvoice creates an invoice through the engine.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		writeError(w, http.StatusBadRequest, "customerName is required", "validation")
		return
	}
	status, ok := invoiceStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "status must be Paid, Due or Overdue", "validation")
		return
	}

	items := make([]vyapar.RequestedItem, len(req.Items))
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "quantity must be positive", "validation")
			return
		}
		items[i] = vyapar.RequestedItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	inv, err := h.Service.CreateInvoice(r.Context(), vyapar.InvoiceRequest{
		CustomerName: req.CustomerName,
		Items:        items,
		Status:       status,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

func invoiceStatus(s string) (vyapar.InvoiceStatus, bool) {
	switch vyapar.InvoiceStatus(s) {
	case vyapar.StatusPaid, vyapar.StatusDue, vyapar.StatusOverdue:
		return vyapar.InvoiceStatus(s), true
	default:
		return "", false
	}
}

// =============================================================================
// PURCHASE HANDLERS
// =============================================================================

// ListPurchases returns the restocking ledger, most recent first.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases := h.Service.Purchases()
	dtos := make([]PurchaseDTO, 0, len(purchases))
	for i := len(purchases) - 1; i >= 0; i-- {
		dtos = append(dtos, toPurchaseDTO(purchases[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePurchase records a stock purchase through the engine.
func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive", "validation")
		return
	}
	unitCost, err := decimal.NewFromString(req.UnitCost)
	if err != nil || unitCost.IsNegative() {
		writeError(w, http.StatusBadRequest, "unitCost must be a non-negative number", "validation")
		return
	}

	pur, err := h.Service.CreatePurchase(r.Context(), vyapar.PurchaseRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitCost:  unitCost,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseDTO(pur))
}

// =============================================================================
// DASHBOARD
// =============================================================================

// GetDashboard aggregates both ledgers over the requested window and attaches
// the all-time recent-invoice table.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	rng := vyapar.ParseTimeRange(r.URL.Query().Get("range"))
	s := h.Service.Dashboard(rng)

	writeJSON(w, http.StatusOK, DashboardDTO{
		Range:                      string(rng),
		TotalSales:                 s.TotalSales.String(),
		TotalSalesFormatted:        vyapar.FormatINR(s.TotalSales),
		TotalPurchaseCost:          s.TotalPurchaseCost.String(),
		TotalPurchaseCostFormatted: vyapar.FormatINR(s.TotalPurchaseCost),
		CostOfGoodsSold:            s.CostOfGoodsSold.String(),
		GrossProfit:                s.GrossProfit.String(),
		GrossProfitFormatted:       vyapar.FormatINR(s.GrossProfit),
		RecentInvoices:             toInvoiceDTOs(h.Service.RecentInvoices(recentInvoiceCount)),
	})
}

// =============================================================================
// DRAFT + ASSIST HANDLERS
// =============================================================================

// OpenDraft starts an empty invoice draft.
func (h *Handler) OpenDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, toDraftDTO(h.Drafts.Open()))
}

// GetDraft returns an open draft.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.Drafts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusGone, "draft closed", "draft_closed")
		return
	}
	writeJSON(w, http.StatusOK, toDraftDTO(d))
}

// CloseDraft discards a draft. Any assist result still in flight for it will
// be dropped when it lands.
func (h *Handler) CloseDraft(w http.ResponseWriter, r *http.Request) {
	h.Drafts.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ParseCommand runs the AI command parser and applies the result to the
// draft. Parsed names without an exact catalog match are dropped before the
// draft sees them. If the draft was closed while the request was in flight,
// the result is discarded.
func (h *Handler) ParseCommand(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "id")

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		writeError(w, http.StatusBadRequest, "command is required", "validation")
		return
	}

	catalog := h.Service.Products()
	parsed, err := h.Parser.ParseInvoiceCommand(r.Context(), req.Command, catalog)
	if err != nil {
		h.writeAssistError(w, err)
		return
	}

	d, err := h.Drafts.Apply(draftID, parsed.CustomerName, assist.MatchItems(parsed, catalog))
	if err != nil {
		// Late result for a closed form: discard, report Gone.
		writeError(w, http.StatusGone, "draft closed", "draft_closed")
		return
	}
	writeJSON(w, http.StatusOK, toDraftDTO(d))
}

// MatchImage runs the AI image matcher and appends the matched product to the
// draft with quantity 1.
func (h *Handler) MatchImage(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "id")

	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Data == "" {
		writeError(w, http.StatusBadRequest, "image data is required", "validation")
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image data must be base64", "validation")
		return
	}

	catalog := h.Service.Products()
	p, err := h.Matcher.FindProductByImage(r.Context(), image, req.MimeType, catalog)
	if err != nil {
		h.writeAssistError(w, err)
		return
	}

	d, err := h.Drafts.Apply(draftID, "", []vyapar.RequestedItem{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		writeError(w, http.StatusGone, "draft closed", "draft_closed")
		return
	}
	writeJSON(w, http.StatusOK, toDraftDTO(d))
}

// AssistStatus reports which collaborators can serve, so the UI hides dead
// affordances instead of surfacing errors.
func (h *Handler) AssistStatus(w http.ResponseWriter, r *http.Request) {
	available := false
	if c, ok := h.Parser.(interface{ Available() bool }); ok {
		available = c.Available()
	}
	writeJSON(w, http.StatusOK, AssistStatusDTO{
		Parser:    available,
		Matcher:   available,
		Dictation: h.Dictation.Supported(),
	})
}

// =============================================================================
// ERROR WRITING
// =============================================================================

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var notFound *vyapar.ProductNotFoundError
	if errors.As(err, &notFound) {
		status := http.StatusConflict
		// Maintenance ops on a missing product are a 404, not a ledger conflict.
		if notFound.Op == "update" || notFound.Op == "delete" {
			status = http.StatusNotFound
		}
		writeError(w, status, notFound.Error(), "product_not_found")
		return
	}
	h.Logger.Error("engine operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error", "internal")
}

func (h *Handler) writeAssistError(w http.ResponseWriter, err error) {
	if errors.Is(err, assist.ErrNoMatch) {
		writeError(w, http.StatusNotFound, "no matching product", "no_match")
		return
	}
	// Soft failure: the UI shows "AI search failed, try again" and the manual
	// flow stays open.
	h.Logger.Warn("assist unavailable", "error", err)
	writeError(w, http.StatusServiceUnavailable, "AI assist unavailable, try again", "assist_unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
