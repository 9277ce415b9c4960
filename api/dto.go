/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract. Monetary fields travel as decimal strings so no
  precision is lost on the wire; formatted INR strings are supplied alongside
  for display.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"github.com/vyapar/inventory-engine/vyapar"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProductDTO represents a catalog product.
type ProductDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	CostPrice string `json:"costPrice"`
	Stock     int    `json:"stock"`
	ImageURL  string `json:"imageUrl"`
}

// ProductRequest creates or replaces a product. On update the id comes from
// the URL, never the body.
type ProductRequest struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	CostPrice string `json:"costPrice"`
	Stock     int    `json:"stock"`
	ImageURL  string `json:"imageUrl"`
}

// InvoiceItemDTO is one invoice line with its snapshotted prices.
type InvoiceItemDTO struct {
	ProductID       string `json:"productId"`
	Quantity        int    `json:"quantity"`
	Price           string `json:"price"`
	CostPriceAtSale string `json:"costPriceAtSale"`
}

// InvoiceDTO represents a sales record.
type InvoiceDTO struct {
	ID             string           `json:"id"`
	CustomerName   string           `json:"customerName"`
	Items          []InvoiceItemDTO `json:"items"`
	Total          string           `json:"total"`
	TotalFormatted string           `json:"totalFormatted"`
	Date           string           `json:"date"`
	Status         string           `json:"status"`
}

// CreateInvoiceRequest is the request to create an invoice.
type CreateInvoiceRequest struct {
	CustomerName string             `json:"customerName"`
	Status       string             `json:"status"`
	Items        []RequestedItemDTO `json:"items"`
}

// RequestedItemDTO is one requested line before price resolution.
type RequestedItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PurchaseDTO represents a restocking record.
type PurchaseDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitCost    string `json:"unitCost"`
	TotalCost   string `json:"totalCost"`
	Date        string `json:"date"`
}

// CreatePurchaseRequest is the request to record a purchase.
type CreatePurchaseRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitCost  string `json:"unitCost"`
}

// DashboardDTO carries the aggregated window figures plus the recent table.
type DashboardDTO struct {
	Range                      string       `json:"range"`
	TotalSales                 string       `json:"totalSales"`
	TotalSalesFormatted        string       `json:"totalSalesFormatted"`
	TotalPurchaseCost          string       `json:"totalPurchaseCost"`
	TotalPurchaseCostFormatted string       `json:"totalPurchaseCostFormatted"`
	CostOfGoodsSold            string       `json:"costOfGoodsSold"`
	GrossProfit                string       `json:"grossProfit"`
	GrossProfitFormatted       string       `json:"grossProfitFormatted"`
	RecentInvoices             []InvoiceDTO `json:"recentInvoices"`
}

// DraftDTO represents an in-progress invoice form.
type DraftDTO struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customerName"`
	Items        []RequestedItemDTO `json:"items"`
}

// CommandRequest carries a free-text command for AI parsing.
type CommandRequest struct {
	Command string `json:"command"`
}

// ImageRequest carries a base64 image for AI product lookup.
type ImageRequest struct {
	Data     string `json:"data"` // base64
	MimeType string `json:"mimeType"`
}

// AssistStatusDTO reports collaborator availability so the UI can hide
// affordances that cannot work.
type AssistStatusDTO struct {
	Parser    bool `json:"parser"`
	Matcher   bool `json:"matcher"`
	Dictation bool `json:"dictation"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toProductDTO(p vyapar.Product) ProductDTO {
	return ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.String(),
		CostPrice: p.CostPrice.String(),
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
	}
}

func toInvoiceDTO(inv vyapar.Invoice) InvoiceDTO {
	items := make([]InvoiceItemDTO, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemDTO{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			Price:           it.Price.String(),
			CostPriceAtSale: it.CostPriceAtSale.String(),
		}
	}
	return InvoiceDTO{
		ID:             inv.ID,
		CustomerName:   inv.CustomerName,
		Items:          items,
		Total:          inv.Total.String(),
		TotalFormatted: vyapar.FormatINR(inv.Total),
		Date:           inv.Date,
		Status:         string(inv.Status),
	}
}

func toInvoiceDTOs(invs []vyapar.Invoice) []InvoiceDTO {
	dtos := make([]InvoiceDTO, len(invs))
	for i, inv := range invs {
		dtos[i] = toInvoiceDTO(inv)
	}
	return dtos
}

func toPurchaseDTO(pur vyapar.Purchase) PurchaseDTO {
	return PurchaseDTO{
		ID:          pur.ID,
		ProductID:   pur.ProductID,
		ProductName: pur.ProductName,
		Quantity:    pur.Quantity,
		UnitCost:    pur.UnitCost.String(),
		TotalCost:   pur.TotalCost.String(),
		Date:        pur.Date,
	}
}

func toDraftDTO(d vyapar.Draft) DraftDTO {
	items := make([]RequestedItemDTO, len(d.Items))
	for i, it := range d.Items {
		items[i] = RequestedItemDTO{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return DraftDTO{ID: d.ID, CustomerName: d.CustomerName, Items: items}
}
