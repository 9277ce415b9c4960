/*
Package assist adapts external AI collaborators for data entry.

PURPOSE:
  Two collaborators help the user fill the invoice form:
  - a command parser that turns free text ("2 mice and a keyboard for John")
    into a structured customer-plus-items draft, and
  - an image matcher that identifies a catalog product from a photo.
  A third, dictation, is probed for platform support and degrades to hidden.

POLICY:
  These are assistive, never required. A missing credential, network failure,
  or malformed upstream response surfaces ErrUnavailable and the caller falls
  back to manual entry. Assist failures never block create-invoice,
  create-purchase, or create-product flows.

NAME MATCHING:
  The parser is instructed to answer with exact catalog names, but its output
  is untrusted: MatchItems drops any item whose product name has no exact
  case-sensitive catalog match before draft items are built. The image
  matcher compares case-insensitively, per the looser visual flow.

SEE ALSO:
  - gemini.go: the HTTP implementation
  - vyapar/draft.go: where results land (never committed state)
*/
package assist

import (
	"context"
	"errors"

	"github.com/vyapar/inventory-engine/vyapar"
)

// ErrUnavailable is returned when a collaborator cannot serve: missing
// credential, offline, or a malformed upstream response. Callers degrade to
// manual entry.
var ErrUnavailable = errors.New("assist unavailable")

// ErrNoMatch is returned by the image matcher when no catalog product
// corresponds to the model's answer.
var ErrNoMatch = errors.New("no matching product")

// ParsedInvoice is the structured output of the command parser.
type ParsedInvoice struct {
	CustomerName string       `json:"customerName"`
	Items        []ParsedItem `json:"items"`
}

// ParsedItem names a product in catalog terms.
type ParsedItem struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// CommandParser turns a free-text command into a structured invoice draft.
type CommandParser interface {
	ParseInvoiceCommand(ctx context.Context, command string, catalog vyapar.Catalog) (ParsedInvoice, error)
}

// ImageMatcher identifies a single catalog product from an image.
type ImageMatcher interface {
	FindProductByImage(ctx context.Context, image []byte, mimeType string, catalog vyapar.Catalog) (vyapar.Product, error)
}

// MatchItems resolves parsed items against the catalog, dropping any item
// whose name has no exact case-sensitive match. Quantities pass through
// untouched.
func MatchItems(parsed ParsedInvoice, catalog vyapar.Catalog) []vyapar.RequestedItem {
	var out []vyapar.RequestedItem
	for _, item := range parsed.Items {
		p := catalog.FindByName(item.ProductName)
		if p == nil {
			continue
		}
		out = append(out, vyapar.RequestedItem{ProductID: p.ID, Quantity: item.Quantity})
	}
	return out
}
