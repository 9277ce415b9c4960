/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error types in one place. Callers match with errors.Is and
  inspect structured errors for details.

ERROR CATEGORIES:
  1. Reference errors - an operation names a product id absent from the catalog
  2. Draft errors - AI-assist results arriving for a closed draft
  3. Store errors - persistence failures surface as wrapped errors

SEE ALSO:
  - engine.go: returns ProductNotFoundError
  - draft.go: returns ErrDraftClosed
*/
package vyapar

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrProductNotFound is returned when an operation references a product id
	// that does not exist in the current catalog. No state change occurs.
	ErrProductNotFound = errors.New("product not found")

	// ErrDraftClosed is returned when an assist result targets a draft that
	// has been closed. The result is discarded, never applied.
	ErrDraftClosed = errors.New("draft closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ProductNotFoundError reports which id failed the catalog reference check.
// For multi-item invoices the first missing id is reported and the whole
// operation is rejected with zero partial application.
type ProductNotFoundError struct {
	ProductID string
	Op        string // "invoice", "purchase", "update", "delete"
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("%s references unknown product %q", e.Op, e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrProductNotFound }

// IsClientError returns true if the error is due to invalid client input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrDraftClosed)
}
