/*
draft.go - In-progress invoice drafts (the AI commit boundary)

PURPOSE:
  AI-assist results are applied to DRAFT state, never directly to the
  committed catalog or ledgers. A draft collects a customer name and item
  lines while the user edits the form; committing goes through the normal
  Service entry points. If the user closes the form before an in-flight
  assist request returns, the late result finds no draft and is discarded.

STALENESS:
  Apply fails with ErrDraftClosed when the draft id is unknown, which covers
  both "never existed" and "closed while the request was in flight".
*/
package vyapar

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Draft is an in-progress invoice form.
type Draft struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Items        []RequestedItem `json:"items"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DraftBook tracks open drafts. Drafts are transient and never persisted.
type DraftBook struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	now    func() time.Time
}

// NewDraftBook creates an empty draft book.
func NewDraftBook() *DraftBook {
	return &DraftBook{drafts: make(map[string]*Draft), now: time.Now}
}

// Open creates a new empty draft and returns it.
func (b *DraftBook) Open() Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := &Draft{ID: uuid.NewString(), UpdatedAt: b.now()}
	b.drafts[d.ID] = d
	return *d
}

// Get returns a copy of the draft, or ErrDraftClosed.
func (b *DraftBook) Get(id string) (Draft, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drafts[id]
	if !ok {
		return Draft{}, ErrDraftClosed
	}
	return *d, nil
}

// Apply merges an assist result into an open draft. A result arriving after
// Close is rejected with ErrDraftClosed and discarded.
func (b *DraftBook) Apply(id, customerName string, items []RequestedItem) (Draft, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drafts[id]
	if !ok {
		return Draft{}, ErrDraftClosed
	}
	if customerName != "" {
		d.CustomerName = customerName
	}
	d.Items = append(d.Items, items...)
	d.UpdatedAt = b.now()
	return *d, nil
}

// Close discards a draft. Closing an already-closed draft is a no-op.
func (b *DraftBook) Close(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.drafts, id)
}
