package vyapar

import (
	"fmt"
	"sync/atomic"
	"time"
)

// =============================================================================
// SEQUENCE - Monotonic identifier generation
// =============================================================================

// ID prefixes, matching the record kinds they tag.
const (
	PrefixProduct  = "p"
	PrefixInvoice  = "inv"
	PrefixPurchase = "pur"
)

// Sequence issues unique, strictly creation-ordered identifiers. The id is
// prefix + unix-millis + "-" + counter; the counter disambiguates ties when
// two records are created in the same millisecond, so ordering by Seq is
// always authoritative.
type Sequence struct {
	n   atomic.Uint64
	now func() time.Time
}

// NewSequence creates a sequence starting after last (the highest persisted
// seq, or zero for a fresh store).
func NewSequence(last uint64) *Sequence {
	s := &Sequence{now: time.Now}
	s.n.Store(last)
	return s
}

// Next returns the next sequence number and the id string for it.
func (s *Sequence) Next(prefix string) (uint64, string) {
	seq := s.n.Add(1)
	return seq, fmt.Sprintf("%s%d-%d", prefix, s.now().UnixMilli(), seq)
}

// Last returns the most recently issued sequence number.
func (s *Sequence) Last() uint64 { return s.n.Load() }
