package vyapar_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar/inventory-engine/vyapar"
)

func TestSequence_StrictlyIncreasingAndUnique(t *testing.T) {
	// Same-millisecond creation must still yield unique, ordered ids: the
	// counter suffix disambiguates ties.
	seq := vyapar.NewSequence(0)

	seen := make(map[string]bool)
	var lastSeq uint64
	for i := 0; i < 1000; i++ {
		n, id := seq.Next(vyapar.PrefixInvoice)
		require.Greater(t, n, lastSeq)
		require.False(t, seen[id], "duplicate id %s", id)
		require.True(t, strings.HasPrefix(id, vyapar.PrefixInvoice))
		seen[id] = true
		lastSeq = n
	}
	assert.Equal(t, uint64(1000), seq.Last())
}

func TestSequence_ResumesAfterRestart(t *testing.T) {
	seq := vyapar.NewSequence(42)
	n, _ := seq.Next(vyapar.PrefixProduct)
	assert.Equal(t, uint64(43), n)
}
