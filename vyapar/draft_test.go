package vyapar_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar/inventory-engine/vyapar"
)

func TestDraftBook_ApplyMergesResults(t *testing.T) {
	book := vyapar.NewDraftBook()
	d := book.Open()

	d, err := book.Apply(d.ID, "John", []vyapar.RequestedItem{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)
	d, err = book.Apply(d.ID, "", []vyapar.RequestedItem{{ProductID: "p2", Quantity: 1}})
	require.NoError(t, err)

	assert.Equal(t, "John", d.CustomerName, "empty name does not clobber")
	assert.Len(t, d.Items, 2)
}

func TestDraftBook_StaleResultDiscardedAfterClose(t *testing.T) {
	// GIVEN: a draft closed while an assist request is in flight
	// WHEN: the late result arrives
	// THEN: it is rejected and never applied anywhere
	book := vyapar.NewDraftBook()
	d := book.Open()
	book.Close(d.ID)

	_, err := book.Apply(d.ID, "Late", []vyapar.RequestedItem{{ProductID: "p1", Quantity: 1}})
	assert.True(t, errors.Is(err, vyapar.ErrDraftClosed))

	_, err = book.Get(d.ID)
	assert.True(t, errors.Is(err, vyapar.ErrDraftClosed))
}

func TestDraftBook_CloseIsIdempotent(t *testing.T) {
	book := vyapar.NewDraftBook()
	d := book.Open()
	book.Close(d.ID)
	book.Close(d.ID)
}
