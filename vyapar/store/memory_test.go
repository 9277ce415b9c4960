package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar/inventory-engine/vyapar/store"
)

func TestMemory_MissingKeyReportsNotOK(t *testing.T) {
	m := store.NewMemory()
	_, ok, err := m.Get(context.Background(), "products")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_PutReplacesWholeValue(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "products", []byte(`[1]`)))
	require.NoError(t, m.Put(ctx, "products", []byte(`[1,2]`)))

	raw, ok, err := m.Get(ctx, "products")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1,2]`, string(raw))
}

func TestMemory_StoredBytesAreIsolated(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	in := []byte(`{"a":1}`)
	require.NoError(t, m.Put(ctx, "k", in))
	in[0] = 'X'

	raw, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(raw))

	raw[0] = 'Y'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, `{"a":1}`, string(again))
}
