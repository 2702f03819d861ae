package memorystore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconfig/oneconfig/pkg/adapters/memorystore"
	"github.com/oneconfig/oneconfig/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSchemaStoreContract(t, memorystore.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memorystore.NewStore()

	src := []byte("name: !string\n")
	require.NoError(t, store.Save(ctx, "demo", src))

	// Mutating the saved slice must not reach the store.
	src[0] = 'X'
	loaded, err := store.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, byte('n'), loaded[0])

	// Mutating a loaded slice must not reach the store either.
	loaded[0] = 'Y'
	again, err := store.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, byte('n'), again[0])
}
