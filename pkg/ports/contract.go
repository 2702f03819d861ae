package ports

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore
// implementation adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()
	name := "contract-test-schema-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		src := []byte("name: !string\nversion: !string\n")

		err := store.Save(ctx, name, src)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, src, loaded, "Load should return the bytes Save received")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		first := []byte("name: !string\n")
		second := []byte("name: !text\n")

		require.NoError(t, store.Save(ctx, name, first))
		require.NoError(t, store.Save(ctx, name, second))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, second, loaded, "the latest Save wins")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, name, []byte("name: !string\n"))
		require.NoError(t, err)

		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrSchemaNotFound, "Load after Delete should return ErrSchemaNotFound")
	})

	t.Run("Delete Non-Existent", func(t *testing.T) {
		err := store.Delete(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		require.NoError(t, store.Save(ctx, id1, []byte("a: !string\n")))
		require.NoError(t, store.Save(ctx, id2, []byte("b: !string\n")))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.True(t, sort.StringsAreSorted(names), "List should return names in lexicographic order, got %v", names)
	})
}
