package ports

import (
	"context"
	"testing"
	"time"

	"github.com/bpkcongli/schema-checker/pkg/domain"
	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRejectionStoreContract runs a suite of tests to verify that a RejectionStore
// implementation adheres to the defined interface contract. The store must start empty.
func RunRejectionStoreContract(t *testing.T, store RejectionStore) {
	ctx := context.Background()

	newRejection := func(field string, at time.Time) *domain.Rejection {
		r := domain.NewRejection("contract",
			map[string]any{"username": "bpkcongli", "password": 123456},
			&schema.Error{Code: schema.CodeTypeMismatch, Field: field, Expected: "string", Got: schema.TagNumber},
		)
		r.At = at
		return r
	}

	t.Run("Save and Load", func(t *testing.T) {
		r := newRejection("password", time.Now().UTC().Truncate(time.Second))

		err := store.Save(ctx, r)
		require.NoError(t, err, "Save should not return error")
		defer func() { _ = store.Delete(ctx, r.ID) }()

		loaded, err := store.Load(ctx, r.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, r.ID, loaded.ID)
		assert.Equal(t, r.Schema, loaded.Schema)
		assert.Equal(t, schema.CodeTypeMismatch, loaded.Code)
		assert.Equal(t, "password", loaded.Field)
		assert.Equal(t, r.Message, loaded.Message)
		assert.True(t, r.At.Equal(loaded.At), "At should survive a round trip")
		assert.Equal(t, "bpkcongli", loaded.Payload["username"])
		// Persistent stores decode numbers through JSON, so only check existence.
		assert.NotNil(t, loaded.Payload["password"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-rejection")
		assert.ErrorIs(t, err, domain.ErrRejectionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		r := newRejection("password", time.Now().UTC())
		require.NoError(t, store.Save(ctx, r))

		err := store.Delete(ctx, r.ID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, r.ID)
		assert.ErrorIs(t, err, domain.ErrRejectionNotFound, "Load after Delete should return ErrRejectionNotFound")

		assert.NoError(t, store.Delete(ctx, r.ID), "Delete of an unknown ID should succeed")
	})

	t.Run("List", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Second)
		older := newRejection("username", base.Add(-time.Minute))
		newer := newRejection("password", base)
		require.NoError(t, store.Save(ctx, older))
		require.NoError(t, store.Save(ctx, newer))
		defer func() {
			_ = store.Delete(ctx, older.ID)
			_ = store.Delete(ctx, newer.ID)
		}()

		all, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID, "List should return newest first")
		assert.Equal(t, older.ID, all[1].ID)

		limited, err := store.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, newer.ID, limited[0].ID)
	})
}
