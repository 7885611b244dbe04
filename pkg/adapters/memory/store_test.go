package memory_test

import (
	"context"
	"testing"

	"github.com/bpkcongli/schema-checker/pkg/adapters/memory"
	"github.com/bpkcongli/schema-checker/pkg/domain"
	"github.com/bpkcongli/schema-checker/pkg/ports"
	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunRejectionStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	r := domain.NewRejection("signup", map[string]any{"username": "a"}, schema.ErrNoPayload)
	require.NoError(t, store.Save(ctx, r))

	r.Payload["username"] = "mutated"
	loaded, err := store.Load(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Payload["username"])

	loaded.Payload["username"] = "mutated again"
	again, err := store.Load(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Payload["username"])
}

func TestMemoryStore_IsolationNested(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	payload := map[string]any{
		"profile": map[string]any{"email": "a@b.c"},
		"tags":    []any{"x", map[string]any{"k": "v"}},
	}
	r := domain.NewRejection("signup", payload, schema.ErrNoPayload)
	require.NoError(t, store.Save(ctx, r))

	r.Payload["profile"].(map[string]any)["email"] = "mutated"
	r.Payload["tags"].([]any)[0] = "mutated"
	r.Payload["tags"].([]any)[1].(map[string]any)["k"] = "mutated"

	loaded, err := store.Load(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.c"}, loaded.Payload["profile"])
	assert.Equal(t, []any{"x", map[string]any{"k": "v"}}, loaded.Payload["tags"])

	loaded.Payload["profile"].(map[string]any)["email"] = "mutated again"
	loaded.Payload["tags"].([]any)[0] = "mutated again"

	list, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@b.c", list[0].Payload["profile"].(map[string]any)["email"])
	assert.Equal(t, "x", list[0].Payload["tags"].([]any)[0])
}
