package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the shared contract every backend must satisfy.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "proforma:floors")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put(ctx, "proforma:floors", []byte(`[{"floorNumber":1}]`)))
	require.NoError(t, kv.Put(ctx, "proforma:unitTypes", []byte(`[]`)))
	require.NoError(t, kv.Put(ctx, "other:floors", []byte(`[]`)))

	v, ok, err := kv.Get(ctx, "proforma:floors")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"floorNumber":1}]`, string(v))

	require.NoError(t, kv.Put(ctx, "proforma:floors", []byte(`[]`)))
	v, _, err = kv.Get(ctx, "proforma:floors")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v))

	keys, err := kv.Keys(ctx, "proforma:")
	require.NoError(t, err)
	assert.Equal(t, []string{"proforma:floors", "proforma:unitTypes"}, keys)

	require.NoError(t, kv.Delete(ctx, "proforma:floors"))
	_, ok, err = kv.Get(ctx, "proforma:floors")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, kv.Delete(ctx, "proforma:floors"))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseKV(t, NewMemory())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	buf := []byte(`{"a":1}`)
	require.NoError(t, m.Put(ctx, "k", buf))
	buf[2] = 'b'

	v, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(v))
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv, err := Open(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)

	_, err = Open(ctx, Config{Driver: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, Config{Driver: "sqlite"})
	assert.Error(t, err)
}
