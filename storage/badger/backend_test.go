package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestBackendRoundTrip(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, map[string][]byte{
		"a": []byte("alpha"),
		"b": []byte("beta"),
	}))

	values, err := backend.Get(ctx, "a", "b", "missing")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), values["a"])
	assert.Equal(t, []byte("beta"), values["b"])
	assert.NotContains(t, values, "missing")
}

func TestBackendOverwrite(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, map[string][]byte{"a": []byte("one")}))
	require.NoError(t, backend.Set(ctx, map[string][]byte{"a": []byte("two")}))

	values, err := backend.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), values["a"])
}

func TestBackendRemove(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, map[string][]byte{"a": []byte("one")}))
	require.NoError(t, backend.Remove(ctx, "a", "never-existed"))

	values, err := backend.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestBackendPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, map[string][]byte{"a": []byte("kept")}))
	require.NoError(t, backend.Close())

	reopened, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer reopened.Close()

	values, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), values["a"])
}
