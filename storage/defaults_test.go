package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsGetEmpty(t *testing.T) {
	repo := NewDefaultsRepository(NewMemoryKV())

	defaults, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, defaults)
}

func TestDefaultsGetToleratesGarbage(t *testing.T) {
	kv := NewMemoryKV()
	kv.Seed(KeyVariableDefaults, []byte(`{broken`))

	defaults, err := NewDefaultsRepository(kv).Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, defaults)
}

func TestDefaultsMerge(t *testing.T) {
	kv := NewMemoryKV()
	repo := NewDefaultsRepository(kv)
	ctx := context.Background()

	require.NoError(t, repo.Merge(ctx, map[string]string{"name": "Alice", "place": "Berlin"}))
	require.NoError(t, repo.Merge(ctx, map[string]string{"name": "Bob", "tone": ""}))

	defaults, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Bob", "place": "Berlin"}, defaults)
	assert.NotContains(t, defaults, "tone")
}

func TestDefaultsMergeNoOpSkipsWrite(t *testing.T) {
	kv := NewMemoryKV()
	repo := NewDefaultsRepository(kv)
	ctx := context.Background()

	require.NoError(t, repo.Merge(ctx, map[string]string{"name": "Alice"}))

	kv.SetErr = assert.AnError
	assert.NoError(t, repo.Merge(ctx, map[string]string{"name": "Alice", "blank": ""}))
	assert.ErrorIs(t, repo.Merge(ctx, map[string]string{"name": "Carol"}), ErrStorage)
}
