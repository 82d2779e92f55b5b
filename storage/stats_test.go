package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/promptdeck/core"
)

func TestCollectStats(t *testing.T) {
	prompts, _, kv := newPromptFixture(t)
	ctx := context.Background()

	first, err := prompts.Save(ctx, &core.Prompt{Title: "a", Content: "a", IsFavorite: true})
	require.NoError(t, err)
	_, err = prompts.Save(ctx, &core.Prompt{Title: "b", Content: "b"})
	require.NoError(t, err)
	require.NoError(t, prompts.IncrementUsage(ctx, first.Id))
	require.NoError(t, prompts.IncrementUsage(ctx, first.Id))

	stats, err := CollectStats(ctx, kv)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Prompts)
	assert.Equal(t, 1, stats.Folders)
	assert.Equal(t, 1, stats.Favorites)
	assert.Equal(t, 2, stats.TotalUsage)
	expected := int64(len(kv.Raw(KeyPrompts)) + len(kv.Raw(KeyFolders)))
	assert.Equal(t, expected, stats.TotalBytes)
}

func TestCollectStatsEmptyStore(t *testing.T) {
	stats, err := CollectStats(context.Background(), NewMemoryKV())
	require.NoError(t, err)

	assert.Zero(t, stats.Prompts)
	assert.Zero(t, stats.Folders)
	assert.Zero(t, stats.TotalBytes)
}
