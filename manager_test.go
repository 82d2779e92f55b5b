package promptdeck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/promptdeck/core"
	"github.com/poiesic/promptdeck/storage"
	"github.com/poiesic/promptdeck/transfer"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManagerWithKV(storage.NewMemoryKV())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManagerMigratesAtOpen(t *testing.T) {
	m := newTestManager(t)

	folders, err := m.Folders().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, core.HomeFolderID, folders[0].Id)
}

func TestManagerOpenInMemory(t *testing.T) {
	m, err := OpenInMemory()
	require.NoError(t, err)
	defer m.Close()

	saved, err := m.Prompts().Save(context.Background(), &core.Prompt{Title: "Greet", Content: "hi"})
	require.NoError(t, err)

	got, err := m.Prompts().Get(context.Background(), saved.Id)
	require.NoError(t, err)
	assert.Equal(t, "Greet", got.Title)
}

func TestManagerRender(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	saved, err := m.Prompts().Save(ctx, &core.Prompt{
		Title:   "Greet",
		Content: "Hello [name], welcome to [place]",
	})
	require.NoError(t, err)

	rendered, err := m.Render(ctx, saved.Id, map[string]string{"name": "Alice", "place": "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice, welcome to Berlin", rendered)

	defaults, err := m.Defaults().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", defaults["name"])

	// The usage bump runs on the side-write pool.
	require.Eventually(t, func() bool {
		got, err := m.Prompts().Get(ctx, saved.Id)
		return err == nil && got.UsageCount == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestManagerCloseDrainsSideWrites(t *testing.T) {
	kv := storage.NewMemoryKV()
	m, err := NewManagerWithKV(kv)
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := m.Prompts().Save(ctx, &core.Prompt{Title: "Greet", Content: "hi"})
	require.NoError(t, err)
	_, err = m.Render(ctx, saved.Id, nil)
	require.NoError(t, err)

	// Close must wait for the queued usage bump, not drop it.
	require.NoError(t, m.Close())

	got, err := storage.NewPromptRepository(kv).Get(ctx, saved.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsageCount)
}

func TestManagerRenderUnknownPrompt(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Render(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManagerRenderLeavesUnmatchedVariables(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	saved, err := m.Prompts().Save(ctx, &core.Prompt{Title: "Greet", Content: "Hello [name]"})
	require.NoError(t, err)

	rendered, err := m.Render(ctx, saved.Id, map[string]string{"other": "x"})
	require.NoError(t, err)
	assert.Equal(t, "Hello [name]", rendered)
}

func TestManagerImportExport(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	report, err := m.Import(ctx, []byte(`[{"title": "Greet", "content": "hi"}]`), transfer.ModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PromptsImported)

	data, err := m.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Greet"`)

	check, err := m.CheckIntegrity(ctx)
	require.NoError(t, err)
	assert.True(t, check.OK())

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Prompts)
	assert.Equal(t, 1, stats.Folders)
}
