package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/promptdeck/core"
)

func TestMigrateFolderSystem(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	// Pre-folder store: prompts only, no folderId or order.
	kv.Seed(KeyPrompts, []byte(`[{"id":"p1","title":"a","content":"a"},{"id":"p2","title":"b","content":"b"}]`))

	NewMigrator(kv).Run(ctx)

	folders, err := NewFolderRepository(kv).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, core.HomeFolderID, folders[0].Id)

	prompts, err := NewPromptRepository(kv).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	for index, p := range prompts {
		assert.Equal(t, core.HomeFolderID, p.FolderId)
		require.NotNil(t, p.Order)
		assert.Equal(t, float64(index), *p.Order)
	}

	assert.True(t, UnmarshalFlag(kv.Raw(MigrationKeyPrefix+"v2")))
	assert.True(t, UnmarshalFlag(kv.Raw(MigrationKeyPrefix+"v3_flat")))
}

func TestMigrateFlatFolders(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	// v2 hierarchical store: nested folders with parentId, prompts
	// without tags.
	kv.Seed(KeyFolders, []byte(`[`+
		`{"id":"home","name":"Home","icon":"🏠","createdAt":1},`+
		`{"id":"f1","name":"Work","icon":"📁","createdAt":2},`+
		`{"id":"f2","name":"Deep","icon":"📁","createdAt":3,"parentId":"f1"}]`))
	kv.Seed(KeyPrompts, []byte(`[{"id":"p1","title":"a","content":"a","folderId":"f2","order":5}]`))
	kv.Seed(MigrationKeyPrefix+"v2", MarshalFlag(true))

	NewMigrator(kv).Run(ctx)

	assert.NotContains(t, string(kv.Raw(KeyFolders)), "parentId")

	folders, err := NewFolderRepository(kv).GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, folders, 3)

	prompts, err := NewPromptRepository(kv).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "f2", prompts[0].FolderId)
	require.NotNil(t, prompts[0].Order)
	assert.Equal(t, 5.0, *prompts[0].Order)
	assert.Equal(t, []string{}, prompts[0].Tags)
}

func TestMigrateFlatFoldersRestoresHome(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	kv.Seed(KeyFolders, []byte(`[{"id":"f1","name":"Work","icon":"📁","createdAt":2}]`))
	kv.Seed(MigrationKeyPrefix+"v2", MarshalFlag(true))

	NewMigrator(kv).Run(ctx)

	folders, err := NewFolderRepository(kv).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, core.HomeFolderID, folders[0].Id)
	assert.Equal(t, "f1", folders[1].Id)
}

func TestMigrateRunsOnce(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	migrator := NewMigrator(kv)
	migrator.Run(ctx)
	folderData := kv.Raw(KeyFolders)

	// A marker the second run must not disturb.
	kv.Seed(KeyFolders, append(folderData, ' '))
	migrator.Run(ctx)

	assert.Equal(t, append(folderData, ' '), kv.Raw(KeyFolders))
}

func TestMigrateFailureIsSwallowed(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	kv.Seed(KeyPrompts, []byte(`not json`))
	NewMigrator(kv).Run(ctx)

	// The failed step left no flag behind, so it retries next run.
	assert.Nil(t, kv.Raw(MigrationKeyPrefix+"v2"))
	assert.Equal(t, []byte(`not json`), kv.Raw(KeyPrompts))
}
