package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/promptdeck/core"
)

func TestCheckCleanSnapshot(t *testing.T) {
	prompts := []*core.Prompt{
		{Id: "p1", Title: "a", Content: "a", FolderId: core.HomeFolderID},
		{Id: "p2", Title: "b", Content: "b", FolderId: "f1"},
	}
	folders := []*core.Folder{
		core.NewHomeFolder(),
		{Id: "f1", Name: "Work", Icon: "📁"},
	}

	report := Check(prompts, folders)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Prompts)
	assert.Equal(t, 2, report.Folders)
}

func TestCheckEmptySnapshot(t *testing.T) {
	report := Check(nil, nil)
	assert.False(t, report.OK())
	assert.Contains(t, report.Issues, "home folder missing")
}

func TestCheckFindsProblems(t *testing.T) {
	tests := []struct {
		name    string
		prompts []*core.Prompt
		folders []*core.Folder
		want    string
	}{
		{
			name:    "missing home",
			folders: []*core.Folder{{Id: "f1", Name: "Work"}},
			want:    "home folder missing",
		},
		{
			name: "duplicate folder id",
			folders: []*core.Folder{
				core.NewHomeFolder(),
				{Id: "f1", Name: "Work"},
				{Id: "f1", Name: "Copy"},
			},
			want: "duplicate folder id: f1",
		},
		{
			name: "incomplete folder",
			folders: []*core.Folder{
				core.NewHomeFolder(),
				{Id: "f1"},
			},
			want: `incomplete folder record: id="f1" name=""`,
		},
		{
			name:    "duplicate prompt id",
			folders: []*core.Folder{core.NewHomeFolder()},
			prompts: []*core.Prompt{
				{Id: "p1", Title: "a", Content: "a", FolderId: core.HomeFolderID},
				{Id: "p1", Title: "b", Content: "b", FolderId: core.HomeFolderID},
			},
			want: "duplicate prompt id: p1",
		},
		{
			name:    "orphaned prompt",
			folders: []*core.Folder{core.NewHomeFolder()},
			prompts: []*core.Prompt{
				{Id: "p1", Title: "a", Content: "a", FolderId: "gone"},
			},
			want: "prompt p1 references missing folder gone",
		},
		{
			name:    "incomplete prompt",
			folders: []*core.Folder{core.NewHomeFolder()},
			prompts: []*core.Prompt{
				{Id: "p1", Title: "a"},
			},
			want: `incomplete prompt record: id="p1" title="a"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := Check(tc.prompts, tc.folders)
			assert.False(t, report.OK())
			assert.Contains(t, report.Issues, tc.want)
		})
	}
}
