// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/promptdeck/core"
	"github.com/poiesic/promptdeck/integrity"
	"github.com/poiesic/promptdeck/storage"
)

// Mode selects how an import treats existing data.
type Mode string

const (
	// ModeMerge adds imported records alongside existing ones, skipping
	// duplicates.
	ModeMerge Mode = "merge"

	// ModeReplace clears both collections before importing. Home is
	// recreated.
	ModeReplace Mode = "replace"
)

const (
	probeAttempts  = 5
	probeBaseDelay = 200 * time.Millisecond
)

// Report summarizes what an import did. Skipped lists use the incoming
// record's title or name.
type Report struct {
	PromptsImported int      `json:"promptsImported"`
	PromptsSkipped  int      `json:"promptsSkipped"`
	FoldersImported int      `json:"foldersImported"`
	FoldersSkipped  int      `json:"foldersSkipped"`
	SkippedPrompts  []string `json:"skippedPrompts"`
	SkippedFolders  []string `json:"skippedFolders"`
}

// Importer writes parsed documents into the store.
type Importer struct {
	kv      storage.KV
	prompts *storage.PromptRepository
	folders *storage.FolderRepository
	logger  *slog.Logger
}

// NewImporter creates an Importer over the given adapter and
// repositories.
func NewImporter(kv storage.KV, prompts *storage.PromptRepository, folders *storage.FolderRepository) *Importer {
	return &Importer{
		kv:      kv,
		prompts: prompts,
		folders: folders,
		logger:  slog.Default(),
	}
}

// Import validates, parses, and writes the given document. Merge mode
// skips records duplicating existing ones; replace mode resets the store
// first. Imported folders receive fresh ids and prompt folder references
// are rewritten through the old-to-new mapping, falling back to home.
//
// After writing, the stored collections are re-read and checked; a failed
// check makes the whole operation fail even though the writes stay.
func (im *Importer) Import(ctx context.Context, data []byte, mode Mode) (*Report, error) {
	if mode != ModeMerge && mode != ModeReplace {
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	if err := im.probe(ctx); err != nil {
		return nil, err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	if mode == ModeReplace {
		if err := storage.Reset(ctx, im.kv); err != nil {
			return nil, err
		}
	}

	report := &Report{SkippedPrompts: []string{}, SkippedFolders: []string{}}

	idMap, err := im.importFolders(ctx, doc.Folders, report)
	if err != nil {
		return nil, err
	}
	if err := im.importPrompts(ctx, doc.Prompts, idMap, report); err != nil {
		return nil, err
	}

	if err := im.verify(ctx); err != nil {
		return report, err
	}

	im.logger.Info("import complete",
		"mode", mode,
		"promptsImported", report.PromptsImported,
		"promptsSkipped", report.PromptsSkipped,
		"foldersImported", report.FoldersImported,
		"foldersSkipped", report.FoldersSkipped)
	return report, nil
}

// probe confirms the store answers reads before any write happens.
func (im *Importer) probe(ctx context.Context) error {
	err := retryWithBackoff(ctx, func() error {
		_, err := im.kv.Get(ctx, storage.KeyPrompts)
		return err
	}, probeAttempts, probeBaseDelay)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrUnreachable, err)
	}
	return nil
}

// importFolders writes the incoming folders and returns the old-id to
// new-id mapping. An incoming folder whose name matches an existing one
// case-insensitively maps onto the existing folder instead.
func (im *Importer) importFolders(ctx context.Context, incoming []*core.Folder, report *Report) (map[string]string, error) {
	idMap := map[string]string{}
	if len(incoming) == 0 {
		return idMap, nil
	}

	existing, err := im.folders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byFingerprint := make(map[uint64]string, len(existing))
	for _, f := range existing {
		byFingerprint[core.Fingerprint(f.Name)] = f.Id
	}

	for _, f := range incoming {
		if f.Id == core.HomeFolderID {
			idMap[f.Id] = core.HomeFolderID
			continue
		}
		// A malformed record skips on its own; the rest of the document
		// still imports.
		if _, err := core.ValidateFolderName(f.Name); err != nil {
			im.logger.Warn("skipping invalid imported folder", "name", f.Name, "err", err)
			report.FoldersSkipped++
			report.SkippedFolders = append(report.SkippedFolders, f.Name)
			continue
		}
		if existingID, dup := byFingerprint[core.Fingerprint(f.Name)]; dup {
			if f.Id != "" {
				idMap[f.Id] = existingID
			}
			report.FoldersSkipped++
			report.SkippedFolders = append(report.SkippedFolders, f.Name)
			continue
		}

		saved, err := im.folders.Save(ctx, &core.Folder{
			Name:      f.Name,
			Icon:      f.Icon,
			CreatedAt: f.CreatedAt,
			Order:     f.Order,
		})
		if err != nil {
			return nil, err
		}
		byFingerprint[core.Fingerprint(saved.Name)] = saved.Id
		if f.Id != "" {
			idMap[f.Id] = saved.Id
		}
		report.FoldersImported++
	}
	return idMap, nil
}

// importPrompts writes the incoming prompts with folder references
// rewritten through idMap. Unmappable references fall back to home.
func (im *Importer) importPrompts(ctx context.Context, incoming []*core.Prompt, idMap map[string]string, report *Report) error {
	if len(incoming) == 0 {
		return nil
	}

	batch := make([]*core.Prompt, 0, len(incoming))
	for _, p := range incoming {
		if _, err := core.ValidateTitle(p.Title); err != nil {
			im.logger.Warn("skipping invalid imported prompt", "title", p.Title, "err", err)
			report.PromptsSkipped++
			report.SkippedPrompts = append(report.SkippedPrompts, p.Title)
			continue
		}
		if _, err := core.ValidateContent(p.Content); err != nil {
			im.logger.Warn("skipping invalid imported prompt", "title", p.Title, "err", err)
			report.PromptsSkipped++
			report.SkippedPrompts = append(report.SkippedPrompts, p.Title)
			continue
		}
		folderID := core.HomeFolderID
		if mapped, ok := idMap[p.FolderId]; ok {
			folderID = mapped
		}
		batch = append(batch, &core.Prompt{
			Title:      p.Title,
			Content:    p.Content,
			FolderId:   folderID,
			IsFavorite: p.IsFavorite,
			UsageCount: p.UsageCount,
			Tags:       p.Tags,
			Order:      p.Order,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}

	if len(batch) == 0 {
		return nil
	}
	saved, skipped, err := im.prompts.SaveAll(ctx, batch, true)
	if err != nil {
		return err
	}
	report.PromptsImported = len(saved)
	report.PromptsSkipped += len(skipped)
	report.SkippedPrompts = append(report.SkippedPrompts, skipped...)
	return nil
}

// verify re-reads the stored collections and runs the integrity check.
func (im *Importer) verify(ctx context.Context) error {
	prompts, err := im.prompts.GetAll(ctx)
	if err != nil {
		return err
	}
	folders, err := im.folders.GetAll(ctx)
	if err != nil {
		return err
	}
	if report := integrity.Check(prompts, folders); !report.OK() {
		return fmt.Errorf("%w: %s", integrity.ErrCheckFailed, strings.Join(report.Issues, "; "))
	}
	return nil
}
