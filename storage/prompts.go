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


package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/promptdeck/core"
)

// PromptRepository provides CRUD and query operations over the prompt
// collection. Every mutation is a read-modify-write of the whole
// collection value; a mutex serializes mutations within this process.
type PromptRepository struct {
	kv     KV
	logger *slog.Logger
	mu     sync.Mutex
}

// NewPromptRepository creates a PromptRepository over the given adapter.
func NewPromptRepository(kv KV) *PromptRepository {
	return &PromptRepository{
		kv:     kv,
		logger: slog.Default(),
	}
}

// PromptUpdate is a partial update. Nil fields are left untouched.
// Variables cannot be set directly; they are re-derived whenever Content
// changes.
type PromptUpdate struct {
	Title      *string
	Content    *string
	FolderId   *string
	IsFavorite *bool
	Order      *float64
	Tags       []string
}

// PromptWithPath is a search result annotated with a human-readable
// folder path ("Home" or "Home > <folder name>").
type PromptWithPath struct {
	*core.Prompt
	FolderPath string `json:"folderPath"`
}

// GetAll returns the full prompt collection in stored order.
func (r *PromptRepository) GetAll(ctx context.Context) ([]*core.Prompt, error) {
	return r.load(ctx)
}

// Get retrieves a single prompt by id. Returns ErrNotFound if absent.
func (r *PromptRepository) Get(ctx context.Context, id string) (*core.Prompt, error) {
	prompts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		if p.Id == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: prompt %s", ErrNotFound, id)
}

// GetByFolder returns the prompts whose FolderId equals folderID.
func (r *PromptRepository) GetByFolder(ctx context.Context, folderID string) ([]*core.Prompt, error) {
	prompts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	matched := []*core.Prompt{}
	for _, p := range prompts {
		if p.FolderId == folderID {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// GetFavorites returns the prompts marked as favorite.
func (r *PromptRepository) GetFavorites(ctx context.Context) ([]*core.Prompt, error) {
	prompts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	favorites := []*core.Prompt{}
	for _, p := range prompts {
		if p.IsFavorite {
			favorites = append(favorites, p)
		}
	}
	return favorites, nil
}

// Search returns prompts whose title or content contains the query,
// case-insensitively. A non-empty folderID pre-scopes the search to that
// folder. An empty or whitespace query returns the unfiltered scope.
func (r *PromptRepository) Search(ctx context.Context, query, folderID string) ([]*core.Prompt, error) {
	var scope []*core.Prompt
	var err error
	if folderID != "" {
		scope, err = r.GetByFolder(ctx, folderID)
	} else {
		scope, err = r.load(ctx)
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(query) == "" {
		return scope, nil
	}

	term := strings.ToLower(query)
	matched := []*core.Prompt{}
	for _, p := range scope {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Content), term) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// SearchWithFolderPath searches across all folders and annotates each
// result with its folder path.
func (r *PromptRepository) SearchWithFolderPath(ctx context.Context, query string) ([]*PromptWithPath, error) {
	prompts, err := r.Search(ctx, query, "")
	if err != nil {
		return nil, err
	}

	values, err := r.kv.Get(ctx, KeyFolders)
	if err != nil {
		r.logger.Error("failed to load folders for search", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	folders, err := UnmarshalFolders(values[KeyFolders])
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*core.Folder, len(folders))
	for _, f := range folders {
		byID[f.Id] = f
	}

	results := make([]*PromptWithPath, 0, len(prompts))
	for _, p := range prompts {
		results = append(results, &PromptWithPath{
			Prompt:     p,
			FolderPath: folderPath(byID[p.FolderId]),
		})
	}
	return results, nil
}

// folderPath renders the flat-schema path for a folder. Unknown or home
// folders map to "Home".
func folderPath(folder *core.Folder) string {
	if folder == nil || folder.Id == core.HomeFolderID {
		return "Home"
	}
	return "Home > " + folder.Name
}

// Save validates and persists a new prompt, filling in defaults for
// missing fields: a fresh id, the home folder, creation timestamps, and a
// timestamp-based order key. Variables are derived from content.
// Returns the stored record.
func (r *PromptRepository) Save(ctx context.Context, p *core.Prompt) (*core.Prompt, error) {
	stored, err := normalizePrompt(p)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	prompts = append(prompts, stored)
	if err := r.store(ctx, prompts); err != nil {
		return nil, err
	}
	return stored, nil
}

// SaveAll validates and persists a batch of prompts in a single write.
// With skipDuplicates set, an incoming prompt whose title and content
// match an existing record case-insensitively is skipped; the skipped
// titles are returned. Duplicate detection uses fingerprint lookups
// rather than pairwise scans.
func (r *PromptRepository) SaveAll(ctx context.Context, incoming []*core.Prompt, skipDuplicates bool) (saved []*core.Prompt, skipped []string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, err := r.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	existing := make(map[uint64]struct{}, len(prompts))
	for _, p := range prompts {
		existing[core.Fingerprint(p.Title, p.Content)] = struct{}{}
	}

	saved = []*core.Prompt{}
	skipped = []string{}
	for _, p := range incoming {
		stored, err := normalizePrompt(p)
		if err != nil {
			return nil, nil, err
		}
		fp := core.Fingerprint(stored.Title, stored.Content)
		if skipDuplicates {
			if _, dup := existing[fp]; dup {
				skipped = append(skipped, stored.Title)
				continue
			}
		}
		existing[fp] = struct{}{}
		prompts = append(prompts, stored)
		saved = append(saved, stored)
	}

	if len(saved) > 0 {
		if err := r.store(ctx, prompts); err != nil {
			return nil, nil, err
		}
	}
	return saved, skipped, nil
}

// Update applies a partial update to the prompt with the given id.
// Touched fields are re-validated, Variables are re-derived if Content
// changed, and UpdatedAt is always refreshed. Returns ErrNotFound if the
// id is absent.
func (r *PromptRepository) Update(ctx context.Context, id string, update PromptUpdate) (*core.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyUpdate(ctx, id, update)
}

// Delete removes the prompt with the given id. Returns ErrNotFound if
// absent.
func (r *PromptRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, err := r.load(ctx)
	if err != nil {
		return err
	}

	remaining := prompts[:0]
	found := false
	for _, p := range prompts {
		if p.Id == id {
			found = true
			continue
		}
		remaining = append(remaining, p)
	}
	if !found {
		return fmt.Errorf("%w: prompt %s", ErrNotFound, id)
	}
	return r.store(ctx, remaining)
}

// Move relocates a prompt to the target folder. The target must exist
// unless it is home. Returns the updated record.
func (r *PromptRepository) Move(ctx context.Context, id, targetFolderID string) (*core.Prompt, error) {
	if targetFolderID != core.HomeFolderID {
		values, err := r.kv.Get(ctx, KeyFolders)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		folders, err := UnmarshalFolders(values[KeyFolders])
		if err != nil {
			return nil, err
		}
		exists := false
		for _, f := range folders {
			if f.Id == targetFolderID {
				exists = true
				break
			}
		}
		if !exists {
			return nil, fmt.Errorf("%w: target folder %s", ErrNotFound, targetFolderID)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyUpdate(ctx, id, PromptUpdate{FolderId: &targetFolderID})
}

// Reorder assigns order keys to the prompts of a folder following the
// given sequence (order = index). The id set must exactly match the
// prompts currently in the folder, otherwise ErrOrderMismatch is
// returned.
func (r *PromptRepository) Reorder(ctx context.Context, folderID string, orderedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, err := r.load(ctx)
	if err != nil {
		return err
	}

	inFolder := make(map[string]*core.Prompt)
	for _, p := range prompts {
		if p.FolderId == folderID {
			inFolder[p.Id] = p
		}
	}

	if len(orderedIDs) != len(inFolder) {
		return fmt.Errorf("%w: folder %s has %d prompts, got %d ids", ErrOrderMismatch, folderID, len(inFolder), len(orderedIDs))
	}
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := inFolder[id]; !ok {
			return fmt.Errorf("%w: prompt %s is not in folder %s", ErrOrderMismatch, id, folderID)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrOrderMismatch, id)
		}
		seen[id] = struct{}{}
	}

	now := core.NowMillis()
	for index, id := range orderedIDs {
		p := inFolder[id]
		order := float64(index)
		p.Order = &order
		p.UpdatedAt = now
	}
	return r.store(ctx, prompts)
}

// IncrementUsage bumps the usage counter of a prompt. Returns ErrNotFound
// if the id is absent.
func (r *PromptRepository) IncrementUsage(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, p := range prompts {
		if p.Id == id {
			p.UsageCount++
			p.UpdatedAt = core.NowMillis()
			return r.store(ctx, prompts)
		}
	}
	return fmt.Errorf("%w: prompt %s", ErrNotFound, id)
}

// ToggleFavorite flips the favorite flag of a prompt and returns the
// updated record. Returns ErrNotFound if the id is absent.
func (r *PromptRepository) ToggleFavorite(ctx context.Context, id string) (*core.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		if p.Id == id {
			p.IsFavorite = !p.IsFavorite
			p.UpdatedAt = core.NowMillis()
			if err := r.store(ctx, prompts); err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: prompt %s", ErrNotFound, id)
}

// applyUpdate is the shared partial-update path. Callers hold r.mu.
func (r *PromptRepository) applyUpdate(ctx context.Context, id string, update PromptUpdate) (*core.Prompt, error) {
	prompts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var target *core.Prompt
	for _, p := range prompts {
		if p.Id == id {
			target = p
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: prompt %s", ErrNotFound, id)
	}

	if update.Title != nil {
		title, err := core.ValidateTitle(*update.Title)
		if err != nil {
			return nil, err
		}
		target.Title = title
	}
	if update.Content != nil {
		content, err := core.ValidateContent(*update.Content)
		if err != nil {
			return nil, err
		}
		target.Content = content
		target.Variables = core.ExtractVariables(content)
	}
	if update.FolderId != nil {
		target.FolderId = *update.FolderId
	}
	if update.IsFavorite != nil {
		target.IsFavorite = *update.IsFavorite
	}
	if update.Order != nil {
		target.Order = update.Order
	}
	if update.Tags != nil {
		target.Tags = update.Tags
	}
	target.UpdatedAt = core.NowMillis()

	if err := r.store(ctx, prompts); err != nil {
		return nil, err
	}
	return target, nil
}

// normalizePrompt validates a prompt record and fills in defaults for
// missing fields, returning a fresh copy ready to persist.
func normalizePrompt(p *core.Prompt) (*core.Prompt, error) {
	title, err := core.ValidateTitle(p.Title)
	if err != nil {
		return nil, err
	}
	content, err := core.ValidateContent(p.Content)
	if err != nil {
		return nil, err
	}

	now := core.NowMillis()
	stored := &core.Prompt{
		Id:         p.Id,
		Title:      title,
		Content:    content,
		FolderId:   p.FolderId,
		IsFavorite: p.IsFavorite,
		UsageCount: p.UsageCount,
		Variables:  core.ExtractVariables(content),
		Tags:       p.Tags,
		Order:      p.Order,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  now,
	}
	if stored.Id == "" {
		stored.Id = core.NewID()
	}
	if stored.FolderId == "" {
		stored.FolderId = core.HomeFolderID
	}
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	if stored.CreatedAt == 0 {
		stored.CreatedAt = now
	}
	if p.UpdatedAt != 0 {
		stored.UpdatedAt = p.UpdatedAt
	}
	// Zero is a real manual position (Reorder assigns order = index);
	// only a truly absent order gets the timestamp default.
	if stored.Order == nil {
		order := float64(now)
		stored.Order = &order
	}
	return stored, nil
}

func (r *PromptRepository) load(ctx context.Context) ([]*core.Prompt, error) {
	values, err := r.kv.Get(ctx, KeyPrompts)
	if err != nil {
		r.logger.Error("failed to load prompts", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return UnmarshalPrompts(values[KeyPrompts])
}

func (r *PromptRepository) store(ctx context.Context, prompts []*core.Prompt) error {
	data, err := MarshalPrompts(prompts)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, map[string][]byte{KeyPrompts: data}); err != nil {
		r.logger.Error("failed to store prompts", "err", err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
