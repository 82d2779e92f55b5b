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
	"sync"

	"github.com/poiesic/promptdeck/core"
)

// FolderRepository provides CRUD operations over the folder collection.
// The flat schema has no nesting: every non-home folder is a direct
// sibling under home, and home itself is protected from deletion.
type FolderRepository struct {
	kv     KV
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFolderRepository creates a FolderRepository over the given adapter.
func NewFolderRepository(kv KV) *FolderRepository {
	return &FolderRepository{
		kv:     kv,
		logger: slog.Default(),
	}
}

// FolderUpdate is a partial update. Nil fields are left untouched.
type FolderUpdate struct {
	Name  *string
	Icon  *string
	Order *float64
}

// GetAll returns the full folder collection in stored order.
func (r *FolderRepository) GetAll(ctx context.Context) ([]*core.Folder, error) {
	return r.load(ctx)
}

// Get retrieves a single folder by id. Returns ErrNotFound if absent.
func (r *FolderRepository) Get(ctx context.Context, id string) (*core.Folder, error) {
	folders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		if f.Id == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: folder %s", ErrNotFound, id)
}

// GetChildren returns every folder except home. Under the flat schema
// all of them are direct children of the root.
func (r *FolderRepository) GetChildren(ctx context.Context) ([]*core.Folder, error) {
	folders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	children := []*core.Folder{}
	for _, f := range folders {
		if f.Id != core.HomeFolderID {
			children = append(children, f)
		}
	}
	return children, nil
}

// Save validates and persists a new folder, assigning a fresh id, the
// default icon, and a creation timestamp where missing. Returns the
// stored record.
func (r *FolderRepository) Save(ctx context.Context, f *core.Folder) (*core.Folder, error) {
	stored, err := normalizeFolder(f)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	folders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	folders = append(folders, stored)
	if err := r.store(ctx, folders); err != nil {
		return nil, err
	}
	return stored, nil
}

// SaveAll validates and persists a batch of folders in a single write.
// With skipDuplicates set, an incoming folder whose name matches an
// existing one case-insensitively is skipped; the skipped names are
// returned.
func (r *FolderRepository) SaveAll(ctx context.Context, incoming []*core.Folder, skipDuplicates bool) (saved []*core.Folder, skipped []string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	folders, err := r.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	existing := make(map[uint64]struct{}, len(folders))
	for _, f := range folders {
		existing[core.Fingerprint(f.Name)] = struct{}{}
	}

	saved = []*core.Folder{}
	skipped = []string{}
	for _, f := range incoming {
		stored, err := normalizeFolder(f)
		if err != nil {
			return nil, nil, err
		}
		fp := core.Fingerprint(stored.Name)
		if skipDuplicates {
			if _, dup := existing[fp]; dup {
				skipped = append(skipped, stored.Name)
				continue
			}
		}
		existing[fp] = struct{}{}
		folders = append(folders, stored)
		saved = append(saved, stored)
	}

	if len(saved) > 0 {
		if err := r.store(ctx, folders); err != nil {
			return nil, nil, err
		}
	}
	return saved, skipped, nil
}

// Update applies a partial update to the folder with the given id,
// re-validating the name if touched. Returns ErrNotFound if absent.
func (r *FolderRepository) Update(ctx context.Context, id string, update FolderUpdate) (*core.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	folders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var target *core.Folder
	for _, f := range folders {
		if f.Id == id {
			target = f
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: folder %s", ErrNotFound, id)
	}

	if update.Name != nil {
		name, err := core.ValidateFolderName(*update.Name)
		if err != nil {
			return nil, err
		}
		target.Name = name
	}
	if update.Icon != nil {
		target.Icon = *update.Icon
	}
	if update.Order != nil {
		target.Order = update.Order
	}

	if err := r.store(ctx, folders); err != nil {
		return nil, err
	}
	return target, nil
}

// Delete removes a folder, relocating every prompt it contains to home
// first. Home itself is protected. Returns ErrHomeProtected or
// ErrNotFound accordingly. The flat schema has no subfolders to cascade.
func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	if id == core.HomeFolderID {
		return ErrHomeProtected
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.kv.Get(ctx, KeyFolders, KeyPrompts)
	if err != nil {
		r.logger.Error("failed to load collections for folder delete", "err", err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	folders, err := UnmarshalFolders(values[KeyFolders])
	if err != nil {
		return err
	}
	prompts, err := UnmarshalPrompts(values[KeyPrompts])
	if err != nil {
		return err
	}

	remaining := folders[:0]
	found := false
	for _, f := range folders {
		if f.Id == id {
			found = true
			continue
		}
		remaining = append(remaining, f)
	}
	if !found {
		return fmt.Errorf("%w: folder %s", ErrNotFound, id)
	}

	// Relocate contents before the folder record disappears, so a failure
	// between the two writes cannot orphan any prompt.
	relocated := false
	now := core.NowMillis()
	for _, p := range prompts {
		if p.FolderId == id {
			p.FolderId = core.HomeFolderID
			p.UpdatedAt = now
			relocated = true
		}
	}
	if relocated {
		data, err := MarshalPrompts(prompts)
		if err != nil {
			return err
		}
		if err := r.kv.Set(ctx, map[string][]byte{KeyPrompts: data}); err != nil {
			r.logger.Error("failed to relocate prompts", "folder", id, "err", err)
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}

	return r.store(ctx, remaining)
}

// Reorder assigns order keys to the non-home folders following the given
// sequence (order = index). The id set must exactly match the current
// non-home folders, otherwise ErrOrderMismatch is returned.
func (r *FolderRepository) Reorder(ctx context.Context, orderedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	folders, err := r.load(ctx)
	if err != nil {
		return err
	}

	reorderable := make(map[string]*core.Folder)
	for _, f := range folders {
		if f.Id != core.HomeFolderID {
			reorderable[f.Id] = f
		}
	}

	if len(orderedIDs) != len(reorderable) {
		return fmt.Errorf("%w: have %d folders, got %d ids", ErrOrderMismatch, len(reorderable), len(orderedIDs))
	}
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := reorderable[id]; !ok {
			return fmt.Errorf("%w: unknown folder %s", ErrOrderMismatch, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrOrderMismatch, id)
		}
		seen[id] = struct{}{}
	}

	for index, id := range orderedIDs {
		order := float64(index)
		reorderable[id].Order = &order
	}
	return r.store(ctx, folders)
}

// normalizeFolder validates a folder record and fills in defaults,
// returning a fresh copy ready to persist.
func normalizeFolder(f *core.Folder) (*core.Folder, error) {
	name, err := core.ValidateFolderName(f.Name)
	if err != nil {
		return nil, err
	}

	stored := &core.Folder{
		Id:        f.Id,
		Name:      name,
		Icon:      f.Icon,
		CreatedAt: f.CreatedAt,
		Order:     f.Order,
	}
	if stored.Id == "" {
		stored.Id = core.NewID()
	}
	if stored.Icon == "" {
		stored.Icon = core.DefaultFolderIcon
	}
	if stored.CreatedAt == 0 {
		stored.CreatedAt = core.NowMillis()
	}
	return stored, nil
}

func (r *FolderRepository) load(ctx context.Context) ([]*core.Folder, error) {
	values, err := r.kv.Get(ctx, KeyFolders)
	if err != nil {
		r.logger.Error("failed to load folders", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return UnmarshalFolders(values[KeyFolders])
}

func (r *FolderRepository) store(ctx context.Context, folders []*core.Folder) error {
	data, err := MarshalFolders(folders)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, map[string][]byte{KeyFolders: data}); err != nil {
		r.logger.Error("failed to store folders", "err", err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
