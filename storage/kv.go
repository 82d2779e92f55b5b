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

	"github.com/poiesic/promptdeck/core"
)

// Keys under which the collections are persisted. The names are part of
// the on-disk contract and must stay compatible with data written by
// earlier releases.
const (
	// KeyPrompts holds the JSON sequence of prompt records.
	KeyPrompts = "prompt_manager_data"

	// KeyFolders holds the JSON sequence of folder records.
	KeyFolders = "prompt_manager_folders"

	// KeyVariableDefaults holds the last-used value per variable name.
	// The mapping is neither versioned nor validated.
	KeyVariableDefaults = "variable_defaults"

	// MigrationKeyPrefix prefixes the per-version migration flag keys,
	// e.g. prompt_manager_migration_v3_flat.
	MigrationKeyPrefix = "prompt_manager_migration_"
)

// KV is the persistence adapter: an asynchronous key-value store holding
// JSON-serializable values. A write always replaces the entire value bound
// to a key; callers read-modify-write whole collections. No atomicity is
// guaranteed across keys.
//
// Implementations must be safe for concurrent use. Two concurrent callers
// racing on the same key still lose updates (last writer wins); acceptable
// for a single-user, mostly-single-surface tool.
type KV interface {
	// Get returns the stored values for the given keys. Absent keys are
	// simply missing from the result map.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)

	// Set stores every entry, replacing any existing values.
	Set(ctx context.Context, entries map[string][]byte) error

	// Remove deletes the given keys. Removing an absent key is not an error.
	Remove(ctx context.Context, keys ...string) error
}

// Reset clears both collections, leaving a store containing only the home
// root folder. Used by replace-mode imports.
func Reset(ctx context.Context, kv KV) error {
	prompts, err := MarshalPrompts(nil)
	if err != nil {
		return err
	}
	folders, err := MarshalFolders([]*core.Folder{core.NewHomeFolder()})
	if err != nil {
		return err
	}
	return kv.Set(ctx, map[string][]byte{
		KeyPrompts: prompts,
		KeyFolders: folders,
	})
}
