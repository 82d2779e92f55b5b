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
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/promptdeck/core"
)

// Migrator upgrades persisted records from older schema generations. It
// runs an ordered list of steps, each gated by its own persisted flag
// key, so a store only ever pays for a step once. Steps operate on raw
// JSON records because the whole point is to touch shapes the current
// model no longer expresses (hierarchical parentId chains, records
// missing folderId or order).
//
// A step failure is logged and swallowed: startup proceeds with
// unmigrated data rather than blocking, and the step retries on the next
// run because its flag was never written.
type Migrator struct {
	kv     KV
	logger *slog.Logger
}

// migrationStep is one schema transition, tagged with the version string
// that forms its flag key.
type migrationStep struct {
	version string
	apply   func(ctx context.Context, kv KV) error
}

// steps are applied in order, oldest transition first.
var steps = []migrationStep{
	{version: "v2", apply: migrateFolderSystem},
	{version: "v3_flat", apply: migrateFlatFolders},
}

// NewMigrator creates a Migrator over the given adapter.
func NewMigrator(kv KV) *Migrator {
	return &Migrator{
		kv:     kv,
		logger: slog.Default(),
	}
}

// Run applies every pending migration step. It must complete before any
// repository read is trusted.
func (m *Migrator) Run(ctx context.Context) {
	for _, step := range steps {
		flagKey := MigrationKeyPrefix + step.version

		values, err := m.kv.Get(ctx, flagKey)
		if err != nil {
			m.logger.Error("migration flag read failed", "version", step.version, "err", err)
			continue
		}
		if UnmarshalFlag(values[flagKey]) {
			continue
		}

		if err := step.apply(ctx, m.kv); err != nil {
			m.logger.Error("migration step failed", "version", step.version, "err", err)
			continue
		}

		if err := m.kv.Set(ctx, map[string][]byte{flagKey: MarshalFlag(true)}); err != nil {
			m.logger.Error("migration flag write failed", "version", step.version, "err", err)
			continue
		}
		m.logger.Info("migration step applied", "version", step.version)
	}
}

// rawRecord is a schema-less persisted record.
type rawRecord map[string]json.RawMessage

func loadRawRecords(ctx context.Context, kv KV, key string) ([]rawRecord, bool, error) {
	values, err := kv.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	raw, present := values[key]
	if !present || len(raw) == 0 {
		return nil, false, nil
	}
	var records []rawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return records, true, nil
}

func storeRawRecords(ctx context.Context, kv KV, key string, records []rawRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return kv.Set(ctx, map[string][]byte{key: data})
}

func rawString(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}

// migrateFolderSystem introduces the folder collection: a store that
// predates folders gets a home root, and every prompt is stamped with a
// folderId and a positional order key.
func migrateFolderSystem(ctx context.Context, kv KV) error {
	folders, present, err := loadRawRecords(ctx, kv, KeyFolders)
	if err != nil {
		return err
	}
	if !present || len(folders) == 0 {
		data, err := MarshalFolders([]*core.Folder{core.NewHomeFolder()})
		if err != nil {
			return err
		}
		if err := kv.Set(ctx, map[string][]byte{KeyFolders: data}); err != nil {
			return err
		}
	}

	prompts, present, err := loadRawRecords(ctx, kv, KeyPrompts)
	if err != nil || !present || len(prompts) == 0 {
		return err
	}
	changed := false
	for index, p := range prompts {
		if _, ok := p["folderId"]; !ok {
			p["folderId"] = rawString(core.HomeFolderID)
			changed = true
		}
		if _, ok := p["order"]; !ok {
			order, _ := json.Marshal(index)
			p["order"] = order
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return storeRawRecords(ctx, kv, KeyPrompts, prompts)
}

// migrateFlatFolders flattens the legacy hierarchy: parentId chains (up
// to 3 levels in the v2 schema) are stripped so every folder becomes a
// direct sibling under home, and prompts are backfilled with folderId,
// order, and an empty tag list where missing.
func migrateFlatFolders(ctx context.Context, kv KV) error {
	folders, present, err := loadRawRecords(ctx, kv, KeyFolders)
	if err != nil {
		return err
	}
	if !present {
		folders = nil
	}

	foldersChanged := false
	hasHome := false
	for _, f := range folders {
		if _, ok := f["parentId"]; ok {
			delete(f, "parentId")
			foldersChanged = true
		}
		var id string
		if raw, ok := f["id"]; ok {
			_ = json.Unmarshal(raw, &id)
		}
		if id == core.HomeFolderID {
			hasHome = true
		}
	}
	if !hasHome {
		home, err := json.Marshal(core.NewHomeFolder())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		var homeRecord rawRecord
		_ = json.Unmarshal(home, &homeRecord)
		folders = append([]rawRecord{homeRecord}, folders...)
		foldersChanged = true
	}
	if foldersChanged {
		if err := storeRawRecords(ctx, kv, KeyFolders, folders); err != nil {
			return err
		}
	}

	prompts, present, err := loadRawRecords(ctx, kv, KeyPrompts)
	if err != nil || !present || len(prompts) == 0 {
		return err
	}
	promptsChanged := false
	for index, p := range prompts {
		if _, ok := p["folderId"]; !ok {
			p["folderId"] = rawString(core.HomeFolderID)
			promptsChanged = true
		}
		if _, ok := p["order"]; !ok {
			order, _ := json.Marshal(index)
			p["order"] = order
			promptsChanged = true
		}
		if _, ok := p["tags"]; !ok {
			p["tags"] = json.RawMessage("[]")
			promptsChanged = true
		}
	}
	if !promptsChanged {
		return nil
	}
	return storeRawRecords(ctx, kv, KeyPrompts, prompts)
}
