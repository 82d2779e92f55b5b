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

package promptdeck

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/promptdeck/core"
	"github.com/poiesic/promptdeck/integrity"
	"github.com/poiesic/promptdeck/storage"
	"github.com/poiesic/promptdeck/storage/badger"
	"github.com/poiesic/promptdeck/transfer"
)

// Manager is the aggregate entry point: it owns the persistence adapter,
// runs schema migrations before handing out repositories, and hosts the
// import/export engine. There is no process-wide instance; callers create
// and close their own.
type Manager struct {
	backend  *badger.Backend
	kv       storage.KV
	prompts  *storage.PromptRepository
	folders  *storage.FolderRepository
	defaults *storage.DefaultsRepository
	importer *transfer.Importer

	// sideWrites serializes best-effort writes (usage bumps) so they
	// never block the primary action.
	sideWrites *ants.Pool
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Open opens a Manager over a Badger database at the given path,
// creating it if needed.
func Open(path string, opts ...Option) (*Manager, error) {
	backend, err := badger.OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newManager(backend, backend, opts...)
}

// OpenInMemory opens a Manager over a non-persistent Badger instance.
func OpenInMemory(opts ...Option) (*Manager, error) {
	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newManager(backend, backend, opts...)
}

// NewManagerWithKV builds a Manager over an injected adapter. The caller
// keeps ownership of the adapter's lifecycle.
func NewManagerWithKV(kv storage.KV, opts ...Option) (*Manager, error) {
	return newManager(kv, nil, opts...)
}

func newManager(kv storage.KV, backend *badger.Backend, opts ...Option) (*Manager, error) {
	pool, err := ants.NewPool(1)
	if err != nil {
		if backend != nil {
			backend.Close()
		}
		return nil, err
	}

	m := &Manager{
		backend:    backend,
		kv:         kv,
		prompts:    storage.NewPromptRepository(kv),
		folders:    storage.NewFolderRepository(kv),
		defaults:   storage.NewDefaultsRepository(kv),
		sideWrites: pool,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.importer = transfer.NewImporter(kv, m.prompts, m.folders)

	// Repositories must not be used until the store is upgraded.
	storage.NewMigrator(kv).Run(context.Background())
	return m, nil
}

// Close drains the side-write pool and closes the backend, when the
// Manager owns one.
func (m *Manager) Close() error {
	// In-flight usage bumps must land before the backend goes away.
	if err := m.sideWrites.ReleaseTimeout(5 * time.Second); err != nil {
		m.logger.Warn("side-write pool did not drain", "err", err)
	}
	if m.backend == nil {
		return nil
	}
	if err := m.backend.Close(); err != nil {
		m.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Prompts returns the prompt repository.
func (m *Manager) Prompts() *storage.PromptRepository {
	return m.prompts
}

// Folders returns the folder repository.
func (m *Manager) Folders() *storage.FolderRepository {
	return m.folders
}

// Defaults returns the variable-defaults repository.
func (m *Manager) Defaults() *storage.DefaultsRepository {
	return m.defaults
}

// Import writes an import document into the store.
func (m *Manager) Import(ctx context.Context, data []byte, mode transfer.Mode) (*transfer.Report, error) {
	return m.importer.Import(ctx, data, mode)
}

// Export serializes both collections into an export document.
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	return transfer.Export(ctx, m.prompts, m.folders)
}

// CheckIntegrity runs the read-only diagnostic over the current
// collections.
func (m *Manager) CheckIntegrity(ctx context.Context) (*integrity.Report, error) {
	prompts, err := m.prompts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := m.folders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return integrity.Check(prompts, folders), nil
}

// Stats summarizes the persisted collections.
func (m *Manager) Stats(ctx context.Context) (*storage.Stats, error) {
	return storage.CollectStats(ctx, m.kv)
}

// Render substitutes the given values into the prompt's variables and
// returns the final text. Supplied values are remembered as defaults for
// the next use, and the prompt's usage count is bumped; both are
// best-effort and never fail the render.
func (m *Manager) Render(ctx context.Context, id string, values map[string]string) (string, error) {
	prompt, err := m.prompts.Get(ctx, id)
	if err != nil {
		return "", err
	}
	rendered := core.ReplaceVariables(prompt.Content, values)

	if len(values) > 0 {
		if err := m.defaults.Merge(ctx, values); err != nil {
			m.logger.Warn("failed to persist variable defaults", "err", err)
		}
	}

	if err := m.sideWrites.Submit(func() {
		if err := m.prompts.IncrementUsage(context.Background(), id); err != nil {
			m.logger.Warn("failed to bump usage count", "prompt", id, "err", err)
		}
	}); err != nil {
		m.logger.Warn("usage bump not scheduled", "prompt", id, "err", err)
	}

	return rendered, nil
}
