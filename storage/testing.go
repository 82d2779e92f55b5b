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
	"sync"
)

// MemoryKV is an in-memory KV adapter for tests. The exported error
// fields inject failures into the corresponding operations.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte

	GetErr    error
	SetErr    error
	RemoveErr error
}

var _ KV = (*MemoryKV)(nil)

// NewMemoryKV creates an empty in-memory adapter.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemoryKV) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, ok := m.data[key]; ok {
			copied := make([]byte, len(value))
			copy(copied, value)
			values[key] = copied
		}
	}
	return values, nil
}

// Set implements KV.
func (m *MemoryKV) Set(ctx context.Context, entries map[string][]byte) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range entries {
		copied := make([]byte, len(value))
		copy(copied, value)
		m.data[key] = copied
	}
	return nil
}

// Remove implements KV.
func (m *MemoryKV) Remove(ctx context.Context, keys ...string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// Seed writes a raw value directly, bypassing error injection. Useful
// for laying down legacy-shaped records in migration tests.
func (m *MemoryKV) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Raw returns the stored bytes for a key, or nil when absent.
func (m *MemoryKV) Raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}
