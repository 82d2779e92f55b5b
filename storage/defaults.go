package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// DefaultsRepository stores the last-used value per variable name, used
// to prefill future variable prompts. The mapping is neither versioned
// nor validated.
type DefaultsRepository struct {
	kv KV
	mu sync.Mutex
}

// NewDefaultsRepository creates a DefaultsRepository over the given
// adapter.
func NewDefaultsRepository(kv KV) *DefaultsRepository {
	return &DefaultsRepository{kv: kv}
}

// Get returns the stored defaults. An absent or malformed value reads as
// an empty map.
func (r *DefaultsRepository) Get(ctx context.Context) (map[string]string, error) {
	values, err := r.kv.Get(ctx, KeyVariableDefaults)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	defaults := map[string]string{}
	if raw, ok := values[KeyVariableDefaults]; ok && len(raw) > 0 {
		// Tolerate garbage: defaults are a convenience, not a record.
		_ = json.Unmarshal(raw, &defaults)
	}
	return defaults, nil
}

// Merge records the given values as the new defaults for their variable
// names. Empty values are ignored; other names keep their stored value.
func (r *DefaultsRepository) Merge(ctx context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	defaults, err := r.Get(ctx)
	if err != nil {
		return err
	}
	changed := false
	for name, value := range values {
		if value == "" || defaults[name] == value {
			continue
		}
		defaults[name] = value
		changed = true
	}
	if !changed {
		return nil
	}

	data, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if err := r.kv.Set(ctx, map[string][]byte{KeyVariableDefaults: data}); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
