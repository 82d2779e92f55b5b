package storage

import (
	"context"
	"fmt"
)

// Stats summarizes the persisted collections.
type Stats struct {
	Prompts    int   `json:"promptCount"`
	Folders    int   `json:"folderCount"`
	Favorites  int   `json:"favoriteCount"`
	TotalUsage int   `json:"totalUsage"`
	TotalBytes int64 `json:"totalSize"`
}

// CollectStats reads both collections and computes summary counts plus
// the serialized size of the stored data.
func CollectStats(ctx context.Context, kv KV) (*Stats, error) {
	values, err := kv.Get(ctx, KeyPrompts, KeyFolders)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	prompts, err := UnmarshalPrompts(values[KeyPrompts])
	if err != nil {
		return nil, err
	}
	folders, err := UnmarshalFolders(values[KeyFolders])
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Prompts:    len(prompts),
		Folders:    len(folders),
		TotalBytes: int64(len(values[KeyPrompts]) + len(values[KeyFolders])),
	}
	for _, p := range prompts {
		if p.IsFavorite {
			stats.Favorites++
		}
		stats.TotalUsage += p.UsageCount
	}
	return stats, nil
}
