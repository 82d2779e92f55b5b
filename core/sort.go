package core

import (
	"slices"
	"strings"
)

// SortMode selects the presentation ordering for prompt listings.
type SortMode string

const (
	// SortRecent places favorites first, then most recently touched.
	SortRecent SortMode = "recent"
	// SortAlphabetical places favorites first, then by title.
	SortAlphabetical SortMode = "alphabetical"
	// SortUsage places favorites first, then by usage count descending.
	SortUsage SortMode = "usage"
	// SortFavorites keeps only favorites, most recently touched first.
	SortFavorites SortMode = "favorites"
	// SortManual places favorites first, then by the manual Order key
	// ascending, falling back to CreatedAt descending for equal keys.
	SortManual SortMode = "manual"
)

// SortPrompts returns a new slice ordered according to mode. The input is
// not modified. Unknown modes return a copy in the stored order.
func SortPrompts(prompts []*Prompt, mode SortMode) []*Prompt {
	sorted := slices.Clone(prompts)

	switch mode {
	case SortRecent:
		slices.SortStableFunc(sorted, func(a, b *Prompt) int {
			if c := favoritesFirst(a, b); c != 0 {
				return c
			}
			return compareDesc(touchedAt(a), touchedAt(b))
		})

	case SortAlphabetical:
		slices.SortStableFunc(sorted, func(a, b *Prompt) int {
			if c := favoritesFirst(a, b); c != 0 {
				return c
			}
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})

	case SortUsage:
		slices.SortStableFunc(sorted, func(a, b *Prompt) int {
			if c := favoritesFirst(a, b); c != 0 {
				return c
			}
			return compareDesc(int64(a.UsageCount), int64(b.UsageCount))
		})

	case SortFavorites:
		sorted = slices.DeleteFunc(sorted, func(p *Prompt) bool { return !p.IsFavorite })
		slices.SortStableFunc(sorted, func(a, b *Prompt) int {
			return compareDesc(touchedAt(a), touchedAt(b))
		})

	case SortManual:
		slices.SortStableFunc(sorted, func(a, b *Prompt) int {
			if c := favoritesFirst(a, b); c != 0 {
				return c
			}
			if a.Order != nil && b.Order != nil && *a.Order != *b.Order {
				if *a.Order < *b.Order {
					return -1
				}
				return 1
			}
			// Prompts with a manual position come before ones without.
			if (a.Order == nil) != (b.Order == nil) {
				if a.Order != nil {
					return -1
				}
				return 1
			}
			return compareDesc(a.CreatedAt, b.CreatedAt)
		})
	}

	return sorted
}

func favoritesFirst(a, b *Prompt) int {
	if a.IsFavorite == b.IsFavorite {
		return 0
	}
	if a.IsFavorite {
		return -1
	}
	return 1
}

func touchedAt(p *Prompt) int64 {
	if p.UpdatedAt != 0 {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

func compareDesc(a, b int64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}
