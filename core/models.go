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


package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

const (
	// HomeFolderID is the reserved id of the always-present root folder.
	// The home folder can never be deleted.
	HomeFolderID = "home"

	// DefaultFolderIcon is assigned to folders created without an icon.
	DefaultFolderIcon = "📁"

	// HomeFolderIcon is the display glyph of the root folder.
	HomeFolderIcon = "🏠"
)

// Prompt is a stored, user-authored text template. Content may embed
// [name]-style placeholders; Variables is derived from Content and is
// never set directly by callers. A nil Order means no manual position
// was ever assigned; zero is a real position and must round-trip.
type Prompt struct {
	Id         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	FolderId   string   `json:"folderId"`
	IsFavorite bool     `json:"isFavorite"`
	UsageCount int      `json:"usageCount"`
	Variables  []string `json:"variables"`
	Tags       []string `json:"tags"`
	Order      *float64 `json:"order,omitempty"`
	CreatedAt  int64    `json:"createdAt"` // epoch milliseconds
	UpdatedAt  int64    `json:"updatedAt"` // epoch milliseconds
}

// Folder is a flat, non-nested grouping of prompts. Every folder besides
// home is a direct sibling of every other.
type Folder struct {
	Id        string   `json:"id"`
	Name      string   `json:"name"`
	Icon      string   `json:"icon"`
	CreatedAt int64    `json:"createdAt"` // epoch milliseconds
	Order     *float64 `json:"order,omitempty"`
}

// NewHomeFolder returns a fresh home root folder record.
func NewHomeFolder() *Folder {
	return &Folder{
		Id:        HomeFolderID,
		Name:      "Home",
		Icon:      HomeFolderIcon,
		CreatedAt: NowMillis(),
	}
}

// NewID returns a new opaque record identifier.
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time as epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Fingerprint computes a 64-bit BLAKE2b digest over the given parts after
// trimming and lowercasing each one. Identical content yields identical
// fingerprints, which backs the duplicate-detection maps used during
// import merges.
func Fingerprint(parts ...string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
