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

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/poiesic/promptdeck/storage"
)

// Export serializes both collections into a pretty-printed structured
// document suitable for re-import.
func Export(ctx context.Context, prompts *storage.PromptRepository, folders *storage.FolderRepository) ([]byte, error) {
	allPrompts, err := prompts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	allFolders, err := folders.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Prompts:    allPrompts,
		Folders:    allFolders,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Version:    ExportVersion,
		Structure:  "flat",
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerialization, err)
	}
	return data, nil
}
