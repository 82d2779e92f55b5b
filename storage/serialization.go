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
	"encoding/json"
	"fmt"

	"github.com/poiesic/promptdeck/core"
)

// Collections are stored as JSON documents so they stay readable by, and
// importable from, the browser-extension exports that defined the format.

// MarshalPrompts serializes the prompt collection. A nil slice encodes as
// an empty JSON array.
func MarshalPrompts(prompts []*core.Prompt) ([]byte, error) {
	if prompts == nil {
		prompts = []*core.Prompt{}
	}
	data, err := json.Marshal(prompts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// UnmarshalPrompts deserializes the prompt collection. Nil or empty input
// yields an empty collection.
func UnmarshalPrompts(data []byte) ([]*core.Prompt, error) {
	if len(data) == 0 {
		return []*core.Prompt{}, nil
	}
	var prompts []*core.Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if prompts == nil {
		prompts = []*core.Prompt{}
	}
	return prompts, nil
}

// MarshalFolders serializes the folder collection. A nil slice encodes as
// an empty JSON array.
func MarshalFolders(folders []*core.Folder) ([]byte, error) {
	if folders == nil {
		folders = []*core.Folder{}
	}
	data, err := json.Marshal(folders)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// UnmarshalFolders deserializes the folder collection. Nil or empty input
// yields an empty collection.
func UnmarshalFolders(data []byte) ([]*core.Folder, error) {
	if len(data) == 0 {
		return []*core.Folder{}, nil
	}
	var folders []*core.Folder
	if err := json.Unmarshal(data, &folders); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if folders == nil {
		folders = []*core.Folder{}
	}
	return folders, nil
}

// MarshalFlag serializes a migration flag.
func MarshalFlag(set bool) []byte {
	if set {
		return []byte("true")
	}
	return []byte("false")
}

// UnmarshalFlag deserializes a migration flag. Absent or malformed values
// read as unset.
func UnmarshalFlag(data []byte) bool {
	var set bool
	if err := json.Unmarshal(data, &set); err != nil {
		return false
	}
	return set
}
