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
	"fmt"
	"strings"
)

// Field limits enforced before any record is persisted.
const (
	MaxTitleLen      = 100
	MaxContentWords  = 5000
	MaxFolderNameLen = 50
)

// ValidateTitle validates a prompt title and returns it trimmed.
//
// Validation rules:
//   - must be non-empty after trimming
//   - must be at most MaxTitleLen characters after trimming
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrTitleRequired)
	}
	if len([]rune(trimmed)) > MaxTitleLen {
		return "", fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrTitleTooLong)
	}
	return trimmed, nil
}

// ValidateContent validates prompt content and returns it trimmed.
//
// Validation rules:
//   - must be non-empty after trimming
//   - must contain at most MaxContentWords whitespace-separated words
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrContentRequired)
	}
	if len(strings.Fields(trimmed)) > MaxContentWords {
		return "", fmt.Errorf("%w: %w", ErrInvalidPrompt, ErrContentTooLong)
	}
	return trimmed, nil
}

// ValidateFolderName validates a folder name and returns it trimmed.
//
// Validation rules:
//   - must be non-empty after trimming
//   - must be at most MaxFolderNameLen characters after trimming
func ValidateFolderName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidFolder, ErrFolderNameRequired)
	}
	if len([]rune(trimmed)) > MaxFolderNameLen {
		return "", fmt.Errorf("%w: %w", ErrInvalidFolder, ErrFolderNameTooLong)
	}
	return trimmed, nil
}
