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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPrompt indicates a Prompt failed validation.
	ErrInvalidPrompt = errors.New("invalid prompt")

	// ErrInvalidFolder indicates a Folder failed validation.
	ErrInvalidFolder = errors.New("invalid folder")

	// ErrTitleRequired indicates the prompt title is missing or blank.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong indicates the prompt title exceeds MaxTitleLen characters.
	ErrTitleTooLong = errors.New("title must be 100 characters or less")

	// ErrContentRequired indicates the prompt content is missing or blank.
	ErrContentRequired = errors.New("content is required")

	// ErrContentTooLong indicates the content exceeds MaxContentWords words.
	ErrContentTooLong = errors.New("content must be 5000 words or less")

	// ErrFolderNameRequired indicates the folder name is missing or blank.
	ErrFolderNameRequired = errors.New("folder name is required")

	// ErrFolderNameTooLong indicates the folder name exceeds MaxFolderNameLen characters.
	ErrFolderNameTooLong = errors.New("folder name must be 50 characters or less")
)
