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

// Package transfer implements the import/export engine over the storage
// repositories. Two document shapes are accepted on import: the legacy
// bare array of title/content pairs, and the structured export document
// with prompts and folders collections.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/poiesic/promptdeck/core"
)

// ErrInvalidDocument reports a document that matches neither accepted
// import shape.
var ErrInvalidDocument = errors.New("invalid import document")

// ExportVersion is the document version written by Export and understood
// by Import.
const ExportVersion = "2.0"

// Document is the structured export shape. Legacy bare arrays parse into
// the same struct with an empty folder list.
type Document struct {
	Prompts    []*core.Prompt `json:"prompts"`
	Folders    []*core.Folder `json:"folders"`
	ExportDate string         `json:"exportDate,omitempty"`
	Version    string         `json:"version,omitempty"`
	Structure  string         `json:"structure,omitempty"`
}

// The schemas check document shape only: a bare array of records, or an
// object carrying at least one of the two collections. Item-level
// problems (a record missing its title, say) are not fatal here; the
// importer skips those records individually.
const legacySchema = `{
	"type": "array",
	"items": {"type": "object"}
}`

const structuredSchema = `{
	"type": "object",
	"anyOf": [
		{"required": ["prompts"]},
		{"required": ["folders"]}
	],
	"properties": {
		"prompts": {
			"type": "array",
			"items": {"type": "object"}
		},
		"folders": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

var (
	legacyValidator     = gojsonschema.NewStringLoader(legacySchema)
	structuredValidator = gojsonschema.NewStringLoader(structuredSchema)
)

// ParseDocument validates raw import data against the accepted shapes and
// decodes it. Legacy arrays become a Document holding only prompts. A
// document needs at least one of the prompts/folders collections;
// malformed individual records survive parsing and are skipped later.
func ParseDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}

	schema := structuredValidator
	legacy := trimmed[0] == '['
	if legacy {
		schema = legacyValidator
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(details, "; "))
	}

	doc := &Document{}
	if legacy {
		if err := json.Unmarshal(trimmed, &doc.Prompts); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}
