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

// Package integrity provides a read-only diagnostic over the persisted
// collections. It never mutates data; callers decide what a failed report
// means for them.
package integrity

import (
	"errors"
	"fmt"

	"github.com/poiesic/promptdeck/core"
)

// ErrCheckFailed reports that a snapshot failed validation. Callers wrap
// it around the report's issues.
var ErrCheckFailed = errors.New("integrity check failed")

// Report lists every structural problem found in a snapshot of the two
// collections.
type Report struct {
	Prompts int      `json:"promptCount"`
	Folders int      `json:"folderCount"`
	Issues  []string `json:"issues"`
}

// OK reports whether the snapshot passed every check.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

func (r *Report) addf(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// Check inspects the collections for structural damage: a missing home
// folder, duplicate ids, prompts pointing at folders that do not exist,
// and records missing required fields.
func Check(prompts []*core.Prompt, folders []*core.Folder) *Report {
	report := &Report{
		Prompts: len(prompts),
		Folders: len(folders),
		Issues:  []string{},
	}

	folderIDs := make(map[string]struct{}, len(folders))
	hasHome := false
	for _, f := range folders {
		if f.Id == "" || f.Name == "" {
			report.addf("incomplete folder record: id=%q name=%q", f.Id, f.Name)
			continue
		}
		if _, dup := folderIDs[f.Id]; dup {
			report.addf("duplicate folder id: %s", f.Id)
			continue
		}
		folderIDs[f.Id] = struct{}{}
		if f.Id == core.HomeFolderID {
			hasHome = true
		}
	}
	if !hasHome {
		report.addf("home folder missing")
	}

	promptIDs := make(map[string]struct{}, len(prompts))
	for _, p := range prompts {
		if p.Id == "" || p.Title == "" || p.Content == "" {
			report.addf("incomplete prompt record: id=%q title=%q", p.Id, p.Title)
			continue
		}
		if _, dup := promptIDs[p.Id]; dup {
			report.addf("duplicate prompt id: %s", p.Id)
			continue
		}
		promptIDs[p.Id] = struct{}{}
		if p.FolderId != core.HomeFolderID {
			if _, ok := folderIDs[p.FolderId]; !ok {
				report.addf("prompt %s references missing folder %s", p.Id, p.FolderId)
			}
		}
	}

	return report
}
