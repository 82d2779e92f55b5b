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
	"regexp"
	"slices"
	"strings"
)

// variableRe matches non-nested bracket groups like [name].
var variableRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

// ExtractVariables scans content for [name]-style placeholders and returns
// the trimmed names in first-occurrence order with duplicates collapsed.
// Returns an empty slice for empty input. Two placeholders that trim to
// the same name count as one variable.
func ExtractVariables(content string) []string {
	variables := []string{}
	if content == "" {
		return variables
	}

	seen := make(map[string]struct{})
	for _, match := range variableRe.FindAllStringSubmatch(content, -1) {
		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		variables = append(variables, name)
	}
	return variables
}

// ReplaceVariables substitutes every literal occurrence of [name] in
// content with the value supplied for name. Empty values erase the
// placeholder; placeholders with no entry in values are left intact.
// Substitutions run in sorted name order so a value that itself contains
// a placeholder always expands the same way.
func ReplaceVariables(content string, values map[string]string) string {
	if content == "" || len(values) == 0 {
		return content
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	result := content
	for _, name := range names {
		result = strings.ReplaceAll(result, "["+name+"]", values[name])
	}
	return result
}
