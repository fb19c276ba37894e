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


package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

const (
	// DefaultDescriptionField is the JSON field read into Record.Description
	// when no override is configured.
	DefaultDescriptionField = "description"

	// DefaultBodyField is the JSON field read into Record.Body when no
	// override is configured.
	DefaultBodyField = "body"

	// maxLineBytes bounds a single JSONL line. Source items run to tens of
	// thousands of characters, so the default bufio limit is too small.
	maxLineBytes = 4 * 1024 * 1024
)

// LoadJSONL reads a JSON-lines file into memory as a Source. Each line is one
// JSON object; descField and bodyField select which string fields become the
// record's Description and Body (empty selectors fall back to the defaults).
// Missing fields and non-string values are treated as empty strings. Blank
// lines are skipped.
func LoadJSONL(path, descField, bodyField string) (Source, error) {
	if descField == "" {
		descField = DefaultDescriptionField
	}
	if bodyField == "" {
		bodyField = DefaultBodyField
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	var records SliceSource

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal(line, &fields); err != nil {
			return nil, fmt.Errorf("failed to parse %s line %d: %w", path, lineNo, err)
		}

		records = append(records, Record{
			Description: stringField(fields, descField),
			Body:        stringField(fields, bodyField),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	return records, nil
}

// stringField extracts a string value, treating missing or non-string fields
// as empty.
func stringField(fields map[string]any, name string) string {
	v, ok := fields[name]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
