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


package pipeline

import (
	"strings"

	"github.com/poiesic/embatch/dataset"
)

// Adaptive truncation thresholds, in runes. Very long texts get cut harder
// because they carry proportionally more token overhead.
const (
	hardLimitRunes  = 50000
	hardTargetRunes = 15000
	softLimitRunes  = 30000
	softTargetRunes = 20000
)

// PrepareText builds the embedding input for one record: description and body
// joined by a blank line, then adaptively truncated.
func PrepareText(record dataset.Record) string {
	var text string
	switch {
	case record.Description == "":
		text = record.Body
	case record.Body == "":
		text = record.Description
	default:
		text = record.Description + "\n\n" + record.Body
	}
	return truncateAdaptive(text)
}

// PrepareBatch builds embedding inputs for a contiguous slice of the source.
func PrepareBatch(source dataset.Source, startOffset int64, batchSize int) []string {
	texts := make([]string, batchSize)
	for i := 0; i < batchSize; i++ {
		texts[i] = PrepareText(source.At(int(startOffset) + i))
	}
	return texts
}

// truncateAdaptive cuts text on rune boundaries so multi-byte content never
// splits mid-character.
func truncateAdaptive(text string) string {
	runes := []rune(text)
	switch {
	case len(runes) > hardLimitRunes:
		return strings.TrimSpace(string(runes[:hardTargetRunes]))
	case len(runes) > softLimitRunes:
		return strings.TrimSpace(string(runes[:softTargetRunes]))
	default:
		return text
	}
}
