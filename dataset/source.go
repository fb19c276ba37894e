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

// Record is a single source item to be embedded. Both fields are optional;
// a missing field is an empty string, never an error.
type Record struct {
	// Description is the descriptive text for the item (e.g. a docstring).
	Description string

	// Body is the main text of the item (e.g. a function body).
	Body string
}

// Source is an ordered, finite, restartable sequence of records with a
// stable length, indexable by integer offset. Implementations must return
// the same record for the same offset across restarts; the checkpoint/resume
// machinery depends on it.
type Source interface {
	// Len returns the total number of records.
	Len() int

	// At returns the record at the given offset. Offsets outside [0, Len())
	// are a programming error and may panic.
	At(i int) Record
}

// SliceSource is an in-memory Source backed by a slice.
type SliceSource []Record

var _ Source = (SliceSource)(nil)

// Len returns the number of records.
func (s SliceSource) Len() int { return len(s) }

// At returns the record at offset i.
func (s SliceSource) At(i int) Record { return s[i] }
