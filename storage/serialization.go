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
	"github.com/poiesic/embatch/core"
)

// MarshalBatchRecord serializes a BatchRecord to bytes.
func MarshalBatchRecord(record *core.BatchRecord) []byte {
	buf := make([]byte, core.BatchRecordMUS.Size(*record))
	core.BatchRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalBatchRecord deserializes a BatchRecord from bytes.
func UnmarshalBatchRecord(data []byte) (*core.BatchRecord, error) {
	record, _, err := core.BatchRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalVectorBlock serializes a VectorBlock to bytes.
func MarshalVectorBlock(block *core.VectorBlock) []byte {
	buf := make([]byte, core.VectorBlockMUS.Size(*block))
	core.VectorBlockMUS.Marshal(*block, buf)
	return buf
}

// UnmarshalVectorBlock deserializes a VectorBlock from bytes.
func UnmarshalVectorBlock(data []byte) (*core.VectorBlock, error) {
	block, _, err := core.VectorBlockMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &block, nil
}
