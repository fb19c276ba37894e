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

// ValidateBatchRecord validates a BatchRecord according to domain rules.
//
// Validation rules:
//   - Partition must be a usable partition name (see ValidatePartitionName)
//   - StartOffset must not be negative
//   - BatchSize must be positive
//   - Status must be a known BatchStatus
//
// NOT validated (populated during processing):
//   - RetryCount, ErrorMessage (zero values are valid)
//   - CompletedAt (zero until the batch completes)
func ValidateBatchRecord(record *BatchRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidBatchRecord)
	}

	if err := ValidatePartitionName(record.Partition); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBatchRecord, err)
	}

	if record.StartOffset < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBatchRecord, ErrInvalidOffset)
	}

	if record.BatchSize <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBatchRecord, ErrInvalidBatchSize)
	}

	if err := ValidateBatchStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBatchRecord, err)
	}

	return nil
}

// ValidatePartitionName validates that a name can serve as a storage key
// component. Keys join their segments with ':', so a name containing ':'
// would leak into another partition's key range.
func ValidatePartitionName(name string) error {
	if name == "" {
		return ErrEmptyPartition
	}
	if strings.ContainsRune(name, ':') {
		return fmt.Errorf("%w: %q", ErrInvalidPartitionName, name)
	}
	return nil
}

// ValidateBatchStatus validates that a BatchStatus has a valid value.
func ValidateBatchStatus(status BatchStatus) error {
	switch status {
	case BatchStatusPending, BatchStatusInProgress, BatchStatusCompleted, BatchStatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidBatchStatus, status)
	}
}
