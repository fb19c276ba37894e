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
	// ErrInvalidBatchRecord indicates a BatchRecord failed validation.
	ErrInvalidBatchRecord = errors.New("invalid batch record")

	// ErrEmptyPartition indicates the Partition field is empty.
	ErrEmptyPartition = errors.New("partition cannot be empty")

	// ErrInvalidPartitionName indicates a partition name that cannot be used
	// as a storage key component.
	ErrInvalidPartitionName = errors.New("partition name cannot contain ':'")

	// ErrInvalidOffset indicates a negative start offset.
	ErrInvalidOffset = errors.New("start offset cannot be negative")

	// ErrInvalidBatchSize indicates a batch size that is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidBatchStatus indicates an invalid BatchStatus value.
	ErrInvalidBatchStatus = errors.New("invalid batch status")

	// ErrCorruptedState indicates that the persisted vector count does not
	// match the completed checkpoints. The run must stop for manual
	// inspection rather than guess which data is trustworthy.
	ErrCorruptedState = errors.New("persisted vectors do not match completed checkpoints")
)
