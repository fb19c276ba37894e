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


// Package storage defines the persistence boundary for batch checkpoints and
// embedding vectors. Implementations must be thread-safe and support
// concurrent access.
package storage

import (
	"context"

	"github.com/poiesic/embatch/core"
)

// PartitionStats summarizes checkpoint state for one partition.
type PartitionStats struct {
	// Partition is the partition name.
	Partition string

	// ResumeOffset is the record index the next run starts from.
	ResumeOffset int64

	// VectorCount is the number of vectors persisted so far.
	VectorCount int64

	// Completed, Failed and InProgress count checkpoint records by status.
	Completed  int64
	Failed     int64
	InProgress int64
}

// BatchRepository provides checkpoint and vector persistence for the pipeline.
// A completed batch, its vectors and the partition counters always move
// together in one transaction, so a crash can never leave vectors without a
// checkpoint or a checkpoint without vectors.
type BatchRepository interface {
	// PutBatch inserts or replaces a checkpoint record.
	PutBatch(ctx context.Context, record *core.BatchRecord) error

	// GetBatch retrieves the checkpoint record for a batch.
	// Returns ErrNotFound if no record exists.
	GetBatch(ctx context.Context, partition string, startOffset int64) (*core.BatchRecord, error)

	// CommitBatch atomically persists the vectors for a batch, marks its
	// checkpoint record Completed, advances the partition resume offset and
	// adds to the partition vector count.
	CommitBatch(ctx context.Context, record *core.BatchRecord, vectors [][]float32) error

	// FailBatch marks a batch terminally failed and advances the resume
	// offset past it without persisting vectors, so one poisoned batch does
	// not wedge the partition.
	FailBatch(ctx context.Context, record *core.BatchRecord, reason string) error

	// ResumeOffset returns the record index the partition should resume
	// from. Returns 0 for a partition with no committed work.
	ResumeOffset(ctx context.Context, partition string) (int64, error)

	// VectorCount returns the number of vectors persisted for the partition.
	VectorCount(ctx context.Context, partition string) (int64, error)

	// LoadVectors returns every committed vector block for the partition in
	// start-offset order, verifying each block's checksum.
	// Returns ErrChecksumMismatch if any block fails verification.
	LoadVectors(ctx context.Context, partition string) ([]*core.VectorBlock, error)

	// Stats returns aggregate checkpoint state for the partition.
	Stats(ctx context.Context, partition string) (*PartitionStats, error)

	// ListBatches returns every checkpoint record for the partition in
	// start-offset order.
	ListBatches(ctx context.Context, partition string) ([]*core.BatchRecord, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
