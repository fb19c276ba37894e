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


package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/embatch/core"
	"github.com/poiesic/embatch/storage"
)

// BatchRepository implements storage.BatchRepository for BadgerDB.
type BatchRepository struct {
	backend *Backend
}

var _ storage.BatchRepository = (*BatchRepository)(nil)

// NewBatchRepository creates a new BatchRepository.
func NewBatchRepository(backend *Backend) *BatchRepository {
	return &BatchRepository{
		backend: backend,
	}
}

// PutBatch inserts or replaces a checkpoint record.
func (r *BatchRepository) PutBatch(ctx context.Context, record *core.BatchRecord) error {
	if err := core.ValidateBatchRecord(record); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeBatchKey(record.Partition, record.StartOffset)
		if err := tx.Set(key, storage.MarshalBatchRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetBatch retrieves the checkpoint record for a batch.
func (r *BatchRepository) GetBatch(ctx context.Context, partition string, startOffset int64) (*core.BatchRecord, error) {
	var record *core.BatchRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeBatchKey(partition, startOffset))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalBatchRecord(val)
			return unmarshalErr
		})
	}, false)

	return record, err
}

// CommitBatch atomically persists the batch vectors, the Completed checkpoint
// record, the advanced resume offset and the new vector count. Everything
// lands in one transaction so a crash between writes is impossible.
func (r *BatchRepository) CommitBatch(ctx context.Context, record *core.BatchRecord, vectors [][]float32) error {
	if err := core.ValidateBatchRecord(record); err != nil {
		return err
	}
	if len(vectors) != record.BatchSize {
		return fmt.Errorf("commit %s: %d vectors for batch of %d",
			record.ID(), len(vectors), record.BatchSize)
	}

	now := time.Now().UTC()
	committed := *record
	committed.Status = core.BatchStatusCompleted
	committed.CompletedAt = now

	block := core.NewVectorBlock(record.Partition, record.StartOffset, vectors)

	return r.backend.WithTx(func(tx *badger.Txn) error {
		resume, err := readCounterTx(tx, makeResumeOffsetKey(record.Partition))
		if err != nil {
			return err
		}
		count, err := readCounterTx(tx, makeVectorCountKey(record.Partition))
		if err != nil {
			return err
		}

		if err := tx.Set(makeVectorBlockKey(record.Partition, record.StartOffset),
			storage.MarshalVectorBlock(block)); err != nil {
			return err
		}
		if err := tx.Set(makeBatchKey(record.Partition, record.StartOffset),
			storage.MarshalBatchRecord(&committed)); err != nil {
			return err
		}

		// Offsets only move forward. A re-commit of an already covered
		// batch must not rewind the partition.
		if end := committed.End(); end > resume {
			if err := tx.Set(makeResumeOffsetKey(record.Partition), encodeCounter(end)); err != nil {
				return err
			}
		}
		if err := tx.Set(makeVectorCountKey(record.Partition),
			encodeCounter(count+int64(len(vectors)))); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// FailBatch marks the batch terminally failed and advances the resume offset
// past it, in one transaction. No vectors are written.
func (r *BatchRepository) FailBatch(ctx context.Context, record *core.BatchRecord, reason string) error {
	if err := core.ValidateBatchRecord(record); err != nil {
		return err
	}

	failed := *record
	failed.Status = core.BatchStatusFailed
	failed.ErrorMessage = reason
	failed.CompletedAt = time.Now().UTC()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		resume, err := readCounterTx(tx, makeResumeOffsetKey(record.Partition))
		if err != nil {
			return err
		}

		if err := tx.Set(makeBatchKey(record.Partition, record.StartOffset),
			storage.MarshalBatchRecord(&failed)); err != nil {
			return err
		}
		if end := failed.End(); end > resume {
			if err := tx.Set(makeResumeOffsetKey(record.Partition), encodeCounter(end)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// ResumeOffset returns the record index the partition should resume from.
func (r *BatchRepository) ResumeOffset(ctx context.Context, partition string) (int64, error) {
	return r.readCounter(makeResumeOffsetKey(partition))
}

// VectorCount returns the number of vectors persisted for the partition.
func (r *BatchRepository) VectorCount(ctx context.Context, partition string) (int64, error) {
	return r.readCounter(makeVectorCountKey(partition))
}

// LoadVectors returns every committed vector block for the partition in
// start-offset order, verifying each block's checksum.
func (r *BatchRepository) LoadVectors(ctx context.Context, partition string) ([]*core.VectorBlock, error) {
	var blocks []*core.VectorBlock

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartitionPrefix(vectorBlockPrefix, partition)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var block *core.VectorBlock
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				block, unmarshalErr = storage.UnmarshalVectorBlock(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if !block.Verify() {
				return fmt.Errorf("%w: partition %s offset %d",
					storage.ErrChecksumMismatch, block.Partition, block.StartOffset)
			}
			blocks = append(blocks, block)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// ListBatches returns every checkpoint record for the partition in
// start-offset order.
func (r *BatchRepository) ListBatches(ctx context.Context, partition string) ([]*core.BatchRecord, error) {
	var records []*core.BatchRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartitionPrefix(batchRecordPrefix, partition)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.BatchRecord
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalBatchRecord(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// Stats returns aggregate checkpoint state for the partition.
func (r *BatchRepository) Stats(ctx context.Context, partition string) (*storage.PartitionStats, error) {
	records, err := r.ListBatches(ctx, partition)
	if err != nil {
		return nil, err
	}

	stats := &storage.PartitionStats{Partition: partition}
	for _, record := range records {
		switch record.Status {
		case core.BatchStatusCompleted:
			stats.Completed++
		case core.BatchStatusFailed:
			stats.Failed++
		case core.BatchStatusInProgress:
			stats.InProgress++
		}
	}

	if stats.ResumeOffset, err = r.ResumeOffset(ctx, partition); err != nil {
		return nil, err
	}
	if stats.VectorCount, err = r.VectorCount(ctx, partition); err != nil {
		return nil, err
	}
	return stats, nil
}

// Close closes the underlying backend.
func (r *BatchRepository) Close() error {
	return r.backend.Close()
}

func (r *BatchRepository) readCounter(key []byte) (int64, error) {
	var value int64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var txErr error
		value, txErr = readCounterTx(tx, key)
		return txErr
	}, false)
	return value, err
}

// readCounterTx reads a counter inside a transaction, treating a missing key
// as zero.
func readCounterTx(tx *badger.Txn, key []byte) (int64, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var value int64
	err = item.Value(func(val []byte) error {
		value = decodeCounter(val)
		return nil
	})
	return value, err
}
