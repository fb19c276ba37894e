package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// BatchStatus describes the checkpoint state of a batch.
type BatchStatus int

const (
	// BatchStatusPending is the implicit state of a batch before its first write.
	BatchStatusPending BatchStatus = iota + 1
	// BatchStatusInProgress marks a batch that has been picked up by a worker.
	BatchStatusInProgress
	// BatchStatusCompleted marks a batch whose vectors are durably persisted.
	// A completed batch is never reprocessed.
	BatchStatusCompleted
	// BatchStatusFailed marks a batch that exhausted its retry budget or hit
	// a non-retryable error. Failed batches are terminal and skipped on resume.
	BatchStatusFailed
)

// String returns the checkpoint-table representation of the status.
func (s BatchStatus) String() string {
	switch s {
	case BatchStatusPending:
		return "pending"
	case BatchStatusInProgress:
		return "in_progress"
	case BatchStatusCompleted:
		return "completed"
	case BatchStatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// BatchRecord is the unit of checkpointed work: one slice of a partition's
// source records submitted to the embedding endpoint in a single request.
// It is keyed by (Partition, StartOffset); only the partition's single worker
// ever writes it.
type BatchRecord struct {
	Partition    string
	StartOffset  int64
	BatchSize    int
	Status       BatchStatus
	RetryCount   int
	ErrorMessage string
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// NewBatchRecord creates an in-progress record for a freshly picked-up batch.
func NewBatchRecord(partition string, startOffset int64, batchSize int) *BatchRecord {
	return &BatchRecord{
		Partition:   partition,
		StartOffset: startOffset,
		BatchSize:   batchSize,
		Status:      BatchStatusInProgress,
		CreatedAt:   time.Now().UTC(),
	}
}

// ID returns the deterministic display identifier for the batch.
func (r *BatchRecord) ID() string {
	return BatchID(r.Partition, r.StartOffset)
}

// End returns the source offset just past this batch.
func (r *BatchRecord) End() int64 {
	return r.StartOffset + int64(r.BatchSize)
}

// BatchID generates the deterministic identifier for a batch from its
// partition and start offset. Identical inputs always produce identical IDs,
// which is what makes checkpoint lookups safe across restarts.
func BatchID(partition string, startOffset int64) string {
	return fmt.Sprintf("%s_batch_%06d", partition, startOffset)
}

// VectorBlock holds the embedding vectors produced by one completed batch.
// Blocks are stored keyed by batch rather than appended in place, so a crash
// between persisting results and updating the checkpoint cannot duplicate
// vectors.
type VectorBlock struct {
	Partition   string
	StartOffset int64
	Vectors     [][]float32
	Checksum    uint64
	CreatedAt   time.Time
}

// NewVectorBlock builds a block with its checksum populated.
func NewVectorBlock(partition string, startOffset int64, vectors [][]float32) *VectorBlock {
	return &VectorBlock{
		Partition:   partition,
		StartOffset: startOffset,
		Vectors:     vectors,
		Checksum:    VectorChecksum(vectors),
		CreatedAt:   time.Now().UTC(),
	}
}

// Verify recomputes the checksum and reports whether it matches the stored one.
func (b *VectorBlock) Verify() bool {
	return b.Checksum == VectorChecksum(b.Vectors)
}

// VectorChecksum computes a 64-bit BLAKE2b digest over the raw float bits of
// the vectors. It detects silent corruption of persisted embeddings.
func VectorChecksum(vectors [][]float32) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	var buf [4]byte
	for _, vec := range vectors {
		binary.LittleEndian.PutUint32(buf[:], uint32(len(vec)))
		h.Write(buf[:])
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			h.Write(buf[:])
		}
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
