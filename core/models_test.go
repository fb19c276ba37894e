package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchID_Deterministic(t *testing.T) {
	id1 := BatchID("go_train", 320)
	id2 := BatchID("go_train", 320)
	assert.Equal(t, id1, id2, "same inputs must produce the same ID")
	assert.Equal(t, "go_train_batch_000320", id1)
}

func TestBatchID_DistinctOffsets(t *testing.T) {
	assert.NotEqual(t, BatchID("go_train", 0), BatchID("go_train", 32))
	assert.NotEqual(t, BatchID("go_train", 0), BatchID("go_test", 0))
}

func TestBatchRecord_End(t *testing.T) {
	rec := &BatchRecord{Partition: "ruby_test", StartOffset: 64, BatchSize: 16}
	assert.Equal(t, int64(80), rec.End())
	assert.Equal(t, "ruby_test_batch_000064", rec.ID())
}

func TestBatchStatus_String(t *testing.T) {
	assert.Equal(t, "pending", BatchStatusPending.String())
	assert.Equal(t, "in_progress", BatchStatusInProgress.String())
	assert.Equal(t, "completed", BatchStatusCompleted.String())
	assert.Equal(t, "failed", BatchStatusFailed.String())
}

func TestVectorChecksum_Deterministic(t *testing.T) {
	vectors := [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}
	assert.Equal(t, VectorChecksum(vectors), VectorChecksum(vectors))
}

func TestVectorChecksum_DetectsChanges(t *testing.T) {
	a := [][]float32{{0.1, 0.2, 0.3}}
	b := [][]float32{{0.1, 0.2, 0.30001}}
	assert.NotEqual(t, VectorChecksum(a), VectorChecksum(b))

	// Shape changes must be detected too, not just value changes.
	c := [][]float32{{0.1, 0.2}, {0.3}}
	d := [][]float32{{0.1}, {0.2, 0.3}}
	assert.NotEqual(t, VectorChecksum(c), VectorChecksum(d))
}

func TestVectorBlock_Verify(t *testing.T) {
	block := NewVectorBlock("go_train", 0, [][]float32{{1, 2}, {3, 4}})
	assert.True(t, block.Verify())

	block.Vectors[1][0] = 99
	assert.False(t, block.Verify(), "mutated vectors must fail verification")
}
