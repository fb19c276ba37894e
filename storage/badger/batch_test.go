package badger

import (
	"context"
	"testing"

	"github.com/poiesic/embatch/core"
	"github.com/poiesic/embatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.BatchRepository {
	t.Helper()
	repo, _, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func makeVectors(n, dim int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, dim)
		for j := range vectors[i] {
			vectors[i][j] = float32(i*dim + j)
		}
	}
	return vectors
}

func TestPutGetBatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	record := core.NewBatchRecord("python", 128, 32)
	require.NoError(t, repo.PutBatch(ctx, record))

	got, err := repo.GetBatch(ctx, "python", 128)
	require.NoError(t, err)
	assert.Equal(t, "python", got.Partition)
	assert.Equal(t, int64(128), got.StartOffset)
	assert.Equal(t, 32, got.BatchSize)
	assert.Equal(t, core.BatchStatusInProgress, got.Status)
}

func TestGetBatch_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetBatch(context.Background(), "python", 0)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCommitBatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	record := core.NewBatchRecord("go", 0, 4)
	require.NoError(t, repo.PutBatch(ctx, record))
	require.NoError(t, repo.CommitBatch(ctx, record, makeVectors(4, 8)))

	got, err := repo.GetBatch(ctx, "go", 0)
	require.NoError(t, err)
	assert.Equal(t, core.BatchStatusCompleted, got.Status)
	assert.False(t, got.CompletedAt.IsZero())

	resume, err := repo.ResumeOffset(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, int64(4), resume)

	count, err := repo.VectorCount(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	blocks, err := repo.LoadVectors(ctx, "go")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, makeVectors(4, 8), blocks[0].Vectors)
	assert.True(t, blocks[0].Verify())
}

func TestCommitBatch_VectorCountMustMatchBatchSize(t *testing.T) {
	repo := newTestRepo(t)

	record := core.NewBatchRecord("go", 0, 4)
	err := repo.CommitBatch(context.Background(), record, makeVectors(3, 8))
	require.Error(t, err)
}

func TestCommitBatch_ResumeOffsetNeverRewinds(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	later := core.NewBatchRecord("go", 32, 32)
	require.NoError(t, repo.CommitBatch(ctx, later, makeVectors(32, 4)))

	earlier := core.NewBatchRecord("go", 0, 32)
	require.NoError(t, repo.CommitBatch(ctx, earlier, makeVectors(32, 4)))

	resume, err := repo.ResumeOffset(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, int64(64), resume)
}

func TestFailBatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	record := core.NewBatchRecord("java", 64, 16)
	record.RetryCount = 5
	require.NoError(t, repo.FailBatch(ctx, record, "retry budget exhausted"))

	got, err := repo.GetBatch(ctx, "java", 64)
	require.NoError(t, err)
	assert.Equal(t, core.BatchStatusFailed, got.Status)
	assert.Equal(t, "retry budget exhausted", got.ErrorMessage)

	// The partition moves past the failed batch without vectors.
	resume, err := repo.ResumeOffset(ctx, "java")
	require.NoError(t, err)
	assert.Equal(t, int64(80), resume)

	count, err := repo.VectorCount(ctx, "java")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoadVectors_OrderedByOffset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Commit out of order; iteration must come back offset-ordered.
	for _, offset := range []int64{64, 0, 32} {
		record := core.NewBatchRecord("go", offset, 32)
		require.NoError(t, repo.CommitBatch(ctx, record, makeVectors(32, 4)))
	}

	blocks, err := repo.LoadVectors(ctx, "go")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, int64(0), blocks[0].StartOffset)
	assert.Equal(t, int64(32), blocks[1].StartOffset)
	assert.Equal(t, int64(64), blocks[2].StartOffset)
}

func TestPartitionsAreIsolated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CommitBatch(ctx, core.NewBatchRecord("go", 0, 8), makeVectors(8, 4)))
	require.NoError(t, repo.CommitBatch(ctx, core.NewBatchRecord("python", 0, 16), makeVectors(16, 4)))

	goCount, err := repo.VectorCount(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, int64(8), goCount)

	pyResume, err := repo.ResumeOffset(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, int64(16), pyResume)

	blocks, err := repo.LoadVectors(ctx, "go")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "go", blocks[0].Partition)
}

func TestResumeOffset_EmptyPartition(t *testing.T) {
	repo := newTestRepo(t)

	resume, err := repo.ResumeOffset(context.Background(), "untouched")
	require.NoError(t, err)
	assert.Zero(t, resume)
}

func TestStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CommitBatch(ctx, core.NewBatchRecord("go", 0, 8), makeVectors(8, 4)))
	require.NoError(t, repo.CommitBatch(ctx, core.NewBatchRecord("go", 8, 8), makeVectors(8, 4)))
	require.NoError(t, repo.FailBatch(ctx, core.NewBatchRecord("go", 16, 8), "poison batch"))
	require.NoError(t, repo.PutBatch(ctx, core.NewBatchRecord("go", 24, 8)))

	stats, err := repo.Stats(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(24), stats.ResumeOffset)
	assert.Equal(t, int64(16), stats.VectorCount)
}

func TestListBatches(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, offset := range []int64{16, 0, 8} {
		require.NoError(t, repo.PutBatch(ctx, core.NewBatchRecord("go", offset, 8)))
	}

	records, err := repo.ListBatches(ctx, "go")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(0), records[0].StartOffset)
	assert.Equal(t, int64(8), records[1].StartOffset)
	assert.Equal(t, int64(16), records[2].StartOffset)
}
