package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/poiesic/embatch/core"
	"github.com/poiesic/embatch/embed/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_RunsAllPartitions(t *testing.T) {
	repo := newProcessorTestRepo(t)
	embedder := mock.NewMockEmbedder()
	cfg := testConfig()
	cfg.Workers = 2

	var buf bytes.Buffer
	coordinator, err := NewCoordinator(repo, embedder, cfg, &buf)
	require.NoError(t, err)

	report, err := coordinator.Run(context.Background(), []Partition{
		{Name: "go_train", Source: testSource(8)},
		{Name: "go_test", Source: testSource(5)},
		{Name: "go_valid", Source: testSource(3)},
	})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, int64(16), report.TotalEmbedded())
	assert.Zero(t, report.TotalFailed())

	// Outcomes come back sorted by partition name.
	assert.Equal(t, "go_test", report.Outcomes[0].Partition)
	assert.Equal(t, "go_train", report.Outcomes[1].Partition)
	assert.Equal(t, "go_valid", report.Outcomes[2].Partition)

	for _, name := range []string{"go_train", "go_test", "go_valid"} {
		count, countErr := repo.VectorCount(context.Background(), name)
		require.NoError(t, countErr)
		assert.Positive(t, count, "partition %s must have vectors", name)
	}

	assert.Contains(t, buf.String(), "Embedding complete")
}

func TestCoordinator_PartitionFailureDoesNotStopOthers(t *testing.T) {
	repo := newProcessorTestRepo(t)
	cfg := testConfig()
	cfg.Workers = 1

	// go_bad is pre-corrupted so its integrity check fails at startup: a
	// completed checkpoint with no vectors behind it.
	corrupted := core.NewBatchRecord("go_bad", 0, 4)
	corrupted.Status = core.BatchStatusCompleted
	require.NoError(t, repo.PutBatch(context.Background(), corrupted))

	coordinator, err := NewCoordinator(repo, mock.NewMockEmbedder(), cfg, nil)
	require.NoError(t, err)

	report, err := coordinator.Run(context.Background(), []Partition{
		{Name: "go_bad", Source: testSource(4)},
		{Name: "go_good", Source: testSource(4)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "go_bad")

	// The healthy partition still finished.
	count, countErr := repo.VectorCount(context.Background(), "go_good")
	require.NoError(t, countErr)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, int64(4), report.TotalEmbedded())
}

func TestCoordinator_EmptyPartitionList(t *testing.T) {
	repo := newProcessorTestRepo(t)
	coordinator, err := NewCoordinator(repo, mock.NewMockEmbedder(), testConfig(), nil)
	require.NoError(t, err)

	report, err := coordinator.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Outcomes)
}

func TestNewCoordinator_Validation(t *testing.T) {
	repo := newProcessorTestRepo(t)

	_, err := NewCoordinator(nil, mock.NewMockEmbedder(), nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewCoordinator(repo, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
