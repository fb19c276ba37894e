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


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/embatch/core"
	"github.com/poiesic/embatch/dataset"
	"github.com/poiesic/embatch/embed"
	"github.com/poiesic/embatch/storage"
)

// Outcome summarizes one partition's run.
type Outcome struct {
	Partition        string
	RecordsEmbedded  int64
	RecordsSkipped   int64
	BatchesCommitted int64
	BatchesFailed    int64
	BatchesResumed   int64
}

// PartitionProcessor drives one partition from its resume offset to the end
// of its source. A partition is only ever driven by one processor at a time,
// so batch records have a single writer.
type PartitionProcessor struct {
	partition string
	source    dataset.Source
	repo      storage.BatchRepository
	embedder  embed.Embedder
	limiter   *RateLimiter
	config    *Config
	tracker   *ProgressTracker
	logger    *slog.Logger

	// batchSize is the current submission size. Capacity shrinks stick for
	// the rest of the run since provider limits don't reset between batches.
	batchSize int
}

// NewPartitionProcessor creates a processor for one partition.
func NewPartitionProcessor(
	partition string,
	source dataset.Source,
	repo storage.BatchRepository,
	embedder embed.Embedder,
	limiter *RateLimiter,
	config *Config,
	tracker *ProgressTracker,
) (*PartitionProcessor, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if err := core.ValidatePartitionName(partition); err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PartitionProcessor{
		partition: partition,
		source:    source,
		repo:      repo,
		embedder:  embedder,
		limiter:   limiter,
		config:    config,
		tracker:   tracker,
		logger:    slog.Default().With("component", "partition-processor", "partition", partition),
		batchSize: config.BatchSize,
	}, nil
}

// Run processes the partition to completion. Completed batches found in the
// checkpoint store are skipped, so rerunning after a crash never re-embeds or
// duplicates work.
func (p *PartitionProcessor) Run(ctx context.Context) (*Outcome, error) {
	if err := p.checkIntegrity(ctx); err != nil {
		return nil, err
	}

	offset, err := p.repo.ResumeOffset(ctx, p.partition)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume offset: %w", err)
	}

	outcome := &Outcome{Partition: p.partition}
	total := int64(p.source.Len())

	if offset > 0 {
		p.logger.Info("resuming partition", "offset", offset, "total", total)
		outcome.RecordsSkipped = min(offset, total)
	}

	for offset < total {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		// A checkpoint past the resume offset means an earlier run already
		// settled this batch; honor its recorded size and move on.
		if existing, err := p.repo.GetBatch(ctx, p.partition, offset); err == nil {
			if existing.Status == core.BatchStatusCompleted ||
				existing.Status == core.BatchStatusFailed {
				offset = existing.End()
				outcome.BatchesResumed++
				outcome.RecordsSkipped += int64(existing.BatchSize)
				continue
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return outcome, fmt.Errorf("failed to read checkpoint at offset %d: %w", offset, err)
		}

		size := p.batchSize
		if remaining := total - offset; int64(size) > remaining {
			size = int(remaining)
		}

		// Capacity shrinks can settle the batch at a smaller size than
		// planned, so advance by what was actually checkpointed.
		settled, committed, err := p.processBatch(ctx, offset, size)
		if err != nil {
			return outcome, err
		}

		if committed {
			outcome.BatchesCommitted++
			outcome.RecordsEmbedded += int64(settled.BatchSize)
		} else {
			outcome.BatchesFailed++
			outcome.RecordsSkipped += int64(settled.BatchSize)
		}
		if p.tracker != nil {
			p.tracker.Increment(settled.BatchSize)
		}
		offset = settled.End()
	}

	return outcome, nil
}

// processBatch runs one batch through the submit/classify loop until it
// commits, fails terminally, or the context ends. Returns the settled record
// and whether it committed. The offset only advances after the checkpoint is
// durable.
func (p *PartitionProcessor) processBatch(ctx context.Context, offset int64, size int) (*core.BatchRecord, bool, error) {
	record := core.NewBatchRecord(p.partition, offset, size)
	if err := p.repo.PutBatch(ctx, record); err != nil {
		return record, false, fmt.Errorf("failed to checkpoint batch %s: %w", record.ID(), err)
	}

	retries := 0
	throttles := 0

	for {
		texts := PrepareBatch(p.source, offset, record.BatchSize)

		if p.limiter != nil {
			if err := p.limiter.Acquire(ctx); err != nil {
				return record, false, err
			}
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err == nil {
			if err := p.repo.CommitBatch(ctx, record, vectors); err != nil {
				return record, false, fmt.Errorf("failed to commit batch %s: %w", record.ID(), err)
			}
			p.logger.Debug("batch committed", "batch", record.ID(), "size", record.BatchSize)
			return record, true, nil
		}

		if ctx.Err() != nil {
			return record, false, ctx.Err()
		}

		decision := Classify(err, p.config.ThrottleDelay)
		p.logger.Warn("embedding attempt failed",
			"batch", record.ID(), "action", decision.Action.String(), "err", err)

		switch decision.Action {
		case ActionRetry:
			retries++
			record.RetryCount = retries
			if retries > p.config.MaxRetries {
				return record, false, p.failBatch(ctx, record, fmt.Sprintf("retry budget exhausted: %v", err))
			}
			// Checkpoint the retry count so status reflects live retry state.
			if err := p.repo.PutBatch(ctx, record); err != nil {
				return record, false, fmt.Errorf("failed to checkpoint retry %s: %w", record.ID(), err)
			}
			if err := p.sleep(ctx, BackoffDelay(p.config.RetryBaseDelay, retries)); err != nil {
				return record, false, err
			}

		case ActionThrottle:
			throttles++
			if throttles > p.config.MaxThrottleWaits {
				return record, false, p.failBatch(ctx, record,
					fmt.Sprintf("%v: %v", ErrThrottleBudgetExhausted, err))
			}
			if err := p.sleep(ctx, decision.Wait); err != nil {
				return record, false, err
			}

		case ActionShrink:
			if record.BatchSize <= p.config.MinBatchSize {
				return record, false, p.failBatch(ctx, record,
					fmt.Sprintf("batch exceeds provider limits at minimum size %d: %v",
						p.config.MinBatchSize, err))
			}
			record.BatchSize = max(record.BatchSize/2, p.config.MinBatchSize)
			p.batchSize = record.BatchSize
			p.logger.Info("shrinking batch", "batch", record.ID(), "size", record.BatchSize)
			if err := p.repo.PutBatch(ctx, record); err != nil {
				return record, false, fmt.Errorf("failed to checkpoint shrunk batch %s: %w", record.ID(), err)
			}

		default: // ActionFatal
			return record, false, p.failBatch(ctx, record, err.Error())
		}
	}
}

// failBatch records a terminal failure and advances the partition past it.
// The run continues; only storage errors propagate.
func (p *PartitionProcessor) failBatch(ctx context.Context, record *core.BatchRecord, reason string) error {
	p.logger.Error("batch failed terminally", "batch", record.ID(), "reason", reason)
	if err := p.repo.FailBatch(ctx, record, reason); err != nil {
		return fmt.Errorf("failed to record batch failure %s: %w", record.ID(), err)
	}
	return nil
}

// checkIntegrity verifies that the persisted vector count matches the
// completed checkpoints before any new work starts. A mismatch means the
// store was corrupted or partially restored; continuing would misalign
// vectors with source offsets.
func (p *PartitionProcessor) checkIntegrity(ctx context.Context) error {
	records, err := p.repo.ListBatches(ctx, p.partition)
	if err != nil {
		return fmt.Errorf("failed to list checkpoints: %w", err)
	}

	var expected int64
	for _, record := range records {
		if record.Status == core.BatchStatusCompleted {
			expected += int64(record.BatchSize)
		}
	}

	count, err := p.repo.VectorCount(ctx, p.partition)
	if err != nil {
		return fmt.Errorf("failed to read vector count: %w", err)
	}
	if count != expected {
		return fmt.Errorf("%w: partition %s has %d vectors for %d completed records",
			core.ErrCorruptedState, p.partition, count, expected)
	}
	return nil
}

func (p *PartitionProcessor) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
