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
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/embatch/dataset"
	"github.com/poiesic/embatch/embed"
	"github.com/poiesic/embatch/storage"
)

// Partition names one unit of independent work: a record source embedded
// under its own checkpoint namespace.
type Partition struct {
	Name   string
	Source dataset.Source
}

// Report aggregates the outcomes of every partition in a run.
type Report struct {
	Outcomes []*Outcome
	Elapsed  time.Duration
}

// TotalEmbedded returns the number of records embedded across all partitions.
func (r *Report) TotalEmbedded() int64 {
	var total int64
	for _, outcome := range r.Outcomes {
		total += outcome.RecordsEmbedded
	}
	return total
}

// TotalFailed returns the number of terminally failed batches.
func (r *Report) TotalFailed() int64 {
	var total int64
	for _, outcome := range r.Outcomes {
		total += outcome.BatchesFailed
	}
	return total
}

// Coordinator runs partitions concurrently on a worker pool. All workers
// share one rate limiter, so concurrency raises utilization without raising
// the request rate.
type Coordinator struct {
	repo     storage.BatchRepository
	embedder embed.Embedder
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator.
// progress: where to write progress output (typically os.Stderr)
func NewCoordinator(repo storage.BatchRepository, embedder embed.Embedder, config *Config, progress io.Writer) (*Coordinator, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Coordinator{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "coordinator"),
	}, nil
}

// Run processes every partition and returns the aggregated report. One
// partition failing does not stop the others; their errors are joined and
// returned alongside the report for whatever did complete.
func (c *Coordinator) Run(ctx context.Context, partitions []Partition) (*Report, error) {
	if len(partitions) == 0 {
		return &Report{}, nil
	}

	var total int64
	for _, partition := range partitions {
		total += int64(partition.Source.Len())
	}

	fmt.Fprintf(c.progress, "Starting embedding of %d records across %d partitions (batch size: %d)\n",
		total, len(partitions), c.config.BatchSize)

	tracker := NewProgressTracker(c.progress, total, c.config.ReportInterval)
	tracker.Start()

	limiter := NewRateLimiter(c.config.RateInterval)

	workers := c.config.Workers
	if workers > len(partitions) {
		workers = len(partitions)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []*Outcome
		runErrs  []error
	)

	for _, partition := range partitions {
		partition := partition
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			processor, err := NewPartitionProcessor(partition.Name, partition.Source,
				c.repo, c.embedder, limiter, c.config, tracker)
			if err == nil {
				var outcome *Outcome
				outcome, err = processor.Run(ctx)
				if outcome != nil {
					mu.Lock()
					outcomes = append(outcomes, outcome)
					mu.Unlock()
				}
			}

			if err != nil {
				c.logger.Error("partition run failed", "partition", partition.Name, "err", err)
				mu.Lock()
				runErrs = append(runErrs, fmt.Errorf("partition %s: %w", partition.Name, err))
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			runErrs = append(runErrs, fmt.Errorf("partition %s: %w", partition.Name, submitErr))
		}
	}

	wg.Wait()
	tracker.Finish()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Partition < outcomes[j].Partition
	})

	report := &Report{
		Outcomes: outcomes,
		Elapsed:  tracker.Elapsed(),
	}

	fmt.Fprintf(c.progress, "Embedding complete. %d records in %v (%d failed batches)\n",
		report.TotalEmbedded(), report.Elapsed.Round(time.Second), report.TotalFailed())

	return report, errors.Join(runErrs...)
}
