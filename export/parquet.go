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


// Package export writes persisted embeddings to columnar files for
// downstream consumers.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/poiesic/embatch/storage"
)

// ParquetRow is the schema for one embedded record in Parquet.
type ParquetRow struct {
	Partition string    `parquet:"partition"`
	Offset    int64     `parquet:"offset"`
	Embedding []float32 `parquet:"embedding"`
}

// ParquetExporter writes one Parquet file per partition.
type ParquetExporter struct {
	repo    storage.BatchRepository
	baseDir string
}

// NewParquetExporter creates an exporter writing under baseDir.
func NewParquetExporter(repo storage.BatchRepository, baseDir string) (*ParquetExporter, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &ParquetExporter{repo: repo, baseDir: baseDir}, nil
}

// ExportPartition writes every committed vector of the partition, in source
// order, to <baseDir>/<partition>.parquet. Returns the number of rows
// written. Checksums are verified during the read; corruption aborts the
// export rather than producing a silently wrong file.
func (e *ParquetExporter) ExportPartition(ctx context.Context, partition string) (int64, error) {
	blocks, err := e.repo.LoadVectors(ctx, partition)
	if err != nil {
		return 0, fmt.Errorf("failed to load vectors for %s: %w", partition, err)
	}

	var rows []ParquetRow
	for _, block := range blocks {
		for i, vector := range block.Vectors {
			rows = append(rows, ParquetRow{
				Partition: block.Partition,
				Offset:    block.StartOffset + int64(i),
				Embedding: vector,
			})
		}
	}

	if len(rows) == 0 {
		return 0, nil
	}

	path := filepath.Join(e.baseDir, fmt.Sprintf("%s.parquet", partition))
	if err := parquet.WriteFile(path, rows); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return int64(len(rows)), nil
}

// ExportAll exports every named partition. Returns total rows written.
func (e *ParquetExporter) ExportAll(ctx context.Context, partitions []string) (int64, error) {
	var total int64
	for _, partition := range partitions {
		n, err := e.ExportPartition(ctx, partition)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
