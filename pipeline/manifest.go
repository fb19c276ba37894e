package pipeline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest records what a run did and with which settings, for auditability.
// It is written next to the checkpoint store at the end of every run.
type Manifest struct {
	Model      string             `yaml:"model"`
	Endpoint   string             `yaml:"endpoint"`
	BatchSize  int                `yaml:"batch_size"`
	Workers    int                `yaml:"workers"`
	StartedAt  time.Time          `yaml:"started_at"`
	FinishedAt time.Time          `yaml:"finished_at"`
	Partitions []PartitionSummary `yaml:"partitions"`
}

// PartitionSummary is one partition's row in the manifest.
type PartitionSummary struct {
	Name             string `yaml:"name"`
	RecordsEmbedded  int64  `yaml:"records_embedded"`
	RecordsSkipped   int64  `yaml:"records_skipped"`
	BatchesCommitted int64  `yaml:"batches_committed"`
	BatchesFailed    int64  `yaml:"batches_failed"`
}

// NewManifest builds a manifest from a finished run's report.
func NewManifest(model, endpoint string, config *Config, report *Report, finishedAt time.Time) *Manifest {
	manifest := &Manifest{
		Model:      model,
		Endpoint:   endpoint,
		BatchSize:  config.BatchSize,
		Workers:    config.Workers,
		StartedAt:  finishedAt.Add(-report.Elapsed),
		FinishedAt: finishedAt,
	}
	for _, outcome := range report.Outcomes {
		manifest.Partitions = append(manifest.Partitions, PartitionSummary{
			Name:             outcome.Partition,
			RecordsEmbedded:  outcome.RecordsEmbedded,
			RecordsSkipped:   outcome.RecordsSkipped,
			BatchesCommitted: outcome.BatchesCommitted,
			BatchesFailed:    outcome.BatchesFailed,
		})
	}
	return manifest
}

// Write serializes the manifest as YAML to path.
func (m *Manifest) Write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by a previous run.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &manifest, nil
}
