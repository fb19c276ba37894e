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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/embatch/dataset"
	"github.com/poiesic/embatch/embed"
	"github.com/poiesic/embatch/embed/openai"
	"github.com/poiesic/embatch/embed/voyage"
	"github.com/poiesic/embatch/export"
	"github.com/poiesic/embatch/pipeline"
	"github.com/poiesic/embatch/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "embatch",
		Usage: "Checkpointed batch embedding of record datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Embed dataset partitions, resuming from checkpoints",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB checkpoint directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML run spec listing partitions and settings",
					},
					&cli.StringSliceFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "JSONL input file; partition name is the file basename. Repeatable",
					},
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "Embedding endpoint URL",
						Value: "https://api.voyageai.com/v1/embeddings",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Embedding model name",
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Embedding provider (voyage, openai)",
						Value: "voyage",
					},
					&cli.StringFlag{
						Name:  "description-field",
						Usage: "JSON field holding the record description",
						Value: "description",
					},
					&cli.StringFlag{
						Name:  "body-field",
						Usage: "JSON field holding the record body",
						Value: "body",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records per embedding request",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "min-batch-size",
						Usage: "Floor for capacity-driven batch shrinking",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of partitions processed concurrently",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Retry budget per batch for transient failures",
						Value: 5,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 10 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "rate-interval",
						Usage: "Minimum spacing between embedding requests",
						Value: 600 * time.Millisecond,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Write a YAML run manifest to this path after the run",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show checkpoint state for partitions",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB checkpoint directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "partition",
						Aliases:  []string{"p"},
						Usage:    "Partition name. Repeatable",
						Required: true,
					},
				},
			},
			{
				Name:   "verify",
				Usage:  "Verify stored vector checksums against checkpoints",
				Action: verifyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB checkpoint directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "partition",
						Aliases:  []string{"p"},
						Usage:    "Partition name. Repeatable",
						Required: true,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export persisted embeddings to Parquet files",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB checkpoint directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "partition",
						Aliases:  []string{"p"},
						Usage:    "Partition name. Repeatable",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory for Parquet files",
						Value:   ".",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	var spec *pipeline.RunSpec
	if specPath := c.String("config"); specPath != "" {
		spec, err = pipeline.LoadRunSpec(specPath)
		if err != nil {
			return err
		}
	}

	partitions, err := loadPartitions(c, spec)
	if err != nil {
		return err
	}
	if len(partitions) == 0 {
		return fmt.Errorf("no partitions: provide --input files or a --config spec")
	}

	model := c.String("model")
	endpoint := c.String("endpoint")
	if spec != nil {
		if model == "" {
			model = spec.Model
		}
		if spec.Endpoint != "" && !c.IsSet("endpoint") {
			endpoint = spec.Endpoint
		}
	}
	if model == "" {
		return fmt.Errorf("no model: provide --model or set model in the --config spec")
	}

	embedConfig := embed.NewConfig(
		embed.WithEndpoint(endpoint),
		embed.WithModel(model),
		embed.WithAPIKey(os.Getenv("EMBATCH_API_KEY")),
	)

	embedder, err := newEmbedder(c.String("provider"), embedConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	pipelineConfig, err := buildConfig(c, spec)
	if err != nil {
		return err
	}

	coordinator, err := pipeline.NewCoordinator(repo, embedder, pipelineConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Endpoint: %s\n", endpoint)
	fmt.Fprintf(os.Stderr, "Model: %s\n", model)
	fmt.Fprintln(os.Stderr)

	report, runErr := coordinator.Run(ctx, partitions)

	if manifestPath := c.String("manifest"); manifestPath != "" && report != nil {
		manifest := pipeline.NewManifest(model, endpoint,
			pipelineConfig, report, time.Now().UTC())
		if err := manifest.Write(manifestPath); err != nil {
			slog.Error("failed to write manifest", "path", manifestPath, "err", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("embedding run failed: %w", runErr)
	}
	return nil
}

// loadPartitions builds the partition list from the run spec, if any, plus
// any repeatable --input files. Input files use the CLI field-name flags and
// are named after their basename.
func loadPartitions(c *cli.Context, spec *pipeline.RunSpec) ([]pipeline.Partition, error) {
	var partitions []pipeline.Partition

	if spec != nil {
		for _, p := range spec.Partitions {
			descField := p.DescriptionField
			if descField == "" {
				descField = c.String("description-field")
			}
			bodyField := p.BodyField
			if bodyField == "" {
				bodyField = c.String("body-field")
			}
			source, err := dataset.LoadJSONL(p.Path, descField, bodyField)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", p.Path, err)
			}
			name := p.Name
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(p.Path), filepath.Ext(p.Path))
			}
			partitions = append(partitions, pipeline.Partition{Name: name, Source: source})
		}
	}

	for _, path := range c.StringSlice("input") {
		source, err := dataset.LoadJSONL(path, c.String("description-field"), c.String("body-field"))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		partitions = append(partitions, pipeline.Partition{Name: name, Source: source})
	}

	return partitions, nil
}

// buildConfig layers settings: defaults, then the run spec, then any CLI
// flags the user set explicitly.
func buildConfig(c *cli.Context, spec *pipeline.RunSpec) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if spec != nil {
		var err error
		cfg, err = spec.Config()
		if err != nil {
			return nil, err
		}
	}

	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("min-batch-size") {
		cfg.MinBatchSize = c.Int("min-batch-size")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("max-retries") {
		cfg.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		cfg.RetryBaseDelay = c.Duration("retry-delay")
	}
	if c.IsSet("rate-interval") {
		cfg.RateInterval = c.Duration("rate-interval")
	}
	if c.IsSet("report-interval") {
		cfg.ReportInterval = c.Int("report-interval")
	}
	return cfg, nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	for _, partition := range c.StringSlice("partition") {
		stats, err := repo.Stats(ctx, partition)
		if err != nil {
			return fmt.Errorf("failed to read stats for %s: %w", partition, err)
		}
		fmt.Printf("%s: resume=%d vectors=%d completed=%d failed=%d in_progress=%d\n",
			stats.Partition, stats.ResumeOffset, stats.VectorCount,
			stats.Completed, stats.Failed, stats.InProgress)
	}
	return nil
}

func verifyCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	for _, partition := range c.StringSlice("partition") {
		blocks, err := repo.LoadVectors(ctx, partition)
		if err != nil {
			return fmt.Errorf("verification failed for %s: %w", partition, err)
		}

		var vectors int64
		for _, block := range blocks {
			vectors += int64(len(block.Vectors))
		}

		count, err := repo.VectorCount(ctx, partition)
		if err != nil {
			return err
		}
		if vectors != count {
			return fmt.Errorf("partition %s: %d stored vectors but counter says %d",
				partition, vectors, count)
		}
		fmt.Printf("%s: %d blocks, %d vectors, all checksums ok\n",
			partition, len(blocks), vectors)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	exporter, err := export.NewParquetExporter(repo, c.String("out"))
	if err != nil {
		return err
	}

	total, err := exporter.ExportAll(ctx, c.StringSlice("partition"))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported %d rows to %s\n", total, c.String("out"))
	return nil
}

func openRepository(c *cli.Context) (*badger.BatchRepository, error) {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return badger.NewBatchRepository(backend), nil
}

func newEmbedder(provider string, config *embed.Config) (embed.Embedder, error) {
	switch strings.ToLower(provider) {
	case "voyage":
		return voyage.NewClient(config)
	case "openai":
		return openai.NewEmbedder(config)
	default:
		return nil, fmt.Errorf("unknown provider %q: must be voyage or openai", provider)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
