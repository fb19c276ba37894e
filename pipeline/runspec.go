package pipeline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RunSpec is the declarative form of a run: which partitions to embed and
// with which settings. Zero-valued settings fall back to defaults, and CLI
// flags may override them. Durations are Go duration strings ("600ms", "10s").
type RunSpec struct {
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`

	Partitions []PartitionSpec `yaml:"partitions"`

	BatchSize        int    `yaml:"batch_size"`
	MinBatchSize     int    `yaml:"min_batch_size"`
	MaxRetries       int    `yaml:"max_retries"`
	RetryBaseDelay   string `yaml:"retry_base_delay"`
	ThrottleDelay    string `yaml:"throttle_delay"`
	MaxThrottleWaits int    `yaml:"max_throttle_waits"`
	RateInterval     string `yaml:"rate_interval"`
	Workers          int    `yaml:"workers"`
	ReportInterval   int    `yaml:"report_interval"`
}

// PartitionSpec names one partition and its JSONL input.
type PartitionSpec struct {
	Name             string `yaml:"name"`
	Path             string `yaml:"path"`
	DescriptionField string `yaml:"description_field"`
	BodyField        string `yaml:"body_field"`
}

// LoadRunSpec reads a YAML run spec from path.
func LoadRunSpec(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run spec: %w", err)
	}
	var spec RunSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode run spec %s: %w", path, err)
	}
	return &spec, nil
}

// Config builds a pipeline Config from the spec, filling unset fields from
// the defaults.
func (s *RunSpec) Config() (*Config, error) {
	cfg := DefaultConfig()
	if s.BatchSize > 0 {
		cfg.BatchSize = s.BatchSize
	}
	if s.MinBatchSize > 0 {
		cfg.MinBatchSize = s.MinBatchSize
	}
	if s.MaxRetries > 0 {
		cfg.MaxRetries = s.MaxRetries
	}
	if s.MaxThrottleWaits > 0 {
		cfg.MaxThrottleWaits = s.MaxThrottleWaits
	}
	if s.Workers > 0 {
		cfg.Workers = s.Workers
	}
	if s.ReportInterval > 0 {
		cfg.ReportInterval = s.ReportInterval
	}

	if err := overrideDuration(&cfg.RetryBaseDelay, s.RetryBaseDelay, "retry_base_delay"); err != nil {
		return nil, err
	}
	if err := overrideDuration(&cfg.ThrottleDelay, s.ThrottleDelay, "throttle_delay"); err != nil {
		return nil, err
	}
	if err := overrideDuration(&cfg.RateInterval, s.RateInterval, "rate_interval"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideDuration(dst *time.Duration, value, field string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	*dst = d
	return nil
}
