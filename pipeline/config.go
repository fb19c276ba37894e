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
	"errors"
	"fmt"
	"time"
)

// Config holds configuration for a pipeline run.
type Config struct {
	// BatchSize is the number of records submitted per embedding request.
	BatchSize int

	// MinBatchSize is the floor for capacity-driven batch shrinking. A batch
	// that still exceeds provider limits at this size is marked failed.
	MinBatchSize int

	// MaxRetries is the retry budget per batch for transient failures.
	// Throttle waits and capacity shrinks do not consume it.
	MaxRetries int

	// RetryBaseDelay is the base delay for exponential backoff. Attempt k
	// waits RetryBaseDelay * 3^(k-1).
	RetryBaseDelay time.Duration

	// ThrottleDelay is the forced wait after a rate-limit response.
	ThrottleDelay time.Duration

	// MaxThrottleWaits bounds consecutive throttle waits for one batch.
	MaxThrottleWaits int

	// RateInterval is the minimum spacing between embedding requests across
	// all workers.
	RateInterval time.Duration

	// Workers is the number of partitions processed concurrently.
	Workers int

	// ReportInterval is how often to report progress (number of records).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:        32,
		MinBatchSize:     4,
		MaxRetries:       5,
		RetryBaseDelay:   10 * time.Second,
		ThrottleDelay:    60 * time.Second,
		MaxThrottleWaits: 10,
		RateInterval:     600 * time.Millisecond,
		Workers:          4,
		ReportInterval:   100,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return errors.New("pipeline config: BatchSize must be positive")
	}
	if c.MinBatchSize <= 0 || c.MinBatchSize > c.BatchSize {
		return errors.New("pipeline config: MinBatchSize must be in [1, BatchSize]")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("pipeline config: %w", ErrInvalidMaxAttempts)
	}
	if c.RetryBaseDelay <= 0 {
		return errors.New("pipeline config: RetryBaseDelay must be positive")
	}
	if c.MaxThrottleWaits <= 0 {
		return errors.New("pipeline config: MaxThrottleWaits must be positive")
	}
	if c.RateInterval < 0 {
		return errors.New("pipeline config: RateInterval must not be negative")
	}
	if c.Workers <= 0 {
		return errors.New("pipeline config: Workers must be positive")
	}
	return nil
}
