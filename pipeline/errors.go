package pipeline

import "errors"

var (
	// ErrRepositoryRequired is returned when no batch repository is provided.
	ErrRepositoryRequired = errors.New("batch repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrSourceRequired is returned when a partition has no record source.
	ErrSourceRequired = errors.New("record source is required")

	// ErrInvalidMaxAttempts is returned when the retry budget is not positive.
	ErrInvalidMaxAttempts = errors.New("MaxRetries must be greater than 0")

	// ErrThrottleBudgetExhausted is returned when the endpoint keeps rate
	// limiting a batch beyond MaxThrottleWaits consecutive waits.
	ErrThrottleBudgetExhausted = errors.New("throttle wait budget exhausted")
)
