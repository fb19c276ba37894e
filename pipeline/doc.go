// Package pipeline drives checkpointed batch embedding of record partitions.
//
// This package supports per-batch checkpointing with atomic commits, resume
// from the exact offset a previous run reached, rate coordination across
// concurrent partition workers, adaptive batch shrinking on provider capacity
// limits, and retry with exponential backoff.
package pipeline
