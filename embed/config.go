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


package embed

import (
	"errors"
	"time"
)

// Config holds configuration for embedding service clients.
type Config struct {
	// Endpoint is the full URL of the embedding endpoint.
	// Example: "https://api.voyageai.com/v1/embeddings"
	Endpoint string

	// Model is the model identifier sent with every request.
	// Example: "voyage-code-3", "text-embedding-3-small"
	Model string

	// InputType tells providers that distinguish document and query
	// embeddings which side this is. Default: "document" (indexing).
	InputType string

	// APIKey is the bearer token for the endpoint. May be empty for local
	// services that don't require authentication.
	APIKey string

	// RequestTimeout bounds a single embedding HTTP call.
	// Default: 120 seconds.
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEndpoint sets the embedding endpoint URL.
func WithEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithInputType sets the input type sent with every request.
func WithInputType(inputType string) ConfigOption {
	return func(c *Config) {
		c.InputType = inputType
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithRequestTimeout sets the per-call timeout.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults. The endpoint, model
// and key still have to be provided by the caller.
func DefaultConfig() *Config {
	return &Config{
		InputType:      "document",
		RequestTimeout: 120 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options.
//
// Example:
//
//	cfg := embed.NewConfig(
//	    embed.WithEndpoint("https://api.voyageai.com/v1/embeddings"),
//	    embed.WithModel("voyage-code-3"),
//	    embed.WithAPIKey(os.Getenv("EMBATCH_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("embed config: Endpoint is required")
	}
	if c.Model == "" {
		return errors.New("embed config: Model is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("embed config: RequestTimeout must be positive")
	}
	return nil
}
