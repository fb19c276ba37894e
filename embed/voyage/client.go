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


// Package voyage implements embed.Embedder against voyage-style embedding
// endpoints: POST {model, input, input_type}, 200 {data:[{embedding:[...]}]}.
package voyage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/embatch/embed"
	"github.com/sony/gobreaker"
)

// capacityMarkers identify 400 responses caused by payload size rather than a
// malformed request. Matched case-insensitively against the response body.
var capacityMarkers = []string{
	"max allowed tokens",
	"maximum context length",
	"too many tokens",
	"payload too large",
}

type embeddingRequest struct {
	Model     string   `json:"model"`
	Input     []string `json:"input"`
	InputType string   `json:"input_type,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Client implements embed.Embedder over HTTP. A circuit breaker guards the
// endpoint so a hard outage fails fast instead of burning the retry budget of
// every in-flight batch. Throttle and capacity rejections are part of normal
// operation and never trip the breaker.
type Client struct {
	config     *embed.Config
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// newClient is an internal constructor that returns the concrete type.
func newClient(config *embed.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	st := gobreaker.Settings{
		Name:    "voyage-embeddings",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Rate limiting and payload rejections are the provider working
			// as intended, not an outage.
			if embed.IsCapacity(err) {
				return true
			}
			return embed.StatusCode(err) == http.StatusTooManyRequests
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("embedding circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: slog.Default().With("component", "voyage-client"),
	}, nil
}

// NewClient creates an embedding client for the configured endpoint.
//
// Returns embed.Embedder interface to enforce abstraction.
func NewClient(config *embed.Config) (embed.Embedder, error) {
	return newClient(config)
}

// EmbedTexts sends one embedding request for the given texts. The returned
// slice holds exactly one vector per input, in input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	c.logger.Debug("generating embeddings for texts", "count", len(texts))

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.embedOnce(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return result.([][]float32), nil
}

func (c *Client) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	payload, err := json.Marshal(embeddingRequest{
		Model:     c.config.Model,
		Input:     texts,
		InputType: c.config.InputType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyFailure(resp.StatusCode, string(body))
	}

	var decoded embeddingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}

	if len(decoded.Data) != len(texts) {
		return nil, &embed.CountMismatchError{Want: len(texts), Got: len(decoded.Data)}
	}

	vectors := make([][]float32, len(decoded.Data))
	for i, item := range decoded.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

// classifyFailure maps a non-200 response to the typed error surface. A 400
// whose body names a token or payload limit is a capacity rejection; every
// other status keeps its code for the retry layer.
func classifyFailure(status int, body string) error {
	if status == http.StatusBadRequest {
		lower := strings.ToLower(body)
		for _, marker := range capacityMarkers {
			if strings.Contains(lower, marker) {
				return &embed.CapacityError{Detail: truncateBody(body)}
			}
		}
	}
	return &embed.StatusError{StatusCode: status, Body: truncateBody(body)}
}

func truncateBody(body string) string {
	const maxLen = 512
	if len(body) > maxLen {
		return body[:maxLen]
	}
	return body
}
