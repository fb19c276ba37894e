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


// Package embed provides the embedding service boundary for the pipeline.
//
// It defines the Embedder interface, the client configuration, and the typed
// error surface the retry layer classifies against:
//
//   - *StatusError: any non-200 HTTP response, carrying the status code
//   - *CapacityError: payload/token-size rejection, non-retryable at the
//     current batch size (the caller shrinks the batch and resubmits)
//   - *CountMismatchError: a 200 response whose vector count does not match
//     the input count, fatal for the batch
//
// Transport errors (timeouts, connection resets) pass through untyped and are
// treated as retryable by callers.
//
// # Implementation Packages
//
//   - embed/voyage: production HTTP client for voyage-style endpoints that
//     accept {model, input, input_type} and respond with {data:[{embedding}]}
//   - embed/openai: adapter for OpenAI-compatible services via langchaingo
//   - embed/mock: test double with injectable behavior
//
// Production constructors return the Embedder interface; mock constructors
// return concrete types so tests can inject behavior and assert call counts.
package embed
