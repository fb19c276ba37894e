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
	"fmt"
)

// StatusError reports a non-200 response from the embedding endpoint.
// The retry layer classifies it by status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embedding request failed with status %d: %s", e.StatusCode, e.Body)
}

// CapacityError reports a provider-side rejection because the request payload
// exceeded a size or token limit. It is not retryable at the current batch
// size; the caller must shrink the batch and resubmit the same offset.
type CapacityError struct {
	Detail string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("embedding payload exceeded provider limit: %s", e.Detail)
}

// CountMismatchError reports a successful response whose vector count does
// not match the input count. The batch result cannot be trusted; it is fatal
// for the batch.
type CountMismatchError struct {
	Want int
	Got  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("embedding count mismatch: expected %d, got %d", e.Want, e.Got)
}

// IsCapacity reports whether err is a capacity-exceeded rejection.
func IsCapacity(err error) bool {
	var capErr *CapacityError
	return errors.As(err, &capErr)
}

// IsCountMismatch reports whether err is a vector count mismatch.
func IsCountMismatch(err error) bool {
	var cmErr *CountMismatchError
	return errors.As(err, &cmErr)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
