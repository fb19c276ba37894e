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
	"net/http"
	"time"

	"github.com/poiesic/embatch/embed"
)

// Action tells the processor how to handle a failed embedding attempt.
type Action int

const (
	// ActionRetry retries the same batch after exponential backoff,
	// consuming one unit of retry budget.
	ActionRetry Action = iota + 1

	// ActionThrottle waits the decision's Wait duration and retries without
	// consuming retry budget. Bounded separately by MaxThrottleWaits.
	ActionThrottle

	// ActionShrink halves the batch size and resubmits the same offset.
	ActionShrink

	// ActionFatal marks the batch failed immediately.
	ActionFatal
)

// String returns a log-friendly name for the action.
func (a Action) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionThrottle:
		return "throttle"
	case ActionShrink:
		return "shrink"
	case ActionFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Decision is the classified outcome of a failed embedding attempt.
type Decision struct {
	Action Action
	Wait   time.Duration
}

// Classify maps an embedding error to a retry decision. It is a pure
// function of the error, so the policy is testable without a live endpoint.
//
// Caller cancellation is not classified here; the processor checks its own
// context before consulting Classify. A per-request timeout therefore lands
// in the default retry case like any other transport failure.
func Classify(err error, throttleDelay time.Duration) Decision {
	switch {
	case embed.IsCapacity(err):
		return Decision{Action: ActionShrink}
	case embed.IsCountMismatch(err):
		return Decision{Action: ActionFatal}
	}

	if embed.StatusCode(err) == http.StatusTooManyRequests {
		return Decision{Action: ActionThrottle, Wait: throttleDelay}
	}

	// Every other failure, including non-capacity client errors, retries
	// under backoff until the budget runs out.
	return Decision{Action: ActionRetry}
}

// BackoffDelay returns the wait before retry attempt k (1-based):
// base * 3^(k-1).
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 3
	}
	return delay
}
