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
	"context"
	"sync"
	"time"
)

// RateLimiter spaces embedding requests at least one interval apart across
// all workers sharing it.
type RateLimiter struct {
	interval time.Duration
	mu       sync.Mutex
	last     time.Time
}

// NewRateLimiter creates a limiter with the given minimum request spacing.
// A zero interval disables limiting.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Acquire blocks until the caller may issue a request, or until ctx is done.
// The mutex is held through the wait so concurrent callers queue up and each
// departure is a full interval after the previous one.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	wait := l.interval - time.Since(l.last)
	if wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	l.last = time.Now()
	return nil
}
