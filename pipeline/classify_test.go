package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/embatch/embed"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	throttle := 60 * time.Second

	tests := []struct {
		name       string
		err        error
		wantAction Action
		wantWait   time.Duration
	}{
		{"transport error retries", errors.New("connection reset"), ActionRetry, 0},
		{"server error retries", &embed.StatusError{StatusCode: 503}, ActionRetry, 0},
		{"gateway timeout retries", &embed.StatusError{StatusCode: 504}, ActionRetry, 0},
		// http.Client wraps its per-request timeout in context.DeadlineExceeded;
		// a slow response must not fail the batch terminally.
		{"request timeout retries",
			fmt.Errorf("Post %q: %w (Client.Timeout exceeded while awaiting headers)",
				"https://api.voyageai.com/v1/embeddings", context.DeadlineExceeded),
			ActionRetry, 0},
		{"rate limit throttles", &embed.StatusError{StatusCode: 429}, ActionThrottle, throttle},
		{"capacity shrinks", &embed.CapacityError{Detail: "max allowed tokens"}, ActionShrink, 0},
		{"plain bad request retries", &embed.StatusError{StatusCode: 400, Body: "malformed"}, ActionRetry, 0},
		{"unauthorized retries", &embed.StatusError{StatusCode: 401}, ActionRetry, 0},
		{"count mismatch is fatal", &embed.CountMismatchError{Want: 4, Got: 3}, ActionFatal, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Classify(tt.err, throttle)
			assert.Equal(t, tt.wantAction, decision.Action)
			assert.Equal(t, tt.wantWait, decision.Wait)
		})
	}
}

func TestBackoffDelay_TriplesPerAttempt(t *testing.T) {
	base := 10 * time.Second
	assert.Equal(t, 10*time.Second, BackoffDelay(base, 1))
	assert.Equal(t, 30*time.Second, BackoffDelay(base, 2))
	assert.Equal(t, 90*time.Second, BackoffDelay(base, 3))
	assert.Equal(t, 270*time.Second, BackoffDelay(base, 4))
}

func TestBackoffDelay_ClampsInvalidAttempt(t *testing.T) {
	base := time.Second
	assert.Equal(t, base, BackoffDelay(base, 0))
	assert.Equal(t, base, BackoffDelay(base, -3))
}
