package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)
	tracker.Start()

	tracker.Increment(5)
	assert.Empty(t, buf.String(), "below interval, nothing reported yet")

	tracker.Increment(5)
	assert.Contains(t, buf.String(), "10/100")

	tracker.Increment(40)
	assert.Contains(t, buf.String(), "50/100")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 20, 100)
	tracker.Start()

	tracker.Increment(20)
	tracker.Finish()

	assert.Contains(t, buf.String(), "20/20")
	assert.Contains(t, buf.String(), "100.0%")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)
	tracker.Start()

	tracker.Increment(15)
	assert.Equal(t, int64(10), tracker.Current())
}

func TestProgressTracker_IgnoresUpdatesBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Increment(5)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
