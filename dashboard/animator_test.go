package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramesFixedPoint(t *testing.T) {
	frames := Frames(42, 42, time.Second)
	require.Len(t, frames, 1)
	assert.Equal(t, 42.0, frames[0])
}

func TestFramesEndExactlyAtTarget(t *testing.T) {
	frames := Frames(0, 137, 800*time.Millisecond)
	require.NotEmpty(t, frames)
	assert.Equal(t, 137.0, frames[len(frames)-1])
}

func TestFramesMonotonic(t *testing.T) {
	frames := Frames(10, 90, time.Second)
	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i], frames[i-1])
	}
}

func TestFramesEaseOutFrontLoaded(t *testing.T) {
	frames := Frames(0, 100, time.Second)
	require.Greater(t, len(frames), 4)

	// Quartic ease-out covers most of the distance in the first half.
	mid := frames[len(frames)/2]
	assert.Greater(t, mid, 85.0)
}

func TestFramesDescending(t *testing.T) {
	frames := Frames(100, 20, time.Second)
	assert.Equal(t, 20.0, frames[len(frames)-1])
	for i := 1; i < len(frames); i++ {
		assert.LessOrEqual(t, frames[i], frames[i-1])
	}
}

func TestEaseOutQuartClamps(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutQuart(-0.5))
	assert.Equal(t, 1.0, EaseOutQuart(1.5))
	assert.InDelta(t, 0.9375, EaseOutQuart(0.5), 1e-9)
}

func TestLinearFramesEndAtTarget(t *testing.T) {
	frames := LinearFrames(0, 10, 100*time.Millisecond)
	assert.Equal(t, 10.0, frames[len(frames)-1])
}

func TestAnimatorRetargetsFromLastRendered(t *testing.T) {
	a := NewMetricAnimator()

	first := a.Animate("total", 100, time.Second)
	require.NotEmpty(t, first)

	// Draw part of the sequence, then retarget mid-flight.
	a.MarkRendered("total", first[len(first)/2])
	midpoint := a.Rendered("total")

	second := a.Animate("total", 40, time.Second)
	require.NotEmpty(t, second)

	// The new sequence continues from the displayed value, not from 0
	// and not from the abandoned target.
	expected := midpoint + (40-midpoint)*EaseOutQuart(1.0/float64(len(second)))
	assert.InDelta(t, expected, second[0], 1e-9)
	assert.Equal(t, 40.0, second[len(second)-1])
}

func TestAnimatorUnknownCounterStartsAtZero(t *testing.T) {
	a := NewMetricAnimator()
	frames := a.Animate("fresh", 50, time.Second)
	assert.Equal(t, 50.0, frames[len(frames)-1])
	assert.Less(t, frames[0], 50.0)
}
