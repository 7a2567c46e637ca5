package dashboard

import (
	"math"
	"sync"
	"time"
)

// Default frame cadence for counter animation, roughly 60fps.
const frameInterval = 16 * time.Millisecond

// EaseOutQuart is the easing curve for counter animation:
// fast start, gentle landing. progress is clamped to [0,1].
func EaseOutQuart(progress float64) float64 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	return 1 - math.Pow(1-progress, 4)
}

// Frames produces the intermediate values of one counter animation.
// The sequence always ends exactly at target; intermediate values are
// cosmetic only. Frames(x, x, d) collapses to a single frame of x.
func Frames(from, to float64, duration time.Duration) []float64 {
	if from == to || duration <= 0 {
		return []float64{to}
	}

	steps := int(duration / frameInterval)
	if steps < 1 {
		steps = 1
	}

	frames := make([]float64, 0, steps)
	for i := 1; i <= steps; i++ {
		progress := float64(i) / float64(steps)
		frames = append(frames, from+(to-from)*EaseOutQuart(progress))
	}
	frames[len(frames)-1] = to
	return frames
}

// LinearFrames is the unstyled variant used for progress bars.
func LinearFrames(from, to float64, duration time.Duration) []float64 {
	if from == to || duration <= 0 {
		return []float64{to}
	}

	steps := int(duration / frameInterval)
	if steps < 1 {
		steps = 1
	}

	frames := make([]float64, 0, steps)
	for i := 1; i <= steps; i++ {
		progress := float64(i) / float64(steps)
		frames = append(frames, from+(to-from)*progress)
	}
	frames[len(frames)-1] = to
	return frames
}

// MetricAnimator tracks the last value drawn for each named counter so a
// retargeted animation continues from wherever the display currently is,
// not from the original start. The superseded sequence is simply
// abandoned by the caller.
type MetricAnimator struct {
	mu       sync.Mutex
	rendered map[string]float64
}

func NewMetricAnimator() *MetricAnimator {
	return &MetricAnimator{rendered: make(map[string]float64)}
}

// Animate returns the frame sequence that takes the named counter from
// its last drawn value to target. The caller must report drawn frames
// via MarkRendered so a mid-flight retarget picks up from the right spot.
func (a *MetricAnimator) Animate(name string, target float64, duration time.Duration) []float64 {
	a.mu.Lock()
	from := a.rendered[name]
	a.mu.Unlock()
	return Frames(from, target, duration)
}

// MarkRendered records the value currently shown for a counter.
func (a *MetricAnimator) MarkRendered(name string, value float64) {
	a.mu.Lock()
	a.rendered[name] = value
	a.mu.Unlock()
}

// Rendered returns the value currently shown for a counter (zero if the
// counter has never been drawn).
func (a *MetricAnimator) Rendered(name string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rendered[name]
}
