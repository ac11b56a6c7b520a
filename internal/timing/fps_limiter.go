package timing

import (
	"time"

	"tabula/internal/config"
)

// spinWindow is how close to the deadline Wait stops sleeping and spins
const spinWindow = 200 * time.Microsecond

// Limiter caps the render loop's iteration rate
type Limiter interface {
	Wait()
}

// FPSLimiter paces frames to config.GetFPSLimit, read on every Wait so the
// cap can change while the loop runs
type FPSLimiter struct {
	deadline time.Time
}

// NewFPSLimiter creates a limiter that follows the global frame settings
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the current frame's deadline. A zero limit never blocks.
func (f *FPSLimiter) Wait() {
	fps := config.GetFPSLimit()
	if fps <= 0 {
		f.deadline = time.Time{}
		return
	}
	period := time.Second / time.Duration(fps)

	f.deadline = f.advance(period)
	sleepUntil(f.deadline)

	// more than a period late: restart the schedule from now
	if time.Since(f.deadline) > period {
		f.deadline = time.Now().Add(period)
	}
}

func (f *FPSLimiter) advance(period time.Duration) time.Time {
	if f.deadline.IsZero() {
		return time.Now().Add(period)
	}
	return f.deadline.Add(period)
}

// sleepUntil sleeps until spinWindow before t, then spins
func sleepUntil(t time.Time) {
	for {
		left := time.Until(t)
		if left <= 0 {
			return
		}
		if left > spinWindow {
			time.Sleep(left - spinWindow)
		}
	}
}
