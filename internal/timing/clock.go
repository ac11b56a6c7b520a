package timing

import "time"

// Clock reports milliseconds elapsed since it was created as a wrapping uint32,
// the same unit the frame-time and FPS labels are computed in.
type Clock struct {
	start time.Time
	now   func() time.Time
}

// NewClock starts a clock on the wall time
func NewClock() *Clock {
	return NewClockFunc(time.Now)
}

// NewClockFunc starts a clock on a custom time source
func NewClockFunc(now func() time.Time) *Clock {
	return &Clock{start: now(), now: now}
}

// Ticks returns milliseconds since the clock started
func (c *Clock) Ticks() uint32 {
	return uint32(c.now().Sub(c.start).Milliseconds())
}
