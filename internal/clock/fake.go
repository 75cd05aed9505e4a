package clock

import "time"

// FakeClock is a manually advanced Clock. Tests use it to pin condition
// windows to a fixed instant and step across their boundaries.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward (or backward, with a negative duration).
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
