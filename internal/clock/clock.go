package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Condition windows and reconciliation
// timestamps read time through it so tests can pin the moment.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystemClock returns a Clock backed by the wall clock, in UTC.
func NewSystemClock() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
