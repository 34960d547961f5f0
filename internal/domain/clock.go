package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the clock behind Now. Credential expiry checks and the
// processed_at stamps on published records read from it. A nil clock restores
// wall time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// Now is the current time on the domain clock.
func Now() time.Time { return clock.Now() }
