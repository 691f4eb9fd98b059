package service

// Countdown counts whole seconds down for one question.
//
// The counter is shown before it is decremented and expiry is only detected
// once it has gone below zero, so a 10 second countdown displays 10..0 and
// expires on the twelfth tick.
type Countdown struct {
	remaining int
}

// NewCountdown creates a countdown starting at seconds.
func NewCountdown(seconds int) *Countdown {
	return &Countdown{remaining: seconds}
}

// Tick advances the countdown by one interval. It returns the value to
// display, or expired=true once the time is up.
func (c *Countdown) Tick() (display int, expired bool) {
	if c.remaining < 0 {
		return 0, true
	}
	display = c.remaining
	c.remaining--
	return display, false
}

