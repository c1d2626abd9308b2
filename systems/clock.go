package systems

import "math"

// carryEpsilon absorbs float error in accumulated fractional days.
const carryEpsilon = 1e-9

// MaxDaysPerTick bounds the days one Advance can emit. Larger elapsed times
// stay in the carry and drain over later ticks.
const MaxDaysPerTick = 1 << 20

// Clock converts real elapsed time into whole simulated days.
// The fractional remainder is carried across calls.
type Clock struct {
	daysPerSecond float64
	carry         float64
	day           int64
	paused        bool
}

// NewClock creates a running clock at the given rate.
func NewClock(daysPerSecond float64) *Clock {
	return &Clock{daysPerSecond: daysPerSecond}
}

// Advance converts realSeconds into simulated days and returns how many whole
// days elapsed, at most MaxDaysPerTick. Returns 0 while paused. Negative or
// non-finite input, or input whose day count overflows a float64, counts as 0.
func (c *Clock) Advance(realSeconds float64) int {
	if c.paused || !(realSeconds > 0) || math.IsInf(realSeconds, 1) {
		return 0
	}
	elapsed := realSeconds * c.daysPerSecond
	if math.IsInf(elapsed, 0) || math.IsNaN(elapsed) || math.IsInf(c.carry+elapsed, 0) {
		return 0
	}

	c.carry += elapsed
	days := math.Min(math.Floor(c.carry+carryEpsilon), MaxDaysPerTick)
	c.carry -= days
	if c.carry < 0 {
		c.carry = 0
	}

	c.day += int64(days)
	return int(days)
}

// Pause stops the clock. Pausing a paused clock is a no-op.
func (c *Clock) Pause() {
	c.paused = true
}

// Resume restarts the clock. Resuming a running clock is a no-op.
func (c *Clock) Resume() {
	c.paused = false
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool {
	return c.paused
}

// Day returns the total simulated days elapsed.
func (c *Clock) Day() int64 {
	return c.day
}

// Carry returns the fractional day not yet emitted.
func (c *Clock) Carry() float64 {
	return c.carry
}
