package telemetry

import (
	"github.com/pthm-cable/commons/components"
	"github.com/pthm-cable/commons/systems"
)

// Collector accumulates events within windows of simulated days and produces WindowStats.
type Collector struct {
	windowDays     int64
	windowStartDay int64

	// Event counters for current window
	rabbitBirths     int
	rabbitsEaten     int
	rabbitOldAge     int
	predatorSpawns   int
	predatorOldAge   int
	predatorWandered int
	predatorStarved  int

	lastPool  float64
	lastShare float64
}

// NewCollector creates a new stats collector.
// windowDays: window length in simulated days (0 disables flushing)
func NewCollector(windowDays int) *Collector {
	return &Collector{windowDays: int64(windowDays)}
}

// RecordBirths records n rabbit births.
func (c *Collector) RecordBirths(n int) {
	c.rabbitBirths += n
}

// RecordSpawn records an externally spawned predator.
func (c *Collector) RecordSpawn() {
	c.predatorSpawns++
}

// RecordFeeding records the pool and share of a feeding pass.
func (c *Collector) RecordFeeding(res systems.FeedingResult) {
	if res.Predators == 0 {
		return
	}
	c.lastPool = res.Pool
	c.lastShare = res.Share
}

// RecordDeath records a swept agent.
func (c *Collector) RecordDeath(d systems.Death) {
	if d.Species == components.SpeciesRabbit {
		switch d.Cause {
		case components.CauseEaten:
			c.rabbitsEaten++
		case components.CauseOldAge:
			c.rabbitOldAge++
		}
		return
	}

	switch d.Cause {
	case components.CauseOldAge:
		c.predatorOldAge++
	case components.CauseWanderedOff:
		c.predatorWandered++
	case components.CauseStarvation:
		c.predatorStarved++
	}
}

// ShouldFlush returns true if the window covering day is complete.
func (c *Collector) ShouldFlush(day int64) bool {
	return c.windowDays > 0 && day-c.windowStartDay >= c.windowDays
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(day int64, rabbits, predators int, nourishment []float64) WindowStats {
	mean, p10, p50, p90 := ComputeNourishmentStats(nourishment)

	stats := WindowStats{
		WindowStartDay: c.windowStartDay,
		WindowEndDay:   day,
		Year:           float64(day) / DaysPerYear,

		Rabbits:   rabbits,
		Predators: predators,

		RabbitBirths:     c.rabbitBirths,
		RabbitsEaten:     c.rabbitsEaten,
		RabbitOldAge:     c.rabbitOldAge,
		PredatorSpawns:   c.predatorSpawns,
		PredatorOldAge:   c.predatorOldAge,
		PredatorWandered: c.predatorWandered,
		PredatorStarved:  c.predatorStarved,

		NourishmentMean: mean,
		NourishmentP10:  p10,
		NourishmentP50:  p50,
		NourishmentP90:  p90,

		Pool:  c.lastPool,
		Share: c.lastShare,
	}

	// Reset for next window
	*c = Collector{windowDays: c.windowDays, windowStartDay: day}

	return stats
}

// WindowDays returns the window length in simulated days.
func (c *Collector) WindowDays() int64 {
	return c.windowDays
}
