package game

import (
	"log/slog"

	"github.com/pthm-cable/commons/systems"
)

// Tick advances the simulation by realSeconds of wall time and returns the
// published snapshot. While paused it is a no-op and returns the current
// snapshot unchanged.
//
// Phases run in a fixed order: clock, birth, feeding, death, sweep, publish.
// Death evaluation sees the nourishment computed by this tick's feeding pass,
// and every pass before the sweep sees the same pre-tick population.
func (g *Game) Tick(realSeconds float64) Snapshot {
	if g.clock.Paused() {
		return g.snapshot
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(systems.PhaseClock)
	days := g.clock.Advance(realSeconds)
	g.lastDays = days
	if days == 0 {
		// Sub-day frame: the carry grows, nothing else changes.
		g.lastDeaths = nil
		g.lastFeeding = systems.FeedingResult{}
		g.lastCounts = systems.DeathCounts{}
		return g.snapshot
	}
	g.ticks++
	day := g.clock.Day()

	g.perfCollector.StartPhase(systems.PhaseBirth)
	g.lifecycle.Age(g.registry, days)
	births := g.lifecycle.Births(days)

	g.perfCollector.StartPhase(systems.PhaseFeeding)
	g.lastFeeding = g.contention.Apply(g.registry, days, g.rng)
	g.collector.RecordFeeding(g.lastFeeding)
	g.sampleLifetimes()

	g.perfCollector.StartPhase(systems.PhaseDeath)
	g.lastCounts = g.lifecycle.EvaluateDeaths(g.registry)
	if g.lastCounts != (systems.DeathCounts{}) {
		slog.Debug("deaths_marked",
			"day", day,
			"rabbit_old_age", g.lastCounts.RabbitOldAge,
			"pred_old_age", g.lastCounts.PredatorOldAge,
			"pred_wandered", g.lastCounts.PredatorWandered,
			"pred_starved", g.lastCounts.PredatorStarved,
		)
	}

	g.perfCollector.StartPhase(systems.PhaseSweep)
	g.lastDeaths = g.registry.Sweep(day)
	g.lifecycle.AddRabbits(g.registry, births, day)
	g.collector.RecordBirths(births)
	g.recordDeaths(g.lastDeaths)

	g.perfCollector.StartPhase(systems.PhasePublish)
	g.publish()
	g.flushTelemetry()

	g.perfCollector.EndTick(days)

	return g.snapshot
}

// publish recomputes the snapshot from the registry.
func (g *Game) publish() {
	g.snapshot = Snapshot{
		Rabbits:   g.registry.Rabbits(),
		Predators: g.registry.Predators(),
		Day:       g.clock.Day(),
		Paused:    g.clock.Paused(),
	}
}

// RunDays ticks in one-day steps until at least days simulated days have
// passed or the controller is paused. Used by headless drivers and tools.
func (g *Game) RunDays(days int) Snapshot {
	step := 1 / g.cfg.Clock.DaysPerSecond
	target := g.clock.Day() + int64(days)
	for g.clock.Day() < target && !g.clock.Paused() {
		g.Tick(step)
	}
	return g.snapshot
}
