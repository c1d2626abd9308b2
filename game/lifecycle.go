package game

import (
	"log/slog"

	"github.com/pthm-cable/commons/components"
	"github.com/pthm-cable/commons/systems"
	"github.com/pthm-cable/commons/telemetry"
)

// spawnInitialPopulation creates the starting rabbits and predators.
func (g *Game) spawnInitialPopulation() {
	g.lifecycle.AddRabbits(g.registry, g.cfg.Population.InitialRabbits, 0)
	for i := 0; i < g.cfg.Population.InitialPredators; i++ {
		g.spawnPredator()
	}
}

// SpawnPredator inserts one predator with the configured initial age,
// nourishment and distance and returns its ID. It is allowed while paused
// and has no upper bound. The snapshot is republished so the new count is
// visible immediately.
func (g *Game) SpawnPredator() uint64 {
	id := g.spawnPredator()
	g.collector.RecordSpawn()
	g.publish()
	return id
}

func (g *Game) spawnPredator() uint64 {
	p := &g.cfg.Predator
	day := g.clock.Day()
	pred := components.Predator{
		Nourishment: p.InitialNourishment,
		Distance:    p.InitialDistance,
	}

	id := g.registry.AddPredator(p.InitialAge, g.lifecycle.PredatorLifespan(), pred, day)
	g.lifetimeTracker.Register(id, day, pred.Nourishment)

	slog.Info("predator_spawned",
		"id", id,
		"day", day,
		"nourishment", pred.Nourishment,
		"distance", pred.Distance,
		"predators", g.registry.Predators(),
	)
	return id
}

// sampleLifetimes records every predator's post-feeding nourishment.
func (g *Game) sampleLifetimes() {
	g.registry.EachPredator(func(a *components.Agent, p *components.Predator) {
		g.lifetimeTracker.Sample(a.ID, p.Nourishment, p.LastIntake)
	})
}

// recordDeaths feeds swept agents to the collector, lifetime tracker and deaths.csv.
func (g *Game) recordDeaths(deaths []systems.Death) {
	if len(deaths) == 0 {
		return
	}

	records := make([]telemetry.DeathRecord, 0, len(deaths))
	for _, d := range deaths {
		g.collector.RecordDeath(d)
		records = append(records, telemetry.NewDeathRecord(d))

		if d.Species == components.SpeciesPredator {
			g.lifetimeTracker.Retire(d.ID, d.Day, d.Cause)
			telemetry.LogDeath(d)
		}
	}

	if err := g.outputManager.WriteDeaths(records); err != nil {
		slog.Error("failed to write deaths", "error", err)
	}
}
