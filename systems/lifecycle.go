package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/commons/components"
	"github.com/pthm-cable/commons/config"
)

// DeathCounts tallies the deaths marked by one evaluation pass.
type DeathCounts struct {
	RabbitOldAge     int
	PredatorOldAge   int
	PredatorWandered int
	PredatorStarved  int
}

// Lifecycle ages agents once per tick and evaluates births and natural deaths.
// Age grows by the tick's full elapsed days, so outcomes depend only on the
// simulated day reached, not on how many frames it took.
type Lifecycle struct {
	birthRate  float64
	birthCarry float64
	boundary   float64

	rabbitLifespan   Lifespan
	predatorLifespan Lifespan
	drift            Drift
}

// NewLifecycle creates the lifecycle engine. All randomness is drawn from src.
func NewLifecycle(cfg *config.Config, src rand.Source) *Lifecycle {
	return &Lifecycle{
		birthRate:        cfg.Rabbit.BirthRate,
		boundary:         cfg.Predator.BoundaryDistance,
		rabbitLifespan:   NewLifespan(cfg.Rabbit.Lifespan, src),
		predatorLifespan: NewLifespan(cfg.Predator.Lifespan, src),
		drift:            NewDrift(cfg.Predator.Drift, src),
	}
}

// Age adds days to every agent and moves predators by the drift model.
func (l *Lifecycle) Age(reg *Registry, days int) {
	if days <= 0 {
		return
	}
	reg.EachRabbit(func(a *components.Agent) {
		a.Age += days
	})
	reg.EachPredator(func(a *components.Agent, p *components.Predator) {
		a.Age += days
		p.Distance = l.drift.Step(p.Distance, days)
	})
}

// Births returns the whole rabbits born over days at the configured rate.
// The fractional remainder carries into the next call.
func (l *Lifecycle) Births(days int) int {
	if days <= 0 || l.birthRate == 0 {
		return 0
	}
	l.birthCarry += l.birthRate * float64(days)
	n := math.Floor(l.birthCarry + carryEpsilon)
	l.birthCarry -= n
	if l.birthCarry < 0 {
		l.birthCarry = 0
	}
	return int(n)
}

// BirthCarry returns the fractional birth not yet instantiated.
func (l *Lifecycle) BirthCarry() float64 {
	return l.birthCarry
}

// AddRabbits inserts n rabbits with freshly drawn lifespans.
func (l *Lifecycle) AddRabbits(reg *Registry, n int, day int64) {
	for i := 0; i < n; i++ {
		reg.AddRabbit(l.rabbitLifespan.Sample(), day)
	}
}

// PredatorLifespan draws a max-lifespan for a new predator.
func (l *Lifecycle) PredatorLifespan() int {
	return l.predatorLifespan.Sample()
}

// EvaluateDeaths marks rabbits and predators that die this tick. It must run
// after the contention model so starvation sees this tick's nourishment.
// Predator causes are checked in priority order: old age, wandered off, starvation.
func (l *Lifecycle) EvaluateDeaths(reg *Registry) DeathCounts {
	var counts DeathCounts

	reg.EachRabbit(func(a *components.Agent) {
		if a.Age >= a.MaxLifespan && a.Mark(components.CauseOldAge) {
			counts.RabbitOldAge++
		}
	})

	reg.EachPredator(func(a *components.Agent, p *components.Predator) {
		if a.Doomed() {
			return
		}
		switch {
		case a.Age >= a.MaxLifespan:
			a.Mark(components.CauseOldAge)
			counts.PredatorOldAge++
		case p.Distance > l.boundary:
			a.Mark(components.CauseWanderedOff)
			counts.PredatorWandered++
		case p.Nourishment <= 0:
			a.Mark(components.CauseStarvation)
			counts.PredatorStarved++
		}
	})

	return counts
}
