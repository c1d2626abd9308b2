package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/commons/components"
	"github.com/pthm-cable/commons/config"
)

// FeedingResult summarizes one contention pass.
type FeedingResult struct {
	Predators int
	Rabbits   int     // rabbits available when the pool was sized
	Pool      float64 // huntable rabbits this tick
	Share     float64 // intake per predator
	Delta     float64 // nourishment change per predator before clamping
	Consumed  int     // rabbits marked eaten
}

// Contention is the shared-resource model. Each tick the rabbit population
// yields a pool; every predator asks for its per-capita requirement and gets
// pool/n capped at that requirement. Eaten rabbits leave the registry, so the
// next tick's pool shrinks for everyone.
type Contention struct {
	pool        config.PoolConfig
	requirement float64
	maintenance float64
	gainRate    float64
	lossRate    float64
	maxNourish  float64

	consumedCarry float64
}

// NewContention creates the contention model.
func NewContention(cfg *config.Config) *Contention {
	p := &cfg.Predator
	return &Contention{
		pool:        cfg.Resource.Pool,
		requirement: p.ConsumptionRequirement,
		maintenance: p.MaintenanceThreshold,
		gainRate:    p.GainRate,
		lossRate:    p.LossRate,
		maxNourish:  p.MaxNourishment,
	}
}

// PoolSize returns the huntable rabbits for a population over days, capped at rabbits.
func (c *Contention) PoolSize(rabbits, days int) float64 {
	r := float64(rabbits)
	var pool float64
	switch c.pool.Kind {
	case config.PoolSaturating:
		pool = c.pool.Fraction * r * r / (r + c.pool.HalfSaturation) * float64(days)
	default:
		pool = c.pool.Fraction * r * float64(days)
	}
	return math.Min(pool, r)
}

// Share returns each predator's intake when n predators split pool over days.
func (c *Contention) Share(pool float64, n, days int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(pool/float64(n), c.requirement*float64(days))
}

// NourishmentDelta converts an intake over days into a nourishment change.
// Intake above maintenance feeds at gainRate; any shortfall costs lossRate.
func (c *Contention) NourishmentDelta(intake float64, days int) float64 {
	surplus := intake - c.maintenance*float64(days)
	if surplus >= 0 {
		return surplus * c.gainRate
	}
	return surplus * c.lossRate
}

// Apply feeds every live predator from this tick's pool and marks the eaten
// rabbits. Whole rabbits are removed; fractional consumption carries over.
func (c *Contention) Apply(reg *Registry, days int, rng *rand.Rand) FeedingResult {
	res := FeedingResult{
		Predators: reg.Predators(),
		Rabbits:   reg.Rabbits(),
	}
	if days <= 0 || res.Predators == 0 {
		return res
	}

	res.Pool = c.PoolSize(res.Rabbits, days)
	res.Share = c.Share(res.Pool, res.Predators, days)
	res.Delta = c.NourishmentDelta(res.Share, days)

	reg.EachPredator(func(_ *components.Agent, p *components.Predator) {
		p.Nourishment = clamp(p.Nourishment+res.Delta, 0, c.maxNourish)
		p.LastIntake = res.Share
	})

	c.consumedCarry += res.Share * float64(res.Predators)
	eaten := math.Floor(c.consumedCarry + carryEpsilon)
	c.consumedCarry -= eaten
	if c.consumedCarry < 0 {
		c.consumedCarry = 0
	}
	res.Consumed = reg.MarkRandomRabbits(int(eaten), components.CauseEaten, rng)

	return res
}
