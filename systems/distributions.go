package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/commons/config"
)

// Immortal is the max-lifespan assigned by the immortal distribution.
const Immortal = math.MaxInt

// Lifespan draws max-lifespans in whole days.
type Lifespan interface {
	Sample() int
}

type fixedLifespan int

func (f fixedLifespan) Sample() int { return int(f) }

type distLifespan struct {
	dist interface{ Rand() float64 }
}

func (d distLifespan) Sample() int {
	return daysFrom(d.dist.Rand())
}

// daysFrom rounds a sampled lifespan to whole days, floored at one day.
func daysFrom(x float64) int {
	days := math.Round(x)
	if !(days >= 1) {
		return 1
	}
	if days >= float64(Immortal) {
		return Immortal
	}
	return int(days)
}

// NewLifespan builds a sampler for cfg drawing from src.
// cfg is assumed valid; unknown kinds fall back to the mean.
func NewLifespan(cfg config.LifespanConfig, src rand.Source) Lifespan {
	switch cfg.Kind {
	case config.LifespanImmortal:
		return fixedLifespan(Immortal)
	case config.LifespanNormal:
		if cfg.StdDev == 0 {
			return fixedLifespan(daysFrom(cfg.Mean))
		}
		return distLifespan{distuv.Normal{Mu: cfg.Mean, Sigma: cfg.StdDev, Src: src}}
	case config.LifespanUniform:
		if cfg.Min == cfg.Max {
			return fixedLifespan(daysFrom(cfg.Min))
		}
		return distLifespan{distuv.Uniform{Min: cfg.Min, Max: cfg.Max, Src: src}}
	default:
		return fixedLifespan(daysFrom(cfg.Mean))
	}
}

// Drift moves a predator away from (or back toward) the environment center.
type Drift interface {
	Step(distance float64, days int) float64
}

type noDrift struct{}

func (noDrift) Step(distance float64, _ int) float64 { return distance }

type constantDrift struct{ rate float64 }

func (c constantDrift) Step(distance float64, days int) float64 {
	return distance + c.rate*float64(days)
}

type randomWalk struct {
	rate, sigma float64
	unit        distuv.Normal
}

func (w randomWalk) Step(distance float64, days int) float64 {
	d := float64(days)
	step := w.rate*d + w.sigma*math.Sqrt(d)*w.unit.Rand()
	return math.Max(0, distance+step)
}

// NewDrift builds the configured drift model drawing from src.
func NewDrift(cfg config.DriftConfig, src rand.Source) Drift {
	switch cfg.Kind {
	case config.DriftConstant:
		return constantDrift{rate: cfg.Rate}
	case config.DriftRandomWalk:
		if cfg.Sigma == 0 {
			return constantDrift{rate: cfg.Rate}
		}
		return randomWalk{
			rate:  cfg.Rate,
			sigma: cfg.Sigma,
			unit:  distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		}
	default:
		return noDrift{}
	}
}
