// Package forecast runs the Lotka-Volterra predator-prey model as a
// what-if companion to the agent simulation.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Step is the Euler integration step, in years.
const Step = 0.1

const (
	snapThreshold    = 0.1 // populations below this snap to 0
	extinctThreshold = 1.0
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("invalid forecast parameters")

// Params are the initial populations and rate constants of the model.
type Params struct {
	InitialPrey      float64 `yaml:"initial_prey"`
	InitialPredators float64 `yaml:"initial_predators"`
	Years            float64 `yaml:"years"`
	Alpha            float64 `yaml:"alpha"` // prey growth rate
	Beta             float64 `yaml:"beta"`  // predation rate
	Delta            float64 `yaml:"delta"` // predator efficiency
	Gamma            float64 `yaml:"gamma"` // predator death rate
}

// DefaultParams returns the classic rabbit/bobcat setup.
func DefaultParams() Params {
	return Params{
		InitialPrey:      40,
		InitialPredators: 5,
		Years:            50,
		Alpha:            0.5,
		Beta:             0.02,
		Delta:            0.01,
		Gamma:            0.3,
	}
}

// Validate reports every parameter that is negative or not finite.
func (p Params) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be finite and non-negative, got %v", ErrInvalidParams, name, v))
		}
	}
	check("initial_prey", p.InitialPrey)
	check("initial_predators", p.InitialPredators)
	check("years", p.Years)
	check("alpha", p.Alpha)
	check("beta", p.Beta)
	check("delta", p.Delta)
	check("gamma", p.Gamma)
	return errors.Join(errs...)
}

// Point is one sample of the forecast series.
type Point struct {
	Year      float64 `csv:"time"`
	Prey      float64 `csv:"prey"`
	Predators float64 `csv:"predators"`
}

// Result is a completed forecast.
type Result struct {
	Params Params
	Points []Point

	PreyExtinct         bool
	PreyExtinctYear     float64
	PredatorExtinct     bool
	PredatorExtinctYear float64

	// Oscillating is set when the prey range exceeds the initial prey count.
	Oscillating bool
}

// Final returns the last point of the series.
func (r Result) Final() Point {
	if len(r.Points) == 0 {
		return Point{}
	}
	return r.Points[len(r.Points)-1]
}

// Run integrates the model for p.Years in steps of Step.
//
//	dPrey/dt      = alpha*prey - beta*prey*predators
//	dPredators/dt = delta*prey*predators - gamma*predators
func Run(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	steps := int(p.Years / Step)
	if steps < 1 {
		steps = 1
	}

	points := make([]Point, steps)
	points[0] = Point{Prey: p.InitialPrey, Predators: p.InitialPredators}
	for i := 1; i < steps; i++ {
		prev := points[i-1]
		dPrey := (p.Alpha*prev.Prey - p.Beta*prev.Prey*prev.Predators) * Step
		dPred := (p.Delta*prev.Prey*prev.Predators - p.Gamma*prev.Predators) * Step

		points[i] = Point{
			Year:      float64(i) * Step,
			Prey:      snap(prev.Prey + dPrey),
			Predators: snap(prev.Predators + dPred),
		}
	}

	res := Result{Params: p, Points: points}
	for _, pt := range points {
		if !res.PreyExtinct && pt.Prey < extinctThreshold {
			res.PreyExtinct, res.PreyExtinctYear = true, pt.Year
		}
		if !res.PredatorExtinct && pt.Predators < extinctThreshold {
			res.PredatorExtinct, res.PredatorExtinctYear = true, pt.Year
		}
	}

	prey := make([]float64, len(points))
	for i, pt := range points {
		prey[i] = pt.Prey
	}
	res.Oscillating = floats.Max(prey)-floats.Min(prey) > p.InitialPrey

	return res, nil
}

func snap(x float64) float64 {
	if x < snapThreshold {
		return 0
	}
	return x
}

// Narrative renders a plain-text summary of the forecast.
func (r Result) Narrative() string {
	p := r.Params
	rule := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 60)

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "LOTKA-VOLTERRA PREDICTIVE SIMULATION")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Initial prey: %g\n", p.InitialPrey)
	fmt.Fprintf(&b, "Initial predators: %g\n", p.InitialPredators)
	fmt.Fprintf(&b, "alpha=%g beta=%g delta=%g gamma=%g\n", p.Alpha, p.Beta, p.Delta, p.Gamma)
	fmt.Fprintf(&b, "Duration: %g years\n", p.Years)
	fmt.Fprintln(&b, sep)

	switch {
	case r.PreyExtinct:
		fmt.Fprintf(&b, "PREY EXTINCTION predicted at year %.1f\n", r.PreyExtinctYear)
		fmt.Fprintln(&b, "Without prey the predator population collapses")
	case r.PredatorExtinct:
		fmt.Fprintf(&b, "PREDATOR EXTINCTION predicted at year %.1f\n", r.PredatorExtinctYear)
		fmt.Fprintln(&b, "Prey grows exponentially without predation")
	default:
		final := r.Final()
		fmt.Fprintf(&b, "Final prey: %.0f\n", final.Prey)
		fmt.Fprintf(&b, "Final predators: %.0f\n", final.Predators)
		if r.Oscillating {
			fmt.Fprintln(&b, "OSCILLATORY DYNAMICS: cyclic boom-bust pattern")
		} else {
			fmt.Fprintln(&b, "STABLE EQUILIBRIUM: populations converging")
		}
	}

	fmt.Fprintln(&b, rule)
	return b.String()
}
