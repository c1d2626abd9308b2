package telemetry

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report sections.
const (
	FocusOverall      = "overall"
	FocusPrey         = "prey"
	FocusPredator     = "predator"
	FocusInteractions = "interactions"
)

const (
	volatilityRatio  = 0.3 // r/K-selection volatility cutoff (std vs mean)
	instabilityRatio = 0.5
)

// SpeciesSummary describes one population over a history.
type SpeciesSummary struct {
	Mean float64
	Min  float64
	Max  float64
	Std  float64 // population standard deviation

	// ExtinctYear is the time of the first record with a count of 0.
	ExtinctYear float64
	Extinct     bool
}

// Summary holds population statistics over a recorded history.
type Summary struct {
	Records    int
	TotalYears float64
	Prey       SpeciesSummary
	Predators  SpeciesSummary
}

// Summarize computes population statistics over a history.
func Summarize(history []WindowStats) Summary {
	if len(history) == 0 {
		return Summary{}
	}

	prey, pred := populations(history)
	s := Summary{
		Records:    len(history),
		TotalYears: history[len(history)-1].Year,
		Prey:       summarizeSpecies(prey),
		Predators:  summarizeSpecies(pred),
	}

	for _, h := range history {
		if h.Rabbits == 0 && !s.Prey.Extinct {
			s.Prey.Extinct, s.Prey.ExtinctYear = true, h.Year
		}
		if h.Predators == 0 && !s.Predators.Extinct {
			s.Predators.Extinct, s.Predators.ExtinctYear = true, h.Year
		}
	}
	return s
}

func populations(history []WindowStats) (prey, pred []float64) {
	prey = make([]float64, len(history))
	pred = make([]float64, len(history))
	for i, h := range history {
		prey[i] = float64(h.Rabbits)
		pred[i] = float64(h.Predators)
	}
	return prey, pred
}

func summarizeSpecies(x []float64) SpeciesSummary {
	mean, std := stat.PopMeanStdDev(x, nil)
	return SpeciesSummary{
		Mean: mean,
		Min:  floats.Min(x),
		Max:  floats.Max(x),
		Std:  std,
	}
}

// coefficientOfVariation returns std/mean, or 0 when the mean is not positive.
func coefficientOfVariation(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(x, nil)
	if mean <= 0 {
		return 0
	}
	return std / mean
}

// Report renders a plain-text ecological report for the given focus
// (overall, prey, predator or interactions).
func Report(history []WindowStats, focus string) (string, error) {
	switch focus {
	case "":
		focus = FocusOverall
	case FocusOverall, FocusPrey, FocusPredator, FocusInteractions:
	default:
		return "", fmt.Errorf("unknown report focus %q", focus)
	}
	if len(history) == 0 {
		return "No population history recorded.\n", nil
	}

	s := Summarize(history)
	rule := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 60)

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "ECOLOGICAL SIMULATION REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Analysis Focus: %s\n", strings.ToUpper(focus))
	fmt.Fprintf(&b, "Data Period: Years 0 to %.0f\n", s.TotalYears)
	fmt.Fprintf(&b, "Total Data Points: %d\n", s.Records)

	if focus == FocusOverall || focus == FocusPrey {
		fmt.Fprintf(&b, "\nRABBITS (r-selected)\n%s\n", sep)
		writeSpecies(&b, s.Prey)
		if s.Prey.Std > s.Prey.Mean*volatilityRatio {
			fmt.Fprintln(&b, "r-selection pattern: high volatility, boom-bust cycles")
		}
	}

	if focus == FocusOverall || focus == FocusPredator {
		fmt.Fprintf(&b, "\nPREDATORS (K-selected)\n%s\n", sep)
		writeSpecies(&b, s.Predators)
		if s.Predators.Std < s.Predators.Mean*volatilityRatio {
			fmt.Fprintln(&b, "K-selection pattern: low volatility, near equilibrium")
		}
	}

	if focus == FocusOverall || focus == FocusInteractions {
		fmt.Fprintf(&b, "\nPREDATOR-PREY DYNAMICS\n%s\n", sep)
		fmt.Fprintf(&b, "Prey-to-Predator Ratio: %.1f:1\n", s.Prey.Mean/math.Max(s.Predators.Mean, 1))
		if s.Prey.Std > s.Prey.Mean*instabilityRatio {
			fmt.Fprintln(&b, "HIGH INSTABILITY: extreme population fluctuations")
		} else {
			fmt.Fprintln(&b, "STABLE SYSTEM: populations show moderate variation")
		}
	}

	fmt.Fprintln(&b, rule)
	return b.String(), nil
}

func writeSpecies(b *strings.Builder, s SpeciesSummary) {
	fmt.Fprintf(b, "Average Population: %.1f\n", s.Mean)
	fmt.Fprintf(b, "Maximum Population: %.0f\n", s.Max)
	fmt.Fprintf(b, "Minimum Population: %.0f\n", s.Min)
	fmt.Fprintf(b, "Std Dev: %.2f\n", s.Std)
	if s.Extinct {
		fmt.Fprintf(b, "EXTINCTION EVENT at year %.1f\n", s.ExtinctYear)
	} else {
		fmt.Fprintln(b, "Remained viable throughout")
	}
}
