package telemetry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientHistory is returned when too few records exist to assess risk.
var ErrInsufficientHistory = errors.New("insufficient history: need at least 3 records")

// DefaultRiskWindow is the number of recent records AssessRisk considers.
const DefaultRiskWindow = 10

const (
	minRiskRecords = 3
	maxRiskScore   = 10.0
)

// RiskLevel classifies an extinction-risk score.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "minimal"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ClassifyRisk maps a score to a risk level.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score >= 7:
		return RiskCritical
	case score >= 5:
		return RiskHigh
	case score >= 3:
		return RiskModerate
	case score >= 1:
		return RiskLow
	default:
		return RiskMinimal
	}
}

// SpeciesRisk is the extinction-risk assessment of one population.
type SpeciesRisk struct {
	Score   float64
	Level   RiskLevel
	CV      float64 // coefficient of variation, percent
	Min     float64
	Factors []string
}

// RiskAssessment covers both populations.
type RiskAssessment struct {
	Records   int
	Prey      SpeciesRisk
	Predators SpeciesRisk
}

// AssessRisk scores the short-term extinction risk of both populations from
// the last window records of history (DefaultRiskWindow if window <= 0).
func AssessRisk(history []WindowStats, window int) (RiskAssessment, error) {
	if window <= 0 {
		window = DefaultRiskWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) < minRiskRecords {
		return RiskAssessment{}, fmt.Errorf("%w (have %d)", ErrInsufficientHistory, len(history))
	}

	prey, pred := populations(history)
	return RiskAssessment{
		Records:   len(history),
		Prey:      assessSpecies(prey, nil),
		Predators: assessSpecies(pred, prey),
	}, nil
}

// assessSpecies scores one population. food is the prey series when scoring predators.
func assessSpecies(pop, food []float64) SpeciesRisk {
	mean := stat.Mean(pop, nil)
	cv := coefficientOfVariation(pop) * 100
	r := SpeciesRisk{CV: cv, Min: floats.Min(pop)}

	switch {
	case r.Min == 0:
		r.add(3, "CRITICAL: zero population events")
	case r.Min < 3:
		r.add(2.5, "SEVERE: population below viable threshold (<3)")
	case r.Min < 5:
		r.add(2, "HIGH: population approached minimum viable size")
	case r.Min < 10:
		r.add(1, "MODERATE: low population valleys")
	}

	switch {
	case cv > 80:
		r.add(3, fmt.Sprintf("CRITICAL: extreme volatility (CV=%.1f%%)", cv))
	case cv > 50:
		r.add(2, fmt.Sprintf("HIGH: population instability (CV=%.1f%%)", cv))
	case cv > 30:
		r.add(1, fmt.Sprintf("MODERATE: notable fluctuations (CV=%.1f%%)", cv))
	default:
		r.add(0, fmt.Sprintf("STABLE: low volatility (CV=%.1f%%)", cv))
	}

	trend := pop[len(pop)-1] - pop[len(pop)-3]
	switch {
	case trend < -mean*0.3:
		r.add(2, "HIGH: significant declining trend")
	case trend < 0:
		r.add(0.5, "CAUTION: slight decline")
	}

	if food != nil {
		foodCV := coefficientOfVariation(food) * 100
		switch {
		case foodCV > 50:
			r.add(1.5, fmt.Sprintf("K-SELECTION VULNERABILITY: food source highly volatile (%.1f%%)", foodCV))
		case foodCV > 30:
			r.add(0.5, fmt.Sprintf("FOOD INSTABILITY: prey variation at %.1f%%", foodCV))
		}
	}

	r.Score = math.Min(r.Score, maxRiskScore)
	r.Level = ClassifyRisk(r.Score)
	return r
}

func (r *SpeciesRisk) add(points float64, factor string) {
	r.Score += points
	r.Factors = append(r.Factors, factor)
}
