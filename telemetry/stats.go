package telemetry

import (
	"log/slog"
	"sort"
)

// DaysPerYear converts simulated days to the years used in history output.
const DaysPerYear = 365.0

// WindowStats holds aggregated statistics for a window of simulated days.
// The time/prey/predators columns keep the population_data.csv layout.
type WindowStats struct {
	WindowStartDay int64   `csv:"-" db:"window_start"`
	WindowEndDay   int64   `csv:"day" db:"day"`
	Year           float64 `csv:"time" db:"year"`

	// Population counts at window end
	Rabbits   int `csv:"prey" db:"prey"`
	Predators int `csv:"predators" db:"predators"`

	// Events during window
	RabbitBirths     int `csv:"prey_births" db:"prey_births"`
	RabbitsEaten     int `csv:"prey_eaten" db:"prey_eaten"`
	RabbitOldAge     int `csv:"prey_old_age" db:"prey_old_age"`
	PredatorSpawns   int `csv:"pred_spawns" db:"pred_spawns"`
	PredatorOldAge   int `csv:"pred_old_age" db:"pred_old_age"`
	PredatorWandered int `csv:"pred_wandered" db:"pred_wandered"`
	PredatorStarved  int `csv:"pred_starved" db:"pred_starved"`

	// Nourishment distribution (sampled at window end)
	NourishmentMean float64 `csv:"nourishment_mean" db:"nourishment_mean"`
	NourishmentP10  float64 `csv:"nourishment_p10" db:"nourishment_p10"`
	NourishmentP50  float64 `csv:"nourishment_p50" db:"nourishment_p50"`
	NourishmentP90  float64 `csv:"nourishment_p90" db:"nourishment_p90"`

	// Commons pressure on the last feeding tick
	Pool  float64 `csv:"pool" db:"pool"`
	Share float64 `csv:"share" db:"share"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeNourishmentStats calculates mean and percentiles from nourishment values.
func ComputeNourishmentStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartDay),
		slog.Int64("day", s.WindowEndDay),
		slog.Float64("year", s.Year),
		slog.Int("prey", s.Rabbits),
		slog.Int("predators", s.Predators),
		slog.Int("prey_births", s.RabbitBirths),
		slog.Int("prey_eaten", s.RabbitsEaten),
		slog.Int("prey_old_age", s.RabbitOldAge),
		slog.Int("pred_spawns", s.PredatorSpawns),
		slog.Int("pred_old_age", s.PredatorOldAge),
		slog.Int("pred_wandered", s.PredatorWandered),
		slog.Int("pred_starved", s.PredatorStarved),
		slog.Float64("nourishment_mean", s.NourishmentMean),
		slog.Float64("nourishment_p10", s.NourishmentP10),
		slog.Float64("nourishment_p50", s.NourishmentP50),
		slog.Float64("nourishment_p90", s.NourishmentP90),
		slog.Float64("pool", s.Pool),
		slog.Float64("share", s.Share),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
