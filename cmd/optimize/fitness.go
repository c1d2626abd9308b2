package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/commons/config"
	"github.com/pthm-cable/commons/game"
	"github.com/pthm-cable/commons/telemetry"
)

// calibrationWindowDays is the stats window used to sample the rabbit count.
const calibrationWindowDays = 30

// FitnessEvaluator runs headless simulations and scores how steadily the
// rabbit population holds against a fixed number of predators.
type FitnessEvaluator struct {
	params     *ParamVector
	days       int
	predators  int
	seeds      []uint64
	baseConfig *config.Config

	mu          sync.Mutex
	lastScore   Score
	bestFitness float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, days, predators int, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		days:        days,
		predators:   predators,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// Score breaks a fitness value into its parts.
type Score struct {
	Drift    float64 // mean squared relative deviation of the rabbit count
	Survival float64 // fraction of predators alive at the end
}

// Fitness returns the scalar to minimize.
func (s Score) Fitness() float64 {
	return s.Drift + (1 - s.Survival)
}

// LastScore returns the seed-averaged score of the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.StatsWindowDays = calibrationWindowDays

	// Run all seeds in parallel; each run owns its controller.
	scores := make([]Score, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			scores[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	drift := make([]float64, len(scores))
	survival := make([]float64, len(scores))
	for i, s := range scores {
		drift[i] = s.Drift
		survival[i] = s.Survival
	}
	avg := Score{Drift: stat.Mean(drift, nil), Survival: stat.Mean(survival, nil)}
	fitness := avg.Fitness()

	fe.mu.Lock()
	fe.lastScore = avg
	fe.bestFitness = math.Min(fe.bestFitness, fitness)
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run and scores it.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed uint64) Score {
	var windows []telemetry.WindowStats
	g, err := game.New(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		// Out-of-bounds parameters score as a total failure.
		return Score{Drift: math.Inf(1)}
	}
	defer g.Close()

	for i := 0; i < fe.predators; i++ {
		g.SpawnPredator()
	}
	initial := g.Snapshot().Rabbits
	final := g.RunDays(fe.days)

	return scoreRun(initial, fe.predators, final.Predators, windows)
}

// scoreRun scores one run from its window history.
func scoreRun(initialRabbits, spawned, survivors int, windows []telemetry.WindowStats) Score {
	s := Score{Survival: 1}
	if spawned > 0 {
		s.Survival = float64(survivors) / float64(spawned)
	}
	if len(windows) == 0 {
		return s
	}

	base := math.Max(float64(initialRabbits), 1)
	dev := make([]float64, len(windows))
	for i, w := range windows {
		d := (float64(w.Rabbits) - base) / base
		dev[i] = d * d
	}
	s.Drift = stat.Mean(dev, nil)
	return s
}
