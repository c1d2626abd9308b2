// Package game wires the clock, registry, lifecycle and contention systems
// into the simulation controller driven once per frame.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/commons/components"
	"github.com/pthm-cable/commons/config"
	"github.com/pthm-cable/commons/systems"
	"github.com/pthm-cable/commons/telemetry"
)

// seedMix decorrelates the two PCG words derived from one seed.
const seedMix = 0x9e3779b97f4a7c15

// State is the controller's run state.
type State uint8

const (
	StateRunning State = iota
	StatePaused
)

func (s State) String() string {
	if s == StatePaused {
		return "paused"
	}
	return "running"
}

// Snapshot is the read-only population summary published after each tick.
type Snapshot struct {
	Rabbits   int
	Predators int
	Day       int64
	Paused    bool
}

// Options configures a Game beyond its simulation config.
type Options struct {
	Seed          uint64
	LogStats      bool   // log window stats and bookmarks via slog
	OutputDir     string // CSV output directory; empty disables
	HistoryDB     string // SQLite history path; empty disables
	StatsCallback func(telemetry.WindowStats)
}

// Game is the simulation controller. It owns every system and the single
// random source they draw from. It is not safe for concurrent use.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed uint64

	// Systems
	clock      *systems.Clock
	registry   *systems.Registry
	lifecycle  *systems.Lifecycle
	contention *systems.Contention
	phases     *systems.PhaseRegistry

	// Last tick results
	snapshot    Snapshot
	lastDays    int
	lastDeaths  []systems.Death
	lastFeeding systems.FeedingResult
	lastCounts  systems.DeathCounts
	ticks       int64

	// Telemetry
	collector        *telemetry.Collector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	historyDB        *telemetry.HistoryDB
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	nourishBuf []float64
}

// New creates a controller from cfg. A nil cfg uses the embedded defaults.
// It fails with an error wrapping config.ErrInvalidConfiguration if cfg is invalid.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^seedMix))

	g := &Game{
		cfg:  cfg,
		rng:  rng,
		seed: opts.Seed,

		clock:      systems.NewClock(cfg.Clock.DaysPerSecond),
		registry:   systems.NewRegistry(),
		lifecycle:  systems.NewLifecycle(cfg, rng),
		contention: systems.NewContention(cfg),
		phases:     systems.NewPhaseRegistry(),

		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindowDays),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
	}

	if err := g.openOutputs(opts); err != nil {
		g.Close()
		return nil, err
	}

	g.spawnInitialPopulation()
	g.publish()

	return g, nil
}

func (g *Game) openOutputs(opts Options) error {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if opts.HistoryDB != "" {
		db, err := telemetry.OpenHistoryDB(opts.HistoryDB)
		if err != nil {
			return fmt.Errorf("opening history db: %w", err)
		}
		g.historyDB = db
		if err := db.SaveMeta("seed", fmt.Sprint(opts.Seed)); err != nil {
			return fmt.Errorf("saving seed: %w", err)
		}
	}
	return nil
}

// Close flushes telemetry and releases output files.
func (g *Game) Close() error {
	if err := g.outputManager.WritePredatorLifetimes(g.lifetimeTracker.Retired()); err != nil {
		slog.Error("failed to write predator lifetimes", "error", err)
	}
	err := g.outputManager.Close()
	if dbErr := g.historyDB.Close(); err == nil {
		err = dbErr
	}
	g.outputManager = nil
	g.historyDB = nil
	return err
}

// TogglePause flips between running and paused.
func (g *Game) TogglePause() {
	if g.clock.Paused() {
		g.clock.Resume()
	} else {
		g.clock.Pause()
	}
	g.snapshot.Paused = g.clock.Paused()
	slog.Debug("pause toggled", "state", g.State().String(), "day", g.clock.Day())
}

// State returns the current run state.
func (g *Game) State() State {
	if g.clock.Paused() {
		return StatePaused
	}
	return StateRunning
}

// Snapshot returns the population summary from the last publish.
func (g *Game) Snapshot() Snapshot {
	return g.snapshot
}

// Deaths returns the agents removed by the last tick, ordered by ID.
func (g *Game) Deaths() []systems.Death {
	return g.lastDeaths
}

// LastFeeding returns the contention result of the last tick.
func (g *Game) LastFeeding() systems.FeedingResult {
	return g.lastFeeding
}

// LastDeathCounts returns the natural deaths marked by the last tick's
// death pass. Rabbits eaten during feeding are not included.
func (g *Game) LastDeathCounts() systems.DeathCounts {
	return g.lastCounts
}

// LastDays returns the simulated days the last tick advanced.
func (g *Game) LastDays() int {
	return g.lastDays
}

// Ticks returns the number of ticks that advanced at least one day.
func (g *Game) Ticks() int64 {
	return g.ticks
}

// Seed returns the seed of the controller's random source.
func (g *Game) Seed() uint64 {
	return g.seed
}

// Config returns the controller's private copy of the configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Registry exposes the live population for tests and inspection tools.
// Drivers must not mutate agents through it; nourishment may only change in
// the feeding phase. Use Predator for a read-only view.
func (g *Game) Registry() *systems.Registry {
	return g.registry
}

// Predator returns a copy of a live predator's state.
func (g *Game) Predator(id uint64) (components.Agent, components.Predator, bool) {
	a, ok := g.registry.Agent(id)
	if !ok {
		return components.Agent{}, components.Predator{}, false
	}
	p, ok := g.registry.Predator(id)
	if !ok {
		return components.Agent{}, components.Predator{}, false
	}
	return *a, *p, true
}

// Phases returns the tick phase metadata.
func (g *Game) Phases() *systems.PhaseRegistry {
	return g.phases
}

// Perf returns the rolling perf stats.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// PredatorLifetime returns the tracked lifetime of a live predator, or nil.
func (g *Game) PredatorLifetime(id uint64) *telemetry.PredatorLifetime {
	return g.lifetimeTracker.Get(id)
}

// RetiredPredators returns the lifetimes of every predator that has died.
func (g *Game) RetiredPredators() []telemetry.PredatorLifetime {
	return g.lifetimeTracker.Retired()
}

// MeanNourishment returns the mean nourishment of live predators.
func (g *Game) MeanNourishment() float64 {
	return g.registry.MeanNourishment()
}

// RecordFrame records viewer frame timing for the perf stats.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}
