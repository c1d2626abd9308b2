// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfiguration is wrapped by every validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MaxDaysPerSecond is the fastest allowed clock rate.
const MaxDaysPerSecond = 1 << 20

// Lifespan distribution kinds.
const (
	LifespanFixed    = "fixed"
	LifespanNormal   = "normal"
	LifespanUniform  = "uniform"
	LifespanImmortal = "immortal"
)

// Drift model kinds.
const (
	DriftNone       = "none"
	DriftConstant   = "constant"
	DriftRandomWalk = "random_walk"
)

// Pool sizing kinds.
const (
	PoolLinear     = "linear"
	PoolSaturating = "saturating"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Clock      ClockConfig      `yaml:"clock"`
	Population PopulationConfig `yaml:"population"`
	Rabbit     RabbitConfig     `yaml:"rabbit"`
	Predator   PredatorConfig   `yaml:"predator"`
	Resource   ResourceConfig   `yaml:"resource"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Screen     ScreenConfig     `yaml:"screen"`
}

// ClockConfig controls real-time to simulated-time conversion.
type ClockConfig struct {
	DaysPerSecond float64 `yaml:"days_per_second"`
}

// PopulationConfig holds the starting population.
type PopulationConfig struct {
	InitialRabbits   int `yaml:"initial_rabbits"`
	InitialPredators int `yaml:"initial_predators"`
}

// RabbitConfig holds prey parameters.
type RabbitConfig struct {
	BirthRate float64        `yaml:"birth_rate"` // expected births per simulated day
	Lifespan  LifespanConfig `yaml:"lifespan"`
}

// PredatorConfig holds predator parameters. All rates are per simulated day.
type PredatorConfig struct {
	Lifespan               LifespanConfig `yaml:"lifespan"`
	InitialAge             int            `yaml:"initial_age"`
	InitialNourishment     float64        `yaml:"initial_nourishment"`
	MaxNourishment         float64        `yaml:"max_nourishment"`
	MaintenanceThreshold   float64        `yaml:"maintenance_threshold"`   // rabbits/day to hold nourishment steady
	ConsumptionRequirement float64        `yaml:"consumption_requirement"` // rabbits/day a predator tries to eat
	GainRate               float64        `yaml:"gain_rate"`               // nourishment per rabbit above maintenance
	LossRate               float64        `yaml:"loss_rate"`               // nourishment per rabbit below maintenance
	InitialDistance        float64        `yaml:"initial_distance"`
	BoundaryDistance       float64        `yaml:"boundary_distance"`
	Drift                  DriftConfig    `yaml:"drift"`
}

// LifespanConfig describes the distribution a max-lifespan is drawn from, in days.
type LifespanConfig struct {
	Kind   string  `yaml:"kind"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// DriftConfig describes how a predator's distance from the environment changes.
type DriftConfig struct {
	Kind  string  `yaml:"kind"`
	Rate  float64 `yaml:"rate"`  // distance per day
	Sigma float64 `yaml:"sigma"` // random walk spread per sqrt(day)
}

// ResourceConfig holds the shared consumption pool parameters.
type ResourceConfig struct {
	Pool PoolConfig `yaml:"pool"`
}

// PoolConfig sizes the huntable share of the rabbit population.
type PoolConfig struct {
	Kind           string  `yaml:"kind"`
	Fraction       float64 `yaml:"fraction"`        // fraction of rabbits catchable per day
	HalfSaturation float64 `yaml:"half_saturation"` // saturating kind only
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowDays     int `yaml:"stats_window_days"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfWindow          int `yaml:"perf_window"`
}

// ScreenConfig holds viewer settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Clone returns a copy of the configuration. Config holds no references, so the copy is independent.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks every parameter once. The returned error wraps
// ErrInvalidConfiguration and lists all violations.
func (c *Config) Validate() error {
	var v validator

	v.positive("clock.days_per_second", c.Clock.DaysPerSecond)
	if c.Clock.DaysPerSecond > MaxDaysPerSecond {
		v.failf("clock.days_per_second must be at most %d, got %v", MaxDaysPerSecond, c.Clock.DaysPerSecond)
	}

	v.nonNegativeInt("population.initial_rabbits", c.Population.InitialRabbits)
	v.nonNegativeInt("population.initial_predators", c.Population.InitialPredators)

	v.nonNegative("rabbit.birth_rate", c.Rabbit.BirthRate)
	v.lifespan("rabbit.lifespan", c.Rabbit.Lifespan)

	p := &c.Predator
	v.lifespan("predator.lifespan", p.Lifespan)
	v.nonNegativeInt("predator.initial_age", p.InitialAge)
	v.positive("predator.max_nourishment", p.MaxNourishment)
	if v.finite("predator.initial_nourishment", p.InitialNourishment) &&
		(p.InitialNourishment <= 0 || p.InitialNourishment > p.MaxNourishment) {
		v.failf("predator.initial_nourishment must be in (0, max_nourishment], got %v", p.InitialNourishment)
	}
	v.nonNegative("predator.maintenance_threshold", p.MaintenanceThreshold)
	v.nonNegative("predator.consumption_requirement", p.ConsumptionRequirement)
	v.nonNegative("predator.gain_rate", p.GainRate)
	v.nonNegative("predator.loss_rate", p.LossRate)
	v.nonNegative("predator.initial_distance", p.InitialDistance)
	v.nonNegative("predator.boundary_distance", p.BoundaryDistance)
	v.nonNegative("predator.drift.rate", p.Drift.Rate)
	v.nonNegative("predator.drift.sigma", p.Drift.Sigma)
	switch p.Drift.Kind {
	case DriftNone, DriftConstant, DriftRandomWalk:
	default:
		v.failf("predator.drift.kind %q is not one of none, constant, random_walk", p.Drift.Kind)
	}

	pool := &c.Resource.Pool
	v.nonNegative("resource.pool.fraction", pool.Fraction)
	v.nonNegative("resource.pool.half_saturation", pool.HalfSaturation)
	switch pool.Kind {
	case PoolLinear:
	case PoolSaturating:
		if pool.HalfSaturation <= 0 {
			v.failf("resource.pool.half_saturation must be positive for saturating pools")
		}
	default:
		v.failf("resource.pool.kind %q is not one of linear, saturating", pool.Kind)
	}

	v.nonNegativeInt("telemetry.stats_window_days", c.Telemetry.StatsWindowDays)

	return v.err()
}

// validator accumulates violations.
type validator struct {
	errs []error
}

func (v *validator) failf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...))
}

func (v *validator) finite(name string, x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		v.failf("%s must be finite, got %v", name, x)
		return false
	}
	return true
}

func (v *validator) nonNegative(name string, x float64) {
	if v.finite(name, x) && x < 0 {
		v.failf("%s must be non-negative, got %v", name, x)
	}
}

func (v *validator) positive(name string, x float64) {
	if v.finite(name, x) && x <= 0 {
		v.failf("%s must be positive, got %v", name, x)
	}
}

func (v *validator) nonNegativeInt(name string, x int) {
	if x < 0 {
		v.failf("%s must be non-negative, got %d", name, x)
	}
}

func (v *validator) lifespan(name string, l LifespanConfig) {
	switch l.Kind {
	case LifespanImmortal:
	case LifespanFixed:
		v.positive(name+".mean", l.Mean)
	case LifespanNormal:
		v.positive(name+".mean", l.Mean)
		v.nonNegative(name+".stddev", l.StdDev)
	case LifespanUniform:
		v.nonNegative(name+".min", l.Min)
		v.positive(name+".max", l.Max)
		if l.Min > l.Max {
			v.failf("%s.min (%v) exceeds max (%v)", name, l.Min, l.Max)
		}
	default:
		v.failf("%s.kind %q is not one of fixed, normal, uniform, immortal", name, l.Kind)
	}
}

func (v *validator) err() error {
	return errors.Join(v.errs...)
}
