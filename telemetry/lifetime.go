package telemetry

import (
	"math"

	"github.com/pthm-cable/commons/components"
)

// PredatorLifetime tracks one predator's nourishment history.
type PredatorLifetime struct {
	ID       uint64
	SpawnDay int64
	DeathDay int64
	Cause    components.DeathCause

	NourishmentSum  float64
	Samples         int
	MinNourishment  float64
	PeakNourishment float64
	TotalIntake     float64
}

// AverageNourishment returns the mean of all per-tick samples.
func (pl *PredatorLifetime) AverageNourishment() float64 {
	if pl.Samples == 0 {
		return 0
	}
	return pl.NourishmentSum / float64(pl.Samples)
}

// LifetimeTracker manages per-predator lifetime statistics.
type LifetimeTracker struct {
	live    map[uint64]*PredatorLifetime
	retired []PredatorLifetime
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		live: make(map[uint64]*PredatorLifetime),
	}
}

// Register starts tracking a newly spawned predator.
func (lt *LifetimeTracker) Register(id uint64, day int64, nourishment float64) {
	lt.live[id] = &PredatorLifetime{
		ID:              id,
		SpawnDay:        day,
		MinNourishment:  nourishment,
		PeakNourishment: nourishment,
	}
}

// Sample records a predator's nourishment and intake after a feeding pass.
func (lt *LifetimeTracker) Sample(id uint64, nourishment, intake float64) {
	s := lt.live[id]
	if s == nil {
		return
	}
	s.NourishmentSum += nourishment
	s.Samples++
	s.MinNourishment = math.Min(s.MinNourishment, nourishment)
	s.PeakNourishment = math.Max(s.PeakNourishment, nourishment)
	s.TotalIntake += intake
}

// Retire stops tracking a predator and returns its final stats, or nil if unknown.
func (lt *LifetimeTracker) Retire(id uint64, day int64, cause components.DeathCause) *PredatorLifetime {
	s := lt.live[id]
	if s == nil {
		return nil
	}
	delete(lt.live, id)
	s.DeathDay = day
	s.Cause = cause
	lt.retired = append(lt.retired, *s)
	return s
}

// Get returns the stats of a live predator, or nil if not found.
func (lt *LifetimeTracker) Get(id uint64) *PredatorLifetime {
	return lt.live[id]
}

// Retired returns the stats of every predator that has died.
func (lt *LifetimeTracker) Retired() []PredatorLifetime {
	return lt.retired
}

// Count returns the number of tracked live predators.
func (lt *LifetimeTracker) Count() int {
	return len(lt.live)
}
