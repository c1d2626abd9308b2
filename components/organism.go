// Package components defines the ECS component types stored in the population registry.
package components

// Species distinguishes the two populations.
type Species uint8

const (
	SpeciesRabbit Species = iota
	SpeciesPredator
)

// String returns the species name.
func (s Species) String() string {
	if s == SpeciesPredator {
		return "predator"
	}
	return "rabbit"
}

// DeathCause records why an agent was removed.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseOldAge
	CauseWanderedOff
	CauseStarvation
	CauseEaten
)

// String returns the reported cause name.
func (c DeathCause) String() string {
	switch c {
	case CauseOldAge:
		return "old age"
	case CauseWanderedOff:
		return "wandered off"
	case CauseStarvation:
		return "starvation"
	case CauseEaten:
		return "eaten"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler for CSV and log output.
func (c DeathCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Agent holds the state shared by every live organism.
// Doomed agents stay in the registry until the end-of-tick sweep.
type Agent struct {
	ID          uint64
	Species     Species
	Age         int // days alive
	MaxLifespan int // natural-death threshold in days
	BornDay     int64
	Cause       DeathCause // CauseNone while alive
}

// Doomed reports whether the agent has been marked for removal this tick.
func (a *Agent) Doomed() bool {
	return a.Cause != CauseNone
}

// Mark flags the agent for removal. The first cause recorded wins.
func (a *Agent) Mark(cause DeathCause) bool {
	if a.Doomed() {
		return false
	}
	a.Cause = cause
	return true
}

// Rabbit tags prey entities.
type Rabbit struct{}

// Predator holds hunter-specific state.
type Predator struct {
	Nourishment float64 // clamped to [0, max]
	Distance    float64 // distance from the environment center
	LastIntake  float64 // rabbits eaten during the last tick
}
