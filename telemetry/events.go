// Package telemetry provides population history, ecosystem reports and bookmarking.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/commons/systems"
)

// DeathRecord is one row of deaths.csv.
type DeathRecord struct {
	Day         int64   `csv:"day"`
	ID          uint64  `csv:"id"`
	Species     string  `csv:"species"`
	Cause       string  `csv:"cause"`
	Age         int     `csv:"age"`
	Nourishment float64 `csv:"nourishment"`
}

// NewDeathRecord converts a swept agent into a CSV row.
func NewDeathRecord(d systems.Death) DeathRecord {
	return DeathRecord{
		Day:         d.Day,
		ID:          d.ID,
		Species:     d.Species.String(),
		Cause:       d.Cause.String(),
		Age:         d.Age,
		Nourishment: d.Nourishment,
	}
}

// LogDeath logs a predator death. Rabbit deaths are too frequent to log individually.
func LogDeath(d systems.Death) {
	slog.Info("predator_died",
		"id", d.ID,
		"cause", d.Cause.String(),
		"day", d.Day,
		"age", d.Age,
		"nourishment", d.Nourishment,
	)
}
