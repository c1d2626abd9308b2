package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/commons/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir string

	telemetry csvFile
	deaths    csvFile
	perf      csvFile
	bookmarks csvFile
}

// csvFile is an append-only CSV file whose header is written with the first rows.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) open(dir, name string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	c.f = f
	return nil
}

func (c *csvFile) close() error {
	if c.f == nil {
		return nil
	}
	return c.f.Close()
}

// writeRows appends rows to c, writing headers on the first call.
func writeRows[T any](c *csvFile, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if !c.headerWritten {
		if err := gocsv.Marshal(rows, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, c.f)
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		c    *csvFile
		name string
	}{
		{&om.telemetry, "telemetry.csv"},
		{&om.deaths, "deaths.csv"},
		{&om.perf, "perf.csv"},
		{&om.bookmarks, "bookmarks.csv"},
	}
	for _, file := range files {
		if err := file.c.open(dir, file.name); err != nil {
			om.Close()
			return nil, err
		}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRows(&om.telemetry, []WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteDeaths appends swept agents to deaths.csv.
func (om *OutputManager) WriteDeaths(records []DeathRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRows(&om.deaths, records); err != nil {
		return fmt.Errorf("writing deaths: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, day int64) error {
	if om == nil {
		return nil
	}
	if err := writeRows(&om.perf, []PerfStatsCSV{stats.ToCSV(day)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := writeRows(&om.bookmarks, []Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// PredatorLifetimeCSV is one row of predators.csv.
type PredatorLifetimeCSV struct {
	ID                 uint64  `csv:"id"`
	SpawnDay           int64   `csv:"spawn_day"`
	DeathDay           int64   `csv:"death_day"`
	Cause              string  `csv:"cause"`
	AverageNourishment float64 `csv:"avg_nourishment"`
	MinNourishment     float64 `csv:"min_nourishment"`
	PeakNourishment    float64 `csv:"peak_nourishment"`
	TotalIntake        float64 `csv:"total_intake"`
}

// WritePredatorLifetimes saves the lifetimes of dead predators to predators.csv.
func (om *OutputManager) WritePredatorLifetimes(lifetimes []PredatorLifetime) error {
	if om == nil {
		return nil
	}

	rows := make([]PredatorLifetimeCSV, len(lifetimes))
	for i := range lifetimes {
		pl := &lifetimes[i]
		rows[i] = PredatorLifetimeCSV{
			ID:                 pl.ID,
			SpawnDay:           pl.SpawnDay,
			DeathDay:           pl.DeathDay,
			Cause:              pl.Cause.String(),
			AverageNourishment: pl.AverageNourishment(),
			MinNourishment:     pl.MinNourishment,
			PeakNourishment:    pl.PeakNourishment,
			TotalIntake:        pl.TotalIntake,
		}
	}

	f, err := os.Create(filepath.Join(om.dir, "predators.csv"))
	if err != nil {
		return fmt.Errorf("creating predators.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing predators.csv: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{&om.telemetry, &om.deaths, &om.perf, &om.bookmarks} {
		if err := c.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
