package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
)

// LoadHistoryCSV reads window records from a telemetry.csv file.
// Files with only the time/prey/predators columns are accepted.
func LoadHistoryCSV(path string) ([]WindowStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	var records []WindowStats
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// LoadHistory reads window records from a CSV file or a SQLite history database,
// chosen by file extension.
func LoadHistory(path string) ([]WindowStats, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		db, err := OpenHistoryDB(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Windows()
	default:
		return LoadHistoryCSV(path)
	}
}
