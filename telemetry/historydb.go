package telemetry

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// HistoryDB stores population history in SQLite.
type HistoryDB struct {
	conn *sqlx.DB
}

// OpenHistoryDB opens or creates a SQLite history database at the given path.
func OpenHistoryDB(path string) (*HistoryDB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	db := &HistoryDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *HistoryDB) Close() error {
	if db == nil {
		return nil
	}
	return db.conn.Close()
}

func (db *HistoryDB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS windows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		window_start INTEGER NOT NULL,
		day INTEGER NOT NULL,
		year REAL NOT NULL,
		prey INTEGER NOT NULL,
		predators INTEGER NOT NULL,
		prey_births INTEGER NOT NULL,
		prey_eaten INTEGER NOT NULL,
		prey_old_age INTEGER NOT NULL,
		pred_spawns INTEGER NOT NULL,
		pred_old_age INTEGER NOT NULL,
		pred_wandered INTEGER NOT NULL,
		pred_starved INTEGER NOT NULL,
		nourishment_mean REAL NOT NULL,
		nourishment_p10 REAL NOT NULL,
		nourishment_p50 REAL NOT NULL,
		nourishment_p90 REAL NOT NULL,
		pool REAL NOT NULL,
		share REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		day INTEGER NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_windows_day ON windows(day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// AppendWindow inserts one window of population history.
func (db *HistoryDB) AppendWindow(stats WindowStats) error {
	if db == nil {
		return nil
	}
	_, err := db.conn.NamedExec(`INSERT INTO windows
		(window_start, day, year, prey, predators,
		 prey_births, prey_eaten, prey_old_age,
		 pred_spawns, pred_old_age, pred_wandered, pred_starved,
		 nourishment_mean, nourishment_p10, nourishment_p50, nourishment_p90,
		 pool, share)
		VALUES (:window_start, :day, :year, :prey, :predators,
		 :prey_births, :prey_eaten, :prey_old_age,
		 :pred_spawns, :pred_old_age, :pred_wandered, :pred_starved,
		 :nourishment_mean, :nourishment_p10, :nourishment_p50, :nourishment_p90,
		 :pool, :share)`, stats)
	if err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return nil
}

// AppendBookmark inserts a triggered bookmark.
func (db *HistoryDB) AppendBookmark(b Bookmark) error {
	if db == nil {
		return nil
	}
	_, err := db.conn.Exec("INSERT INTO bookmarks (type, day, description) VALUES (?, ?, ?)",
		string(b.Type), b.Day, b.Description)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// Windows returns every recorded window ordered by day.
func (db *HistoryDB) Windows() ([]WindowStats, error) {
	var windows []WindowStats
	err := db.conn.Select(&windows, `SELECT
		window_start, day, year, prey, predators,
		prey_births, prey_eaten, prey_old_age,
		pred_spawns, pred_old_age, pred_wandered, pred_starved,
		nourishment_mean, nourishment_p10, nourishment_p50, nourishment_p90,
		pool, share
		FROM windows ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("select windows: %w", err)
	}
	return windows, nil
}

// Bookmarks returns every recorded bookmark ordered by day.
func (db *HistoryDB) Bookmarks() ([]Bookmark, error) {
	var rows []struct {
		Type        string `db:"type"`
		Day         int64  `db:"day"`
		Description string `db:"description"`
	}
	if err := db.conn.Select(&rows, "SELECT type, day, description FROM bookmarks ORDER BY day, id"); err != nil {
		return nil, fmt.Errorf("select bookmarks: %w", err)
	}
	bookmarks := make([]Bookmark, len(rows))
	for i, r := range rows {
		bookmarks[i] = Bookmark{Type: BookmarkType(r.Type), Day: r.Day, Description: r.Description}
	}
	return bookmarks, nil
}

// SaveMeta stores a key-value pair describing the run.
func (db *HistoryDB) SaveMeta(key, value string) error {
	if db == nil {
		return nil
	}
	_, err := db.conn.Exec("INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a run metadata value by key.
func (db *HistoryDB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}
