package report

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSink appends summary rows to a local results database, so repeated
// runs over different variables accumulate in one queryable place.
type SQLiteSink struct {
	db *sql.DB
}

const summarySchema = `
CREATE TABLE IF NOT EXISTS trend_summary (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	variable       TEXT NOT NULL,
	station_id     TEXT NOT NULL,
	depth_band     TEXT NOT NULL,
	start_year     INTEGER,
	end_year       INTEGER,
	months         INTEGER,
	slope_per_year REAL,
	ci_low         REAL,
	ci_high        REAL,
	tau            REAL,
	p_value        REAL,
	significance   TEXT,
	created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_trend_summary_station ON trend_summary(station_id, variable);
`

// NewSQLiteSink opens (creating if needed) the database at path and ensures
// the summary schema exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping results database: %w", err)
	}
	if _, err := db.Exec(summarySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// Append inserts all rows for one run/variable in a single transaction.
func (s *SQLiteSink) Append(runID, variable string, rows []SummaryRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO trend_summary (
			run_id, variable, station_id, depth_band,
			start_year, end_year, months,
			slope_per_year, ci_low, ci_high, tau, p_value, significance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(
			runID, variable, r.StationID, string(r.Band),
			r.StartYear, r.EndYear, r.Months,
			r.SlopePerYear, r.LowPerYear, r.HighPerYear, r.Tau, r.PValue, r.Significance,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert summary row for %s: %w", r.StationID, err)
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
