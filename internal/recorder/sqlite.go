package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists forecast history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the dashboard read run history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			start_date  TEXT,
			horizon     INTEGER,
			source      TEXT,
			model_order TEXT,
			last_date   TEXT,
			last_close  REAL,
			sigma2      REAL,
			aic         REAL,
			final_price REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON forecast_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS forecast_points (
			run_id INTEGER NOT NULL REFERENCES forecast_runs(id),
			step   INTEGER NOT NULL,
			date   TEXT NOT NULL,
			price  REAL,
			PRIMARY KEY (run_id, step)
		)`,

		`CREATE TABLE IF NOT EXISTS forecast_failures (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT,
			start_date TEXT,
			horizon    INTEGER,
			severity   TEXT,
			message    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON forecast_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordForecast(run *ForecastRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var final float64
	if n := len(run.Points); n > 0 {
		final = run.Points[n-1].Price
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO forecast_runs
		(timestamp, symbol, start_date, horizon, source, model_order,
		 last_date, last_close, sigma2, aic, final_price)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		r.now().Unix(), run.Symbol, run.Start.Format(time.DateOnly), run.Horizon,
		run.Source, run.Order, run.LastDate.Format(time.DateOnly), run.LastClose,
		run.Sigma2, run.AIC, final,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO forecast_points (run_id, step, date, price) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare points: %w", err)
	}
	defer stmt.Close()
	for i, p := range run.Points {
		if _, err := stmt.Exec(runID, i+1, p.Date.Format(time.DateOnly), p.Price); err != nil {
			return fmt.Errorf("insert point %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFailure(evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var start string
	if !evt.Start.IsZero() {
		start = evt.Start.Format(time.DateOnly)
	}
	_, err := r.db.Exec(`INSERT INTO forecast_failures
		(timestamp, symbol, start_date, horizon, severity, message)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.Symbol, start, evt.Horizon, evt.Severity, evt.Message,
	)
	return err
}

// RecentRuns returns the latest successful runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, horizon, source, last_close, final_price
		FROM forecast_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		var ts int64
		if err := rows.Scan(&s.ID, &ts, &s.Symbol, &s.Horizon, &s.Source, &s.LastClose, &s.FinalPrice); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.RecordedAt = time.Unix(ts, 0)
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
