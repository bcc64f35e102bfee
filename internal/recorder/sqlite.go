package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"MVPScreener/internal/logger"
	"MVPScreener/internal/model"
)

// SQLiteRecorder persists runs and verdicts to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screening_runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			screened    INTEGER NOT NULL,
			matched     INTEGER NOT NULL,
			message     TEXT,
			delivered   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON screening_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS verdicts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL REFERENCES screening_runs(run_id),
			symbol        TEXT NOT NULL,
			pass          INTEGER NOT NULL,
			momentum      INTEGER NOT NULL,
			volume_growth INTEGER NOT NULL,
			price_growth  INTEGER NOT NULL,
			up_days       INTEGER NOT NULL,
			volume_ratio  TEXT,
			price_ratio   TEXT,
			reason        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdicts_run ON verdicts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_verdicts_symbol ON verdicts(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run row and one row per verdict atomically.
func (r *SQLiteRecorder) RecordRun(report *model.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO screening_runs
		(run_id, started_at, finished_at, screened, matched, message, delivered)
		VALUES (?,?,?,?,?,?,?)`,
		report.RunID, report.StartedAt.Unix(), report.FinishedAt.Unix(),
		len(report.Verdicts), report.Matched(), report.Message, report.Delivered,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO verdicts
		(run_id, symbol, pass, momentum, volume_growth, price_growth, up_days, volume_ratio, price_ratio, reason)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare verdict insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range report.Verdicts {
		if _, err := stmt.Exec(report.RunID, v.Symbol, v.Pass, v.Momentum, v.VolumeGrowth, v.PriceGrowth,
			v.UpDays, v.VolumeRatio.String(), v.PriceRatio.String(), string(v.Reason)); err != nil {
			return fmt.Errorf("insert verdict %s: %w", v.Symbol, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debugf("recorded run %s with %d verdicts", report.RunID, len(report.Verdicts))
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
