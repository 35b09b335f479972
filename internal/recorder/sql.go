package recorder

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"StakeBanner/internal/model"
)

// SQLRecorder persists refresh history to SQLite or PostgreSQL.
type SQLRecorder struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
	log    *logrus.Logger
}

// NewSQLRecorder opens (or creates) the database and runs migrations.
// driver is "sqlite" or "postgres".
func NewSQLRecorder(driver, dsn string, log *logrus.Logger) (*SQLRecorder, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// WAL lets dashboards read while refreshes write.
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
		db.SetMaxOpenConns(1)
	}

	r := &SQLRecorder{db: db, driver: driver, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("%s recorder opened", driver)
	return r, nil
}

func (r *SQLRecorder) migrate() error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if r.driver == "postgres" {
		id = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_runs (
			id            ` + id + `,
			timestamp     BIGINT NOT NULL,
			contract_id   BIGINT NOT NULL,
			window_start  BIGINT NOT NULL,
			account_count INTEGER,
			unclassified  INTEGER,
			total_stake   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON refresh_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS weekly_stats (
			id             ` + id + `,
			run_id         BIGINT NOT NULL,
			week           INTEGER NOT NULL,
			accounts       INTEGER,
			total_stake    TEXT,
			avg_stake      TEXT,
			avg_period     BIGINT,
			est_bonus_rate DOUBLE PRECISION,
			est_total      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_weekly_run ON weekly_stats(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", stmtPreview(s), err)
		}
	}
	return nil
}

// RecordReport stores one refresh and its weekly stats in a single transaction.
func (r *SQLRecorder) RecordReport(rep *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	runArgs := []any{
		rep.FetchedAt.Unix(), int64(rep.ContractID), rep.WindowStart.Unix(),
		rep.AccountCount, rep.Unclassified, rep.TotalStake.String(),
	}
	runInsert := `INSERT INTO refresh_runs
		(timestamp, contract_id, window_start, account_count, unclassified, total_stake)
		VALUES (?,?,?,?,?,?)`

	var runID int64
	if r.driver == "postgres" {
		err = tx.QueryRow(r.rebind(runInsert)+" RETURNING id", runArgs...).Scan(&runID)
	} else {
		var res sql.Result
		if res, err = tx.Exec(runInsert, runArgs...); err == nil {
			runID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	statInsert := r.rebind(`INSERT INTO weekly_stats
		(run_id, week, accounts, total_stake, avg_stake, avg_period, est_bonus_rate, est_total)
		VALUES (?,?,?,?,?,?,?,?)`)
	for _, s := range rep.Stats {
		if _, err := tx.Exec(statInsert,
			runID, s.Week, s.Accounts, s.TotalStake.String(), s.AvgStake.String(),
			s.AvgPeriod, s.EstBonusRate, s.EstTotal.String(),
		); err != nil {
			return fmt.Errorf("insert week %d: %w", s.Week, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debugf("recorded run %d with %d weekly stats", runID, len(rep.Stats))
	return nil
}

// stmtPreview shortens a statement for error messages.
func stmtPreview(s string) string {
	return s[:min(len(s), 40)]
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *SQLRecorder) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *SQLRecorder) Close() error {
	r.log.Info("closing recorder")
	return r.db.Close()
}
