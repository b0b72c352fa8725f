package migrations

import (
	"context"
	"database/sql"
)

// upRecomputeRuns adds the per-period recompute log.
func upRecomputeRuns(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS recompute_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			month TEXT NOT NULL,
			year INTEGER NOT NULL,
			trigger_source TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			completed_at DATETIME,
			status TEXT NOT NULL DEFAULT 'running',
			product_count INTEGER NOT NULL DEFAULT 0,
			budget_total TEXT NOT NULL DEFAULT '0',
			share TEXT NOT NULL DEFAULT '0',
			infeasible_count INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			retry_of INTEGER REFERENCES recompute_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recompute_runs_started ON recompute_runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_recompute_runs_period ON recompute_runs(year, month)`,
	)
}

func downRecomputeRuns(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `DROP TABLE IF EXISTS recompute_runs`)
}
