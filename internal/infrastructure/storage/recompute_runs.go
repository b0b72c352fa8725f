package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

const recomputeRunColumns = `id, month, year, trigger_source, started_at, completed_at, status,
	product_count, budget_total, share, infeasible_count, error_message, retry_of`

// defaultRunLimit caps ListRecomputeRuns when no limit is given.
const defaultRunLimit = 50

// StartRecomputeRun records the start of a recompute and returns its ID.
func (s *Storage) StartRecomputeRun(ctx context.Context, period planning.Period, trigger string, retryOf *int64) (int64, error) {
	var retry sql.NullInt64
	if retryOf != nil {
		retry = sql.NullInt64{Int64: *retryOf, Valid: true}
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO recompute_runs (month, year, trigger_source, started_at, status, retry_of)
		VALUES (?, ?, ?, ?, ?, ?)`,
		period.Month, period.Year, trigger, s.now(), string(RecomputeRunning), retry,
	)
	if err != nil {
		return 0, persistErr("start recompute run", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, persistErr("start recompute run", err)
	}
	return id, nil
}

// CompleteRecomputeRun stores the outcome of a run.
func (s *Storage) CompleteRecomputeRun(ctx context.Context, id int64, outcome RecomputeOutcome) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recompute_runs
		SET completed_at = ?, status = ?, product_count = ?, budget_total = ?, share = ?,
		    infeasible_count = ?, error_message = ?
		WHERE id = ?`,
		s.now(), string(outcome.Status), outcome.ProductCount, outcome.BudgetTotal, outcome.Share,
		outcome.InfeasibleCount, outcome.Error, id,
	)
	if err != nil {
		return persistErr("complete recompute run", err)
	}
	return requireAffected(result, "recompute run", id)
}

// ListRecomputeRuns returns the most recent runs first.
func (s *Storage) ListRecomputeRuns(ctx context.Context, limit int) ([]RecomputeRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recomputeRunColumns+` FROM recompute_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, persistErr("list recompute runs", err)
	}
	defer rows.Close()

	var runs []RecomputeRun
	for rows.Next() {
		run, err := scanRecomputeRun(rows)
		if err != nil {
			return nil, persistErr("scan recompute run", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list recompute runs", err)
	}
	return runs, nil
}

// GetRecomputeRun returns one run or a wrapped planning.ErrNotFound.
func (s *Storage) GetRecomputeRun(ctx context.Context, id int64) (*RecomputeRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recomputeRunColumns+` FROM recompute_runs WHERE id = ?`, id)
	run, err := scanRecomputeRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planning.NotFound("recompute run", id)
	}
	if err != nil {
		return nil, persistErr("get recompute run", err)
	}
	return run, nil
}

func scanRecomputeRun(row rowScanner) (*RecomputeRun, error) {
	var (
		run         RecomputeRun
		completedAt sql.NullTime
		status      string
		retryOf     sql.NullInt64
	)
	err := row.Scan(
		&run.ID,
		&run.Period.Month,
		&run.Period.Year,
		&run.Trigger,
		&run.StartedAt,
		&completedAt,
		&status,
		&run.ProductCount,
		&run.BudgetTotal,
		&run.Share,
		&run.InfeasibleCount,
		&run.Error,
		&retryOf,
	)
	if err != nil {
		return nil, err
	}
	run.Status = RecomputeStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if retryOf.Valid {
		v := retryOf.Int64
		run.RetryOf = &v
	}
	return &run, nil
}
