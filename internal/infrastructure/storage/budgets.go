package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

const budgetColumns = `id, month, year, expense_type, amount, currency, note, created_at, updated_at`

// ListBudgets returns budget entries matching filter, oldest first.
func (s *Storage) ListBudgets(ctx context.Context, filter BudgetFilter) ([]planning.BudgetEntry, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Period != nil {
		where = append(where, "year = ? AND month = ?")
		args = append(args, periodArgs(*filter.Period)...)
	}
	if filter.ExpenseType != "" {
		where = append(where, "expense_type = ?")
		args = append(args, string(filter.ExpenseType))
	}

	query := `SELECT ` + budgetColumns + ` FROM budget_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list budgets", err)
	}
	defer rows.Close()

	var entries []planning.BudgetEntry
	for rows.Next() {
		e, err := scanBudget(rows)
		if err != nil {
			return nil, persistErr("scan budget", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list budgets", err)
	}
	return entries, nil
}

// GetBudget returns one budget entry or a wrapped planning.ErrNotFound.
func (s *Storage) GetBudget(ctx context.Context, id int64) (*planning.BudgetEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budget_entries WHERE id = ?`, id)
	e, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planning.NotFound("budget entry", id)
	}
	if err != nil {
		return nil, persistErr("get budget", err)
	}
	return e, nil
}

// CreateBudget inserts entry and fills its ID and timestamps.
func (s *Storage) CreateBudget(ctx context.Context, entry *planning.BudgetEntry) error {
	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO budget_entries (month, year, expense_type, amount, currency, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Period.Month, entry.Period.Year, string(entry.ExpenseType), entry.Amount,
		entry.Currency, entry.Note, now, now,
	)
	if err != nil {
		return persistErr("create budget", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return persistErr("create budget", err)
	}
	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

// UpdateBudget overwrites every editable field of entry.
func (s *Storage) UpdateBudget(ctx context.Context, entry *planning.BudgetEntry) error {
	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE budget_entries
		SET month = ?, year = ?, expense_type = ?, amount = ?, currency = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		entry.Period.Month, entry.Period.Year, string(entry.ExpenseType), entry.Amount,
		entry.Currency, entry.Note, now, entry.ID,
	)
	if err != nil {
		return persistErr("update budget", err)
	}
	if err := requireAffected(result, "budget entry", entry.ID); err != nil {
		return err
	}
	entry.UpdatedAt = now
	return nil
}

// DeleteBudget removes one budget entry.
func (s *Storage) DeleteBudget(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM budget_entries WHERE id = ?`, id)
	if err != nil {
		return persistErr("delete budget", err)
	}
	return requireAffected(result, "budget entry", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBudget(row rowScanner) (*planning.BudgetEntry, error) {
	var (
		e           planning.BudgetEntry
		expenseType string
	)
	err := row.Scan(
		&e.ID,
		&e.Period.Month,
		&e.Period.Year,
		&expenseType,
		&e.Amount,
		&e.Currency,
		&e.Note,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.ExpenseType = planning.ExpenseType(expenseType)
	return &e, nil
}

// requireAffected turns a zero-row write into planning.ErrNotFound.
func requireAffected(result sql.Result, resource string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected", err)
	}
	if n == 0 {
		return planning.NotFound(resource, id)
	}
	return nil
}
