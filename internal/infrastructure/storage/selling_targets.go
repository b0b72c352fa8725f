package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// ListSellingTargets returns the daily rows of one ad product ordered by date.
func (s *Storage) ListSellingTargets(ctx context.Context, adProductEntryID int64, period *planning.Period) ([]planning.SellingTargetEntry, error) {
	query := `
		SELECT id, ad_product_entry_id, date, target_units, sold_units, created_at, updated_at
		FROM selling_target_entries
		WHERE ad_product_entry_id = ?`
	args := []interface{}{adProductEntryID}
	if period != nil {
		// Dates are stored as YYYY-MM-DD so a prefix match selects the month.
		query += ` AND date LIKE ?`
		args = append(args, period.Key()+"-%")
	}
	query += ` ORDER BY date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list selling targets", err)
	}
	defer rows.Close()

	var entries []planning.SellingTargetEntry
	for rows.Next() {
		var (
			e    planning.SellingTargetEntry
			date string
		)
		if err := rows.Scan(&e.ID, &e.AdProductEntryID, &date, &e.TargetUnits, &e.SoldUnits, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, persistErr("scan selling target", err)
		}
		d, err := planning.ParseDate(date)
		if err != nil {
			return nil, persistErr("scan selling target", fmt.Errorf("stored date %q: %w", date, err))
		}
		e.Date = d
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list selling targets", err)
	}
	return entries, nil
}

// SaveSellingPlan upserts the sold day and the planned days in one transaction.
// The owning ad product must exist.
func (s *Storage) SaveSellingPlan(ctx context.Context, update SellingPlanUpdate) error {
	now := s.now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM ad_product_entries WHERE id = ?`, update.AdProductEntryID,
		).Scan(&exists)
		if err != nil {
			return persistErr("check ad product", err)
		}
		if exists == 0 {
			return planning.NotFound("ad product entry", update.AdProductEntryID)
		}

		if update.Sold != nil {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO selling_target_entries (ad_product_entry_id, date, target_units, sold_units, created_at, updated_at)
				VALUES (?, ?, 0, ?, ?, ?)
				ON CONFLICT(ad_product_entry_id, date) DO UPDATE SET
					sold_units = excluded.sold_units,
					updated_at = excluded.updated_at`,
				update.AdProductEntryID, formatDate(update.Sold.Date), update.Sold.SoldUnits, now, now,
			)
			if err != nil {
				return persistErr("upsert sold units", err)
			}
		}

		if len(update.Targets) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO selling_target_entries (ad_product_entry_id, date, target_units, sold_units, created_at, updated_at)
			VALUES (?, ?, ?, 0, ?, ?)
			ON CONFLICT(ad_product_entry_id, date) DO UPDATE SET
				target_units = excluded.target_units,
				updated_at = excluded.updated_at`)
		if err != nil {
			return persistErr("prepare target upsert", err)
		}
		defer stmt.Close()

		for _, t := range update.Targets {
			if _, err := stmt.ExecContext(ctx, update.AdProductEntryID, formatDate(t.Date), t.TargetUnits, now, now); err != nil {
				return persistErr("upsert target units", err)
			}
		}
		return nil
	})
}
