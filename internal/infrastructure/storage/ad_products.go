package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

const adProductColumns = `id, product_id, product_name, product_image, month, year,
	buying_price, selling_price, fb_ad_cost, delivery_cost,
	return_parcel_qty, damaged_product_qty, monthly_budget, desired_profit_pct,
	required_monthly_units, required_daily_units, target_status, created_at, updated_at`

// ListAdProducts returns ad product entries matching filter, oldest first.
func (s *Storage) ListAdProducts(ctx context.Context, filter AdProductFilter) ([]planning.AdProductEntry, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Period != nil {
		where = append(where, "year = ? AND month = ?")
		args = append(args, periodArgs(*filter.Period)...)
	}
	if filter.ProductID != "" {
		where = append(where, "product_id = ?")
		args = append(args, filter.ProductID)
	}

	query := `SELECT ` + adProductColumns + ` FROM ad_product_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list ad products", err)
	}
	defer rows.Close()

	var entries []planning.AdProductEntry
	for rows.Next() {
		e, err := scanAdProduct(rows)
		if err != nil {
			return nil, persistErr("scan ad product", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list ad products", err)
	}
	return entries, nil
}

// GetAdProduct returns one entry or a wrapped planning.ErrNotFound.
func (s *Storage) GetAdProduct(ctx context.Context, id int64) (*planning.AdProductEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adProductColumns+` FROM ad_product_entries WHERE id = ?`, id)
	e, err := scanAdProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, planning.NotFound("ad product entry", id)
	}
	if err != nil {
		return nil, persistErr("get ad product", err)
	}
	return e, nil
}

// CreateAdProduct inserts entry and fills its ID and timestamps.
func (s *Storage) CreateAdProduct(ctx context.Context, entry *planning.AdProductEntry) error {
	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ad_product_entries (
			product_id, product_name, product_image, month, year,
			buying_price, selling_price, fb_ad_cost, delivery_cost,
			return_parcel_qty, damaged_product_qty, monthly_budget, desired_profit_pct,
			required_monthly_units, required_daily_units, target_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ProductID, entry.ProductName, entry.ProductImage, entry.Period.Month, entry.Period.Year,
		entry.BuyingPrice, entry.SellingPrice, entry.FBAdCost, entry.DeliveryCost,
		entry.ReturnParcelQty, entry.DamagedProductQty, entry.MonthlyBudget, nullablePct(entry.DesiredProfitPct),
		entry.RequiredMonthlyUnits, entry.RequiredDailyUnits, string(statusOrDefault(entry.TargetStatus)), now, now,
	)
	if err != nil {
		return persistErr("create ad product", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return persistErr("create ad product", err)
	}
	entry.ID = id
	entry.TargetStatus = statusOrDefault(entry.TargetStatus)
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

// UpdateAdProduct overwrites every stored field of entry.
func (s *Storage) UpdateAdProduct(ctx context.Context, entry *planning.AdProductEntry) error {
	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE ad_product_entries SET
			product_id = ?, product_name = ?, product_image = ?, month = ?, year = ?,
			buying_price = ?, selling_price = ?, fb_ad_cost = ?, delivery_cost = ?,
			return_parcel_qty = ?, damaged_product_qty = ?, monthly_budget = ?, desired_profit_pct = ?,
			required_monthly_units = ?, required_daily_units = ?, target_status = ?, updated_at = ?
		WHERE id = ?`,
		entry.ProductID, entry.ProductName, entry.ProductImage, entry.Period.Month, entry.Period.Year,
		entry.BuyingPrice, entry.SellingPrice, entry.FBAdCost, entry.DeliveryCost,
		entry.ReturnParcelQty, entry.DamagedProductQty, entry.MonthlyBudget, nullablePct(entry.DesiredProfitPct),
		entry.RequiredMonthlyUnits, entry.RequiredDailyUnits, string(statusOrDefault(entry.TargetStatus)), now,
		entry.ID,
	)
	if err != nil {
		return persistErr("update ad product", err)
	}
	if err := requireAffected(result, "ad product entry", entry.ID); err != nil {
		return err
	}
	entry.UpdatedAt = now
	return nil
}

// DeleteAdProduct removes the entry; its selling targets go with it.
func (s *Storage) DeleteAdProduct(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM selling_target_entries WHERE ad_product_entry_id = ?`, id); err != nil {
			return persistErr("delete selling targets", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM ad_product_entries WHERE id = ?`, id)
		if err != nil {
			return persistErr("delete ad product", err)
		}
		return requireAffected(result, "ad product entry", id)
	})
}

// ApplyPeriodTargets writes every update or none of them.
func (s *Storage) ApplyPeriodTargets(ctx context.Context, period planning.Period, updates []TargetUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	now := s.now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			UPDATE ad_product_entries
			SET monthly_budget = ?, required_monthly_units = ?, required_daily_units = ?,
			    target_status = ?, updated_at = ?
			WHERE id = ? AND year = ? AND month = ?`)
		if err != nil {
			return persistErr("prepare target update", err)
		}
		defer stmt.Close()

		for _, u := range updates {
			result, err := stmt.ExecContext(ctx,
				u.MonthlyBudget, u.RequiredMonthlyUnits, u.RequiredDailyUnits,
				string(statusOrDefault(u.TargetStatus)), now,
				u.ID, period.Year, period.Month,
			)
			if err != nil {
				return persistErr("apply targets", err)
			}
			if err := requireAffected(result, "ad product entry", u.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func scanAdProduct(row rowScanner) (*planning.AdProductEntry, error) {
	var (
		e      planning.AdProductEntry
		pct    decimal.NullDecimal
		status string
	)
	err := row.Scan(
		&e.ID,
		&e.ProductID,
		&e.ProductName,
		&e.ProductImage,
		&e.Period.Month,
		&e.Period.Year,
		&e.BuyingPrice,
		&e.SellingPrice,
		&e.FBAdCost,
		&e.DeliveryCost,
		&e.ReturnParcelQty,
		&e.DamagedProductQty,
		&e.MonthlyBudget,
		&pct,
		&e.RequiredMonthlyUnits,
		&e.RequiredDailyUnits,
		&status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if pct.Valid {
		v := pct.Decimal
		e.DesiredProfitPct = &v
	}
	e.TargetStatus = planning.TargetStatus(status)
	return &e, nil
}

func nullablePct(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*p)
}

func statusOrDefault(s planning.TargetStatus) planning.TargetStatus {
	if s == "" {
		return planning.TargetFeasible
	}
	return s
}
