package migrations

import (
	"context"
	"database/sql"
)

// upPlanningSchema creates the budget, ad product and selling target tables.
// Money is stored as TEXT so decimals keep their scale.
func upPlanningSchema(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS budget_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			month TEXT NOT NULL,
			year INTEGER NOT NULL,
			expense_type TEXT NOT NULL,
			amount TEXT NOT NULL DEFAULT '0',
			currency TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_budget_entries_period ON budget_entries(year, month)`,

		`CREATE TABLE IF NOT EXISTS ad_product_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_image TEXT NOT NULL DEFAULT '',
			month TEXT NOT NULL,
			year INTEGER NOT NULL,
			buying_price TEXT NOT NULL DEFAULT '0',
			selling_price TEXT NOT NULL DEFAULT '0',
			fb_ad_cost TEXT NOT NULL DEFAULT '0',
			delivery_cost TEXT NOT NULL DEFAULT '0',
			return_parcel_qty INTEGER NOT NULL DEFAULT 0,
			damaged_product_qty INTEGER NOT NULL DEFAULT 0,
			monthly_budget TEXT NOT NULL DEFAULT '0',
			desired_profit_pct TEXT,
			required_monthly_units INTEGER NOT NULL DEFAULT 0,
			required_daily_units INTEGER NOT NULL DEFAULT 0,
			target_status TEXT NOT NULL DEFAULT 'feasible',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ad_product_entries_period ON ad_product_entries(year, month)`,
		`CREATE INDEX IF NOT EXISTS idx_ad_product_entries_product ON ad_product_entries(product_id)`,

		`CREATE TABLE IF NOT EXISTS selling_target_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ad_product_entry_id INTEGER NOT NULL REFERENCES ad_product_entries(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			target_units INTEGER NOT NULL DEFAULT 0,
			sold_units INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(ad_product_entry_id, date)
		)`,
	)
}

func downPlanningSchema(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP TABLE IF EXISTS selling_target_entries`,
		`DROP TABLE IF EXISTS ad_product_entries`,
		`DROP TABLE IF EXISTS budget_entries`,
	)
}
