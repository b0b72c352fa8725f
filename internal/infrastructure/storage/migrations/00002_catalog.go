package migrations

import (
	"context"
	"database/sql"
)

// upCatalog adds the read-only catalog used for ad product price defaults.
func upCatalog(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			category_id INTEGER NOT NULL REFERENCES categories(id),
			name TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			buying_price TEXT NOT NULL DEFAULT '0',
			selling_price TEXT NOT NULL DEFAULT '0'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	)
}

func downCatalog(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP TABLE IF EXISTS products`,
		`DROP TABLE IF EXISTS categories`,
	)
}
