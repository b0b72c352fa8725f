package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// ListCategories returns every catalog category ordered by name.
func (s *Storage) ListCategories(ctx context.Context) ([]planning.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, persistErr("list categories", err)
	}
	defer rows.Close()

	var categories []planning.Category
	for rows.Next() {
		var c planning.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, persistErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list categories", err)
	}
	return categories, nil
}

// ListProducts returns the products of a category, or all of them when
// categoryID is zero.
func (s *Storage) ListProducts(ctx context.Context, categoryID int64) ([]planning.Product, error) {
	query := `SELECT id, category_id, name, image, buying_price, selling_price FROM products`
	var args []interface{}
	if categoryID != 0 {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list products", err)
	}
	defer rows.Close()

	var products []planning.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, persistErr("scan product", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list products", err)
	}
	return products, nil
}

// GetProduct returns one catalog product or a wrapped planning.ErrNotFound.
func (s *Storage) GetProduct(ctx context.Context, id string) (*planning.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category_id, name, image, buying_price, selling_price FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %q: %w", id, planning.ErrNotFound)
	}
	if err != nil {
		return nil, persistErr("get product", err)
	}
	return p, nil
}

// ImportCatalog upserts categories before products so references resolve.
func (s *Storage) ImportCatalog(ctx context.Context, categories []planning.Category, products []planning.Product) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range categories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO categories (id, name) VALUES (?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
				c.ID, c.Name,
			)
			if err != nil {
				return persistErr("upsert category", err)
			}
		}
		for _, p := range products {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO products (id, category_id, name, image, buying_price, selling_price)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					category_id = excluded.category_id,
					name = excluded.name,
					image = excluded.image,
					buying_price = excluded.buying_price,
					selling_price = excluded.selling_price`,
				p.ID, p.CategoryID, p.Name, p.Image, p.BuyingPrice, p.SellingPrice,
			)
			if err != nil {
				return persistErr("upsert product", err)
			}
		}
		return nil
	})
}

func scanProduct(row rowScanner) (*planning.Product, error) {
	var p planning.Product
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Image, &p.BuyingPrice, &p.SellingPrice); err != nil {
		return nil, err
	}
	return &p, nil
}
