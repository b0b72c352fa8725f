package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// Catalog spreadsheet columns, in order. The first row is a header.
var catalogColumns = []string{
	"category_id", "category_name", "product_id", "product_name", "image", "buying_price", "selling_price",
}

// ImportStats counts what a catalog import wrote.
type ImportStats struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

// ListCategories returns the catalog categories.
func (s *PlannerService) ListCategories(ctx context.Context) ([]planning.Category, error) {
	return s.repo.ListCategories(ctx)
}

// ListProducts returns the products of a category, or all products when
// categoryID is zero.
func (s *PlannerService) ListProducts(ctx context.Context, categoryID int64) ([]planning.Product, error) {
	if categoryID < 0 {
		return nil, planning.NewValidationError("categoryId", "must not be negative")
	}
	return s.repo.ListProducts(ctx, categoryID)
}

// ImportCatalog validates and upserts categories and products together.
func (s *PlannerService) ImportCatalog(ctx context.Context, categories []planning.Category, products []planning.Product) (*ImportStats, error) {
	for _, c := range categories {
		if c.ID <= 0 {
			return nil, planning.NewValidationError("category_id", "must be positive")
		}
		if strings.TrimSpace(c.Name) == "" {
			return nil, planning.NewValidationError("category_name", fmt.Sprintf("category %d has no name", c.ID))
		}
	}
	for _, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, planning.NewValidationError("product_id", "is required")
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, planning.NewValidationError("product_name", fmt.Sprintf("product %s has no name", p.ID))
		}
		if p.CategoryID <= 0 {
			return nil, planning.NewValidationError("category_id", fmt.Sprintf("product %s has no category", p.ID))
		}
		if p.BuyingPrice.IsNegative() || p.SellingPrice.IsNegative() {
			return nil, planning.NewValidationError("price", fmt.Sprintf("product %s has a negative price", p.ID))
		}
	}
	if err := s.repo.ImportCatalog(ctx, categories, products); err != nil {
		return nil, err
	}
	stats := &ImportStats{Categories: len(categories), Products: len(products)}
	s.logger.Info("catalog imported", "categories", stats.Categories, "products", stats.Products)
	return stats, nil
}

// ImportCatalogSpreadsheet reads one xlsx sheet laid out as catalogColumns.
// An empty sheet name reads the first sheet.
func (s *PlannerService) ImportCatalogSpreadsheet(ctx context.Context, r io.Reader, sheet string) (*ImportStats, error) {
	categories, products, err := ParseCatalogSpreadsheet(r, sheet)
	if err != nil {
		return nil, err
	}
	return s.ImportCatalog(ctx, categories, products)
}

// ParseCatalogSpreadsheet extracts categories and products from an xlsx
// sheet. A row may carry a category, a product or both.
func ParseCatalogSpreadsheet(r io.Reader, sheet string) ([]planning.Category, []planning.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var (
		categories []planning.Category
		products   []planning.Product
		seenCat    = make(map[int64]bool)
	)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		line := i + 1
		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		if strings.Join(row, "") == "" {
			continue
		}

		var categoryID int64
		if v := cell(0); v != "" {
			categoryID, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, nil, planning.NewValidationError("category_id", fmt.Sprintf("row %d: %q is not a number", line, v))
			}
		}
		if categoryID != 0 && cell(1) != "" && !seenCat[categoryID] {
			seenCat[categoryID] = true
			categories = append(categories, planning.Category{ID: categoryID, Name: cell(1)})
		}

		if cell(2) == "" {
			continue
		}
		buying, err := parseMoneyCell(cell(5))
		if err != nil {
			return nil, nil, planning.NewValidationError("buying_price", fmt.Sprintf("row %d: %v", line, err))
		}
		selling, err := parseMoneyCell(cell(6))
		if err != nil {
			return nil, nil, planning.NewValidationError("selling_price", fmt.Sprintf("row %d: %v", line, err))
		}
		products = append(products, planning.Product{
			ID:           cell(2),
			CategoryID:   categoryID,
			Name:         cell(3),
			Image:        cell(4),
			BuyingPrice:  buying,
			SellingPrice: selling,
		})
	}
	return categories, products, nil
}

func parseMoneyCell(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not an amount", v)
	}
	return d, nil
}

// WriteCatalogTemplate writes an empty import sheet with the expected header.
func WriteCatalogTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	header := make([]interface{}, len(catalogColumns))
	for i, c := range catalogColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	return f.Write(w)
}
