package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/domain/allocator"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/domain/validator"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// AdProductResult is a saved ad product entry and the recomputes it triggered.
type AdProductResult struct {
	Entry      *planning.AdProductEntry `json:"entry"`
	Recomputes []storage.RecomputeRun   `json:"recomputes"`
}

// AdProductPatch is a partial update. Nil fields are left unchanged.
// The budget share and unit targets are derived and cannot be patched.
type AdProductPatch struct {
	ProductID         *string
	ProductName       *string
	ProductImage      *string
	Month             *string
	Year              *int
	BuyingPrice       *decimal.Decimal
	SellingPrice      *decimal.Decimal
	FBAdCost          *decimal.Decimal
	DeliveryCost      *decimal.Decimal
	ReturnParcelQty   *int
	DamagedProductQty *int
	DesiredProfitPct  *decimal.Decimal
	// ClearDesiredProfitPct resets the profit target to unset.
	ClearDesiredProfitPct bool
}

// Apply copies the set fields of p onto e.
func (p AdProductPatch) Apply(e *planning.AdProductEntry) {
	if p.ProductID != nil {
		e.ProductID = *p.ProductID
	}
	if p.ProductName != nil {
		e.ProductName = *p.ProductName
	}
	if p.ProductImage != nil {
		e.ProductImage = *p.ProductImage
	}
	if p.Month != nil {
		e.Period.Month = *p.Month
	}
	if p.Year != nil {
		e.Period.Year = *p.Year
	}
	if p.BuyingPrice != nil {
		e.BuyingPrice = *p.BuyingPrice
	}
	if p.SellingPrice != nil {
		e.SellingPrice = *p.SellingPrice
	}
	if p.FBAdCost != nil {
		e.FBAdCost = *p.FBAdCost
	}
	if p.DeliveryCost != nil {
		e.DeliveryCost = *p.DeliveryCost
	}
	if p.ReturnParcelQty != nil {
		e.ReturnParcelQty = *p.ReturnParcelQty
	}
	if p.DamagedProductQty != nil {
		e.DamagedProductQty = *p.DamagedProductQty
	}
	if p.DesiredProfitPct != nil {
		v := *p.DesiredProfitPct
		e.DesiredProfitPct = &v
	}
	if p.ClearDesiredProfitPct {
		e.DesiredProfitPct = nil
	}
}

// ListAdProducts returns the ad product entries matching filter.
func (s *PlannerService) ListAdProducts(ctx context.Context, filter storage.AdProductFilter) ([]planning.AdProductEntry, error) {
	if filter.Period != nil {
		p, err := normalizePeriod(*filter.Period)
		if err != nil {
			return nil, err
		}
		filter.Period = &p
	}
	return s.repo.ListAdProducts(ctx, filter)
}

// GetAdProduct returns one ad product entry.
func (s *PlannerService) GetAdProduct(ctx context.Context, id int64) (*planning.AdProductEntry, error) {
	return s.repo.GetAdProduct(ctx, id)
}

// CreateAdProduct adds a product to a period's plan. Missing name, image
// and prices are filled from the catalog.
func (s *PlannerService) CreateAdProduct(ctx context.Context, entry *planning.AdProductEntry) (*AdProductResult, error) {
	if err := s.fillFromCatalog(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.prepareAdProduct(entry); err != nil {
		return nil, err
	}
	if err := s.repo.CreateAdProduct(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("ad product entry created",
		"id", entry.ID,
		"product_id", entry.ProductID,
		"period", entry.Period.String(),
	)
	runs := s.recomputeAfter(ctx, TriggerAdProductCreate, entry.Period)
	return &AdProductResult{Entry: s.reload(ctx, entry), Recomputes: runs}, nil
}

// UpdateAdProduct applies patch to entry id and recomputes the old and new
// periods.
func (s *PlannerService) UpdateAdProduct(ctx context.Context, id int64, patch AdProductPatch) (*AdProductResult, error) {
	entry, err := s.repo.GetAdProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	oldPeriod := entry.Period

	patch.Apply(entry)
	if err := s.prepareAdProduct(entry); err != nil {
		return nil, err
	}
	if !entry.Period.Equal(oldPeriod) {
		// The share of the old period no longer applies.
		entry.MonthlyBudget = decimal.Zero
		if err := allocator.ApplyTargets(entry); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateAdProduct(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("ad product entry updated", "id", id, "period", entry.Period.String())
	runs := s.recomputeAfter(ctx, TriggerAdProductUpdate, oldPeriod, entry.Period)
	return &AdProductResult{Entry: s.reload(ctx, entry), Recomputes: runs}, nil
}

// DeleteAdProduct removes entry id with its selling targets and
// recomputes the remaining products of its period.
func (s *PlannerService) DeleteAdProduct(ctx context.Context, id int64) ([]storage.RecomputeRun, error) {
	existing, err := s.repo.GetAdProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteAdProduct(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("ad product entry deleted", "id", id, "period", existing.Period.String())
	return s.recomputeAfter(ctx, TriggerAdProductDelete, existing.Period), nil
}

// fillFromCatalog copies catalog defaults into the unset fields of entry.
// An unknown product is not an error; validation catches a missing name.
func (s *PlannerService) fillFromCatalog(ctx context.Context, entry *planning.AdProductEntry) error {
	entry.ProductID = strings.TrimSpace(entry.ProductID)
	if entry.ProductID == "" {
		return nil
	}
	needsDefaults := entry.ProductName == "" || entry.ProductImage == "" ||
		entry.BuyingPrice.IsZero() || entry.SellingPrice.IsZero()
	if !needsDefaults {
		return nil
	}

	product, err := s.repo.GetProduct(ctx, entry.ProductID)
	if errors.Is(err, planning.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if entry.ProductName == "" {
		entry.ProductName = product.Name
	}
	if entry.ProductImage == "" {
		entry.ProductImage = product.Image
	}
	if entry.BuyingPrice.IsZero() {
		entry.BuyingPrice = product.BuyingPrice
	}
	if entry.SellingPrice.IsZero() {
		entry.SellingPrice = product.SellingPrice
	}
	return nil
}

// prepareAdProduct normalizes, validates and computes provisional targets.
func (s *PlannerService) prepareAdProduct(entry *planning.AdProductEntry) error {
	p, err := normalizePeriod(entry.Period)
	if err != nil {
		return err
	}
	entry.Period = p
	entry.ProductID = strings.TrimSpace(entry.ProductID)
	entry.ProductName = strings.TrimSpace(entry.ProductName)
	if err := validator.AdProductEntry(entry); err != nil {
		return err
	}
	return allocator.ApplyTargets(entry)
}

// reload returns the stored state of entry after a recompute, or entry
// itself if it cannot be read back.
func (s *PlannerService) reload(ctx context.Context, entry *planning.AdProductEntry) *planning.AdProductEntry {
	fresh, err := s.repo.GetAdProduct(ctx, entry.ID)
	if err != nil {
		s.logger.Warn("failed to reload ad product entry", "id", entry.ID, "error", err)
		return entry
	}
	return fresh
}
