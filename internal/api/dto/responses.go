package dto

import (
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	SchemaVersion int64  `json:"schema_version,omitempty"`
}

// BudgetListResponse is returned when listing budget entries.
type BudgetListResponse struct {
	Entries []planning.BudgetEntry `json:"entries"`
	Total   string                 `json:"total"`
	Count   int                    `json:"count"`
}

// AdProductListResponse is returned when listing ad product entries.
type AdProductListResponse struct {
	Entries []planning.AdProductEntry `json:"entries"`
	Count   int                       `json:"count"`
}

// SellingTargetListResponse is returned when listing a product's days.
type SellingTargetListResponse struct {
	AdProductEntryID int64                         `json:"ad_product_entry_id"`
	Days             []planning.SellingTargetEntry `json:"days"`
	Count            int                           `json:"count"`
}

// DeleteResponse reports a deletion and the recomputes it triggered.
type DeleteResponse struct {
	ID         int64                  `json:"id"`
	Deleted    bool                   `json:"deleted"`
	Recomputes []storage.RecomputeRun `json:"recomputes"`
}

// RunListResponse is returned when listing recompute runs.
type RunListResponse struct {
	Runs  []storage.RecomputeRun `json:"runs"`
	Count int                    `json:"count"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
