package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// PrintRun prints a recompute run summary.
func PrintRun(w io.Writer, run *storage.RecomputeRun) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Run #%d %s (%s) status=%s\n", run.ID, run.Period.String(), run.Trigger, run.Status)
	fmt.Fprintf(w, "Budget=%s Products=%d Share=%s Infeasible=%d\n",
		run.BudgetTotal.StringFixed(2),
		run.ProductCount,
		run.Share.StringFixed(2),
		run.InfeasibleCount)
	if run.RetryOf != nil {
		fmt.Fprintf(w, "Retry of run #%d\n", *run.RetryOf)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", run.Error)
		fmt.Fprintf(w, "Retry with: recompute -retry %d\n", run.ID)
	}
}

// PrintBatch prints a redistribution batch summary.
func PrintBatch(w io.Writer, result *service.BatchResult) {
	fmt.Fprintf(w, "Redistributed %s as of day %d: Succeeded=%d Failed=%d\n",
		result.Period.String(), result.AsOfDay, result.Succeeded, result.Failed)

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - ad product %d: %s\n", e.AdProductEntryID, e.Error)
		}
	}
}

// PrintImportStats prints what a catalog import wrote.
func PrintImportStats(w io.Writer, stats *service.ImportStats) {
	fmt.Fprintf(w, "Imported %d categories and %d products\n", stats.Categories, stats.Products)
}
