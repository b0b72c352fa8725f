// Package migrations holds the goose Go migrations for the planning database.
package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

// All returns every migration in version order.
func All() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(1, &goose.GoFunc{RunTx: upPlanningSchema}, &goose.GoFunc{RunTx: downPlanningSchema}),
		goose.NewGoMigration(2, &goose.GoFunc{RunTx: upCatalog}, &goose.GoFunc{RunTx: downCatalog}),
		goose.NewGoMigration(3, &goose.GoFunc{RunTx: upRecomputeRuns}, &goose.GoFunc{RunTx: downRecomputeRuns}),
	}
}

func execAll(ctx context.Context, tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
