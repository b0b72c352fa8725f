// Command plan-report writes a period's growth plan as an xlsx workbook.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/cli"
)

func main() {
	flags, err := cli.ParseReportFlags(os.Args[1:], time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *cli.ReportFlags) error {
	period, err := flags.Period()
	if err != nil {
		return err
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cli.LoadConfig(flags.CommonFlags), "report")
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	f, err := os.Create(flags.Output)
	if err != nil {
		return err
	}
	if err := app.Planner.ExportPeriodReport(ctx, period, f); err != nil {
		f.Close()
		_ = os.Remove(flags.Output)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s report to %s\n", period.String(), flags.Output)
	return nil
}
