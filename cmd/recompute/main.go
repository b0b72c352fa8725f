// Command recompute redistributes a period's budget over its ad products,
// or retries a failed recompute run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/cli"
)

func main() {
	flags, err := cli.ParseRecomputeFlags(os.Args[1:], time.Now())
	if err != nil {
		os.Exit(2)
	}
	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *cli.RecomputeFlags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cli.LoadConfig(flags.CommonFlags), "recompute")
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if flags.RetryRunID > 0 {
		run, err := app.Planner.RetryRecompute(ctx, flags.RetryRunID)
		if run != nil {
			cli.PrintRun(os.Stdout, run)
		}
		return err
	}

	period, err := flags.Period()
	if err != nil {
		return err
	}
	run, err := app.Planner.RecomputePeriod(ctx, period, service.TriggerManual)
	if run != nil {
		cli.PrintRun(os.Stdout, run)
	}
	if err != nil {
		return err
	}

	if flags.AsOfDay >= 0 {
		result, err := app.Planner.RedistributeAll(ctx, period, flags.AsOfDay)
		if err != nil {
			return err
		}
		cli.PrintBatch(os.Stdout, result)
		if result.Failed > 0 {
			return fmt.Errorf("%d products failed to redistribute", result.Failed)
		}
	}
	return nil
}
