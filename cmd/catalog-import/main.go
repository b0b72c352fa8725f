// Command catalog-import loads categories and products from an xlsx sheet.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/cli"
)

func main() {
	flags, err := cli.ParseCatalogFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *cli.CatalogFlags) error {
	if flags.Template != "" {
		f, err := os.Create(flags.Template)
		if err != nil {
			return err
		}
		if err := service.WriteCatalogTemplate(f); err != nil {
			f.Close()
			return err
		}
		fmt.Printf("Wrote template to %s\n", flags.Template)
		return f.Close()
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cli.LoadConfig(flags.CommonFlags), "catalog")
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	f, err := os.Open(flags.File)
	if err != nil {
		return err
	}
	defer f.Close()

	stats, err := app.Planner.ImportCatalogSpreadsheet(ctx, f, flags.Sheet)
	if err != nil {
		return err
	}
	cli.PrintImportStats(os.Stdout, stats)
	return nil
}
