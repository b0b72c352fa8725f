package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// CommonFlags are shared by every command.
type CommonFlags struct {
	ConfigPath string
	Verbose    bool
}

func (f *CommonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.BoolVar(&f.Verbose, "verbose", false, "Verbose output")
}

// PeriodFlags select a planning month. Month takes a name or 1-12.
type PeriodFlags struct {
	Month string
	Year  int
}

func (f *PeriodFlags) register(fs *flag.FlagSet, now time.Time) {
	fs.StringVar(&f.Month, "month", now.Month().String(), "Month name or number")
	fs.IntVar(&f.Year, "year", now.Year(), "Four-digit year")
}

// Period validates the flags as a planning period.
func (f PeriodFlags) Period() (planning.Period, error) {
	return planning.ParsePeriod(f.Month, f.Year)
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	CommonFlags
	Port int
}

// ParseServeFlags parses command line flags for the serve command.
// A zero port means the configured one.
func ParseServeFlags(args []string) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	flags.register(fs)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// RecomputeFlags holds the flags for the recompute command.
type RecomputeFlags struct {
	CommonFlags
	PeriodFlags
	RetryRunID int64
	// AsOfDay, when set, also redistributes daily targets.
	AsOfDay int
}

// ParseRecomputeFlags parses the recompute command flags.
func ParseRecomputeFlags(args []string, now time.Time) (*RecomputeFlags, error) {
	flags := &RecomputeFlags{}
	fs := flag.NewFlagSet("recompute", flag.ContinueOnError)
	flags.CommonFlags.register(fs)
	flags.PeriodFlags.register(fs, now)
	fs.Int64Var(&flags.RetryRunID, "retry", 0, "Retry a failed recompute run by ID")
	fs.IntVar(&flags.AsOfDay, "redistribute", -1, "Also redistribute daily targets as of this day (0 = whole month)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.RetryRunID < 0 {
		return nil, fmt.Errorf("-retry must be a run ID")
	}
	return flags, nil
}

// CatalogFlags holds the flags for the catalog-import command.
type CatalogFlags struct {
	CommonFlags
	File     string
	Sheet    string
	Template string
}

// ParseCatalogFlags parses the catalog-import command flags. Exactly one
// of -file and -template is required.
func ParseCatalogFlags(args []string) (*CatalogFlags, error) {
	flags := &CatalogFlags{}
	fs := flag.NewFlagSet("catalog-import", flag.ContinueOnError)
	flags.register(fs)
	fs.StringVar(&flags.File, "file", "", "xlsx file to import")
	fs.StringVar(&flags.Sheet, "sheet", "", "Sheet to read (default first sheet)")
	fs.StringVar(&flags.Template, "template", "", "Write an empty import template to this path and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if (flags.File == "") == (flags.Template == "") {
		return nil, fmt.Errorf("one of -file or -template is required")
	}
	return flags, nil
}

// ReportFlags holds the flags for the plan-report command.
type ReportFlags struct {
	CommonFlags
	PeriodFlags
	Output string
}

// ParseReportFlags parses the plan-report command flags. The output path
// defaults to growth-plan-YYYY-MM.xlsx.
func ParseReportFlags(args []string, now time.Time) (*ReportFlags, error) {
	flags := &ReportFlags{}
	fs := flag.NewFlagSet("plan-report", flag.ContinueOnError)
	flags.CommonFlags.register(fs)
	flags.PeriodFlags.register(fs, now)
	fs.StringVar(&flags.Output, "out", "", "Output file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.Output == "" {
		p, err := flags.Period()
		if err != nil {
			return nil, err
		}
		flags.Output = fmt.Sprintf("growth-plan-%s.xlsx", p.Key())
	}
	return flags, nil
}
