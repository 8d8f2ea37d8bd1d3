package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	facet "github.com/facet-org/facet"
	"github.com/facet-org/facet/store"
)

// ============================================================================
// FACET CLI — import data, inspect filters, compute chart data
// ============================================================================

const version = "0.1.0"

// Context carries global flags and the opened project store to commands.
type Context struct {
	Config  *facet.Config
	Store   store.Store
	Verbose bool
}

// CLI is the root command tree.
var CLI struct {
	Config  string `help:"Path to facet.yaml" default:"facet.yaml" short:"c"`
	Verbose bool   `help:"Verbose output" short:"v"`

	Import   ImportCmd   `cmd:"" help:"Import a CSV or XLSX file as a new table"`
	Classify ClassifyCmd `cmd:"" help:"Print filter-mode proposals for every column"`
	Slicers  SlicersCmd  `cmd:"" help:"Inspect slicers and cross-table candidates"`
	Chart    ChartCmd    `cmd:"" help:"Compute renderer-ready data for a chart"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Generate or fetch cached AI analysis for a chart"`
	Version  VersionCmd  `cmd:"" help:"Print version and exit"`
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Printf("facet %s\n", version)
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("facet"),
		kong.Description("Chart data pipeline for slicer-driven dashboards."),
		kong.UsageOnError(),
	)

	cfg, err := facet.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	err = kctx.Run(&Context{Config: cfg, Store: st, Verbose: CLI.Verbose})
	kctx.FatalIfErrorf(err)
}

func openStore(cfg *facet.Config) (store.Store, func(), error) {
	if cfg.Store.Path == "" {
		return store.NewMemory(), func() {}, nil
	}
	s, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}
