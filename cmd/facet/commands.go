package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/facet-org/facet/analysis"
	"github.com/facet-org/facet/dataset"
	"github.com/facet-org/facet/project"
)

// ============================================================================
// COMMANDS
// ============================================================================

// ImportCmd imports a CSV or XLSX file as a new table.
type ImportCmd struct {
	File  string `arg:"" help:"Path to .csv or .xlsx file" type:"existingfile"`
	Name  string `help:"Table name (default: file name without extension)"`
	Sheet string `help:"Worksheet name for XLSX files (default: first sheet)"`
}

func (cmd *ImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	name := cmd.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(cmd.File), filepath.Ext(cmd.File))
	}

	opts := dataset.ImportOptions{SampleSize: ctx.Config.Import.SampleSize}

	var table *dataset.Table
	switch strings.ToLower(filepath.Ext(cmd.File)) {
	case ".xlsx", ".xlsm":
		table, err = dataset.ImportXLSX(data, name, cmd.Sheet, opts)
	default:
		table, err = dataset.ImportCSV(data, name, opts)
	}
	if err != nil {
		return err
	}

	p, err := project.Load(ctx.Store, ctx.Config.Project.Name)
	if err != nil {
		return err
	}
	p.AddTable(table)
	if err := p.Save(ctx.Store); err != nil {
		return err
	}

	color.Green("✔ imported %q: %d rows, %d columns (table id %s)",
		table.Name, len(table.Rows), len(table.Columns), table.ID)
	if ctx.Verbose {
		for _, c := range table.Columns {
			fmt.Printf("  %-24s %s\n", c.Name, c.Type)
		}
	}
	return nil
}

// ClassifyCmd prints filter-mode proposals for every column of every table.
type ClassifyCmd struct{}

func (cmd *ClassifyCmd) Run(ctx *Context) error {
	p, err := project.Load(ctx.Store, ctx.Config.Project.Name)
	if err != nil {
		return err
	}
	if len(p.Tables) == 0 {
		return fmt.Errorf("no tables imported yet")
	}

	for _, t := range p.Tables {
		color.Cyan("%s (%d rows)", t.Name, len(t.Rows))
		for _, c := range t.Columns {
			mode, ok := dataset.Classify(c.Name, []*dataset.Table{t})
			if !ok {
				fmt.Printf("  %-24s —\n", c.Name)
				continue
			}
			fmt.Printf("  %-24s %s\n", c.Name, mode)
		}
	}
	return nil
}

// SlicersCmd lists slicers and cross-table slicer candidates.
type SlicersCmd struct {
	Detect bool `help:"Print universal slicer candidates instead of defined slicers"`
}

func (cmd *SlicersCmd) Run(ctx *Context) error {
	p, err := project.Load(ctx.Store, ctx.Config.Project.Name)
	if err != nil {
		return err
	}

	if cmd.Detect {
		candidates := project.DetectUniversalSlicers(p.Tables)
		if len(candidates) == 0 {
			fmt.Println("no universal slicer candidates")
			return nil
		}
		for _, c := range candidates {
			fmt.Println(c)
		}
		return nil
	}

	for _, s := range p.Slicers {
		fmt.Printf("%s  %-20s %s/%s  selected %d of %d\n",
			s.ID, s.Name, s.ColumnName, s.FilterMode,
			len(s.SelectedValues), len(s.AvailableValues))
	}
	return nil
}

// ChartCmd computes and prints renderer-ready data for one chart.
type ChartCmd struct {
	ID     string `arg:"" help:"Chart id"`
	Format string `help:"Output format: json, pretty" default:"pretty" enum:"json,pretty"`
}

func (cmd *ChartCmd) Run(ctx *Context) error {
	p, err := project.Load(ctx.Store, ctx.Config.Project.Name)
	if err != nil {
		return err
	}

	data, err := p.ChartData(cmd.ID)
	if err != nil {
		return err
	}
	if data == nil {
		color.Yellow("no data (empty after filtering, or broken table reference)")
		return nil
	}

	if cmd.Format == "json" {
		blob, err := json.Marshal(data)
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}

	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(blob))
	return nil
}

// AnalyzeCmd generates (or fetches the cached) AI analysis for one chart
// under its current filter state.
type AnalyzeCmd struct {
	ID      string `arg:"" help:"Chart id"`
	Refresh bool   `help:"Regenerate even when a cached entry exists"`
}

func (cmd *AnalyzeCmd) Run(ctx *Context) error {
	p, err := project.Load(ctx.Store, ctx.Config.Project.Name)
	if err != nil {
		return err
	}
	chart, ok := p.ChartByID(cmd.ID)
	if !ok {
		return fmt.Errorf("chart %s not found", cmd.ID)
	}

	fp := p.FingerprintFor(chart)

	if !cmd.Refresh {
		if entry, ok := p.Analyses.Get(chart.ID, fp); ok && entry.Content != "" {
			printAnalysis(entry.Content, true)
			return nil
		}
		if p.Analyses.HasAnyEntry(chart.ID) {
			color.Yellow("cached analysis exists for other filter states; generating for the current one")
		}
	}

	data, err := p.ChartData(chart.ID)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("chart has no data under the current filters")
	}

	apiKey := os.Getenv(ctx.Config.AI.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("%s is not set", ctx.Config.AI.APIKeyEnv)
	}

	client := analysis.NewGemini(analysis.ClientConfig{
		APIKey:   apiKey,
		Model:    ctx.Config.AI.Model,
		Endpoint: ctx.Config.AI.Endpoint,
	})
	gen := analysis.NewGenerator(p.Analyses, client)

	entry, err := gen.Generate(context.Background(), chart.ID, fp, analysis.Request{
		Chart: chart,
		Data:  data,
	})
	if err != nil {
		return err
	}
	if err := p.Save(ctx.Store); err != nil {
		return err
	}

	printAnalysis(entry.Content, false)
	return nil
}

func printAnalysis(blob string, cached bool) {
	sections := analysis.ParseSections(blob)
	if cached {
		color.HiBlack("(cached)")
	}
	color.Cyan("ANALYSIS")
	fmt.Println(sections.Analysis)
	if sections.Insights != "" {
		color.Cyan("\nINSIGHTS")
		fmt.Println(sections.Insights)
	}
}
