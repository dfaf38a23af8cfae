package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/craftshop-erp/shopdata/pkg/configuration"
	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/pipeline"
	"github.com/craftshop-erp/shopdata/pkg/report"
)

type convertOptions struct {
	input      string
	output     string
	base       string
	exceptions string
	dryRun     bool
	verbose    bool
}

func newConvertCmd() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the spreadsheet export to loader fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Input spreadsheet (.xlsx, required)")
	cmd.Flags().StringVar(&opts.output, "output", "output.json", "Output fixture file")
	cmd.Flags().StringVar(&opts.base, "base", "", "Base dataset fixture file (optional)")
	cmd.Flags().StringVar(&opts.exceptions, "exceptions", "", "Retention exception list (YAML, optional)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Run the conversion without writing output")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Debug logging")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runConvert(opts convertOptions) error {
	if strings.TrimSpace(opts.input) == "" {
		return withCode(exitUsage, fmt.Errorf("--input is required"))
	}

	cfg, err := configuration.Load()
	if err != nil {
		return withCode(exitUsage, err)
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	log := cfg.Logger()

	rep := report.New()
	res, err := pipeline.Run(pipeline.Options{
		InputPath:      opts.input,
		OutputPath:     opts.output,
		BasePath:       opts.base,
		ExceptionsPath: opts.exceptions,
		DryRun:         opts.dryRun,
	}, cfg, rep, log)
	if err != nil {
		return withCode(exitIO, err)
	}

	if rep.HasErrors() {
		rep.Render(os.Stderr)
		return withCode(exitValidation, fmt.Errorf("conversion failed with %d error(s)", rep.Len()))
	}

	return printConvertSummary(opts, res)
}

type convertSummary struct {
	Status      string `json:"status"`
	Input       string `json:"input"`
	Output      string `json:"output,omitempty"`
	BaseRecords int    `json:"base_records"`
	Counts      []struct {
		Model  string `json:"model"`
		Kept   int    `json:"kept"`
		Pruned int    `json:"pruned"`
	} `json:"counts"`
}

func printConvertSummary(opts convertOptions, res *pipeline.Result) error {
	var s convertSummary
	s.Status = "converted"
	if !res.Wrote {
		s.Status = "dry_run"
	} else {
		s.Output = opts.output
	}
	s.Input = opts.input
	s.BaseRecords = res.Base

	for _, k := range entity.Kinds() {
		c := res.Counts[k]
		if c.Kept == 0 && c.Pruned == 0 {
			continue
		}
		s.Counts = append(s.Counts, struct {
			Model  string `json:"model"`
			Kept   int    `json:"kept"`
			Pruned int    `json:"pruned"`
		}{Model: k.Model(), Kept: c.Kept, Pruned: c.Pruned})
	}

	return writeJSONLine(s)
}
