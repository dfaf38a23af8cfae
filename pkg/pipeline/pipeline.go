// Package pipeline wires the conversion stages together: base dataset,
// sheet reader, resolver, graph, retention, rules, emitter. One call,
// one deterministic pass.
package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/craftshop-erp/shopdata/pkg/basedata"
	"github.com/craftshop-erp/shopdata/pkg/configuration"
	"github.com/craftshop-erp/shopdata/pkg/emit"
	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/graph"
	"github.com/craftshop-erp/shopdata/pkg/ident"
	"github.com/craftshop-erp/shopdata/pkg/report"
	"github.com/craftshop-erp/shopdata/pkg/resolve"
	"github.com/craftshop-erp/shopdata/pkg/rules"
	"github.com/craftshop-erp/shopdata/pkg/sheet"
)

type Options struct {
	InputPath      string
	OutputPath     string
	BasePath       string
	ExceptionsPath string
	DryRun         bool
}

// Result summarizes a run for the CLI. Counts covers every kind,
// including ones with zero entities.
type Result struct {
	Counts map[entity.Kind]graph.Count
	Base   int
	Wrote  bool
}

// Run executes the full conversion. Conversion errors land in rep; an
// error return means an environment failure (unreadable input, bad
// exception file, failed write).
func Run(opts Options, cfg *configuration.Configuration, rep *report.Report, log *logrus.Logger) (*Result, error) {
	cutoff, err := cfg.Cutoff()
	if err != nil {
		return nil, err
	}

	base, err := basedata.Load(opts.BasePath)
	if err != nil {
		return nil, err
	}
	log.WithField("records", len(base.Records)).Info("loaded base dataset")

	ds, err := sheet.Load(opts.InputPath, log, rep)
	if err != nil {
		return nil, err
	}

	arena := entity.NewArena()
	alloc := ident.New(base.MaxIDs)

	resolver := resolve.New(resolve.Options{
		DefaultCountryCode:   cfg.DefaultCountryCode,
		JobNumberPrefix:      cfg.JobNumberPrefix,
		EstimateNumberPrefix: cfg.EstimateNumberPrefix,
		InvoiceNumberPrefix:  cfg.InvoiceNumberPrefix,
		PONumberPrefix:       cfg.PONumberPrefix,
		BillNumberPrefix:     cfg.BillNumberPrefix,
	}, arena, alloc, base, rep, log)
	resolver.Run(ds)

	g := graph.Build(arena)

	exc, err := graph.LoadExceptions(opts.ExceptionsPath)
	if err != nil {
		return nil, err
	}

	rt := graph.Prune(arena, g, cutoff, exc, log)

	engine := rules.New(rules.Options{JobNumberPrefix: cfg.JobNumberPrefix}, arena, alloc, rt, rep, log)
	engine.Apply()

	// Rules may have added cloned jobs and re-linked estimates; the
	// integrity sweep runs on a fresh graph.
	g = graph.Build(arena)
	graph.CheckIntegrity(arena, g, rt, rep)

	res := &Result{
		Counts: rt.Counts(arena),
		Base:   len(base.Records),
	}

	if rep.HasErrors() {
		log.WithField("errors", rep.Len()).Error("conversion failed, output not written")
		return res, nil
	}
	if opts.DryRun {
		log.Info("dry run, output not written")
		return res, nil
	}

	if err := emit.Write(opts.OutputPath, base, arena, rt, log); err != nil {
		return nil, err
	}
	res.Wrote = true
	return res, nil
}
