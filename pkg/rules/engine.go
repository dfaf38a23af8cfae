// Package rules applies the business transformation rules to the kept
// entity set: status mapping tables, estimate versioning and
// supersession, per-container line numbering, job date derivation, and
// the default-contact invariant. Every rule either produces a
// deterministic value or records a typed error; nothing falls back to a
// guessed default.
package rules

import (
	"github.com/sirupsen/logrus"

	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/graph"
	"github.com/craftshop-erp/shopdata/pkg/ident"
	"github.com/craftshop-erp/shopdata/pkg/report"
)

type Options struct {
	JobNumberPrefix string
}

type Engine struct {
	opts  Options
	arena *entity.Arena
	alloc *ident.Allocator
	rt    *graph.Retention
	rep   *report.Report
	log   *logrus.Logger
}

func New(opts Options, arena *entity.Arena, alloc *ident.Allocator, rt *graph.Retention, rep *report.Report, log *logrus.Logger) *Engine {
	return &Engine{opts: opts, arena: arena, alloc: alloc, rt: rt, rep: rep, log: log}
}

// Apply runs every rule over the kept set. Estimate versioning may add
// cloned jobs to the arena; those are marked kept and participate in the
// rules that follow it.
func (e *Engine) Apply() {
	e.mapJobStatuses()
	e.applyVersioning()
	e.mapEstimateStatuses()
	e.mapInvoiceStatuses()
	e.deriveJobDates()
	e.assignLineNumbers()
	e.ensureDefaultContacts()
}

func (e *Engine) kept(k entity.Kind) []entity.Entity {
	var out []entity.Entity
	for _, ent := range e.arena.OfKind(k) {
		if e.rt.Kept(ent.Ref()) {
			out = append(out, ent)
		}
	}
	return out
}
