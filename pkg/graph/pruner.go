package graph

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/types"
)

type Reason string

const (
	ReasonRoot      Reason = "root"
	ReasonReachable Reason = "reachable"
	ReasonException Reason = "exception"
	ReasonPruned    Reason = "pruned"
)

type Decision struct {
	Kept   bool
	Reason Reason
}

// Retention records the per-entity keep decision. Entities without an
// explicit decision are pruned.
type Retention struct {
	decisions map[entity.Ref]Decision
}

func (rt *Retention) Kept(ref entity.Ref) bool {
	return rt.decisions[ref].Kept
}

func (rt *Retention) Decision(ref entity.Ref) Decision {
	d, ok := rt.decisions[ref]
	if !ok {
		return Decision{Kept: false, Reason: ReasonPruned}
	}
	return d
}

// Keep marks an entity created after pruning (a cloned job and its work
// order) as part of the surviving set.
func (rt *Retention) Keep(ref entity.Ref, reason Reason) {
	rt.decisions[ref] = Decision{Kept: true, Reason: reason}
}

type Count struct {
	Kept   int
	Pruned int
}

func (rt *Retention) Counts(a *entity.Arena) map[entity.Kind]Count {
	counts := make(map[entity.Kind]Count)
	for _, e := range a.InOrder() {
		ref := e.Ref()
		c := counts[ref.Kind]
		if rt.Kept(ref) {
			c.Kept++
		} else {
			c.Pruned++
		}
		counts[ref.Kind] = c
	}
	return counts
}

// Prune decides retention for every entity. Roots are jobs of
// non-cancelled projects that either own at least one document or task,
// or have recent activity. Exception-listed entities and the whole price
// list are always kept. Everything else survives only through the
// closure: a kept entity keeps what it references, and a kept container
// keeps what it owns. Traversal runs from roots outward only, so a
// pruned entity can never hold anything else in the kept set.
func Prune(a *entity.Arena, g *Graph, cutoff time.Time, exc *Exceptions, log *logrus.Logger) *Retention {
	rt := &Retention{decisions: make(map[entity.Ref]Decision)}

	var queue []entity.Ref
	enqueue := func(ref entity.Ref, reason Reason) {
		if rt.decisions[ref].Kept {
			return
		}
		rt.decisions[ref] = Decision{Kept: true, Reason: reason}
		queue = append(queue, ref)
	}

	for _, e := range a.InOrder() {
		ref := e.Ref()
		if job, ok := e.(*entity.Job); ok && isRoot(a, job, g, cutoff) {
			enqueue(ref, ReasonRoot)
			continue
		}
		if _, isPrice := e.(*entity.PriceListItem); isPrice {
			// The price list is catalog data, kept in full.
			enqueue(ref, ReasonException)
			continue
		}
		if exc.Match(e) {
			enqueue(ref, ReasonException)
		}
	}

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		for _, edge := range g.Outgoing(ref) {
			enqueue(edge.Target, ReasonReachable)
		}
		for _, edge := range g.Incoming(ref) {
			if edge.Relation.Ownership() {
				enqueue(edge.Source, ReasonReachable)
			}
		}
	}

	if log != nil {
		kept := 0
		for _, d := range rt.decisions {
			if d.Kept {
				kept++
			}
		}
		log.WithFields(logrus.Fields{"kept": kept, "pruned": a.Len() - kept}).Info("retention computed")
	}
	return rt
}

func isRoot(a *entity.Arena, job *entity.Job, g *Graph, cutoff time.Time) bool {
	if strings.EqualFold(job.SourceStatus, "cancelled") {
		return false
	}
	if ownsDocument(job, g) {
		return true
	}
	d := relevantDate(a, job, g)
	return d.Valid && !d.Time.Before(cutoff)
}

// ownsDocument reports whether anything beyond the job's own work order
// hangs off it: an estimate, invoice, purchase order, or (through the
// work order) a task.
func ownsDocument(job *entity.Job, g *Graph) bool {
	for _, edge := range g.Incoming(job.Ref()) {
		if !edge.Relation.Ownership() {
			continue
		}
		if edge.Relation != entity.RelWorkOrderJob {
			return true
		}
		if len(g.Incoming(edge.Source)) > 0 {
			return true
		}
	}
	return false
}

// relevantDate is the latest date associated with the job: its own
// dates, and the created dates of its directly owned documents.
func relevantDate(a *entity.Arena, job *entity.Job, g *Graph) types.Date {
	d := job.CreatedDate.
		Max(job.SourceStarts).
		Max(job.SourceEnds).
		Max(job.SourceUpdated)
	for _, edge := range g.Incoming(job.Ref()) {
		if !edge.Relation.Ownership() {
			continue
		}
		if doc, ok := a.Get(edge.Source); ok {
			if created, has := entity.CreatedOn(doc); has {
				d = d.Max(created)
			}
		}
	}
	return d
}
