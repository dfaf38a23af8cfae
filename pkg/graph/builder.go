// Package graph assembles the directed foreign-key graph over resolved
// entities and computes which of them survive retention.
package graph

import (
	"fmt"

	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/report"
)

type Graph struct {
	Edges []entity.Edge
	out   map[entity.Ref][]entity.Edge
	in    map[entity.Ref][]entity.Edge
}

// Build derives every foreign-key edge from the arena. Users are not
// arena entities (they live in the base dataset), so blep.user carries
// no edge. Build is linear in entity count.
func Build(a *entity.Arena) *Graph {
	g := &Graph{
		out: make(map[entity.Ref][]entity.Edge),
		in:  make(map[entity.Ref][]entity.Edge),
	}

	for _, e := range a.InOrder() {
		src := e.Ref()
		switch v := e.(type) {
		case *entity.Contact:
			g.addOpt(src, v.Business, entity.KindBusiness, entity.RelContactBusiness)
		case *entity.Job:
			g.add(src, entity.Ref{Kind: entity.KindContact, ID: v.Contact}, entity.RelJobContact)
		case *entity.WorkOrder:
			g.add(src, entity.Ref{Kind: entity.KindJob, ID: v.Job}, entity.RelWorkOrderJob)
		case *entity.Task:
			g.add(src, entity.Ref{Kind: entity.KindWorkOrder, ID: v.WorkOrder}, entity.RelTaskWorkOrder)
		case *entity.Blep:
			g.add(src, entity.Ref{Kind: entity.KindTask, ID: v.Task}, entity.RelBlepTask)
		case *entity.Estimate:
			g.add(src, entity.Ref{Kind: entity.KindJob, ID: v.Job}, entity.RelEstimateJob)
			g.addOpt(src, v.Parent, entity.KindEstimate, entity.RelEstimateParent)
		case *entity.EstimateLineItem:
			g.add(src, entity.Ref{Kind: entity.KindEstimate, ID: v.Estimate}, entity.RelEstimateItemEstimate)
			g.addOpt(src, v.Task, entity.KindTask, entity.RelEstimateItemTask)
			g.addOpt(src, v.PriceListItem, entity.KindPriceListItem, entity.RelEstimateItemPrice)
		case *entity.Invoice:
			g.add(src, entity.Ref{Kind: entity.KindJob, ID: v.Job}, entity.RelInvoiceJob)
		case *entity.InvoiceLineItem:
			g.add(src, entity.Ref{Kind: entity.KindInvoice, ID: v.Invoice}, entity.RelInvoiceItemInvoice)
			g.addOpt(src, v.Task, entity.KindTask, entity.RelInvoiceItemTask)
			g.addOpt(src, v.PriceListItem, entity.KindPriceListItem, entity.RelInvoiceItemPrice)
		case *entity.PurchaseOrder:
			g.addOpt(src, v.Job, entity.KindJob, entity.RelPOJob)
			g.addOpt(src, v.Contact, entity.KindContact, entity.RelPOContact)
			g.addOpt(src, v.Business, entity.KindBusiness, entity.RelPOBusiness)
		case *entity.PurchaseOrderLineItem:
			g.add(src, entity.Ref{Kind: entity.KindPurchaseOrder, ID: v.PurchaseOrder}, entity.RelPOItemPO)
			g.addOpt(src, v.Task, entity.KindTask, entity.RelPOItemTask)
			g.addOpt(src, v.PriceListItem, entity.KindPriceListItem, entity.RelPOItemPrc)
		case *entity.Bill:
			g.add(src, entity.Ref{Kind: entity.KindPurchaseOrder, ID: v.PurchaseOrder}, entity.RelBillPO)
			g.addOpt(src, v.Contact, entity.KindContact, entity.RelBillContact)
			g.addOpt(src, v.Business, entity.KindBusiness, entity.RelBillBusiness)
		case *entity.BillLineItem:
			g.add(src, entity.Ref{Kind: entity.KindBill, ID: v.Bill}, entity.RelBillItemBill)
			g.addOpt(src, v.Task, entity.KindTask, entity.RelBillItemTask)
			g.addOpt(src, v.PriceListItem, entity.KindPriceListItem, entity.RelBillItemPrc)
		}
	}
	return g
}

func (g *Graph) add(src, dst entity.Ref, rel entity.Relation) {
	edge := entity.Edge{Source: src, Target: dst, Relation: rel}
	g.Edges = append(g.Edges, edge)
	g.out[src] = append(g.out[src], edge)
	g.in[dst] = append(g.in[dst], edge)
}

func (g *Graph) addOpt(src entity.Ref, id *int, kind entity.Kind, rel entity.Relation) {
	if id == nil {
		return
	}
	g.add(src, entity.Ref{Kind: kind, ID: *id}, rel)
}

func (g *Graph) Outgoing(ref entity.Ref) []entity.Edge { return g.out[ref] }
func (g *Graph) Incoming(ref entity.Ref) []entity.Edge { return g.in[ref] }

// CheckIntegrity verifies that every edge owned by a kept entity points
// at a kept entity that exists. Violations are fatal, never fixed up.
func CheckIntegrity(a *entity.Arena, g *Graph, rt *Retention, rep *report.Report) {
	for _, edge := range g.Edges {
		if !rt.Kept(edge.Source) {
			continue
		}
		if _, ok := a.Get(edge.Target); !ok {
			rep.Add(&report.IntegrityError{Msg: fmt.Sprintf(
				"%s %d: edge %s targets missing %s %d",
				edge.Source.Kind, edge.Source.ID, edge.Relation, edge.Target.Kind, edge.Target.ID)})
			continue
		}
		if !rt.Kept(edge.Target) {
			rep.Add(&report.IntegrityError{Msg: fmt.Sprintf(
				"%s %d: edge %s targets pruned %s %d",
				edge.Source.Kind, edge.Source.ID, edge.Relation, edge.Target.Kind, edge.Target.ID)})
		}
	}
}
