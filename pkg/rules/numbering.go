package rules

import (
	"github.com/craftshop-erp/shopdata/pkg/entity"
)

// assignLineNumbers numbers the kept line items 1..N within each
// container in arena order, which preserves the original spreadsheet row
// order. Pruned siblings leave no gaps. Tasks are numbered the same way
// within their work order.
func (e *Engine) assignLineNumbers() {
	next := make(map[int]int)
	number := func(container int) int {
		next[container]++
		return next[container]
	}

	for _, ent := range e.kept(entity.KindEstimateLineItem) {
		li := ent.(*entity.EstimateLineItem)
		li.LineNumber = number(li.Estimate)
	}

	next = make(map[int]int)
	for _, ent := range e.kept(entity.KindInvoiceLineItem) {
		li := ent.(*entity.InvoiceLineItem)
		li.LineNumber = number(li.Invoice)
	}

	next = make(map[int]int)
	for _, ent := range e.kept(entity.KindPurchaseOrderLineItem) {
		li := ent.(*entity.PurchaseOrderLineItem)
		li.LineNumber = number(li.PurchaseOrder)
	}

	next = make(map[int]int)
	for _, ent := range e.kept(entity.KindBillLineItem) {
		li := ent.(*entity.BillLineItem)
		li.LineNumber = number(li.Bill)
	}

	next = make(map[int]int)
	for _, ent := range e.kept(entity.KindTask) {
		t := ent.(*entity.Task)
		t.LineNumber = number(t.WorkOrder)
	}
}
