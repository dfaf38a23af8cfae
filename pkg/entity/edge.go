package entity

// Relation names one foreign key of the schema. Edges are recorded the
// way the FK is written: source owns the field, target is what it points
// at.
type Relation string

const (
	RelContactBusiness Relation = "contact.business"
	RelJobContact      Relation = "job.contact"
	RelWorkOrderJob    Relation = "workorder.job"
	RelTaskWorkOrder   Relation = "task.work_order"
	RelBlepTask        Relation = "blep.task"

	RelEstimateJob          Relation = "estimate.job"
	RelEstimateParent       Relation = "estimate.parent"
	RelEstimateItemEstimate Relation = "estimate_line_item.estimate"
	RelEstimateItemTask     Relation = "estimate_line_item.task"
	RelEstimateItemPrice    Relation = "estimate_line_item.price_list_item"

	RelInvoiceJob         Relation = "invoice.job"
	RelInvoiceItemInvoice Relation = "invoice_line_item.invoice"
	RelInvoiceItemTask    Relation = "invoice_line_item.task"
	RelInvoiceItemPrice   Relation = "invoice_line_item.price_list_item"

	RelPOJob      Relation = "purchase_order.job"
	RelPOContact  Relation = "purchase_order.contact"
	RelPOBusiness Relation = "purchase_order.business"
	RelPOItemPO   Relation = "purchase_order_line_item.purchase_order"
	RelPOItemTask Relation = "purchase_order_line_item.task"
	RelPOItemPrc  Relation = "purchase_order_line_item.price_list_item"

	RelBillPO       Relation = "bill.purchase_order"
	RelBillContact  Relation = "bill.contact"
	RelBillBusiness Relation = "bill.business"
	RelBillItemBill Relation = "bill_line_item.bill"
	RelBillItemTask Relation = "bill_line_item.task"
	RelBillItemPrc  Relation = "bill_line_item.price_list_item"
)

// Ownership relations bind a detail record to the container whose
// lifetime it shares. During retention, keeping the target (the owner)
// keeps the source; reference relations only pull in their target.
var ownership = map[Relation]bool{
	RelWorkOrderJob:         true,
	RelTaskWorkOrder:        true,
	RelBlepTask:             true,
	RelEstimateJob:          true,
	RelEstimateItemEstimate: true,
	RelInvoiceJob:           true,
	RelInvoiceItemInvoice:   true,
	RelPOJob:                true,
	RelPOItemPO:             true,
	RelBillPO:               true,
	RelBillItemBill:         true,
}

func (r Relation) Ownership() bool {
	return ownership[r]
}

// Edge is one resolved foreign key.
type Edge struct {
	Source   Ref
	Target   Ref
	Relation Relation
}
