// Package entity defines the normalized record types the engine
// produces, an arena indexed by synthetic id, and the foreign-key edge
// list derived from them.
package entity

// Kind tags each entity variant. The order here fixes nothing; model
// labels below are the downstream loader's identifiers.
type Kind int

const (
	KindBusiness Kind = iota
	KindContact
	KindJob
	KindWorkOrder
	KindTask
	KindBlep
	KindEstimate
	KindEstimateLineItem
	KindInvoice
	KindInvoiceLineItem
	KindPriceListItem
	KindPurchaseOrder
	KindPurchaseOrderLineItem
	KindBill
	KindBillLineItem
)

var kindModels = map[Kind]string{
	KindBusiness:              "contacts.business",
	KindContact:               "contacts.contact",
	KindJob:                   "jobs.job",
	KindWorkOrder:             "jobs.workorder",
	KindTask:                  "jobs.task",
	KindBlep:                  "jobs.blep",
	KindEstimate:              "jobs.estimate",
	KindEstimateLineItem:      "jobs.estimatelineitem",
	KindInvoice:               "invoicing.invoice",
	KindInvoiceLineItem:       "invoicing.invoicelineitem",
	KindPriceListItem:         "invoicing.pricelistitem",
	KindPurchaseOrder:         "purchasing.purchaseorder",
	KindPurchaseOrderLineItem: "purchasing.purchaseorderlineitem",
	KindBill:                  "purchasing.bill",
	KindBillLineItem:          "purchasing.billlineitem",
}

// Kinds lists every kind in emission order: parents before the records
// that reference them, matching the original build order.
func Kinds() []Kind {
	return []Kind{
		KindBusiness, KindContact, KindJob, KindWorkOrder, KindTask,
		KindBlep, KindEstimate, KindEstimateLineItem, KindInvoice,
		KindInvoiceLineItem, KindPriceListItem, KindPurchaseOrder,
		KindPurchaseOrderLineItem, KindBill, KindBillLineItem,
	}
}

// Model returns the loader's "app.model" label for the kind.
func (k Kind) Model() string {
	return kindModels[k]
}

func (k Kind) String() string {
	return kindModels[k]
}

// Ref identifies one entity: surrogate ids are unique per kind, not
// globally.
type Ref struct {
	Kind Kind
	ID   int
}
