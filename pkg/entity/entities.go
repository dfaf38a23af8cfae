package entity

import (
	"github.com/shopspring/decimal"

	"github.com/craftshop-erp/shopdata/pkg/types"
)

// Entity is one normalized record. The json tags on each variant define
// the exact field set and order the downstream loader expects; surrogate
// ids and source-row bookkeeping are tagged out.
type Entity interface {
	Ref() Ref
}

type Business struct {
	ID                 int     `json:"-"`
	BusinessName       string  `json:"business_name"`
	BusinessAddress    string  `json:"business_address"`
	BusinessNumber     string  `json:"business_number"`
	TaxExemptionNumber string  `json:"tax_exemption_number"`
	OurReferenceCode   string  `json:"our_reference_code"`
	TaxCloud           string  `json:"tax_cloud"`
	Terms              *int    `json:"terms"`

	// Default contact id, maintained by the resolver and re-checked
	// after pruning. Zero means none assigned yet.
	DefaultContact int `json:"-"`
}

func (b *Business) Ref() Ref { return Ref{KindBusiness, b.ID} }

type Contact struct {
	ID           int    `json:"-"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	WorkNumber   string `json:"work_number"`
	MobileNumber string `json:"mobile_number"`
	HomeNumber   string `json:"home_number"`
	Addr1        string `json:"addr1"`
	Addr2        string `json:"addr2"`
	Addr3        string `json:"addr3"`
	City         string `json:"city"`
	Municipality string `json:"municipality"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
	Business     *int   `json:"business"`
	IsDefault    bool   `json:"is_default"`

	FirstName string `json:"-"`
	LastName  string `json:"-"`
}

func (c *Contact) Ref() Ref { return Ref{KindContact, c.ID} }

type Job struct {
	ID               int        `json:"-"`
	Name             string     `json:"name"`
	JobNumber        string     `json:"job_number"`
	Contact          int        `json:"contact"`
	StartDate        types.Date `json:"start_date"`
	DueDate          types.Date `json:"due_date"`
	CreatedDate      types.Date `json:"created_date"`
	CustomerPONumber string     `json:"customer_po_number"`
	Status           string     `json:"status"`
	Description      string     `json:"description"`
	CompletedDate    types.Date `json:"completed_date"`

	SourceStatus  string     `json:"-"`
	SourceStarts  types.Date `json:"-"`
	SourceEnds    types.Date `json:"-"`
	SourceUpdated types.Date `json:"-"`
	SourceRow     int        `json:"-"`
}

func (j *Job) Ref() Ref { return Ref{KindJob, j.ID} }

type WorkOrder struct {
	ID       int    `json:"-"`
	Job      int    `json:"job"`
	Status   string `json:"status"`
	Template *int   `json:"template"`
}

func (w *WorkOrder) Ref() Ref { return Ref{KindWorkOrder, w.ID} }

type Task struct {
	ID            int             `json:"-"`
	ParentTask    *int            `json:"parent_task"`
	Assignee      *int            `json:"assignee"`
	WorkOrder     int             `json:"work_order"`
	EstWorksheet  *int            `json:"est_worksheet"`
	Name          string          `json:"name"`
	LineNumber    int             `json:"line_number"`
	Units         string          `json:"units"`
	Rate          decimal.Decimal `json:"rate"`
	EstQty        decimal.Decimal `json:"est_qty"`
	Template      *int            `json:"template"`

	SourceRow int `json:"-"`
}

func (t *Task) Ref() Ref { return Ref{KindTask, t.ID} }

type Blep struct {
	ID        int            `json:"-"`
	User      int            `json:"user"`
	Task      int            `json:"task"`
	StartTime types.DateTime `json:"start_time"`
	EndTime   types.DateTime `json:"end_time"`
}

func (b *Blep) Ref() Ref { return Ref{KindBlep, b.ID} }

type Estimate struct {
	ID             int        `json:"-"`
	Job            int        `json:"job"`
	EstimateNumber string     `json:"estimate_number"`
	Version        int        `json:"version"`
	Status         string     `json:"status"`
	Parent         *int       `json:"parent"`
	CreatedDate    types.Date `json:"created_date"`
	SentDate       types.Date `json:"sent_date"`
	ClosedDate     types.Date `json:"closed_date"`
	ExpirationDate types.Date `json:"expiration_date"`

	// Raw spreadsheet reference, the versioning key.
	SourceReference string `json:"-"`
	SourceStatus    string `json:"-"`
	SourceRow       int    `json:"-"`
}

func (e *Estimate) Ref() Ref { return Ref{KindEstimate, e.ID} }

type EstimateLineItem struct {
	ID            int             `json:"-"`
	Estimate      int             `json:"estimate"`
	Task          *int            `json:"task"`
	PriceListItem *int            `json:"price_list_item"`
	LineNumber    int             `json:"line_number"`
	Qty           decimal.Decimal `json:"qty"`
	Units         string          `json:"units"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
}

func (e *EstimateLineItem) Ref() Ref { return Ref{KindEstimateLineItem, e.ID} }

type Invoice struct {
	ID            int        `json:"-"`
	Job           int        `json:"job"`
	InvoiceNumber string     `json:"invoice_number"`
	Status        string     `json:"status"`
	CreatedDate   types.Date `json:"created_date"`
	SentDate      types.Date `json:"sent_date"`
	ClosedDate    types.Date `json:"closed_date"`

	SourceReference string     `json:"-"`
	SourceStatus    string     `json:"-"`
	SourcePaidDate  types.Date `json:"-"`
	SourceRow       int        `json:"-"`
}

func (i *Invoice) Ref() Ref { return Ref{KindInvoice, i.ID} }

type InvoiceLineItem struct {
	ID            int             `json:"-"`
	Invoice       int             `json:"invoice"`
	Task          *int            `json:"task"`
	PriceListItem *int            `json:"price_list_item"`
	LineNumber    int             `json:"line_number"`
	Qty           decimal.Decimal `json:"qty"`
	Units         string          `json:"units"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
}

func (i *InvoiceLineItem) Ref() Ref { return Ref{KindInvoiceLineItem, i.ID} }

type PriceListItem struct {
	ID            int             `json:"-"`
	Code          string          `json:"code"`
	Units         string          `json:"units"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	QtyOnHand     decimal.Decimal `json:"qty_on_hand"`
	QtySold       decimal.Decimal `json:"qty_sold"`
	QtyWasted     decimal.Decimal `json:"qty_wasted"`
	IsActive      bool            `json:"is_active"`
}

func (p *PriceListItem) Ref() Ref { return Ref{KindPriceListItem, p.ID} }

type PurchaseOrder struct {
	ID            int        `json:"-"`
	PONumber      string     `json:"po_number"`
	Business      *int       `json:"business"`
	Contact       *int       `json:"contact"`
	Job           *int       `json:"job"`
	Status        string     `json:"status"`
	CreatedDate   types.Date `json:"created_date"`
	RequestedDate types.Date `json:"requested_date"`
	IssuedDate    types.Date `json:"issued_date"`
	ReceivedDate  types.Date `json:"received_date"`
	CancelDate    types.Date `json:"cancel_date"`

	SourceRow int `json:"-"`
}

func (p *PurchaseOrder) Ref() Ref { return Ref{KindPurchaseOrder, p.ID} }

type PurchaseOrderLineItem struct {
	ID            int             `json:"-"`
	PurchaseOrder int             `json:"purchase_order"`
	Task          *int            `json:"task"`
	PriceListItem *int            `json:"price_list_item"`
	LineNumber    int             `json:"line_number"`
	Qty           decimal.Decimal `json:"qty"`
	Units         string          `json:"units"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
}

func (p *PurchaseOrderLineItem) Ref() Ref { return Ref{KindPurchaseOrderLineItem, p.ID} }

type Bill struct {
	ID                  int        `json:"-"`
	BillNumber          string     `json:"bill_number"`
	PurchaseOrder       int        `json:"purchase_order"`
	Business            *int       `json:"business"`
	Contact             *int       `json:"contact"`
	VendorInvoiceNumber string     `json:"vendor_invoice_number"`
	Status              string     `json:"status"`
	CreatedDate         types.Date `json:"created_date"`
	DueDate             types.Date `json:"due_date"`
	ReceivedDate        types.Date `json:"received_date"`
	PaidDate            types.Date `json:"paid_date"`
	CancelledDate       types.Date `json:"cancelled_date"`

	SourceRow int `json:"-"`
}

func (b *Bill) Ref() Ref { return Ref{KindBill, b.ID} }

type BillLineItem struct {
	ID            int             `json:"-"`
	Bill          int             `json:"bill"`
	Task          *int            `json:"task"`
	PriceListItem *int            `json:"price_list_item"`
	LineNumber    int             `json:"line_number"`
	Qty           decimal.Decimal `json:"qty"`
	Units         string          `json:"units"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
}

func (b *BillLineItem) Ref() Ref { return Ref{KindBillLineItem, b.ID} }

// NaturalKeyOf returns the human-readable key an exception-list entry
// matches against, for the kinds that have one.
func NaturalKeyOf(e Entity) (string, bool) {
	switch v := e.(type) {
	case *Business:
		return v.BusinessName, true
	case *Contact:
		return v.Name, true
	case *Job:
		return v.Name, true
	case *Estimate:
		return v.SourceReference, true
	case *Invoice:
		return v.SourceReference, true
	case *Bill:
		return v.VendorInvoiceNumber, true
	case *Task:
		return v.Name, true
	case *PriceListItem:
		return v.Code, true
	}
	return "", false
}

// CreatedOn reports the creation date used by retention's recency rule
// for document entities.
func CreatedOn(e Entity) (types.Date, bool) {
	switch v := e.(type) {
	case *Estimate:
		return v.CreatedDate, true
	case *Invoice:
		return v.CreatedDate, true
	case *Bill:
		return v.CreatedDate, true
	case *PurchaseOrder:
		return v.CreatedDate, true
	}
	return types.Date{}, false
}
