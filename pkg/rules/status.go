package rules

import (
	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/report"
)

// Fixed status mapping tables. An input status missing from its table is
// a validation error, never a default.
var (
	jobStatusMap = map[string]string{
		"Completed": "completed",
		"Active":    "approved",
		"Cancelled": "cancelled",
	}
	estimateStatusMap = map[string]string{
		"Draft":    "draft",
		"Sent":     "open",
		"Approved": "accepted",
		"Rejected": "rejected",
	}
	invoiceStatusMap = map[string]string{
		"Draft":     "draft",
		"Sent":      "open",
		"Cancelled": "cancelled",
	}
)

func (e *Engine) mapStatus(table map[string]string, raw, model, name string) (string, bool) {
	mapped, ok := table[raw]
	if !ok {
		e.rep.Add(&report.ValidationError{Entity: model + " " + name, Field: "status", Value: raw})
		return "", false
	}
	return mapped, true
}

func (e *Engine) mapJobStatuses() {
	for _, ent := range e.kept(entity.KindJob) {
		job := ent.(*entity.Job)
		if mapped, ok := e.mapStatus(jobStatusMap, job.SourceStatus, entity.KindJob.Model(), job.Name); ok {
			job.Status = mapped
		}
	}
	for _, ent := range e.kept(entity.KindWorkOrder) {
		wo := ent.(*entity.WorkOrder)
		if job, ok := e.arena.Get(entity.Ref{Kind: entity.KindJob, ID: wo.Job}); ok {
			if job.(*entity.Job).Status == "completed" {
				wo.Status = "complete"
			} else {
				wo.Status = "draft"
			}
		}
	}
}

// mapEstimateStatuses runs after versioning: superseded revisions keep
// the superseded marker, only the current revision carries its mapped
// status.
func (e *Engine) mapEstimateStatuses() {
	for _, ent := range e.kept(entity.KindEstimate) {
		est := ent.(*entity.Estimate)
		if est.Status == statusSuperseded {
			continue
		}
		mapped, ok := e.mapStatus(estimateStatusMap, est.SourceStatus, entity.KindEstimate.Model(), est.SourceReference)
		if !ok {
			continue
		}
		est.Status = mapped
		switch mapped {
		case "open", "accepted", "rejected":
			est.SentDate = est.CreatedDate
		}
	}
}

func (e *Engine) mapInvoiceStatuses() {
	for _, ent := range e.kept(entity.KindInvoice) {
		inv := ent.(*entity.Invoice)
		mapped, ok := e.mapStatus(invoiceStatusMap, inv.SourceStatus, entity.KindInvoice.Model(), inv.SourceReference)
		if !ok {
			continue
		}
		inv.Status = mapped
		switch mapped {
		case "open", "paid":
			inv.SentDate = inv.CreatedDate
		}
		if mapped == "paid" {
			inv.ClosedDate = inv.SourcePaidDate
		}
	}
}
