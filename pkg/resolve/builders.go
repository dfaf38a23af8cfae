package resolve

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/report"
	"github.com/craftshop-erp/shopdata/pkg/sheet"
	"github.com/craftshop-erp/shopdata/pkg/types"
)

const cancelledStatus = "cancelled"

func (r *Resolver) buildJobs(rows []sheet.Row) {
	for _, row := range rows {
		name := row.Get("Name")
		if name == "" {
			r.rep.Add(&report.ParseError{Sheet: row.Sheet, Row: row.Line, Msg: "project has no name"})
			continue
		}

		org := row.Get("Client Organisation")
		clientName := row.Get("Client Name")
		if org == "" || clientName == "" {
			r.rep.Add(&report.ReferenceResolutionError{
				Sheet: row.Sheet, Row: row.Line, Ref: name,
				Msg: "project has no client organisation/name",
			})
			continue
		}
		contactID, ok := r.resolveContact(org, clientName, row.Sheet, row.Line)
		if !ok {
			continue
		}

		created := r.parseDate(row, "Created Date")
		job := &entity.Job{
			ID:               r.alloc.NextID(entity.KindJob),
			Name:             name,
			JobNumber:        r.alloc.Sequence(r.opts.JobNumberPrefix, yearOf(created)),
			Contact:          contactID,
			CreatedDate:      created,
			CustomerPONumber: row.Get("Contract PO Reference"),
			Description:      row.Get("Notes"),
			SourceStatus:     row.Get("Status"),
			SourceStarts:     r.parseDate(row, "Starts On"),
			SourceEnds:       r.parseDate(row, "Ends On"),
			SourceUpdated:    r.parseDate(row, "Updated Date"),
			SourceRow:        row.Line,
		}
		r.add(job)

		// A work order exists iff the source project is not cancelled.
		if fold(job.SourceStatus) != cancelledStatus {
			wo := &entity.WorkOrder{
				ID:  r.alloc.NextID(entity.KindWorkOrder),
				Job: job.ID,
			}
			r.add(wo)
			r.workOrderByJob[job.ID] = wo
		}

		if _, dup := r.jobByProject[fold(name)]; dup {
			r.log.WithFields(map[string]interface{}{"project": name, "row": row.Line}).
				Warn("duplicate project name, keeping first")
			continue
		}
		r.jobByProject[fold(name)] = job
	}
}

func (r *Resolver) buildPurchaseOrdersAndBills(docs []sheet.Doc) {
	for _, doc := range docs {
		org := doc.Get("Contact Organisation")
		biz, ok := r.findBusiness(org, doc.Sheet, doc.Line)
		if !ok {
			continue
		}

		var contact *int
		if name := doc.Get("Contact Name"); name != "" {
			if id, ok := r.resolveContact(org, name, doc.Sheet, doc.Line); ok {
				contact = intPtr(id)
			}
		}

		var jobID *int
		if project := doc.Get("Project"); project != "" {
			job, ok := r.jobByProject[fold(project)]
			if !ok {
				r.rep.Add(&report.ReferenceResolutionError{
					Sheet: doc.Sheet, Row: doc.Line, Ref: project,
					Msg: "project matches no known job",
				})
				continue
			}
			jobID = intPtr(job.ID)
		}

		created := r.parseDate(doc.Row, "Date")
		year := yearOf(created)

		po := &entity.PurchaseOrder{
			ID:          r.alloc.NextID(entity.KindPurchaseOrder),
			PONumber:    r.alloc.Sequence(r.opts.PONumberPrefix, year),
			Business:    intPtr(biz.ID),
			Contact:     contact,
			Job:         jobID,
			Status:      "issued",
			CreatedDate: created,
			IssuedDate:  created,
			SourceRow:   doc.Line,
		}
		r.add(po)

		bill := &entity.Bill{
			ID:                  r.alloc.NextID(entity.KindBill),
			BillNumber:          r.alloc.Sequence(r.opts.BillNumberPrefix, year),
			PurchaseOrder:       po.ID,
			Business:            intPtr(biz.ID),
			Contact:             contact,
			VendorInvoiceNumber: doc.Get("Reference"),
			Status:              "draft",
			CreatedDate:         created,
			DueDate:             r.parseDate(doc.Row, "Due Date"),
			SourceRow:           doc.Line,
		}
		r.add(bill)

		for _, item := range doc.Items {
			qty := r.parseDecimal(item, "Quantity", decimal.NewFromInt(1))
			price := r.parseDecimal(item, "Net Value", decimal.Zero)
			units := item.Get("Item Type")
			if units == "" {
				units = "-no unit-"
			}
			desc := item.Get("Description")

			r.add(&entity.PurchaseOrderLineItem{
				ID:            r.alloc.NextID(entity.KindPurchaseOrderLineItem),
				PurchaseOrder: po.ID,
				Qty:           qty,
				Units:         units,
				Description:   desc,
				Price:         price,
			})
			r.add(&entity.BillLineItem{
				ID:          r.alloc.NextID(entity.KindBillLineItem),
				Bill:        bill.ID,
				Qty:         qty,
				Units:       units,
				Description: desc,
				Price:       price,
			})
		}
	}
}

func (r *Resolver) buildTasks(rows []sheet.Row) {
	for _, row := range rows {
		project := row.Get("Project")
		job, ok := r.jobByProject[fold(project)]
		if !ok {
			r.rep.Add(&report.ReferenceResolutionError{
				Sheet: row.Sheet, Row: row.Line, Ref: project,
				Msg: "project matches no known job",
			})
			continue
		}
		wo, ok := r.workOrderByJob[job.ID]
		if !ok {
			// Cancelled project: no work order, its tasks are dropped.
			r.log.WithFields(map[string]interface{}{"project": project, "row": row.Line}).
				Debug("skipping task of cancelled project")
			continue
		}

		task := &entity.Task{
			ID:        r.alloc.NextID(entity.KindTask),
			WorkOrder: wo.ID,
			Name:      row.Get("Name"),
			Units:     "hours",
			Rate:      r.parseDecimal(row, "Billing Rate", decimal.Zero),
			EstQty:    decimal.Zero,
			SourceRow: row.Line,
		}
		r.add(task)
		r.taskByKey[taskKey{fold(project), fold(task.Name)}] = task
	}
}

// buildEstimates creates one Estimate per container row, all linked to
// the referenced project's job. Contact and organisation columns of this
// sheet are ignored: the job linkage is authoritative. Versioning and
// supersession happen later, on the kept set.
func (r *Resolver) buildEstimates(docs []sheet.Doc) {
	for _, doc := range docs {
		project := doc.Get("Project")
		if project == "" {
			r.rep.Add(&report.ReferenceResolutionError{
				Sheet: doc.Sheet, Row: doc.Line, Ref: doc.Get("Reference"),
				Msg: "estimate references no project",
			})
			continue
		}
		job, ok := r.jobByProject[fold(project)]
		if !ok {
			r.rep.Add(&report.ReferenceResolutionError{
				Sheet: doc.Sheet, Row: doc.Line, Ref: project,
				Msg: "project matches no known job",
			})
			continue
		}

		created := r.parseDate(doc.Row, "Date")
		est := &entity.Estimate{
			ID:              r.alloc.NextID(entity.KindEstimate),
			Job:             job.ID,
			EstimateNumber:  r.alloc.Sequence(r.opts.EstimateNumberPrefix, yearOf(created)),
			Version:         1,
			CreatedDate:     created,
			SourceReference: doc.Get("Reference"),
			SourceStatus:    doc.Get("Status"),
			SourceRow:       doc.Line,
		}
		r.add(est)

		for _, item := range doc.Items {
			r.add(&entity.EstimateLineItem{
				ID:          r.alloc.NextID(entity.KindEstimateLineItem),
				Estimate:    est.ID,
				Qty:         r.parseDecimal(item, "Quantity", decimal.NewFromInt(1)),
				Description: item.Get("Description"),
				Price:       r.parseDecimal(item, "Price", decimal.Zero),
			})
		}
	}
}

func (r *Resolver) buildInvoices(docs []sheet.Doc) {
	for _, doc := range docs {
		// The Projects cell is comma-separated; the first name that
		// resolves is the link.
		var job *entity.Job
		projects := doc.Get("Projects")
		for _, name := range strings.Split(projects, ",") {
			if j, ok := r.jobByProject[fold(name)]; ok {
				job = j
				break
			}
		}
		if job == nil {
			r.rep.Add(&report.ReferenceResolutionError{
				Sheet: doc.Sheet, Row: doc.Line, Ref: projects,
				Msg: "no listed project matches a known job",
			})
			continue
		}

		created := r.parseDate(doc.Row, "Date")
		inv := &entity.Invoice{
			ID:              r.alloc.NextID(entity.KindInvoice),
			Job:             job.ID,
			InvoiceNumber:   r.alloc.Sequence(r.opts.InvoiceNumberPrefix, yearOf(created)),
			CreatedDate:     created,
			SourceReference: doc.Get("Reference"),
			SourceStatus:    doc.Get("Status"),
			SourcePaidDate:  r.parseDate(doc.Row, "Paid Date"),
			SourceRow:       doc.Line,
		}
		r.add(inv)

		for _, item := range doc.Items {
			r.add(&entity.InvoiceLineItem{
				ID:          r.alloc.NextID(entity.KindInvoiceLineItem),
				Invoice:     inv.ID,
				Qty:         r.parseDecimal(item, "Quantity", decimal.NewFromInt(1)),
				Description: item.Get("Description"),
				Price:       r.parseDecimal(item, "Price", decimal.Zero),
			})
		}
	}
}

func (r *Resolver) buildBleps(rows []sheet.Row) {
	author := r.base.TimeEntryAuthor()
	for _, row := range rows {
		project := row.Get("Project")
		taskName := row.Get("Task")

		task, ok := r.taskByKey[taskKey{fold(project), fold(taskName)}]
		if !ok {
			if job, known := r.jobByProject[fold(project)]; known {
				if _, hasWO := r.workOrderByJob[job.ID]; !hasWO {
					// Cancelled project, its tasks were dropped above.
					continue
				}
			}
			r.rep.Add(&report.ReferenceResolutionError{
				Sheet: row.Sheet, Row: row.Line, Ref: taskName,
				Msg: "task matches no known task of project " + project,
			})
			continue
		}

		day, err := types.ParseDate(row.Get("Date"))
		if err != nil || !day.Valid {
			r.rep.Add(&report.ParseError{Sheet: row.Sheet, Row: row.Line, Msg: "timeslip has no usable date"})
			continue
		}
		hours, err := strconv.ParseFloat(row.Get("Hours"), 64)
		if err != nil {
			r.rep.Add(&report.ParseError{Sheet: row.Sheet, Row: row.Line, Msg: "invalid hours " + row.Get("Hours")})
			continue
		}

		// Work is logged as a block starting at 09:00 on the slip date.
		start := day.Time.Add(9 * time.Hour)
		r.add(&entity.Blep{
			ID:        r.alloc.NextID(entity.KindBlep),
			User:      author,
			Task:      task.ID,
			StartTime: types.NewDateTime(start),
			EndTime:   types.NewDateTime(start.Add(time.Duration(hours * float64(time.Hour)))),
		})
	}
}

func (r *Resolver) buildPriceList(rows []sheet.Row) {
	for _, row := range rows {
		price := r.parseDecimal(row, "Price", decimal.Zero)
		r.add(&entity.PriceListItem{
			ID:            r.alloc.NextID(entity.KindPriceListItem),
			Code:          row.Get("Code"),
			Units:         row.Get("Type"),
			Description:   row.Get("Description"),
			PurchasePrice: price,
			SellingPrice:  price,
			QtyOnHand:     r.parseDecimal(row, "Quantity", decimal.NewFromInt(1)),
			QtySold:       decimal.Zero,
			QtyWasted:     decimal.Zero,
			IsActive:      true,
		})
	}
}
