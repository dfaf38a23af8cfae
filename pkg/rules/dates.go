package rules

import (
	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/types"
)

// deriveJobDates fills the job date fields in fixed precedence. Runs
// after versioning so cloned jobs and re-linked estimates are in place
// and every estimate carries its version number.
//
//	created_date:   the row's Created Date.
//	start_date:     explicit Starts On; else the v1 estimate date when
//	                approved; else created_date when completed with no
//	                estimates; else null.
//	due_date:       explicit Ends On or null.
//	completed_date: null when approved, else the row's Updated Date.
func (e *Engine) deriveJobDates() {
	v1Dates := make(map[int]types.Date)
	hasEstimates := make(map[int]bool)
	for _, ent := range e.kept(entity.KindEstimate) {
		est := ent.(*entity.Estimate)
		hasEstimates[est.Job] = true
		if est.Version != 1 || !est.CreatedDate.Valid {
			continue
		}
		if cur, ok := v1Dates[est.Job]; !ok || est.CreatedDate.Time.Before(cur.Time) {
			v1Dates[est.Job] = est.CreatedDate
		}
	}

	for _, ent := range e.kept(entity.KindJob) {
		job := ent.(*entity.Job)

		start := job.SourceStarts
		if !start.Valid && job.Status == "approved" {
			if v1, ok := v1Dates[job.ID]; ok {
				start = v1
			}
		}
		if !start.Valid && job.Status == "completed" && !hasEstimates[job.ID] {
			start = job.CreatedDate
		}
		job.StartDate = start

		job.DueDate = job.SourceEnds

		if job.Status == "approved" {
			job.CompletedDate = types.Date{}
		} else {
			job.CompletedDate = job.SourceUpdated
		}
	}
}
