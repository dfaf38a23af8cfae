package rules

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/graph"
)

const statusSuperseded = "superseded"

// Job names are capped at 50 chars downstream.
const maxJobNameLen = 50

// Version suffixes: "-v1", "V2", "rev2", "_r3"... A bare "r" marker
// needs a separator so names that merely end in r+digits don't parse as
// revisions.
var revisionPattern = regexp.MustCompile(`(?i)^(.*?)(?:[\s_-](?:rev|r|v)|(?:rev|v))(\d+)$`)

// ParseRevision splits a reference into its base name and revision
// number. References without a suffix are revision 1.
func ParseRevision(reference string) (base string, revision int, hasSuffix bool) {
	m := revisionPattern.FindStringSubmatch(strings.TrimSpace(reference))
	if m == nil {
		return strings.TrimSpace(reference), 1, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return strings.TrimSpace(reference), 1, false
	}
	return strings.TrimSpace(m[1]), n, true
}

type revision struct {
	est       *entity.Estimate
	version   int
	hasSuffix bool
}

type refGroup struct {
	base      string
	revisions []revision
}

// applyVersioning handles multi-estimate jobs on the kept set. Revisions
// sharing a base name are chained and all but the highest marked
// superseded. Estimates with unrelated names get their own cloned job so
// every job ends up with exactly one estimate lineage.
func (e *Engine) applyVersioning() {
	byJob := make(map[int][]*entity.Estimate)
	var jobOrder []int
	for _, ent := range e.kept(entity.KindEstimate) {
		est := ent.(*entity.Estimate)
		if _, seen := byJob[est.Job]; !seen {
			jobOrder = append(jobOrder, est.Job)
		}
		byJob[est.Job] = append(byJob[est.Job], est)
	}

	for _, jobID := range jobOrder {
		e.versionJob(jobID, byJob[jobID])
	}
}

func (e *Engine) versionJob(jobID int, ests []*entity.Estimate) {
	groups := groupRevisions(ests)
	if len(groups) == 0 {
		return
	}

	// The earliest group stays on the original job; every further group
	// is an unrelated estimate lineage and gets a cloned job.
	for i, grp := range groups {
		if i > 0 {
			if clone := e.cloneJob(jobID, grp.base); clone != nil {
				for _, rev := range grp.revisions {
					rev.est.Job = clone.ID
				}
			}
		}
		e.applySupersession(grp)
	}
}

// groupRevisions buckets estimates by folded base name. A bucket whose
// members all lack a version suffix is not a revision chain: its
// estimates are unrelated and become singleton groups. Groups come out
// ordered by earliest estimate date, id as tiebreak.
func groupRevisions(ests []*entity.Estimate) []refGroup {
	type bucket struct {
		base      string
		revisions []revision
		anySuffix bool
	}
	byBase := make(map[string]*bucket)
	var order []*bucket

	for _, est := range ests {
		base, ver, hasSuffix := ParseRevision(est.SourceReference)
		key := strings.ToLower(base)
		b, ok := byBase[key]
		if !ok {
			b = &bucket{base: base}
			byBase[key] = b
			order = append(order, b)
		}
		b.revisions = append(b.revisions, revision{est: est, version: ver, hasSuffix: hasSuffix})
		b.anySuffix = b.anySuffix || hasSuffix
	}

	var groups []refGroup
	for _, b := range order {
		if len(b.revisions) > 1 && !b.anySuffix {
			// No suffix anywhere: unrelated estimates, one group each.
			for _, rev := range b.revisions {
				groups = append(groups, refGroup{base: b.base, revisions: []revision{rev}})
			}
			continue
		}
		groups = append(groups, refGroup{base: b.base, revisions: b.revisions})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		di, ii := groupKey(groups[i])
		dj, ij := groupKey(groups[j])
		if di != dj {
			return di < dj
		}
		return ii < ij
	})
	return groups
}

func groupKey(g refGroup) (minDate, minID int64) {
	minDate = int64(1) << 62
	minID = int64(1) << 62
	for _, rev := range g.revisions {
		if rev.est.CreatedDate.Valid {
			if u := rev.est.CreatedDate.Time.Unix(); u < minDate {
				minDate = u
			}
		} else {
			minDate = 0 // undated sorts first, like the source data
		}
		if id := int64(rev.est.ID); id < minID {
			minID = id
		}
	}
	return minDate, minID
}

// applySupersession sorts a revision chain by suffix number, dates as
// tiebreak, and marks everything below the top as superseded, chaining
// parent links oldest to newest. The top revision keeps its mapped
// status (assigned afterwards).
func (e *Engine) applySupersession(grp refGroup) {
	revs := grp.revisions
	sort.SliceStable(revs, func(i, j int) bool {
		if revs[i].version != revs[j].version {
			return revs[i].version < revs[j].version
		}
		if revs[i].est.CreatedDate.Valid && revs[j].est.CreatedDate.Valid &&
			!revs[i].est.CreatedDate.Time.Equal(revs[j].est.CreatedDate.Time) {
			return revs[i].est.CreatedDate.Time.Before(revs[j].est.CreatedDate.Time)
		}
		return revs[i].est.ID < revs[j].est.ID
	})

	for i, rev := range revs {
		rev.est.Version = rev.version
		if i > 0 {
			rev.est.Parent = &revs[i-1].est.ID
		}
		if i < len(revs)-1 {
			rev.est.Status = statusSuperseded
		}
	}
}

// cloneJob copies a job for an extra estimate lineage: every field but
// the estimate link, plus a fresh id, job number, name suffix, and a
// back-reference in the description. A work order is cloned too unless
// the source project was cancelled.
func (e *Engine) cloneJob(jobID int, baseRef string) *entity.Job {
	ent, ok := e.arena.Get(entity.Ref{Kind: entity.KindJob, ID: jobID})
	if !ok {
		return nil
	}
	orig := ent.(*entity.Job)

	year := fallbackJobYear
	if orig.CreatedDate.Valid {
		year = orig.CreatedDate.Time.Year()
	}

	clone := *orig
	clone.ID = e.alloc.NextID(entity.KindJob)
	clone.JobNumber = e.alloc.Sequence(e.opts.JobNumberPrefix, year)
	clone.Name = cloneName(orig.Name, baseRef)
	clone.Description = "Related to Job " + orig.JobNumber + ". " + orig.Description

	if err := e.arena.Add(&clone); err != nil {
		e.log.WithError(err).Error("job clone collision")
		return nil
	}
	e.rt.Keep(clone.Ref(), graph.ReasonReachable)

	if !strings.EqualFold(clone.SourceStatus, "cancelled") {
		wo := &entity.WorkOrder{
			ID:     e.alloc.NextID(entity.KindWorkOrder),
			Job:    clone.ID,
			Status: "draft",
		}
		if clone.Status == "completed" {
			wo.Status = "complete"
		}
		if err := e.arena.Add(wo); err == nil {
			e.rt.Keep(wo.Ref(), graph.ReasonReachable)
		}
	}

	e.log.WithFields(logrus.Fields{
		"job":      orig.Name,
		"estimate": baseRef,
		"clone":    clone.JobNumber,
	}).Info("cloned job for unrelated estimate")
	return &clone
}

const fallbackJobYear = 2025

func cloneName(original, baseRef string) string {
	suffix := " - Est " + baseRef
	maxBase := maxJobNameLen - len(suffix)
	if maxBase < 0 {
		return suffix[:maxJobNameLen]
	}
	if len(original) > maxBase {
		original = original[:maxBase]
	}
	return original + suffix
}
