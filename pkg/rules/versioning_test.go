package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/graph"
	"github.com/craftshop-erp/shopdata/pkg/ident"
	"github.com/craftshop-erp/shopdata/pkg/logging"
	"github.com/craftshop-erp/shopdata/pkg/report"
	"github.com/craftshop-erp/shopdata/pkg/types"
)

var cutoff = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

func date(s string) types.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return types.NewDate(t)
}

func intp(v int) *int { return &v }

func mustAdd(t *testing.T, a *entity.Arena, es ...entity.Entity) {
	t.Helper()
	for _, e := range es {
		require.NoError(t, a.Add(e))
	}
}

// newTestEngine prunes the arena (jobs with documents are roots) and
// returns an engine over the surviving set. Allocator counters start
// above the hand-assigned test ids.
func newTestEngine(t *testing.T, a *entity.Arena) (*Engine, *graph.Retention, *report.Report) {
	t.Helper()
	rt := graph.Prune(a, graph.Build(a), cutoff, noExceptions(t), logging.New("silent"))
	rep := report.New()
	alloc := ident.New(map[string]int{
		"jobs.job":       100,
		"jobs.workorder": 100,
	})
	e := New(Options{JobNumberPrefix: "J"}, a, alloc, rt, rep, logging.New("silent"))
	return e, rt, rep
}

func noExceptions(t *testing.T) *graph.Exceptions {
	t.Helper()
	exc, err := graph.LoadExceptions("")
	require.NoError(t, err)
	return exc
}

func baseArena(t *testing.T) *entity.Arena {
	t.Helper()
	a := entity.NewArena()
	mustAdd(t, a,
		&entity.Business{ID: 1, BusinessName: "Acme"},
		&entity.Contact{ID: 1, Name: "Ann Lee", Business: intp(1), IsDefault: true},
	)
	return a
}

func TestParseRevision(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in     string
		base   string
		rev    int
		suffix bool
	}{
		{"Kitchen-v1", "Kitchen", 1, true},
		{"Kitchen V2", "Kitchen", 2, true},
		{"Kitchen rev2", "Kitchen", 2, true},
		{"EST_r3", "EST", 3, true},
		{"Quote", "Quote", 1, false},
		// A bare trailing r+digits is part of the name, not a revision.
		{"Shutter2", "Shutter2", 1, false},
		{"EST123", "EST123", 1, false},
	} {
		base, rev, suffix := ParseRevision(tc.in)
		require.Equal(t, tc.base, base, tc.in)
		require.Equal(t, tc.rev, rev, tc.in)
		require.Equal(t, tc.suffix, suffix, tc.in)
	}
}

func TestApply_SupersedesRevisionChain(t *testing.T) {
	t.Parallel()

	a := baseArena(t)
	job := &entity.Job{ID: 1, Name: "Kitchen refit", Contact: 1, SourceStatus: "Active", CreatedDate: date("2025-01-01")}
	v1 := &entity.Estimate{ID: 1, Job: 1, Version: 1, SourceReference: "Kitchen-v1", SourceStatus: "Rejected", CreatedDate: date("2025-01-05")}
	v2 := &entity.Estimate{ID: 2, Job: 1, Version: 1, SourceReference: "Kitchen-v2", SourceStatus: "Approved", CreatedDate: date("2025-02-10")}
	mustAdd(t, a, job, v1, v2)

	e, rt, rep := newTestEngine(t, a)
	e.Apply()

	require.False(t, rep.HasErrors(), "%v", rep.Errors())

	require.Equal(t, 1, v1.Version)
	require.Equal(t, statusSuperseded, v1.Status)
	require.False(t, v1.SentDate.Valid)

	require.Equal(t, 2, v2.Version)
	require.Equal(t, "accepted", v2.Status)
	require.Equal(t, v2.CreatedDate, v2.SentDate)
	require.NotNil(t, v2.Parent)
	require.Equal(t, v1.ID, *v2.Parent)
	require.Nil(t, v1.Parent)

	// Both revisions stay on the original job; no clone appears.
	require.Len(t, a.OfKind(entity.KindJob), 1)
	_ = rt
}

func TestApply_ClonesJobForUnrelatedEstimate(t *testing.T) {
	t.Parallel()

	a := baseArena(t)
	job := &entity.Job{
		ID: 1, Name: "Kitchen refit", JobNumber: "J2025-0007", Contact: 1,
		SourceStatus: "Active", CreatedDate: date("2025-01-01"), Description: "Back door too.",
	}
	wo := &entity.WorkOrder{ID: 1, Job: 1}
	first := &entity.Estimate{ID: 1, Job: 1, Version: 1, SourceReference: "Kitchen", SourceStatus: "Draft", CreatedDate: date("2025-01-05")}
	second := &entity.Estimate{ID: 2, Job: 1, Version: 1, SourceReference: "Bathroom", SourceStatus: "Sent", CreatedDate: date("2025-03-01")}
	mustAdd(t, a, job, wo, first, second)

	e, rt, rep := newTestEngine(t, a)
	e.Apply()

	require.False(t, rep.HasErrors(), "%v", rep.Errors())

	jobs := a.OfKind(entity.KindJob)
	require.Len(t, jobs, 2)
	clone := jobs[1].(*entity.Job)
	require.True(t, rt.Kept(clone.Ref()))
	require.Equal(t, "Kitchen refit - Est Bathroom", clone.Name)
	require.Equal(t, "Related to Job J2025-0007. Back door too.", clone.Description)
	require.NotEqual(t, job.JobNumber, clone.JobNumber)
	require.Regexp(t, `^J2025-\d{4}$`, clone.JobNumber)
	require.Equal(t, job.Contact, clone.Contact)

	// The later estimate moved to the clone; neither is superseded.
	require.Equal(t, 1, first.Job)
	require.Equal(t, clone.ID, second.Job)
	require.Equal(t, "draft", first.Status)
	require.Equal(t, "open", second.Status)

	// The clone got its own work order.
	wos := a.OfKind(entity.KindWorkOrder)
	require.Len(t, wos, 2)
	require.Equal(t, clone.ID, wos[1].(*entity.WorkOrder).Job)
	require.True(t, rt.Kept(wos[1].Ref()))
}

func TestApply_UnsuffixedDuplicatesAreUnrelated(t *testing.T) {
	t.Parallel()

	a := baseArena(t)
	job := &entity.Job{ID: 1, Name: "Kitchen refit", JobNumber: "J2025-0007", Contact: 1, SourceStatus: "Active", CreatedDate: date("2025-01-01")}
	first := &entity.Estimate{ID: 1, Job: 1, Version: 1, SourceReference: "Kitchen", SourceStatus: "Draft", CreatedDate: date("2025-01-05")}
	second := &entity.Estimate{ID: 2, Job: 1, Version: 1, SourceReference: "Kitchen", SourceStatus: "Draft", CreatedDate: date("2025-02-05")}
	mustAdd(t, a, job, first, second)

	e, _, rep := newTestEngine(t, a)
	e.Apply()

	require.False(t, rep.HasErrors(), "%v", rep.Errors())
	require.Len(t, a.OfKind(entity.KindJob), 2)
	require.NotEqual(t, first.Job, second.Job)
	require.NotEqual(t, statusSuperseded, first.Status)
	require.NotEqual(t, statusSuperseded, second.Status)
}

func TestCloneName_Truncation(t *testing.T) {
	t.Parallel()

	long := "An extremely long project name that will not fit at all"
	got := cloneName(long, "Change order")
	require.LessOrEqual(t, len(got), maxJobNameLen)
	require.Contains(t, got, " - Est Change order")
}
