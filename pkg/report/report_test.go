package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReport_Render(t *testing.T) {
	t.Parallel()

	rep := New()
	require.False(t, rep.HasErrors())

	rep.Add(&ParseError{Sheet: "Projects", Row: 4, Msg: "project has no name"})
	rep.Add(&ValidationError{Entity: "jobs.job Mystery", Field: "status", Value: "On Hold"})

	require.True(t, rep.HasErrors())
	require.Equal(t, 2, rep.Len())

	var sb strings.Builder
	rep.Render(&sb)
	out := sb.String()
	require.Contains(t, out, "conversion failed with 2 error(s)")
	require.Contains(t, out, "parse: Projects row 4: project has no name")
	require.Contains(t, out, `no mapping for status "On Hold"`)
}

func TestErrorStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		`unresolved reference: Bills row 7: "Ghost Corp": organisation matches no known business`,
		(&ReferenceResolutionError{Sheet: "Bills", Row: 7, Ref: "Ghost Corp", Msg: "organisation matches no known business"}).Error())

	require.Equal(t,
		`ambiguous reference: Bills row 8: "acme" matches Acme, ACME`,
		(&AmbiguousReferenceError{Sheet: "Bills", Row: 8, Ref: "acme", Candidates: []string{"Acme", "ACME"}}).Error())

	require.Equal(t,
		"integrity: duplicate surrogate id 3 for contacts.contact",
		(&IntegrityError{Msg: "duplicate surrogate id 3 for contacts.contact"}).Error())
}
