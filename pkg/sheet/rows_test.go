package sheet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftshop-erp/shopdata/pkg/report"
)

func TestFromGrid_MissingRequiredColumn(t *testing.T) {
	t.Parallel()

	rep := report.New()
	rows := fromGrid(SheetProjects, [][]string{
		{"Name", "Notes"},
		{"Kitchen refit", "x"},
	}, rep)

	require.Nil(t, rows)
	require.True(t, rep.HasErrors())
}

func TestFromGrid_DropsBlankRowsAndTrims(t *testing.T) {
	t.Parallel()

	rep := report.New()
	rows := fromGrid(SheetProjects, [][]string{
		{"Name", "Status "},
		{" Kitchen refit ", "Active"},
		{"", ""},
		{"Garage door", "Completed"},
	}, rep)

	require.False(t, rep.HasErrors())
	require.Len(t, rows, 2)
	require.Equal(t, "Kitchen refit", rows[0].Get("Name"))
	require.Equal(t, "Active", rows[0].Get("Status"))
	// Line numbers count from the header row.
	require.Equal(t, 2, rows[0].Line)
	require.Equal(t, 4, rows[1].Line)
}

func TestGroupComposite_PositionalGrouping(t *testing.T) {
	t.Parallel()

	rep := report.New()
	rows := []Row{
		NewRow(SheetInvoices, 2, map[string]string{"Contact Organisation": "Acme", "Reference": "INV-1"}),
		NewRow(SheetInvoices, 3, map[string]string{"Item Type": "Service", "Description": "labour"}),
		NewRow(SheetInvoices, 4, map[string]string{"Item Type": "Product", "Description": "paint"}),
		NewRow(SheetInvoices, 5, map[string]string{"Contact Organisation": "Beta Ltd", "Reference": "INV-2"}),
		NewRow(SheetInvoices, 6, map[string]string{"Item Type": "Service", "Description": "fitting"}),
	}

	docs := GroupComposite(SheetInvoices, rows, rep)
	require.False(t, rep.HasErrors())
	require.Len(t, docs, 2)
	require.Len(t, docs[0].Items, 2)
	require.Len(t, docs[1].Items, 1)
	require.Equal(t, "paint", docs[0].Items[1].Get("Description"))
}

func TestGroupComposite_OrphanItemRow(t *testing.T) {
	t.Parallel()

	rep := report.New()
	rows := []Row{
		NewRow(SheetBills, 2, map[string]string{"Item Type": "Product", "Description": "timber"}),
	}

	docs := GroupComposite(SheetBills, rows, rep)
	require.Empty(t, docs)
	require.True(t, rep.HasErrors())
	require.Contains(t, rep.Errors()[0].Error(), "no preceding container row")
}
