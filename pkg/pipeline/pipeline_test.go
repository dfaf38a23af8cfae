package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/craftshop-erp/shopdata/pkg/configuration"
	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/logging"
	"github.com/craftshop-erp/shopdata/pkg/report"
)

func testConfig() *configuration.Configuration {
	return &configuration.Configuration{
		RetentionCutoff:      "2025-10-01",
		DefaultCountryCode:   "US",
		JobNumberPrefix:      "J",
		EstimateNumberPrefix: "EST",
		InvoiceNumberPrefix:  "INV",
		PONumberPrefix:       "PO",
		BillNumberPrefix:     "B",
		LogLevel:             "silent",
	}
}

// writeWorkbook builds a small but complete export: one active project
// with documents on every sheet, plus a stale cancelled one.
func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheets := map[string][][]interface{}{
		"Contacts": {
			{"First Name", "Last Name", "Organisation", "Email", "Phone Number"},
			{"Ann", "Lee", "Acme Joinery", "ann@acme.test", "555-0100"},
		},
		"Projects": {
			{"Name", "Client Organisation", "Client Name", "Status", "Created Date", "Updated Date", "Starts On", "Ends On", "Notes"},
			{"Garage door", "Acme Joinery", "Ann Lee", "Active", "2025-11-01", "2025-11-10", "", "", "Side entrance."},
			{"Old shed", "Acme Joinery", "Ann Lee", "Cancelled", "2023-04-01", "2023-05-01", "", "", ""},
		},
		"Invoices": {
			{"Contact Organisation", "Reference", "Projects", "Date", "Status", "Paid Date", "Item Type", "Description", "Quantity", "Price"},
			{"Acme Joinery", "0042", "Garage door", "2025-11-12", "Sent", "", "", "", "", ""},
			{"", "", "", "", "", "", "Service", "fitting", "2", "45.50"},
		},
		"Estimates": {
			{"Reference", "Project", "Date", "Status", "Item Type", "Description", "Quantity", "Price"},
			{"Garage-v1", "Garage door", "2025-11-02", "Rejected", "", "", "", ""},
			{"", "", "", "", "Service", "labour", "8", "60"},
			{"Garage-v2", "Garage door", "2025-11-05", "Approved", "", "", "", ""},
			{"", "", "", "", "Service", "labour", "6", "60"},
		},
		"Bills": {
			{"Contact Organisation", "Reference", "Project", "Date", "Due Date", "Contact Name", "Item Type", "Description", "Quantity", "Net Value"},
			{"Acme Joinery", "SUP-77", "Garage door", "2025-11-03", "2025-12-03", "Ann Lee", "", "", "", ""},
			{"", "", "", "", "", "", "Product", "hinges", "4", "3.25"},
		},
		"Tasks": {
			{"Project", "Name", "Billing Rate"},
			{"Garage door", "Fitting", "60"},
		},
		"Timeslips": {
			{"Project", "Task", "Date", "Hours"},
			{"Garage door", "Fitting", "2025-11-06", "2.5"},
		},
		"Price List Items": {
			{"Code", "Type", "Description", "Quantity", "Price"},
			{"PLY-18", "Sheet", "18mm plywood", "10", "28.00"},
		},
	}

	for _, name := range []string{"Contacts", "Projects", "Invoices", "Estimates", "Bills", "Tasks", "Timeslips", "Price List Items"} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	require.NoError(t, f.SaveAs(path))
}

func writeBase(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"model": "core.user", "pk": 1, "fields": {"is_superuser": true, "is_staff": true}},
  {"model": "core.user", "pk": 2, "fields": {"is_superuser": false, "is_staff": false}},
  {"model": "contacts.contact", "pk": 40, "fields": {"name": "Seed Contact"}}
]`), 0o644))
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	base := filepath.Join(dir, "base.json")
	output := filepath.Join(dir, "out.json")
	writeWorkbook(t, input)
	writeBase(t, base)

	rep := report.New()
	res, err := Run(Options{
		InputPath:  input,
		OutputPath: output,
		BasePath:   base,
	}, testConfig(), rep, logging.New("silent"))
	require.NoError(t, err)
	require.False(t, rep.HasErrors(), "%v", rep.Errors())
	require.True(t, res.Wrote)
	require.Equal(t, 3, res.Base)

	require.Equal(t, 1, res.Counts[entity.KindJob].Kept)
	require.Equal(t, 1, res.Counts[entity.KindJob].Pruned)
	require.Equal(t, 2, res.Counts[entity.KindEstimate].Kept)
	require.Equal(t, 1, res.Counts[entity.KindInvoice].Kept)
	require.Equal(t, 1, res.Counts[entity.KindBill].Kept)
	require.Equal(t, 1, res.Counts[entity.KindPriceListItem].Kept)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var records []struct {
		Model  string          `json:"model"`
		PK     json.RawMessage `json:"pk"`
		Fields map[string]any  `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(data, &records))

	// Base records pass through at the front.
	require.Equal(t, "core.user", records[0].Model)

	byModel := make(map[string][]map[string]any)
	for _, r := range records {
		byModel[r.Model] = append(byModel[r.Model], r.Fields)
	}

	jobs := byModel["jobs.job"]
	require.Len(t, jobs, 1)
	require.Equal(t, "Garage door", jobs[0]["name"])
	require.Equal(t, "J2025-0001", jobs[0]["job_number"])
	require.Equal(t, "approved", jobs[0]["status"])
	// Approved with no Starts On: start date comes from the v1 estimate.
	require.Equal(t, "2025-11-02", jobs[0]["start_date"])
	require.Nil(t, jobs[0]["completed_date"])

	ests := byModel["jobs.estimate"]
	require.Len(t, ests, 2)
	require.Equal(t, "superseded", ests[0]["status"])
	require.Equal(t, "accepted", ests[1]["status"])
	require.Equal(t, float64(2), ests[1]["version"])
	require.NotNil(t, ests[1]["parent"])

	invs := byModel["invoicing.invoice"]
	require.Len(t, invs, 1)
	require.Equal(t, "INV2025-0001", invs[0]["invoice_number"])
	require.Equal(t, "open", invs[0]["status"])

	// Line items keep decimal strings exact.
	items := byModel["invoicing.invoicelineitem"]
	require.Len(t, items, 1)
	require.Equal(t, "45.5", items[0]["price"])
	require.Equal(t, float64(1), items[0]["line_number"])

	// Seed pk 40 pushes new contact ids above it.
	contacts := byModel["contacts.contact"]
	require.Len(t, contacts, 2) // seed passthrough + Ann
	require.Equal(t, "Ann Lee", contacts[1]["name"])

	// Time entries use the lowest-privilege base user.
	bleps := byModel["jobs.blep"]
	require.Len(t, bleps, 1)
	require.Equal(t, float64(2), bleps[0]["user"])
	require.Equal(t, "2025-11-06T09:00:00", bleps[0]["start_time"])
	require.Equal(t, "2025-11-06T11:30:00", bleps[0]["end_time"])

	// PO/Bill pair from the Bills sheet.
	require.Len(t, byModel["purchasing.purchaseorder"], 1)
	bills := byModel["purchasing.bill"]
	require.Len(t, bills, 1)
	require.Equal(t, "SUP-77", bills[0]["vendor_invoice_number"])
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	base := filepath.Join(dir, "base.json")
	writeWorkbook(t, input)
	writeBase(t, base)

	run := func(out string) []byte {
		rep := report.New()
		_, err := Run(Options{InputPath: input, OutputPath: out, BasePath: base}, testConfig(), rep, logging.New("silent"))
		require.NoError(t, err)
		require.False(t, rep.HasErrors(), "%v", rep.Errors())
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		return data
	}

	first := run(filepath.Join(dir, "out1.json"))
	second := run(filepath.Join(dir, "out2.json"))
	require.Equal(t, first, second)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	output := filepath.Join(dir, "out.json")
	writeWorkbook(t, input)

	rep := report.New()
	res, err := Run(Options{InputPath: input, OutputPath: output, DryRun: true}, testConfig(), rep, logging.New("silent"))
	require.NoError(t, err)
	require.False(t, rep.HasErrors(), "%v", rep.Errors())
	require.False(t, res.Wrote)
	_, statErr := os.Stat(output)
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_ValidationErrorsBlockOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	output := filepath.Join(dir, "out.json")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Name", "Client Organisation", "Client Name", "Status", "Created Date"},
		{"Orphan project", "Nobody Ltd", "No One", "Active", "2025-11-01"},
	}
	_, err := f.NewSheet("Projects")
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Projects", cell, &row))
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	require.NoError(t, f.SaveAs(input))
	require.NoError(t, f.Close())

	rep := report.New()
	res, err := Run(Options{InputPath: input, OutputPath: output}, testConfig(), rep, logging.New("silent"))
	require.NoError(t, err)
	require.True(t, rep.HasErrors())
	require.False(t, res.Wrote)
	_, statErr := os.Stat(output)
	require.True(t, os.IsNotExist(statErr))
}
