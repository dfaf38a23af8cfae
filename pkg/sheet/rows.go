// Package sheet parses the multi-sheet spreadsheet export into typed
// rows. Row position is load-bearing: composite sheets interleave
// container rows with the line-item rows that belong to them, so nothing
// here ever reorders rows.
package sheet

import (
	"strings"

	"github.com/craftshop-erp/shopdata/pkg/report"
)

// Sheet names of the export. Other sheets in the workbook are ignored.
const (
	SheetContacts  = "Contacts"
	SheetProjects  = "Projects"
	SheetInvoices  = "Invoices"
	SheetEstimates = "Estimates"
	SheetBills     = "Bills"
	SheetTasks     = "Tasks"
	SheetTimeslips = "Timeslips"
	SheetPriceList = "Price List Items"
)

// Row is one spreadsheet row with cells keyed by header text. Line is
// the 1-based row number in the file, kept for error reporting.
type Row struct {
	Sheet string
	Line  int
	cells map[string]string
}

// Get returns the trimmed cell under the given header, or "".
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.cells[col])
}

// Has reports whether the cell is present and non-blank.
func (r Row) Has(col string) bool {
	return r.Get(col) != ""
}

// Doc is a container row of a composite sheet together with the
// line-item rows that immediately follow it, in original order.
type Doc struct {
	Row
	Items []Row
}

// Dataset is the full parsed spreadsheet.
type Dataset struct {
	Contacts  []Row
	Projects  []Row
	Invoices  []Doc
	Estimates []Doc
	Bills     []Doc
	Tasks     []Row
	Timeslips []Row
	PriceList []Row
}

var requiredColumns = map[string][]string{
	SheetContacts:  {"First Name", "Last Name", "Organisation"},
	SheetProjects:  {"Name", "Status"},
	SheetInvoices:  {"Contact Organisation", "Item Type", "Projects"},
	SheetEstimates: {"Reference", "Item Type", "Project"},
	SheetBills:     {"Contact Organisation", "Item Type", "Project"},
	SheetTasks:     {"Project", "Name"},
	SheetTimeslips: {"Project", "Task", "Date", "Hours"},
	SheetPriceList: {"Code", "Description"},
}

// Container-marker columns of the composite sheets. A row with the
// marker populated starts a new document; a row with only item columns
// belongs to the nearest preceding document.
var containerColumn = map[string]string{
	SheetInvoices:  "Contact Organisation",
	SheetEstimates: "Reference",
	SheetBills:     "Contact Organisation",
}

const itemColumn = "Item Type"

// fromGrid converts a raw cell grid (header row first) into Rows,
// checking the required headers. Blank rows are dropped.
func fromGrid(name string, grid [][]string, rep *report.Report) []Row {
	if len(grid) == 0 {
		return nil
	}
	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	for _, req := range requiredColumns[name] {
		if _, ok := have[req]; !ok {
			rep.Add(&report.ParseError{Sheet: name, Msg: "missing required column " + req})
			return nil
		}
	}

	rows := make([]Row, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		r := Row{Sheet: name, Line: i + 2, cells: make(map[string]string, len(header))}
		blank := true
		for j, h := range header {
			if h == "" || j >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[j])
			if v != "" {
				blank = false
			}
			r.cells[h] = v
		}
		if !blank {
			rows = append(rows, r)
		}
	}
	return rows
}

// groupComposite splits a composite sheet into documents. Grouping is
// purely positional; a line-item row before any container row is a
// parse error.
func groupComposite(name string, rows []Row, rep *report.Report) []Doc {
	var docs []Doc
	marker := containerColumn[name]

	for _, row := range rows {
		switch {
		case row.Has(marker):
			docs = append(docs, Doc{Row: row})
		case row.Has(itemColumn):
			if len(docs) == 0 {
				rep.Add(&report.ParseError{
					Sheet: name,
					Row:   row.Line,
					Msg:   "line-item row with no preceding container row",
				})
				continue
			}
			last := &docs[len(docs)-1]
			last.Items = append(last.Items, row)
		}
	}
	return docs
}

// NewRow builds a Row directly from cell values; tests and the pipeline
// fixtures use it to avoid going through a workbook file.
func NewRow(sheetName string, line int, cells map[string]string) Row {
	m := make(map[string]string, len(cells))
	for k, v := range cells {
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return Row{Sheet: sheetName, Line: line, cells: m}
}

// GroupComposite is the grouping step exposed for datasets assembled
// from in-memory rows.
func GroupComposite(name string, rows []Row, rep *report.Report) []Doc {
	return groupComposite(name, rows, rep)
}
