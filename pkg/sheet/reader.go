package sheet

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/craftshop-erp/shopdata/pkg/report"
)

// Load reads the workbook and parses every relevant sheet. A sheet
// missing from the workbook is read as empty with a warning, matching
// the source exporter's occasional omission of unused sheets. Shape
// errors are collected into rep; only failure to open or read the file
// itself is returned.
func Load(path string, log *logrus.Logger, rep *report.Report) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer func() { _ = f.Close() }()

	read := func(name string) ([]Row, error) {
		idx, err := f.GetSheetIndex(name)
		if err != nil || idx < 0 {
			log.WithField("sheet", name).Warn("sheet not found in workbook")
			return nil, nil
		}
		grid, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %s", name)
		}
		rows := fromGrid(name, grid, rep)
		log.WithFields(logrus.Fields{"sheet": name, "rows": len(rows)}).Debug("sheet loaded")
		return rows, nil
	}

	ds := &Dataset{}
	simple := []struct {
		name string
		dst  *[]Row
	}{
		{SheetContacts, &ds.Contacts},
		{SheetProjects, &ds.Projects},
		{SheetTasks, &ds.Tasks},
		{SheetTimeslips, &ds.Timeslips},
		{SheetPriceList, &ds.PriceList},
	}
	for _, s := range simple {
		rows, err := read(s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = rows
	}

	composite := []struct {
		name string
		dst  *[]Doc
	}{
		{SheetInvoices, &ds.Invoices},
		{SheetEstimates, &ds.Estimates},
		{SheetBills, &ds.Bills},
	}
	for _, s := range composite {
		rows, err := read(s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = groupComposite(s.name, rows, rep)
	}

	return ds, nil
}
