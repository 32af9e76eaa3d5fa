// Package export writes the ledger, payments and expenses of a session to an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
)

// Sheets
const (
	SheetLedger   = "Ledger"
	SheetPayments = "Payments"
	SheetExpenses = "Expenses"
)

var (
	ledgerHeader  = []interface{}{"Student ID", "Name", "Grade", "Expected", "Paid", "Due", "Progress %", "Status"}
	paymentHeader = []interface{}{"Receipt", "Date", "Student ID", "Student", "Fee", "Amount", "Method", "Remarks"}
	expenseHeader = []interface{}{"ID", "Date", "Category", "Description", "Amount"}
)

// Workbook builds the workbook of snap. today drives the ledger statuses.
func Workbook(snap school.Snapshot, today string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetLedger); err != nil {
		return nil, errors.Wrap(err, "naming ledger sheet")
	}
	for _, name := range []string{SheetPayments, SheetExpenses} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, errors.Wrapf(err, "creating %s sheet", name)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	ledgerRows := make([][]interface{}, 0, len(snap.Students))
	for _, st := range snap.Students {
		l := ledger.ForStudent(st, snap.Fees, snap.Payments, today)
		ledgerRows = append(ledgerRows, []interface{}{
			st.ID, st.Name, st.Grade, l.TotalExpected, l.TotalPaid, l.TotalDue,
			fmt.Sprintf("%.1f", l.Progress()), string(l.Status),
		})
	}

	paymentRows := make([][]interface{}, 0, len(snap.Payments))
	for _, p := range snap.Payments {
		feeName := p.FeeStructureID
		if fee, ok := school.FindFee(snap.Fees, p.FeeStructureID); ok {
			feeName = fee.Name
		}
		paymentRows = append(paymentRows, []interface{}{
			p.ID, p.Date, p.StudentID, school.StudentName(snap.Students, p.StudentID), feeName,
			p.AmountPaid, p.Method, p.Remarks,
		})
	}

	expenseRows := make([][]interface{}, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		expenseRows = append(expenseRows, []interface{}{e.ID.String(), e.Date, e.Category, e.Description, e.Amount})
	}

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{SheetLedger, ledgerHeader, ledgerRows},
		{SheetPayments, paymentHeader, paymentRows},
		{SheetExpenses, expenseHeader, expenseRows},
	}
	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.header, sh.rows, bold); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrapf(err, "writing %s header", sheet)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return errors.Wrapf(err, "styling %s header", sheet)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+2)
		}
	}
	return nil
}

// Write streams the workbook of snap to w.
func Write(w io.Writer, snap school.Snapshot, today string) error {
	f, err := Workbook(snap, today)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
