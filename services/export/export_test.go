package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/feedesk/core/school"
)

func TestWrite(t *testing.T) {
	snap := school.Snapshot{
		Session: "2024-2025",
		Fees:    []school.FeeStructure{{ID: "F1", Name: "Tuition Fee", Amount: 1000, DueDate: "2099-01-01"}},
		Students: []school.Student{
			{ID: "ST001", Name: "Amani", Grade: "Class 5", FeeStructureIDs: []string{"F1"}},
			{ID: "ST002", Name: "Grace", Grade: "Class 3", FeeStructureIDs: []string{"F1"}},
		},
		Payments: []school.Payment{
			{ID: "PAY1", StudentID: "ST001", FeeStructureID: "F1", AmountPaid: 1000, Date: "2024-10-01", Method: "Cash"},
			{ID: "PAY2", StudentID: "ST404", FeeStructureID: "F9", AmountPaid: 50, Date: "2024-10-02", Method: "Cash"},
		},
		Expenses: []school.Expense{{ID: "1727740800000", Category: "Rent", Amount: 300, Date: "2024-10-01"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap, "2024-10-15"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{SheetLedger, SheetPayments, SheetExpenses}, f.GetSheetList())

	rows, err := f.GetRows(SheetLedger)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Student ID", rows[0][0])
	assert.Equal(t, []string{"ST001", "Amani", "Class 5", "1000", "1000", "0", "100.0", "PAID"}, rows[1])
	assert.Equal(t, "PENDING", rows[2][7])

	rows, err = f.GetRows(SheetPayments)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Tuition Fee", rows[1][4])
	assert.Equal(t, "Unknown", rows[2][3])
	assert.Equal(t, "F9", rows[2][4])

	rows, err = f.GetRows(SheetExpenses)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1727740800000", "2024-10-01", "Rent", "", "300"}, rows[1])
}
