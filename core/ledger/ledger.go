// Package ledger derives the financial standing of students from the fee catalog and the
// payment records. Every function is pure.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
)

type Status string

const (
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
	StatusPartial Status = "PARTIAL"
	StatusPending Status = "PENDING"
)

// FeeLine is the standing of one assigned fee.
type FeeLine struct {
	Fee             school.FeeStructure `json:"fee"`
	EffectiveAmount float64             `json:"effectiveAmount"`
	Paid            float64             `json:"paid"`
	Balance         float64             `json:"balance"`
	Status          Status              `json:"status"`
}

type StudentLedger struct {
	StudentID     string    `json:"studentId"`
	TotalExpected float64   `json:"totalExpected"`
	TotalPaid     float64   `json:"totalPaid"`
	TotalDue      float64   `json:"totalDue"`
	Percentage    float64   `json:"percentage"`
	Status        Status    `json:"status"`
	Lines         []FeeLine `json:"lines"`
}

// Progress is the completion percentage clamped to [0,100].
func (l StudentLedger) Progress() float64 {
	return ClampPercent(l.Percentage)
}

func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// EffectiveAmount is what student owes for the fee at position index of its FeeStructureIDs.
// Only position 0 can be overridden by TotalClassFees.
func EffectiveAmount(st school.Student, index int, fee school.FeeStructure) float64 {
	if index == 0 && st.HasOverride() {
		return st.TotalClassFees.Float64
	}
	return fee.Amount
}

func effectiveAmount(st school.Student, index int, fee school.FeeStructure) decimal.Decimal {
	return decimal.NewFromFloat(EffectiveAmount(st, index, fee))
}

func totalExpected(st school.Student, fees []school.FeeStructure) decimal.Decimal {
	total := decimal.Zero
	for i, id := range st.FeeStructureIDs {
		fee, ok := school.FindFee(fees, id)
		if !ok {
			continue // no cascade on catalog deletes
		}
		total = total.Add(effectiveAmount(st, i, fee))
	}
	return total.Add(decimal.NewFromFloat(st.BackFeesAmount()))
}

func totalPaid(studentID string, payments []school.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.StudentID == studentID {
			total = total.Add(decimal.NewFromFloat(p.AmountPaid))
		}
	}
	return total
}

// TotalExpected sums the effective amounts of every assigned fee found in the catalog, plus back fees.
func TotalExpected(st school.Student, fees []school.FeeStructure) float64 {
	return totalExpected(st, fees).InexactFloat64()
}

// TotalPaid sums every payment of the student whatever fee it targets.
func TotalPaid(st school.Student, payments []school.Payment) float64 {
	return totalPaid(st.ID, payments).InexactFloat64()
}

// TotalDue is never negative; overpayments are absorbed.
func TotalDue(st school.Student, fees []school.FeeStructure, payments []school.Payment) float64 {
	return nonNegative(totalExpected(st, fees).Sub(totalPaid(st.ID, payments))).InexactFloat64()
}

// Percentage is paid over expected in percent, 0 when nothing is expected.
func Percentage(expected, paid float64) float64 {
	exp := decimal.NewFromFloat(expected)
	if !exp.IsPositive() {
		return 0
	}
	return decimal.NewFromFloat(paid).Div(exp).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// ForStudent computes the full standing of st. today is a YYYY-MM-DD local date.
func ForStudent(st school.Student, fees []school.FeeStructure, payments []school.Payment, today string) StudentLedger {
	expected := totalExpected(st, fees)
	paid := totalPaid(st.ID, payments)

	l := StudentLedger{
		StudentID:     st.ID,
		TotalExpected: expected.InexactFloat64(),
		TotalPaid:     paid.InexactFloat64(),
		TotalDue:      nonNegative(expected.Sub(paid)).InexactFloat64(),
		Lines:         make([]FeeLine, 0, len(st.FeeStructureIDs)),
	}
	l.Percentage = Percentage(l.TotalExpected, l.TotalPaid)

	for i, id := range st.FeeStructureIDs {
		fee, ok := school.FindFee(fees, id)
		if !ok {
			continue
		}
		l.Lines = append(l.Lines, feeLine(st, i, fee, payments, expected, today))
	}
	l.Status = studentStatus(l)
	return l
}

func feeLine(
	st school.Student,
	index int,
	fee school.FeeStructure,
	payments []school.Payment,
	studentExpected decimal.Decimal,
	today string,
) FeeLine {
	amount := effectiveAmount(st, index, fee)

	paid := decimal.Zero
	var hasPayment bool
	for _, p := range payments {
		if p.StudentID == st.ID && p.FeeStructureID == fee.ID {
			paid = paid.Add(decimal.NewFromFloat(p.AmountPaid))
			hasPayment = true
		}
	}
	balance := nonNegative(amount.Sub(paid))

	// first match wins
	var status Status
	switch {
	case balance.IsZero() && studentExpected.IsPositive():
		status = StatusPaid
	case balance.IsPositive() && core.DateBefore(fee.DueDate, today):
		status = StatusOverdue
	case hasPayment:
		status = StatusPartial
	default:
		status = StatusPending
	}

	return FeeLine{
		Fee:             fee,
		EffectiveAmount: amount.InexactFloat64(),
		Paid:            paid.InexactFloat64(),
		Balance:         balance.InexactFloat64(),
		Status:          status,
	}
}

// studentStatus is the badge of a whole ledger.
func studentStatus(l StudentLedger) Status {
	if l.TotalDue == 0 && l.TotalExpected > 0 {
		return StatusPaid
	}
	for _, line := range l.Lines {
		if line.Status == StatusOverdue {
			return StatusOverdue
		}
	}
	if l.TotalPaid > 0 {
		return StatusPartial
	}
	return StatusPending
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
