package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core/school"
)

type (
	GradeSummary struct {
		Grade         string  `json:"grade"`
		StudentCount  int     `json:"studentCount"`
		TotalExpected float64 `json:"totalExpected"`
		TotalPaid     float64 `json:"totalPaid"`
		TotalDue      float64 `json:"totalDue"`
	}

	// Summary holds the dashboard figures of one session.
	Summary struct {
		Session         string             `json:"session"`
		StudentCount    int                `json:"studentCount"`
		TotalExpected   float64            `json:"totalExpected"`
		TotalCollected  float64            `json:"totalCollected"`
		TotalDue        float64            `json:"totalDue"`
		CollectionRate  float64            `json:"collectionRate"`
		CollectedToday  float64            `json:"collectedToday"`
		PaymentsToday   int                `json:"paymentsToday"`
		DueToday        float64            `json:"dueToday"`
		OverdueStudents int                `json:"overdueStudents"`
		OverdueAmount   float64            `json:"overdueAmount"`
		TotalExpenses   float64            `json:"totalExpenses"`
		ExpensesToday   float64            `json:"expensesToday"`
		NetBalance      float64            `json:"netBalance"`
		ByMethod        map[string]float64 `json:"byMethod"`
		ByCategory      map[string]float64 `json:"byCategory"`
		StatusCounts    map[Status]int     `json:"statusCounts"`
		ByGrade         []GradeSummary     `json:"byGrade"`
	}
)

// Summarize computes the dashboard figures over an already session-scoped snapshot.
// "Today" figures compare YYYY-MM-DD strings for equality.
func Summarize(snap school.Snapshot, today string) Summary {
	sum := Summary{
		Session:      snap.Session,
		StudentCount: len(snap.Students),
		ByMethod:     make(map[string]float64),
		ByCategory:   make(map[string]float64),
		StatusCounts: make(map[Status]int),
	}

	var (
		expected, studentsPaid, due, dueToday, overdue decimal.Decimal
		grades                                         = make(map[string]*GradeSummary)
	)
	for _, st := range snap.Students {
		l := ForStudent(st, snap.Fees, snap.Payments, today)
		expected = expected.Add(decimal.NewFromFloat(l.TotalExpected))
		studentsPaid = studentsPaid.Add(decimal.NewFromFloat(l.TotalPaid))
		due = due.Add(decimal.NewFromFloat(l.TotalDue))
		sum.StatusCounts[l.Status]++

		var isOverdue bool
		for _, line := range l.Lines {
			if line.Fee.DueDate == today {
				dueToday = dueToday.Add(decimal.NewFromFloat(line.Balance))
			}
			if line.Status == StatusOverdue {
				isOverdue = true
				overdue = overdue.Add(decimal.NewFromFloat(line.Balance))
			}
		}
		if isOverdue {
			sum.OverdueStudents++
		}

		g, ok := grades[st.Grade]
		if !ok {
			g = &GradeSummary{Grade: st.Grade}
			grades[st.Grade] = g
		}
		g.StudentCount++
		g.TotalExpected = decimal.NewFromFloat(g.TotalExpected).Add(decimal.NewFromFloat(l.TotalExpected)).InexactFloat64()
		g.TotalPaid = decimal.NewFromFloat(g.TotalPaid).Add(decimal.NewFromFloat(l.TotalPaid)).InexactFloat64()
		g.TotalDue = decimal.NewFromFloat(g.TotalDue).Add(decimal.NewFromFloat(l.TotalDue)).InexactFloat64()
	}

	collected, collectedToday := decimal.Zero, decimal.Zero
	byMethod := make(map[string]decimal.Decimal)
	for _, p := range snap.Payments {
		amt := decimal.NewFromFloat(p.AmountPaid)
		collected = collected.Add(amt)
		byMethod[p.Method] = byMethod[p.Method].Add(amt)
		if p.Date == today {
			collectedToday = collectedToday.Add(amt)
			sum.PaymentsToday++
		}
	}
	for m, v := range byMethod {
		sum.ByMethod[m] = v.InexactFloat64()
	}

	expenses, expensesToday := decimal.Zero, decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	for _, e := range snap.Expenses {
		amt := decimal.NewFromFloat(e.Amount)
		expenses = expenses.Add(amt)
		byCategory[e.Category] = byCategory[e.Category].Add(amt)
		if e.Date == today {
			expensesToday = expensesToday.Add(amt)
		}
	}
	for c, v := range byCategory {
		sum.ByCategory[c] = v.InexactFloat64()
	}

	sum.TotalExpected = expected.InexactFloat64()
	sum.TotalCollected = collected.InexactFloat64()
	sum.TotalDue = due.InexactFloat64()
	sum.CollectionRate = ClampPercent(Percentage(sum.TotalExpected, studentsPaid.InexactFloat64()))
	sum.CollectedToday = collectedToday.InexactFloat64()
	sum.DueToday = dueToday.InexactFloat64()
	sum.OverdueAmount = overdue.InexactFloat64()
	sum.TotalExpenses = expenses.InexactFloat64()
	sum.ExpensesToday = expensesToday.InexactFloat64()
	sum.NetBalance = collected.Sub(expenses).InexactFloat64()

	sum.ByGrade = make([]GradeSummary, 0, len(grades))
	for _, g := range grades {
		sum.ByGrade = append(sum.ByGrade, *g)
	}
	sort.Slice(sum.ByGrade, func(i, j int) bool { return sum.ByGrade[i].Grade < sum.ByGrade[j].Grade })
	return sum
}

// RecentPayments returns the n most recent payments, newest date first.
func RecentPayments(payments []school.Payment, n int) []school.Payment {
	res := append([]school.Payment(nil), payments...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date > res[j].Date })
	if n >= 0 && len(res) > n {
		res = res[:n]
	}
	return res
}

// Defaulters returns the ledgers of students with an outstanding balance, largest due first.
func Defaulters(snap school.Snapshot, today string) []StudentLedger {
	var res []StudentLedger
	for _, st := range snap.Students {
		if l := ForStudent(st, snap.Fees, snap.Payments, today); l.TotalDue > 0 {
			res = append(res, l)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].TotalDue > res[j].TotalDue })
	return res
}
