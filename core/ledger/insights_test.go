package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsights(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		got := Insights(Summary{Session: "2024-2025"})
		assert.Equal(t, []string{"No students enrolled in session 2024-2025 yet."}, got)
	})

	t.Run("low collection", func(t *testing.T) {
		sum := Summary{
			StudentCount:    3,
			TotalExpected:   3000,
			CollectionRate:  20,
			OverdueStudents: 2,
			OverdueAmount:   1500,
			NetBalance:      -100,
			ByGrade: []GradeSummary{
				{Grade: "Class 1", TotalDue: 400},
				{Grade: "Class 2", TotalDue: 1600},
			},
			ByMethod: map[string]float64{"Cash": 500, "Bank": 100},
		}
		assert.Equal(t, []string{
			"2 student(s) have overdue fees totalling 1500.00.",
			"Collection rate is low at 20.0%.",
			"Expenses exceed collections by 100.00.",
			"Class 2 has the largest outstanding balance (1600.00).",
			"Cash is the most used payment method (500.00).",
		}, Insights(sum))
	})

	t.Run("fully collected", func(t *testing.T) {
		sum := Summary{StudentCount: 1, TotalExpected: 100, CollectionRate: 100}
		assert.Equal(t, []string{"All expected fees have been collected."}, Insights(sum))
	})
}
