package ledger

import (
	"fmt"
	"sort"
)

// collection rate under which the dashboard raises a warning
const lowCollectionRate = 50

// Insights turns the dashboard figures into short remarks, most pressing first.
func Insights(sum Summary) []string {
	var res []string
	if sum.StudentCount == 0 {
		return []string{fmt.Sprintf("No students enrolled in session %s yet.", sum.Session)}
	}

	if sum.OverdueStudents > 0 {
		res = append(res, fmt.Sprintf(
			"%d student(s) have overdue fees totalling %.2f.", sum.OverdueStudents, sum.OverdueAmount,
		))
	}
	switch {
	case sum.TotalExpected == 0:
		res = append(res, "No fees are assigned to the enrolled students.")
	case sum.CollectionRate < lowCollectionRate:
		res = append(res, fmt.Sprintf("Collection rate is low at %.1f%%.", sum.CollectionRate))
	case sum.CollectionRate >= 100:
		res = append(res, "All expected fees have been collected.")
	default:
		res = append(res, fmt.Sprintf("Collection rate stands at %.1f%%.", sum.CollectionRate))
	}

	if sum.NetBalance < 0 {
		res = append(res, fmt.Sprintf("Expenses exceed collections by %.2f.", -sum.NetBalance))
	}

	if len(sum.ByGrade) > 0 {
		grades := append([]GradeSummary(nil), sum.ByGrade...)
		sort.SliceStable(grades, func(i, j int) bool { return grades[i].TotalDue > grades[j].TotalDue })
		if g := grades[0]; g.TotalDue > 0 {
			res = append(res, fmt.Sprintf("%s has the largest outstanding balance (%.2f).", g.Grade, g.TotalDue))
		}
	}

	if method, amt := topKey(sum.ByMethod); method != "" {
		res = append(res, fmt.Sprintf("%s is the most used payment method (%.2f).", method, amt))
	}
	return res
}

func topKey(m map[string]float64) (string, float64) {
	var key string
	var max float64
	for k, v := range m {
		if v > max || (v == max && k < key) {
			key, max = k, v
		}
	}
	return key, max
}
