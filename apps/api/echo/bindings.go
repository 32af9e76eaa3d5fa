package echoapi

import (
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.KVOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.KVOrdering{Field: field, Ascending: !descending})
	}
}

var studentSortKeys = map[string]func(school.Student) string{
	"id":            func(s school.Student) string { return s.ID },
	"name":          func(s school.Student) string { return strings.ToLower(s.Name) },
	"grade":         func(s school.Student) string { return s.Grade },
	"admissionDate": func(s school.Student) string { return s.AdmissionDate },
}

// SortStudents applies the orderings in turn; unknown fields are ignored.
func (ord Ordering) SortStudents(students []school.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		for _, o := range ord.Orderings {
			key, ok := studentSortKeys[o.Field]
			if !ok {
				continue
			}
			a, b := key(students[i]), key(students[j])
			if a == b {
				continue
			}
			if o.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}

// StudentFilter holds the query params of the students listing.
type StudentFilter struct {
	Search      string `query:"search"`
	Grade       string `query:"grade"`
	AllSessions bool   `query:"all"`
}

func (f *StudentFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
	f.Grade = core.CleanString(f.Grade)
}

func (f StudentFilter) Match(st school.Student) bool {
	if f.Grade != "" && st.Grade != f.Grade {
		return false
	}
	if f.Search != "" {
		return strings.Contains(strings.ToLower(st.Name), f.Search) ||
			strings.Contains(strings.ToLower(st.ID), f.Search) ||
			strings.Contains(strings.ToLower(st.GuardianName), f.Search)
	}
	return true
}
