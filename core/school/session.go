package school

import "errors"

var (
	// errors
	ErrNotFound           = errors.New("not found")
	ErrStudentHasPayments = errors.New("student has payment records; delete their payments first")
)

// Snapshot holds the collections a dashboard computes over.
type Snapshot struct {
	Session  string
	Students []Student
	Payments []Payment
	Fees     []FeeStructure
	Expenses []Expense
}

func StudentsInSession(students []Student, session string) []Student {
	res := make([]Student, 0, len(students))
	for _, s := range students {
		if s.Session == session {
			res = append(res, s)
		}
	}
	return res
}

func PaymentsInSession(payments []Payment, session string) []Payment {
	res := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if p.Session == session {
			res = append(res, p)
		}
	}
	return res
}

func FeesInSession(fees []FeeStructure, session string) []FeeStructure {
	res := make([]FeeStructure, 0, len(fees))
	for _, f := range fees {
		if f.Session == session {
			res = append(res, f)
		}
	}
	return res
}

func ExpensesInSession(expenses []Expense, session string) []Expense {
	res := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Session == session {
			res = append(res, e)
		}
	}
	return res
}

// InSession filters every collection of the snapshot against session.
func (s Snapshot) InSession(session string) Snapshot {
	return Snapshot{
		Session:  session,
		Students: StudentsInSession(s.Students, session),
		Payments: PaymentsInSession(s.Payments, session),
		Fees:     FeesInSession(s.Fees, session),
		Expenses: ExpensesInSession(s.Expenses, session),
	}
}

// Lookups

func FindStudent(students []Student, id string) (Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func FindFee(fees []FeeStructure, id string) (FeeStructure, bool) {
	for _, f := range fees {
		if f.ID == id {
			return f, true
		}
	}
	return FeeStructure{}, false
}

// StudentName resolves a display name, "Unknown" when the student no longer exists.
func StudentName(students []Student, id string) string {
	if s, ok := FindStudent(students, id); ok {
		return s.Name
	}
	return "Unknown"
}

func PaymentsOf(payments []Payment, studentID string) []Payment {
	var res []Payment
	for _, p := range payments {
		if p.StudentID == studentID {
			res = append(res, p)
		}
	}
	return res
}
