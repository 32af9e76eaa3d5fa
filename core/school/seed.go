package school

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/feedesk/core"
)

// Seed holds the defaults written on first run for every collection.
type Seed struct {
	Students []Student
	Payments []Payment
	Fees     []FeeStructure
	Expenses []Expense
	Users    []User
	Classes  []string
	Profile  Profile
}

const defaultSession = "2024-2025"

// DefaultProfile is the profile written on first run and the base every stored profile is merged onto.
func DefaultProfile() Profile {
	return Profile{
		Name:           "Bright Future Academy",
		Tagline:        "Excellence in Education",
		Address:        "12 School Road",
		Phone:          "+000 000 0000",
		Email:          "info@school.local",
		Sessions:       []string{defaultSession},
		CurrentSession: defaultSession,
		ReceiptTerms:   "Fees once paid are not refundable. Keep this receipt for future reference.",
		SliderImages:   []string{},
	}
}

func DefaultClasses() []string {
	return []string{
		"Nursery", "LKG", "UKG",
		"Class 1", "Class 2", "Class 3", "Class 4", "Class 5",
		"Class 6", "Class 7", "Class 8", "Class 9", "Class 10",
	}
}

// DefaultSeed returns the first-run data: a small demo dataset plus one administrator.
func DefaultSeed(admin User) Seed {
	admin.Role = RoleAdmin
	admin.IsActive = true

	return Seed{
		Fees: []FeeStructure{
			{ID: "F001", Name: "Tuition Fee", Amount: 15000, DueDate: "2024-09-15", Session: defaultSession},
			{ID: "F002", Name: "Transport Fee", Amount: 3000, DueDate: "2024-10-01", Session: defaultSession},
			{ID: "F003", Name: "Examination Fee", Amount: 1200, DueDate: "2025-02-01", Session: defaultSession},
		},
		Students: []Student{
			{
				ID: "ST001", Name: "Amani Kabongo", Grade: "Class 5",
				GuardianName: "Joseph Kabongo", GuardianContact: "+243 810 000 001",
				FeeStructureIDs: []string{"F001", "F002"}, Session: defaultSession,
				AdmissionDate: "2024-08-20",
			},
			{
				ID: "ST002", Name: "Grace Mwamba", Grade: "Class 3",
				GuardianName: "Esther Mwamba", GuardianContact: "+243 810 000 002",
				FeeStructureIDs: []string{"F001", "F003"}, Session: defaultSession,
				TotalClassFees: null.Float64From(12000), AdmissionDate: "2024-08-22",
			},
			{
				ID: "ST003", Name: "David Ilunga", Grade: "Class 8",
				GuardianName: "Marie Ilunga", GuardianContact: "+243 810 000 003",
				FeeStructureIDs: []string{"F001", "F002", "F003"}, Session: defaultSession,
				BackFees: null.Float64From(2500), AdmissionDate: "2023-08-28",
			},
		},
		Payments: []Payment{
			{ID: "PAY001", StudentID: "ST001", FeeStructureID: "F001", AmountPaid: 15000, Date: "2024-09-02", Method: "Cash", Session: defaultSession},
			{ID: "PAY002", StudentID: "ST001", FeeStructureID: "F002", AmountPaid: 1500, Date: "2024-10-01", Method: "Mobile Money", Session: defaultSession},
			{ID: "PAY003", StudentID: "ST002", FeeStructureID: "F001", AmountPaid: 6000, Date: "2024-09-10", Method: "Bank Transfer", Session: defaultSession},
			{ID: "PAY004", StudentID: "ST003", FeeStructureID: "F001", AmountPaid: 5000, Date: "2024-09-12", Method: "Cash", Session: defaultSession},
		},
		Expenses: []Expense{
			{ID: "1725148800000", Category: "🔌 Electricity", Description: "September bill", Amount: 850, Date: "2024-09-30", Session: defaultSession},
			{ID: "1725235200000", Category: "📚 Books & Stationery", Description: "Library restock", Amount: 2300, Date: "2024-09-05", Session: defaultSession},
			{ID: "1727740800000", Category: "🧹 Maintenance", Description: "Classroom painting", Amount: 1800, Date: "2024-10-01", Session: defaultSession},
		},
		Users:   []User{admin},
		Classes: DefaultClasses(),
		Profile: DefaultProfile(),
	}
}

// ConfiguredSeed is DefaultSeed with the administrator account of conf.Admin.
func ConfiguredSeed(conf *core.Config) (Seed, error) {
	admin := User{ID: conf.Admin.ID, Name: conf.Admin.Name, Username: "admin"}
	if err := admin.SetPassword(conf.Admin.Password); err != nil {
		return Seed{}, err
	}
	return DefaultSeed(admin), nil
}
