package school

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/feedesk/core"
)

// NewStudent contains information needed to enrol a Student.
type NewStudent struct {
	ID              string   `json:"id" validate:"omitempty,alphanum_"`
	Name            string   `json:"name" validate:"required,notblank"`
	Grade           string   `json:"grade" validate:"required"`
	GuardianName    string   `json:"guardianName" validate:"required"`
	GuardianContact string   `json:"guardianContact" validate:"required"`
	FeeStructureIDs []string `json:"feeStructureIds" validate:"required,min=1,dive,required"`
	Session         string   `json:"session"`
	Address         string   `json:"address"`
	TotalClassFees  *float64 `json:"totalClassFees" validate:"omitempty,gte=0"`
	BackFees        *float64 `json:"backFees" validate:"omitempty,gte=0"`
	AdmissionDate   string   `json:"admissionDate" validate:"omitempty,isodate"`
	Avatar          string   `json:"avatar"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.ID = core.CleanString(ns.ID)
	ns.Name = core.CleanString(ns.Name)
	ns.Grade = core.CleanString(ns.Grade)
	ns.GuardianName = core.CleanString(ns.GuardianName)
	ns.GuardianContact = core.CleanString(ns.GuardianContact)
	ns.Session = core.CleanString(ns.Session)
	ns.Address = core.CleanString(ns.Address)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}

// Student builds the record to persist. id and session fill in the blanks of the input.
func (ns NewStudent) Student(id, session string) (Student, error) {
	if ns.ID != "" {
		id = ns.ID
	}
	if ns.Session != "" {
		session = ns.Session
	}
	st := Student{
		ID:              id,
		Name:            ns.Name,
		Grade:           ns.Grade,
		GuardianName:    ns.GuardianName,
		GuardianContact: ns.GuardianContact,
		FeeStructureIDs: ns.FeeStructureIDs,
		Session:         session,
		Address:         ns.Address,
		TotalClassFees:  null.Float64FromPtr(ns.TotalClassFees),
		BackFees:        null.Float64FromPtr(ns.BackFees),
		AdmissionDate:   ns.AdmissionDate,
		Avatar:          ns.Avatar,
		Email:           ns.Email,
	}
	if ns.Password != "" {
		if err := st.SetPassword(ns.Password); err != nil {
			return Student{}, err
		}
	}
	return st, nil
}

// NewPayment contains information needed to record a Payment.
type NewPayment struct {
	StudentID      string  `json:"studentId" validate:"required"`
	FeeStructureID string  `json:"feeStructureId" validate:"required"`
	AmountPaid     float64 `json:"amountPaid" validate:"gt=0"`
	Date           string  `json:"date" validate:"required,isodate"`
	Method         string  `json:"method" validate:"required,notblank"`
	Session        string  `json:"session"`
	Remarks        string  `json:"remarks"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.StudentID = core.CleanString(np.StudentID)
	np.FeeStructureID = core.CleanString(np.FeeStructureID)
	np.Method = core.CleanString(np.Method)
	np.Session = core.CleanString(np.Session)
	np.Remarks = core.CleanString(np.Remarks)
	if np.Date == "" {
		np.Date = core.Today()
	}
	return validate.Struct(np)
}

func (np NewPayment) Payment(id, session string) Payment {
	if np.Session != "" {
		session = np.Session
	}
	return Payment{
		ID:             id,
		StudentID:      np.StudentID,
		FeeStructureID: np.FeeStructureID,
		AmountPaid:     np.AmountPaid,
		Date:           np.Date,
		Method:         np.Method,
		Session:        session,
		Remarks:        np.Remarks,
	}
}

// NewFee contains information needed to add a FeeStructure to the catalog.
type NewFee struct {
	Name    string  `json:"name" validate:"required,notblank"`
	Amount  float64 `json:"amount" validate:"gte=0"`
	DueDate string  `json:"dueDate" validate:"required,isodate"`
	Session string  `json:"session"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.Name = core.CleanString(nf.Name)
	nf.Session = core.CleanString(nf.Session)
	return validate.Struct(nf)
}

func (nf NewFee) Fee(id, session string) FeeStructure {
	if nf.Session != "" {
		session = nf.Session
	}
	return FeeStructure{ID: id, Name: nf.Name, Amount: nf.Amount, DueDate: nf.DueDate, Session: session}
}

// NewExpense contains information needed to record an Expense.
type NewExpense struct {
	Category    string  `json:"category" validate:"required,notblank"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"required,isodate"`
	Session     string  `json:"session"`
}

func (ne *NewExpense) Validate(validate *validator.Validate) error {
	ne.Category = core.CleanString(ne.Category)
	ne.Description = core.CleanString(ne.Description)
	ne.Session = core.CleanString(ne.Session)
	if ne.Date == "" {
		ne.Date = core.Today()
	}
	return validate.Struct(ne)
}

func (ne NewExpense) Expense(id, session string) Expense {
	if ne.Session != "" {
		session = ne.Session
	}
	return Expense{
		ID:          FlexID(id),
		Category:    ne.Category,
		Description: ne.Description,
		Amount:      ne.Amount,
		Date:        ne.Date,
		Session:     session,
	}
}

// NewUser contains information needed to create a new staff, admin or parent User.
type NewUser struct {
	ID              string `json:"id" validate:"required,alphanum_"`
	Name            string `json:"name" validate:"required,notblank"`
	Username        string `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"required,staffrole"`
	StudentID       string `json:"studentId" validate:"required_if=Role PARENT"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.ID = core.CleanString(nu.ID)
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role)
	nu.StudentID = core.CleanString(nu.StudentID)
	return validate.Struct(nu)
}

func (nu NewUser) User() (User, error) {
	usr := User{
		ID:        nu.ID,
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		StudentID: nu.StudentID,
		IsActive:  true,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return usr, nil
}

// UpdateProfile defines what information may be provided to modify the school Profile.
type UpdateProfile struct {
	Name           string   `json:"name" validate:"required,notblank"`
	Tagline        string   `json:"tagline"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Sessions       []string `json:"sessions" validate:"required,min=1,dive,required"`
	CurrentSession string   `json:"currentSession" validate:"required"`
	LogoURL        string   `json:"logoUrl" validate:"omitempty,url"`
	SignatureURL   string   `json:"signatureUrl" validate:"omitempty,url"`
	ReceiptTerms   string   `json:"receiptTerms"`
	SliderImages   []string `json:"sliderImages" validate:"omitempty,dive,url"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Email = core.CleanString(up.Email, true /* lower */)
	up.CurrentSession = core.CleanString(up.CurrentSession)
	for i := range up.Sessions {
		up.Sessions[i] = core.CleanString(up.Sessions[i])
	}
	return validate.Struct(up)
}

func (up UpdateProfile) Profile() Profile {
	return Profile{
		Name:           up.Name,
		Tagline:        up.Tagline,
		Address:        up.Address,
		Phone:          up.Phone,
		Email:          up.Email,
		Sessions:       up.Sessions,
		CurrentSession: up.CurrentSession,
		LogoURL:        up.LogoURL,
		SignatureURL:   up.SignatureURL,
		ReceiptTerms:   up.ReceiptTerms,
		SliderImages:   up.SliderImages,
	}
}

// PasswordResetRequest asks for a reset link to be mailed to Email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

// ResetPassword sets a new password using a mailed reset token.
type ResetPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (r *ResetPassword) Validate(validate *validator.Validate) error {
	r.UID = core.CleanString(r.UID)
	r.Token = core.CleanString(r.Token)
	return validate.Struct(r)
}
