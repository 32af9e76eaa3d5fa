package school

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/volatiletech/null/v8"
)

type (
	// Student is enrolled in one session and owes the fee structures referenced by FeeStructureIDs.
	// TotalClassFees, when valid and > 0, replaces the amount of the fee at index 0 of FeeStructureIDs.
	Student struct {
		ID              string       `json:"id"`
		Name            string       `json:"name"`
		Grade           string       `json:"grade"`
		GuardianName    string       `json:"guardianName"`
		GuardianContact string       `json:"guardianContact"`
		FeeStructureIDs []string     `json:"feeStructureIds"`
		Session         string       `json:"session"`
		Address         string       `json:"address,omitempty"`
		TotalClassFees  null.Float64 `json:"totalClassFees"`
		BackFees        null.Float64 `json:"backFees"`
		AdmissionDate   string       `json:"admissionDate,omitempty"`
		Avatar          string       `json:"avatar,omitempty"`
		Email           string       `json:"email,omitempty"`
		PasswordHash    []byte       `json:"passwordHash,omitempty"`
	}

	FeeStructure struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Amount  float64 `json:"amount"`
		DueDate string  `json:"dueDate"`
		Session string  `json:"session"`
	}

	// Payment applies AmountPaid toward one fee structure of one student.
	Payment struct {
		ID             string  `json:"id"`
		StudentID      string  `json:"studentId"`
		FeeStructureID string  `json:"feeStructureId"`
		AmountPaid     float64 `json:"amountPaid"`
		Date           string  `json:"date"`
		Method         string  `json:"method"`
		Session        string  `json:"session"`
		Remarks        string  `json:"remarks,omitempty"`
	}

	Expense struct {
		ID          FlexID  `json:"id"`
		Category    string  `json:"category"`
		Description string  `json:"description,omitempty"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		Session     string  `json:"session"`
	}

	// Profile is the singleton school configuration. CurrentSession scopes every dashboard view.
	Profile struct {
		Name           string   `json:"name"`
		Tagline        string   `json:"tagline"`
		Address        string   `json:"address"`
		Phone          string   `json:"phone"`
		Email          string   `json:"email"`
		Sessions       []string `json:"sessions"`
		CurrentSession string   `json:"currentSession"`
		LogoURL        string   `json:"logoUrl,omitempty"`
		SignatureURL   string   `json:"signatureUrl,omitempty"`
		ReceiptTerms   string   `json:"receiptTerms,omitempty"`
		SliderImages   []string `json:"sliderImages,omitempty"`
	}
)

// HasOverride reports whether TotalClassFees replaces the first fee's amount.
func (s Student) HasOverride() bool {
	return s.TotalClassFees.Valid && s.TotalClassFees.Float64 > 0
}

func (s Student) BackFeesAmount() float64 {
	if s.BackFees.Valid {
		return s.BackFees.Float64
	}
	return 0
}

func (p Profile) HasSession(session string) bool {
	for _, s := range p.Sessions {
		if s == session {
			return true
		}
	}
	return false
}

// FlexID is an identifier persisted either as a JSON string or a JSON number.
// Legacy expense records carry numeric ids.
type FlexID string

func (id FlexID) String() string { return string(id) }

func (id FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = FlexID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = FlexID(n.String())
	return nil
}
