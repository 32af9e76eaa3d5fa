package emailsvc

import (
	"fmt"
	"net/mail"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
)

// ReceiptData is the template data of the "receipt" email.
type ReceiptData struct {
	School  school.Profile
	Student school.Student
	Payment school.Payment
	FeeName string
	Ledger  ledger.StudentLedger
}

// NewPaymentReceipt builds the receipt of p for the student's email address.
// It returns nil when the student has no email.
func NewPaymentReceipt(
	profile school.Profile,
	st school.Student,
	p school.Payment,
	fees []school.FeeStructure,
	l ledger.StudentLedger,
) *core.EmailMessage {
	if st.Email == "" {
		return nil
	}

	feeName := p.FeeStructureID
	if fee, ok := school.FindFee(fees, p.FeeStructureID); ok {
		feeName = fee.Name
	}
	return &core.EmailMessage{
		To:           []mail.Address{{Name: st.Name, Address: st.Email}},
		Subject:      fmt.Sprintf("Payment receipt %s", p.ID),
		TemplateName: "receipt",
		TemplateData: ReceiptData{
			School:  profile,
			Student: st,
			Payment: p,
			FeeName: feeName,
			Ledger:  l,
		},
	}
}
