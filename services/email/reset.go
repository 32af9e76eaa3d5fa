package emailsvc

import (
	"net/mail"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
)

// PasswordResetData is the template data of the "password_reset" email.
type PasswordResetData struct {
	School school.Profile
	Name   string
	UID    string
	Token  string
}

// NewPasswordReset builds the reset email of usr. It returns nil when usr has no email.
func NewPasswordReset(profile school.Profile, usr school.User, token string) *core.EmailMessage {
	if usr.Email == "" {
		return nil
	}
	return &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password reset",
		TemplateName: "password_reset",
		TemplateData: PasswordResetData{
			School: profile,
			Name:   usr.Name,
			UID:    school.EncodeUID(usr.ID),
			Token:  token,
		},
	}
}
