package school

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core"
)

func TestUID(t *testing.T) {
	uid := EncodeUID("ST001")
	id, err := DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, "ST001", id)

	_, err = DecodeUID("%%%")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestMakeVerifyResetToken(t *testing.T) {
	const secret = "secret"
	timeout := 3 * 24 * time.Hour

	usr := User{ID: "STAFF1", Name: "T", Email: "t@school.local", Role: RoleStaff, IsActive: true}
	require.NoError(t, usr.SetPassword("Kx7#mPq2vL"))

	validToken := MakeResetToken(usr, secret)

	dayLate := timeout + 24*time.Hour
	core.NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken := MakeResetToken(usr, secret)
	core.NowFunc = time.Now

	changed := usr
	require.NoError(t, changed.SetPassword("Zq9!wErt5u"))

	tests := []struct {
		name    string
		usr     User
		token   string
		secret  string
		wantErr error
	}{
		{name: "no token", usr: usr, secret: secret, wantErr: ErrInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", secret: secret, wantErr: ErrInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", secret: secret, wantErr: ErrInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", secret: secret, wantErr: ErrInvalidToken},
		{name: "invalid signature", usr: usr, token: "HE4TS-sigsig-sig", secret: secret, wantErr: ErrInvalidToken},
		{name: "other secret", usr: usr, token: validToken, secret: "other", wantErr: ErrInvalidToken},
		{name: "password changed", usr: changed, token: validToken, secret: secret, wantErr: ErrInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, secret: secret, wantErr: ErrTokenExpired},
		{name: "valid token", usr: usr, token: validToken, secret: secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, VerifyResetToken(tt.usr, tt.token, tt.secret, timeout))
		})
	}
}
