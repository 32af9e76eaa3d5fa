package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/school"
	testutil "github.com/trezcool/feedesk/tests"
)

func TestLogin(t *testing.T) {
	app := newTestApp(t, nil)
	st := testutil.CreateStudent(t, app.store, "ST001", "Amani")
	st.Email = "amani@school.local"
	require.NoError(t, st.SetPassword(testPwd))
	require.NoError(t, app.store.UpdateStudent(ctxBg, st))

	invalid := marshalObj(t, httpErr{Error: "authentication failed"})
	tests := []struct {
		httpTest
		wantRole string
	}{
		{httpTest{name: "by username", body: []byte(`{"login":"ADMIN","password":"` + testPwd + `"}`), wantCode: http.StatusOK}, school.RoleAdmin},
		{httpTest{name: "by id", body: []byte(`{"login":"STAFF001","password":"` + testPwd + `"}`), wantCode: http.StatusOK}, school.RoleStaff},
		{httpTest{name: "student by email", body: []byte(`{"login":"Amani@School.local","password":"` + testPwd + `"}`), wantCode: http.StatusOK}, school.RoleStudent},
		{httpTest{name: "wrong password", body: []byte(`{"login":"admin","password":"nope"}`), wantCode: http.StatusBadRequest, wantData: invalid}, ""},
		{httpTest{name: "unknown user", body: []byte(`{"login":"ghost","password":"` + testPwd + `"}`), wantCode: http.StatusBadRequest, wantData: invalid}, ""},
		{httpTest{name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path = http.MethodPost, "/v1/auth/login"
			rec := app.do(tt.httpTest)
			checkCodeAndData(t, tt.httpTest, rec)

			if tt.wantRole != "" {
				var res struct {
					Token string      `json:"token"`
					User  school.User `json:"user"`
				}
				decode(t, rec, &res)
				assert.NotEmpty(t, res.Token)
				assert.Equal(t, tt.wantRole, res.User.Role)
				assert.Empty(t, res.User.PasswordHash)
			}
		})
	}
}

func TestTokenRefresh(t *testing.T) {
	app := newTestApp(t, nil)

	token := app.token(t, app.staff)
	rec := app.do(httpTest{method: http.MethodPost, path: "/v1/auth/token-refresh", token: token})
	require.Equal(t, http.StatusOK, rec.Code)

	// missing token
	rec = app.do(httpTest{method: http.MethodPost, path: "/v1/auth/token-refresh"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// refresh window elapsed: the original issue time is carried over
	old, err := app.generateToken(app.getUserClaims(app.staff, time.Now().Add(-3*time.Hour).Unix()))
	require.NoError(t, err)
	rec = app.do(httpTest{method: http.MethodPost, path: "/v1/auth/token-refresh", token: old})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoles(t *testing.T) {
	app := newTestApp(t, nil)
	st := testutil.CreateStudent(t, app.store, "ST001", "Amani")
	studentToken := app.token(t, st.AsUser())
	staffToken := app.token(t, app.staff)

	tests := []httpTest{
		{name: "anonymous", method: http.MethodGet, path: "/v1/students", wantCode: http.StatusUnauthorized},
		{name: "student on staff route", method: http.MethodGet, path: "/v1/students", token: studentToken, wantCode: http.StatusForbidden},
		{name: "staff on staff route", method: http.MethodGet, path: "/v1/students", token: staffToken, wantCode: http.StatusOK},
		{name: "staff on admin route", method: http.MethodGet, path: "/v1/trash", token: staffToken, wantCode: http.StatusForbidden},
		{name: "staff on users", method: http.MethodGet, path: "/v1/users", token: staffToken, wantCode: http.StatusForbidden},
		{name: "staff on own ledger", method: http.MethodGet, path: "/v1/me/ledger", token: staffToken, wantCode: http.StatusForbidden},
		{name: "student reads profile", method: http.MethodGet, path: "/v1/profile", token: studentToken, wantCode: http.StatusOK},
		{name: "student updates profile", method: http.MethodPut, path: "/v1/profile", token: studentToken, body: []byte(`{}`), wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}

func TestPasswordReset(t *testing.T) {
	app := newTestApp(t, nil)
	bursar := testutil.CreateUser(t, app.store, "STAFF002", "bursar", testPwd, school.RoleStaff)
	bursar.Email = "bursar@school.local"
	require.NoError(t, app.store.UpdateUser(ctxBg, bursar))

	sent := marshalObj(t, SuccessResponse{Success: "Password reset e-mail has been sent."})
	for _, tt := range []httpTest{
		{name: "known email", body: []byte(`{"email":"Bursar@School.local"}`), wantCode: http.StatusOK, wantData: sent},
		{name: "unknown email", body: []byte(`{"email":"ghost@school.local"}`), wantCode: http.StatusOK, wantData: sent},
		{name: "invalid email", body: []byte(`{"email":"ghost"}`), wantCode: http.StatusBadRequest},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path = http.MethodPost, "/v1/auth/password-reset"
			checkCodeAndData(t, tt, app.do(tt))
		})
	}

	uid := school.EncodeUID(bursar.ID)
	token := school.MakeResetToken(bursar, app.deps.Conf.SecretKey)
	newPwd := "Zq9!wErt5u"
	confirm := func(uid, token, pwd string) []byte {
		return []byte(`{"uid":"` + uid + `","token":"` + token + `","password":"` + pwd + `","passwordConfirm":"` + pwd + `"}`)
	}
	invalid := marshalObj(t, httpErr{Error: errInvalidResetLink})

	for _, tt := range []httpTest{
		{name: "bad uid", body: confirm("%%%", token, newPwd), wantCode: http.StatusBadRequest, wantData: invalid},
		{name: "unknown uid", body: confirm(school.EncodeUID("ghost"), token, newPwd), wantCode: http.StatusBadRequest, wantData: invalid},
		{name: "bad token", body: confirm(uid, "HE4TS-sig", newPwd), wantCode: http.StatusBadRequest, wantData: invalid},
		{name: "weak password", body: confirm(uid, token, "password"), wantCode: http.StatusBadRequest},
		{name: "valid", body: confirm(uid, token, newPwd), wantCode: http.StatusOK},
		{name: "token used", body: confirm(uid, token, newPwd), wantCode: http.StatusBadRequest, wantData: invalid},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path = http.MethodPost, "/v1/auth/password-reset-confirm"
			checkCodeAndData(t, tt, app.do(tt))
		})
	}

	_, err := app.store.Authenticate(ctxBg, "bursar", newPwd)
	assert.NoError(t, err)
}
