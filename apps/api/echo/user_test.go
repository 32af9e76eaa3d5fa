package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
	testutil "github.com/trezcool/feedesk/tests"
)

func TestUsers(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.admin)
	testutil.CreateStudent(t, app.store, "ST001", "Amani")

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/users", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var users []school.User
	decode(t, rec, &users)
	require.Len(t, users, 2)
	for _, usr := range users {
		assert.Empty(t, usr.PasswordHash)
	}

	tests := []httpTest{
		{
			name:     "parent",
			body:     []byte(`{"id":"PAR001","name":"Joseph","username":"joseph","role":"PARENT","studentId":"ST001","password":"` + testPwd + `","passwordConfirm":"` + testPwd + `"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "parent of unknown student",
			body:     []byte(`{"id":"PAR002","name":"Rehema","role":"PARENT","studentId":"ST404","password":"` + testPwd + `","passwordConfirm":"` + testPwd + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"studentId":"student not found"}`),
		},
		{
			name:     "existing username",
			body:     []byte(`{"id":"STAFF002","name":"Other","username":"Staff","role":"STAFF","password":"` + testPwd + `","passwordConfirm":"` + testPwd + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: errUserExists}),
		},
		{
			name:     "student role",
			body:     []byte(`{"id":"X1","name":"Other","role":"STUDENT","password":"` + testPwd + `","passwordConfirm":"` + testPwd + `"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "weak password",
			body:     []byte(`{"id":"X2","name":"Other","role":"STAFF","password":"password","passwordConfirm":"password"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path, tt.token = http.MethodPost, "/v1/users", token
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
	assert.Len(t, app.store.Users(ctxBg), 3)

	t.Run("cannot delete self", func(t *testing.T) {
		tt := httpTest{method: http.MethodDelete, path: "/v1/users/" + app.admin.ID, token: token, wantCode: http.StatusForbidden}
		checkCodeAndData(t, tt, app.do(tt))
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodDelete, path: "/v1/users/PAR001", token: token})
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Len(t, app.store.Users(ctxBg), 2)
	})
}

func TestMe(t *testing.T) {
	app := newTestApp(t, nil)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	st := testutil.CreateStudent(t, app.store, "ST001", "Amani", "F1")
	testutil.CreatePayment(t, app.store, "P1", "ST001", "F1", 250, "2024-10-01")
	parent := testutil.CreateUser(t, app.store, "PAR001", "joseph", testPwd, school.RoleParent)
	parent.StudentID = st.ID
	require.NoError(t, app.store.UpdateUser(ctxBg, parent))
	orphan := testutil.CreateUser(t, app.store, "PAR002", "rehema", testPwd, school.RoleParent)

	for _, usr := range []school.User{st.AsUser(), parent} {
		t.Run(usr.Role, func(t *testing.T) {
			token := app.token(t, usr)

			rec := app.do(httpTest{method: http.MethodGet, path: "/v1/me", token: token})
			require.Equal(t, http.StatusOK, rec.Code)
			var me MeResponse
			decode(t, rec, &me)
			assert.Equal(t, usr.ID, me.User.ID)
			require.NotNil(t, me.Student)
			assert.Equal(t, "ST001", me.Student.ID)

			rec = app.do(httpTest{method: http.MethodGet, path: "/v1/me/ledger", token: token})
			require.Equal(t, http.StatusOK, rec.Code)
			var l ledger.StudentLedger
			decode(t, rec, &l)
			assert.Equal(t, 750.0, l.TotalDue)
		})
	}

	t.Run("parent without ward", func(t *testing.T) {
		tt := httpTest{method: http.MethodGet, path: "/v1/me/ledger", token: app.token(t, orphan), wantCode: http.StatusNotFound}
		checkCodeAndData(t, tt, app.do(tt))
	})
}

func TestStorageFull(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.staff)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	app.kv.setFull(true)

	tt := httpTest{
		method: http.MethodPost, path: "/v1/students", token: token,
		body:     []byte(`{"name":"Amani","grade":"Class 1","guardianName":"Joseph","guardianContact":"+255","feeStructureIds":["F1"]}`),
		wantCode: http.StatusInsufficientStorage,
		wantData: []byte(`{"error":"storage is full"}`),
	}
	checkCodeAndData(t, tt, app.do(tt))

	// the change stays visible until the process restarts
	assert.Len(t, app.store.Students(ctxBg), 1)
}
