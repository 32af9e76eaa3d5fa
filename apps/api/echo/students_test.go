package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/trash"
	testutil "github.com/trezcool/feedesk/tests"
)

func TestCreateStudent(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.staff)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	testutil.CreateStudent(t, app.store, "ST007", "Baraka", "F1")

	tests := []struct {
		httpTest
		wantID string
	}{
		{
			httpTest{
				name:     "generated id",
				body:     []byte(`{"name":" Amani ","grade":"Class 1","guardianName":"Joseph","guardianContact":"+255","feeStructureIds":["F1"],"totalClassFees":2000}`),
				wantCode: http.StatusCreated,
			},
			"ST008",
		},
		{
			httpTest{
				name:     "given id",
				body:     []byte(`{"id":"X1","name":"Neema","grade":"Class 2","guardianName":"Rehema","guardianContact":"+255","feeStructureIds":["F1"]}`),
				wantCode: http.StatusCreated,
			},
			"X1",
		},
		{
			httpTest{
				name:     "duplicate id",
				body:     []byte(`{"id":"ST007","name":"Neema","grade":"Class 2","guardianName":"Rehema","guardianContact":"+255","feeStructureIds":["F1"]}`),
				wantCode: http.StatusBadRequest,
				wantData: []byte(`{"id":"a student with this id already exists"}`),
			},
			"",
		},
		{
			httpTest{
				name:     "no fees",
				body:     []byte(`{"name":"Neema","grade":"Class 2","guardianName":"Rehema","guardianContact":"+255","feeStructureIds":[]}`),
				wantCode: http.StatusBadRequest,
			},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path, tt.token = http.MethodPost, "/v1/students", token
			rec := app.do(tt.httpTest)
			checkCodeAndData(t, tt.httpTest, rec)

			if tt.wantID != "" {
				var st school.Student
				decode(t, rec, &st)
				assert.Equal(t, tt.wantID, st.ID)
				assert.Equal(t, testutil.Session, st.Session)

				saved, err := app.store.GetStudent(ctxBg, tt.wantID)
				require.NoError(t, err)
				assert.Equal(t, st, saved)
			}
		})
	}

	saved, err := app.store.GetStudent(ctxBg, "ST008")
	require.NoError(t, err)
	assert.Equal(t, "Amani", saved.Name)
	assert.True(t, saved.HasOverride())
}

func TestQueryStudents(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.staff)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	testutil.CreateStudent(t, app.store, "ST001", "Zawadi", "F1")
	testutil.CreateStudent(t, app.store, "ST002", "Amani", "F1")
	testutil.CreatePayment(t, app.store, "P1", "ST002", "F1", 1000, "2024-10-01")

	other := school.Student{ID: "ST003", Name: "Old Timer", Grade: "Class 1", FeeStructureIDs: []string{"F1"}, Session: "2023-2024"}
	require.NoError(t, app.store.AddStudent(ctxBg, other))

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"current session", "", []string{"ST001", "ST002"}},
		{"all sessions", "?all=true", []string{"ST001", "ST002", "ST003"}},
		{"search", "?search=AMA", []string{"ST002"}},
		{"ordering", "?ordering=name", []string{"ST002", "ST001"}},
		{"reverse ordering", "?ordering=-id", []string{"ST002", "ST001"}},
		{"grade", "?grade=Class%202", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(httpTest{method: http.MethodGet, path: "/v1/students" + tt.query, token: token})
			require.Equal(t, http.StatusOK, rec.Code)

			var rows []StudentRow
			decode(t, rec, &rows)
			ids := make([]string, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID)
				assert.Empty(t, r.PasswordHash)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/students?search=amani", token: token})
	var rows []StudentRow
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.StatusPaid, rows[0].Status)
	assert.Equal(t, 0.0, rows[0].TotalDue)
}

func TestStudentDetail(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.staff)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	testutil.CreateFee(t, app.store, "F2", 500, "2099-01-01")
	st := testutil.CreateStudent(t, app.store, "ST001", "Amani", "F1", "F2")
	require.NoError(t, st.SetPassword(testPwd))
	require.NoError(t, app.store.UpdateStudent(ctxBg, st))
	testutil.CreatePayment(t, app.store, "P1", "ST001", "F1", 700, "2024-10-01")

	t.Run("next id", func(t *testing.T) {
		tt := httpTest{method: http.MethodGet, path: "/v1/students/next-id", token: token, wantCode: http.StatusOK, wantData: []byte(`{"id":"ST002"}`)}
		checkCodeAndData(t, tt, app.do(tt))
	})

	t.Run("retrieve", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/students/ST001", token: token})
		require.Equal(t, http.StatusOK, rec.Code)
		var got school.Student
		decode(t, rec, &got)
		assert.Equal(t, "Amani", got.Name)
		assert.Empty(t, got.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		tt := httpTest{method: http.MethodGet, path: "/v1/students/ST404", token: token, wantCode: http.StatusNotFound, wantData: []byte(`{"error":"not found"}`)}
		checkCodeAndData(t, tt, app.do(tt))
	})

	t.Run("ledger", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/students/ST001/ledger", token: token})
		require.Equal(t, http.StatusOK, rec.Code)
		var l ledger.StudentLedger
		decode(t, rec, &l)
		assert.Equal(t, 1500.0, l.TotalExpected)
		assert.Equal(t, 700.0, l.TotalPaid)
		assert.Equal(t, 800.0, l.TotalDue)
		require.Len(t, l.Lines, 2)
		assert.Equal(t, ledger.StatusPartial, l.Lines[0].Status)
		assert.Equal(t, ledger.StatusPending, l.Lines[1].Status)
	})

	t.Run("update keeps password", func(t *testing.T) {
		body := []byte(`{"id":"HIJACK","name":"Amani K.","grade":"Class 2","guardianName":"Joseph","guardianContact":"+255","feeStructureIds":["F1","F2"]}`)
		rec := app.do(httpTest{method: http.MethodPut, path: "/v1/students/ST001", token: token, body: body})
		require.Equal(t, http.StatusOK, rec.Code)

		saved, err := app.store.GetStudent(ctxBg, "ST001")
		require.NoError(t, err)
		assert.Equal(t, "Amani K.", saved.Name)
		assert.Equal(t, "Class 2", saved.Grade)
		usr := saved.AsUser()
		assert.NoError(t, usr.CheckPassword(testPwd))
	})
}

func TestDestroyStudent(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.staff)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	testutil.CreateStudent(t, app.store, "ST001", "Amani", "F1")
	testutil.CreateStudent(t, app.store, "ST002", "Baraka", "F1")
	testutil.CreatePayment(t, app.store, "P1", "ST001", "F1", 100, "2024-10-01")

	tests := []httpTest{
		{
			name:     "has payments",
			path:     "/v1/students/ST001",
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: school.ErrStudentHasPayments.Error()}),
		},
		{name: "no payments", path: "/v1/students/ST002", wantCode: http.StatusNoContent},
		{name: "already deleted", path: "/v1/students/ST002", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.token = http.MethodDelete, token
			checkCodeAndData(t, tt, app.do(tt))
		})
	}

	students := app.store.Students(ctxBg)
	require.Len(t, students, 1)
	assert.Equal(t, "ST001", students[0].ID)

	items := app.store.Trash(ctxBg)
	require.Len(t, items, 1)
	assert.Equal(t, trash.KindStudent, items[0].Kind)
	assert.Equal(t, "ST002", items[0].OriginalID)
}

func TestLedgerMatchesListingAcrossSessions(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.staff)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	st := testutil.CreateStudent(t, app.store, "ST001", "Amani", "F1")
	testutil.CreatePayment(t, app.store, "P1", "ST001", "F1", 400, "2024-10-01")
	require.NoError(t, app.store.AddPayment(ctxBg, school.Payment{
		ID: "P0", StudentID: "ST001", FeeStructureID: "F1", AmountPaid: 400,
		Date: "2019-10-01", Method: "Cash", Session: "2019-2020",
	}))

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/students", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []StudentRow
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, 400.0, rows[0].TotalPaid)
	assert.Equal(t, 600.0, rows[0].TotalDue)

	for _, tt := range []struct {
		name  string
		path  string
		token string
	}{
		{"detail", "/v1/students/ST001/ledger", token},
		{"me", "/v1/me/ledger", app.token(t, st.AsUser())},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(httpTest{method: http.MethodGet, path: tt.path, token: tt.token})
			require.Equal(t, http.StatusOK, rec.Code)
			var l ledger.StudentLedger
			decode(t, rec, &l)
			assert.Equal(t, rows[0].TotalPaid, l.TotalPaid)
			assert.Equal(t, rows[0].TotalDue, l.TotalDue)
			assert.Equal(t, 40.0, l.Percentage)
		})
	}
}
