package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/school"
	testutil "github.com/trezcool/feedesk/tests"
)

func TestDashboard(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.staff)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	testutil.CreateFee(t, app.store, "F2", 500, "2099-01-01")
	testutil.CreateStudent(t, app.store, "ST001", "Amani", "F1", "F2")
	testutil.CreateStudent(t, app.store, "ST002", "Baraka", "F1")
	for i, date := range []string{"2024-10-01", "2024-10-02", "2024-10-03", "2024-10-04", "2024-10-05", "2024-10-06"} {
		testutil.CreatePayment(t, app.store, "P"+string(rune('1'+i)), "ST002", "F1", 100, date)
	}
	testutil.CreatePayment(t, app.store, "P9", "ST001", "F1", 700, "2024-09-01")

	// out of the current session
	require.NoError(t, app.store.AddPayment(ctxBg, school.Payment{
		ID: "OLD", StudentID: "ST001", FeeStructureID: "F1", AmountPaid: 999, Date: "2024-12-01", Session: "2023-2024",
	}))

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/dashboard", token: token})
	require.Equal(t, http.StatusOK, rec.Code)

	var res DashboardResponse
	decode(t, rec, &res)
	assert.Equal(t, testutil.Session, res.Summary.Session)
	assert.Equal(t, 2, res.Summary.StudentCount)
	assert.Equal(t, 2500.0, res.Summary.TotalExpected)
	assert.Equal(t, 1300.0, res.Summary.TotalCollected)
	assert.Equal(t, 1200.0, res.Summary.TotalDue)

	require.Len(t, res.RecentPayments, 5)
	assert.Equal(t, "P6", res.RecentPayments[0].ID)

	require.Len(t, res.Defaulters, 2)
	assert.Equal(t, "ST001", res.Defaulters[0].StudentID)
	assert.Equal(t, 800.0, res.Defaulters[0].TotalDue)
}

func TestInsights(t *testing.T) {
	t.Run("unavailable without a key", func(t *testing.T) {
		app := newTestApp(t, nil)
		tt := httpTest{
			method: http.MethodGet, path: "/v1/insights", token: app.token(t, app.staff),
			wantCode: http.StatusServiceUnavailable,
			wantData: []byte(`{"error":"insights are unavailable: no API key configured"}`),
		}
		checkCodeAndData(t, tt, app.do(tt))
	})

	t.Run("enabled", func(t *testing.T) {
		conf := newTestConfig()
		conf.InsightApiKey = "key"
		app := newTestApp(t, conf)
		tt := httpTest{
			method: http.MethodGet, path: "/v1/insights", token: app.token(t, app.staff),
			wantCode: http.StatusOK,
			wantData: []byte(`{"insights":["No students enrolled in session 2024-2025 yet."]}`),
		}
		checkCodeAndData(t, tt, app.do(tt))
	})
}
