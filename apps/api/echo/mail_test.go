package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	appfs "github.com/trezcool/feedesk/fs"
	emailsvc "github.com/trezcool/feedesk/services/email"
	testutil "github.com/trezcool/feedesk/tests"
)

func parseTemplates(t *testing.T) {
	t.Helper()
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(appfs.FS, "templates/email", logger, true)
	require.Zero(t, logger.Count("ERROR"), logger.Messages)
	emailsvc.ClearSent()
}

func TestPaymentSendsReceipt(t *testing.T) {
	parseTemplates(t)
	app := newTestApp(t, nil)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	st := testutil.CreateStudent(t, app.store, "ST001", "Amani", "F1")
	st.Email = "amani@school.local"
	require.NoError(t, app.store.UpdateStudent(ctxBg, st))

	rec := app.do(httpTest{
		method: http.MethodPost,
		path:   "/v1/payments",
		token:  app.token(t, app.staff),
		body:   []byte(`{"studentId":"ST001","feeStructureId":"F1","amountPaid":400,"date":"2024-10-01","method":"Cash"}`),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	sent := emailsvc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "amani@school.local", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Balance due:    600.00")
	assert.Contains(t, sent[0].HTMLContent, "<strong>Amani</strong>")
}

func TestPasswordResetSendsMail(t *testing.T) {
	parseTemplates(t)
	app := newTestApp(t, nil)
	bursar := testutil.CreateUser(t, app.store, "STAFF002", "bursar", testPwd, school.RoleStaff)
	bursar.Email = "bursar@school.local"
	require.NoError(t, app.store.UpdateUser(ctxBg, bursar))

	rec := app.do(httpTest{method: http.MethodPost, path: "/v1/auth/password-reset", body: []byte(`{"email":"bursar@school.local"}`)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sent := emailsvc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "bursar@school.local", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, school.EncodeUID("STAFF002"))
	assert.Contains(t, sent[0].TextContent, "Token: "+school.MakeResetToken(bursar, app.deps.Conf.SecretKey))
}
