package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/trash"
	testutil "github.com/trezcool/feedesk/tests"
)

func TestTrash(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.token(t, app.admin)
	testutil.CreateFee(t, app.store, "F1", 1000, "2099-01-01")
	st := testutil.CreateStudent(t, app.store, "ST001", "Amani", "F1")
	require.NoError(t, st.SetPassword(testPwd))
	require.NoError(t, app.store.UpdateStudent(ctxBg, st))
	testutil.CreateStudent(t, app.store, "ST002", "Baraka", "F1")
	require.NoError(t, app.store.DeleteStudent(ctxBg, "ST001"))
	require.NoError(t, app.store.DeleteStudent(ctxBg, "ST002"))

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/trash", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var items []trash.Item
	decode(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "ST002", items[0].OriginalID)
	assert.Equal(t, "ST001", items[1].OriginalID)
	assert.Empty(t, items[1].Student.PasswordHash)

	t.Run("restore", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/v1/trash/" + items[1].ID + "/restore", token: token,
			wantCode: http.StatusOK, wantData: []byte(`{"success":"Item restored."}`),
		}
		checkCodeAndData(t, tt, app.do(tt))

		restored, err := app.store.GetStudent(ctxBg, "ST001")
		require.NoError(t, err)
		assert.NotEmpty(t, restored.PasswordHash)
		assert.Len(t, app.store.Trash(ctxBg), 1)
	})

	t.Run("restore unknown", func(t *testing.T) {
		tt := httpTest{method: http.MethodPost, path: "/v1/trash/nope/restore", token: token, wantCode: http.StatusNotFound}
		checkCodeAndData(t, tt, app.do(tt))
	})

	t.Run("permanent delete", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodDelete, path: "/v1/trash/" + items[0].ID, token: token})
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, app.store.Trash(ctxBg))
		assert.Len(t, app.store.Students(ctxBg), 1)
	})

	t.Run("empty", func(t *testing.T) {
		require.NoError(t, app.store.DeleteStudent(ctxBg, "ST001"))
		require.Len(t, app.store.Trash(ctxBg), 1)

		rec := app.do(httpTest{method: http.MethodDelete, path: "/v1/trash", token: token})
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, app.store.Trash(ctxBg))
	})
}
