package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
	emailsvc "github.com/trezcool/feedesk/services/email"
	"github.com/trezcool/feedesk/storage/kv/memkv"
	testutil "github.com/trezcool/feedesk/tests"
)

const testPwd = "Kx7#mPq2vL"

var ctxBg = context.Background()

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

// fullKV rejects every write while full is set.
type fullKV struct {
	*memkv.DB
	mu   sync.Mutex
	full bool
}

func (kv *fullKV) setFull(full bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.full = full
}

func (kv *fullKV) Set(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.full {
		return core.ErrQuotaExceeded
	}
	return kv.DB.Set(ctx, key, value)
}

type testApp struct {
	*server
	store *store.Store
	kv    *fullKV
	admin school.User
	staff school.User
}

func newTestConfig() *core.Config {
	return &core.Config{
		AppName:   "Feedesk",
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 2 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		},
	}
}

func newTestApp(t *testing.T, conf *core.Config) *testApp {
	t.Helper()

	if conf == nil {
		conf = newTestConfig()
	}
	kv := &fullKV{DB: memkv.Open(0)}
	s := store.New(kv, new(testutil.Logger), store.WithSeed(testutil.EmptySeed()), store.WithNamespace("test"))
	require.NoError(t, s.Init(context.Background()))

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	school.InitValidators(validate, translator)

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         new(testutil.Logger),
		Store:          s,
		MailSvc:        emailsvc.NewConsoleServiceMock(conf),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	}).(*server)

	return &testApp{
		server: srv,
		store:  s,
		kv:     kv,
		admin:  testutil.CreateUser(t, s, "ADMIN001", "admin", testPwd, school.RoleAdmin),
		staff:  testutil.CreateUser(t, s, "STAFF001", "staff", testPwd, school.RoleStaff),
	}
}

func (app *testApp) token(t *testing.T, usr school.User) string {
	t.Helper()
	token, err := app.GenerateToken(usr)
	require.NoError(t, err)
	return token
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
