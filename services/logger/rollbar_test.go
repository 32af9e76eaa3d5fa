package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", Build: "test"})

	usr := school.User{ID: "ADMIN001", Name: "Admin"}
	args := logger.prepare("msg", []interface{}{usr, errors.New("boom"), usr})
	assert.Equal(t, []interface{}{"msg", errors.New("boom")}, args)

	logger.Warn("store: fees is corrupt", errors.New("unexpected end of JSON input"))
	assert.Equal(t, "store: fees is corrupt\nunexpected end of JSON input\n", buf.String())
}
