package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
)

func TestRollbarLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewRollbarLogger(log.New(buf, "", 0), core.NewTestConfig())

	usr := user.User{ID: "42", Username: "jdoe", Email: "jdoe@test.com"}
	logger.Error("querying users", errors.New("boom"), usr)
	logger.Info("server started")

	out := buf.String()
	assert.Contains(t, out, "ERROR: querying users\n")
	assert.Contains(t, out, "boom\n")
	assert.NotContains(t, out, "jdoe@test.com")
	assert.Contains(t, out, "INFO: server started\n")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := &RollbarLogger{}
	err := errors.New("boom")
	extras := map[string]interface{}{"path": "/v1/stats/overview"}

	args := logger.prepare("failed", []interface{}{err, user.User{ID: "1"}, extras, user.User{ID: "2"}})
	assert.Equal(t, []interface{}{"failed", err, extras}, args)
}
