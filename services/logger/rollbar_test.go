package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-reports/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "TEST : ", 0), &core.Config{Env: "TEST"})

	err := errors.New("boom")
	args := l.prepare("refresh failed", []interface{}{
		err,
		nil,
		map[string]interface{}{"kind": "class-summary"},
		map[string]interface{}{"class_id": "c5"},
	})
	assert.Equal(t, []interface{}{
		"refresh failed",
		err,
		map[string]interface{}{"kind": "class-summary", "class_id": "c5"},
	}, args)

	l.Warn("snapshot is stale", map[string]interface{}{"generation": 3})
	assert.Contains(t, buf.String(), "TEST : WARN: snapshot is stale")
	assert.Contains(t, buf.String(), "generation:3")
}
