package logsvc

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
)

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(log.New(&buf, "", 0), LevelInfo)

	l.Debug("dropped")
	l.Info("rick: answered query", map[string]interface{}{"intent": "greeting"}, core.TeacherID("t1"))
	l.Error("rick: answering query", fmt.Errorf("db down"))

	assert.Equal(t, "[INFO] rick: answered query\n"+
		"  map[intent:greeting]\n"+
		"  teacher=t1\n"+
		"[ERROR] rick: answering query\n"+
		"  db down\n", buf.String())
}
