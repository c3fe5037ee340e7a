package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLevelAndPrefix(t *testing.T) {
	Init("planner", "debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	var buf bytes.Buffer
	Log.SetOutput(&buf)
	Log.Info("hello")
	assert.Contains(t, buf.String(), "[planner] hello")

	// повторный Init не дублирует префикс
	Init("planner", "")
	buf.Reset()
	Log.SetOutput(&buf)
	Log.Info("again")
	assert.Contains(t, buf.String(), "msg=\"[planner] again\"")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestInitInvalidLevel(t *testing.T) {
	Init("planner", "loud")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
