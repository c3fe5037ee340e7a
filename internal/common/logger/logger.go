package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ============================================================
// Logger
// ============================================================

var Log = logrus.New()

type appNameHook struct {
	appName string
}

func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// Init настраивает общий логгер: уровень из LOG_LEVEL, текстовый формат,
// префикс с именем сервиса.
func Init(appName, level string) {
	Log.SetOutput(os.Stdout)

	levelStr := strings.ToLower(strings.TrimSpace(level))
	if levelStr == "" {
		levelStr = "info"
	}
	lvl, err := logrus.ParseLevel(levelStr)
	if err != nil {
		Log.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", levelStr)
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Log.ReplaceHooks(make(logrus.LevelHooks))
	Log.AddHook(&appNameHook{appName})
}
