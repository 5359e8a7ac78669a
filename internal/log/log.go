package log

import (
	"io"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type Level = charmlog.Level

const (
	LevelDebug = charmlog.DebugLevel
	LevelInfo  = charmlog.InfoLevel
	LevelError = charmlog.ErrorLevel
)

// Lines are logfmt so they stay readable in the file tea.LogToFile opens.
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
	Level:           LevelInfo,
	Formatter:       charmlog.LogfmtFormatter,
})

// ParseLevel maps a config string to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	level, err := charmlog.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return LevelInfo
	}
	return level
}

func SetLevel(l Level) {
	logger.SetLevel(l)
}

// SetOutput redirects log lines. The interactive UI points this at a file or
// io.Discard so nothing is written over the alternate screen.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Debug(msg string, kv ...any) {
	logger.Debug(msg, pairs(kv)...)
}

func Info(msg string, kv ...any) {
	logger.Info(msg, pairs(kv)...)
}

func Error(msg string, err error, kv ...any) {
	logger.Error(msg, append([]any{"err", err}, pairs(kv)...)...)
}

// pairs drops a trailing key that has no value.
func pairs(kv []any) []any {
	return kv[:len(kv)-len(kv)%2]
}
