// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// EnvLevel is the environment variable consulted by New.
const EnvLevel = "SUBHARVEST_LOG_LEVEL"

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

// logrusLogger adapts a logrus entry to Logger. Clones created by With share
// the underlying *logrus.Logger, so SetLevel affects the whole tree.
type logrusLogger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

func New() Logger {
	return NewWithWriter(os.Stderr, parseLevel(os.Getenv(EnvLevel)))
}

// NewWithLevel creates a logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	return NewWithWriter(os.Stderr, lvl)
}

// NewSilent creates a logger that only outputs errors (used while a progress UI owns the terminal)
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// NewWithWriter creates a logger writing plain text lines to w.
func NewWithWriter(w io.Writer, lvl Level) Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05",
		DisableSorting:   false,
		QuoteEmptyFields: true,
	})
	base.SetLevel(toLogrus(lvl))

	return &logrusLogger{base: base, entry: logrus.NewEntry(base)}
}

func (l *logrusLogger) With(kv ...any) Logger {
	return &logrusLogger{base: l.base, entry: l.entry.WithFields(kvFields(kv...))}
}

func (l *logrusLogger) SetLevel(lvl Level) {
	l.base.SetLevel(toLogrus(lvl))
}

func (l *logrusLogger) Debug(msg string, kv ...any) { l.entry.WithFields(kvFields(kv...)).Debug(msg) }
func (l *logrusLogger) Info(msg string, kv ...any)  { l.entry.WithFields(kvFields(kv...)).Info(msg) }
func (l *logrusLogger) Warn(msg string, kv ...any)  { l.entry.WithFields(kvFields(kv...)).Warn(msg) }
func (l *logrusLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	l.entry.WithFields(kvFields(kv...)).WithError(err).Error("")
}

func kvFields(kv ...any) logrus.Fields {
	out := make(logrus.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		k := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			out[k] = kv[i+1]
		} else {
			out[k] = "(missing)"
		}
	}
	return out
}

func toLogrus(l Level) logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel maps a level name (as accepted in EnvLevel) to a Level.
func ParseLevel(s string) Level {
	return parseLevel(s)
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
