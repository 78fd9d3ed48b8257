package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type implLogger struct {
	base *logrus.Logger
}

// New creates a Logger writing to stdout.
// format "json" selects the JSON formatter, anything else the text formatter.
func New(level, format string) Logger {
	return NewWithOutput(level, format, os.Stdout)
}

// NewWithOutput creates a Logger writing to w.
func NewWithOutput(level, format string, w io.Writer) Logger {
	base := logrus.New()
	base.SetOutput(w)

	if strings.EqualFold(format, "json") {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	}

	base.SetLevel(parseLevel(level))

	return &implLogger{base: base}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *implLogger) shouldLog(level logrus.Level) bool {
	return l.base.IsLevelEnabled(level)
}

func (l *implLogger) entry(ctx context.Context) *logrus.Entry {
	e := logrus.NewEntry(l.base)
	if f := fieldsFrom(ctx); len(f) > 0 {
		e = e.WithFields(f)
	}
	return e
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(logrus.DebugLevel) {
		l.entry(ctx).Debugf(msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(logrus.InfoLevel) {
		l.entry(ctx).Infof(msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(logrus.WarnLevel) {
		l.entry(ctx).Warnf(msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(logrus.ErrorLevel) {
		l.entry(ctx).Errorf(msg, args...)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewWithOutput("error", "text", io.Discard)
}
