package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

type implLogger struct {
	logger *logrus.Logger
}

// New creates a text-formatted Logger writing to stdout
func New(level string) Logger {
	return NewWithOptions(level, "text", os.Stdout)
}

// NewWithOptions creates a Logger with the given level, format ("text" or "json") and output
func NewWithOptions(level, format string, out io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(out)
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil || lvl > logrus.DebugLevel {
		lvl = logrus.InfoLevel // default to info
	}
	l.SetLevel(lvl)

	return &implLogger{logger: l}
}

// WithUploadID returns a context whose log lines carry the upload id
func WithUploadID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UploadID returns the upload id stored by WithUploadID, if any
func UploadID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (l *implLogger) entry(ctx context.Context) *logrus.Entry {
	e := logrus.NewEntry(l.logger)
	if id := UploadID(ctx); id != "" {
		e = e.WithField("upload_id", id)
	}
	return e
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx).Errorf(msg, args...)
}

// Nop returns a Logger that discards everything; used by tests
func Nop() Logger {
	return NewWithOptions("error", "text", io.Discard)
}
