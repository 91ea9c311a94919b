package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := NewWithOptions("info", "text", &buf)

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message written at info level")
	}
	for _, want := range []string{"info message", "warn message", "error message", "formatted message: test 123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		write       func(Logger)
		written     bool
	}{
		{"debug logs at debug level", "debug", func(l Logger) { l.Debug(context.Background(), "x") }, true},
		{"info logs at debug level", "debug", func(l Logger) { l.Info(context.Background(), "x") }, true},
		{"debug doesn't log at info level", "info", func(l Logger) { l.Debug(context.Background(), "x") }, false},
		{"warn doesn't log at error level", "error", func(l Logger) { l.Warn(context.Background(), "x") }, false},
		{"error always logs", "error", func(l Logger) { l.Error(context.Background(), "x") }, true},
		{"invalid level defaults to info", "loud", func(l Logger) { l.Debug(context.Background(), "x") }, false},
		{"invalid level still logs info", "loud", func(l Logger) { l.Info(context.Background(), "x") }, true},
		{"trace is capped at info", "trace", func(l Logger) { l.Debug(context.Background(), "x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(NewWithOptions(tt.configLevel, "text", &buf))
			if got := buf.Len() > 0; got != tt.written {
				t.Errorf("written = %v, want %v (%q)", got, tt.written, buf.String())
			}
		})
	}
}

func TestUploadIDField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions("info", "json", &buf)

	ctx := WithUploadID(context.Background(), "abc-123")
	log.Info(ctx, "transcribing %s", "lecture.wav")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["upload_id"] != "abc-123" {
		t.Errorf("upload_id = %v, want abc-123", line["upload_id"])
	}
	if line["msg"] != "transcribing lecture.wav" {
		t.Errorf("msg = %v", line["msg"])
	}
}
