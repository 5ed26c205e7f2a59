package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: FormatText, Component: "test", Output: &buf})

	Info("comment created", "video_id", 7)

	out := buf.String()
	if !strings.Contains(out, "comment created") {
		t.Errorf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "video_id=7") {
		t.Errorf("expected structured field, got: %s", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "info", Format: FormatJSON, Component: "json_test", Output: &buf})

	Info("like toggled", "liked", true)

	out := buf.String()
	if !strings.Contains(out, `"msg":"like toggled"`) {
		t.Errorf("expected JSON message, got: %s", out)
	}
	if !strings.Contains(out, `"component":"json_test"`) {
		t.Errorf("expected component in JSON, got: %s", out)
	}
	if !strings.Contains(out, `"liked":true`) {
		t.Errorf("expected structured field in JSON, got: %s", out)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "error", Format: FormatText, Output: &buf})

	Info("should not appear")
	Error("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info log should not appear, got: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("error log should appear, got: %s", out)
	}
}

func TestLogger_WithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: FormatText, Output: &buf})

	With("req_id", "123").Info("processing request")

	if !strings.Contains(buf.String(), "req_id=123") {
		t.Errorf("expected req_id field, got: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	scoped := New(Config{Level: "debug", Format: FormatText, Output: &buf}).With("request_id", "abc")
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx, fallback).Info("scoped")

	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("expected scoped logger, got: %s", buf.String())
	}
	if FromContext(context.Background(), fallback) != fallback {
		t.Errorf("expected fallback logger for bare context")
	}
}
