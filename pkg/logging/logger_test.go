package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func newBufferLogger(format Format, level Level) (*StreamLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewStreamLogger(&buf, format, level)
	l.now = fixedClock
	return l, &buf
}

func TestStreamLogger_Levels(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufferLogger(FormatText, WarnLevel)

	l.Debug(ctx, "debug message", nil)
	l.Info(ctx, "info message", nil)
	l.Warn(ctx, "warn message", nil)
	l.Error(ctx, "error message", nil, nil)

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn message") || !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("missing WARN/ERROR lines: %q", out)
	}
}

func TestStreamLogger_TextFormat(t *testing.T) {
	l, buf := newBufferLogger(FormatText, DebugLevel)

	l.Error(context.Background(), "delete failed", errors.New("permission denied"), Fields{
		"file":  "a.md",
		"entry": "a...md",
	})

	want := "2024-01-02T03:04:05.000Z [ERROR] delete failed error=\"permission denied\" entry=a...md file=a.md\n"
	if buf.String() != want {
		t.Errorf("text line = %q, want %q", buf.String(), want)
	}
}

func TestStreamLogger_JSONFormat(t *testing.T) {
	l, buf := newBufferLogger(FormatJSON, DebugLevel)

	l.Info(context.Background(), "reconciled", Fields{"matched": 3})

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON line %q: %v", buf.String(), err)
	}
	if record["level"] != "INFO" || record["message"] != "reconciled" {
		t.Errorf("record = %v", record)
	}
	if record["matched"] != float64(3) {
		t.Errorf("matched = %v, want 3", record["matched"])
	}
	if record["timestamp"] != "2024-01-02T03:04:05Z" {
		t.Errorf("timestamp = %v", record["timestamp"])
	}
}

func TestStreamLogger_WithFields(t *testing.T) {
	l, buf := newBufferLogger(FormatText, DebugLevel)

	child := l.WithFields(Fields{"operation": "op-1"})
	child.Info(context.Background(), "start", Fields{"files": 2})
	l.Info(context.Background(), "parent", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "start files=2 operation=op-1") {
		t.Errorf("child line = %q", lines[0])
	}
	if strings.Contains(lines[1], "operation") {
		t.Errorf("parent logger picked up child fields: %q", lines[1])
	}
}

func TestStreamLogger_ConcurrentWrites(t *testing.T) {
	l, buf := newBufferLogger(FormatText, DebugLevel)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Info(context.Background(), "line", Fields{"n": n})
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 200 {
		t.Errorf("got %d lines, want 200", len(lines))
	}
}

func TestNewFileLogger(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "nested", "dir", "docrecon.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   logPath,
		Format: FormatText,
		Level:  InfoLevel,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	logger.Info(context.Background(), "hello", nil)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello") {
		t.Errorf("log file content = %q", string(data))
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "rotate.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      DebugLevel,
		MaxSize:    200,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	for i := 0; i < 50; i++ {
		logger.Info(context.Background(), fmt.Sprintf("message number %d with padding", i), nil)
	}

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected first backup: %v", err)
	}
	if _, err := os.Stat(logPath + ".2"); err != nil {
		t.Errorf("expected second backup: %v", err)
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestNullLogger(t *testing.T) {
	var l Logger = NewNullLogger()
	l.Info(context.Background(), "ignored", Fields{"a": 1})
	l.Error(context.Background(), "ignored", errors.New("x"), nil)
	if l.WithFields(Fields{"a": 1}) != l {
		t.Error("WithFields should return the same null logger")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOrNull(t *testing.T) {
	if _, ok := OrNull(nil).(NullLogger); !ok {
		t.Error("OrNull(nil) should return a NullLogger")
	}

	var buf bytes.Buffer
	stream := NewStreamLogger(&buf, FormatText, InfoLevel)
	if OrNull(stream) != Logger(stream) {
		t.Error("OrNull should keep a non-nil logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON || ParseFormat("JSON") != FormatJSON {
		t.Error("json should parse as FormatJSON")
	}
	if ParseFormat("text") != FormatText || ParseFormat("xml") != FormatText {
		t.Error("other values should parse as FormatText")
	}
}
