package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: " WARN ", want: zapcore.WarnLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "", want: zapcore.InfoLevel},
		{in: "verbose", want: zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Fatalf("parseLevel(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{
		Level: "debug",
		File: FileConfig{
			Enabled: true,
			Path:    dir,
			Name:    "test.log",
		},
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	logger.Info("speech frame sent")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("read log error: %v", err)
	}
	if !strings.Contains(string(data), "speech frame sent") {
		t.Fatalf("log=%q, want the message", data)
	}
}

func TestNewFileWriterDefaults(t *testing.T) {
	dir := t.TempDir()
	writer, err := newFileWriter(FileConfig{Path: dir, MaxBackups: -1, MaxAgeDays: -1})
	if err != nil {
		t.Fatalf("newFileWriter error: %v", err)
	}
	if filepath.Base(writer.Filename) != "speech-frames.log" {
		t.Fatalf("filename=%q, want speech-frames.log", writer.Filename)
	}
	if writer.MaxSize != 100 || writer.MaxBackups != 0 || writer.MaxAge != 0 {
		t.Fatalf("writer=%+v, want 100/0/0", writer)
	}
}

func TestNewConsoleFormat(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{
		Format: "console",
		File:   FileConfig{Enabled: true, Path: dir, Name: "console.log"},
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	logger.Info("speech audio ended")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "console.log"))
	if err != nil {
		t.Fatalf("read log error: %v", err)
	}
	if strings.HasPrefix(string(data), "{") {
		t.Fatalf("log=%q, want console encoding", data)
	}
	if !strings.Contains(string(data), "INFO") {
		t.Fatalf("log=%q, want capital level", data)
	}
}
