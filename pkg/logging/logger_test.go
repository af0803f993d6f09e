package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggingBeforeInitIsSilent(t *testing.T) {
	// must not panic or write anywhere
	Info("not initialized", "key", "value")
	WithPrefix("test").Warn("still fine")
}

func TestLoggingInitDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	if err := Init(dir, "", "debug"); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	Info("Test info message", "key", "value")
	Debug("Test debug message", "count", 42)
	Warn("Test warning message", "source", "test")
	Error("Test error message", "error", "test error")
	Close()

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read log directory: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one log file, got %d", len(files))
	}
	if !strings.HasPrefix(files[0].Name(), "opdsreader-") {
		t.Errorf("unexpected log file name %s", files[0].Name())
	}

	content, _ := os.ReadFile(filepath.Join(dir, files[0].Name()))
	for _, want := range []string{"Test info message", "Test debug message", "count=42"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("log file missing %q", want)
		}
	}
}

func TestLoggingLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reader.log")

	if err := Init("", path, "warn"); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	Info("hidden info")
	WithPrefix("pages").Warn("visible warning")
	Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if strings.Contains(string(content), "hidden info") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(string(content), "visible warning") {
		t.Error("warning line missing")
	}
	if !strings.Contains(string(content), "pages") {
		t.Error("prefix missing")
	}
}
