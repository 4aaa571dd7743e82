package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
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
			log := New(tt.level, nil)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := newWithWriter(&buf, "info", nil)

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message should be filtered at info level")
	}
	for _, want := range []string{"[INFO] info message", "[WARN] warn message", "[ERROR] error message", "formatted message: test 123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    string
		shouldLog   bool
	}{
		{"debug logs at debug level", "debug", "debug", true},
		{"info logs at debug level", "debug", "info", true},
		{"debug doesn't log at info level", "info", "debug", false},
		{"info logs at info level", "info", "info", true},
		{"error always logs", "debug", "error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.configLevel, nil).(*implLogger)
			result := log.shouldLog(tt.logLevel)
			if result != tt.shouldLog {
				t.Errorf("shouldLog() = %v, want %v", result, tt.shouldLog)
			}
		})
	}
}

func TestCatalogTranslatesKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	cat := Catalog{"Output written: %s": "Output scritto: %s"}
	log := newWithWriter(&buf, "info", cat)

	log.Info(context.Background(), "Output written: %s", "model_1.txt")
	log.Info(context.Background(), "Untranslated: %d", 7)

	out := buf.String()
	if !strings.Contains(out, "Output scritto: model_1.txt") {
		t.Errorf("translated message missing:\n%s", out)
	}
	if !strings.Contains(out, "Untranslated: 7") {
		t.Errorf("fallback message missing:\n%s", out)
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	content := "\"Output written: %s\": \"Output scritto: %s\"\n"
	if err := os.WriteFile(filepath.Join(dir, "messages_ita.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(dir, "ita")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if got := cat.Lookup("Output written: %s"); got != "Output scritto: %s" {
		t.Errorf("Lookup() = %q", got)
	}

	missing, err := LoadCatalog(dir, "fra")
	if err != nil {
		t.Fatalf("LoadCatalog(missing) error = %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing catalog should be empty, got %v", missing)
	}
}

func TestLoadCatalogInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "messages_eng.yaml"), []byte("key: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(dir, "eng"); err == nil {
		t.Error("LoadCatalog() should fail on invalid yaml")
	}
}
