package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/rscan/internal/config"
)

func TestSetupWritesJSONToFile(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	path := filepath.Join(t.TempDir(), "rscan.log")
	Setup(config.LoggingConfig{File: path, Level: "debug", MaxSizeMB: 1, MaxBackups: 1})

	slog.Info("analysis started", "files", 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "analysis started" {
		t.Errorf("msg = %v, want analysis started", entry["msg"])
	}
	if entry["files"] != float64(3) {
		t.Errorf("files = %v, want 3", entry["files"])
	}
}

func TestSetupLevelFiltering(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	path := filepath.Join(t.TempDir(), "rscan.log")
	Setup(config.LoggingConfig{File: path, Level: "error", MaxSizeMB: 1, MaxBackups: 1})

	slog.Info("suppressed")

	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		t.Errorf("info entry should be filtered at error level, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
