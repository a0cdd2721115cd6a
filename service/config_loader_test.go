package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/config"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfigFile(t, "rscan.yaml", `
rules:
  bundle_size_threshold_kb: 64
  disabled:
    - cache-opportunity
performance:
  max_goroutines: 2
output:
  format: json
`)

	loader := NewConfigurationLoader()
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Rules.BundleSizeThresholdKB != 64 {
		t.Errorf("BundleSizeThresholdKB = %g, want 64", cfg.Rules.BundleSizeThresholdKB)
	}
	if len(cfg.Rules.Disabled) != 1 || cfg.Rules.Disabled[0] != "cache-opportunity" {
		t.Errorf("Disabled = %v, want [cache-opportunity]", cfg.Rules.Disabled)
	}
	if cfg.Performance.MaxGoroutines != 2 {
		t.Errorf("MaxGoroutines = %d, want 2", cfg.Performance.MaxGoroutines)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Format = %s, want json", cfg.Output.Format)
	}
	// Unset keys keep their defaults.
	if cfg.Performance.TimeoutSeconds != 300 {
		t.Errorf("TimeoutSeconds = %d, want default 300", cfg.Performance.TimeoutSeconds)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfigFile(t, "rscan.config.json", `{
  "rules": {"forbidden_imports": ["fs", "child_process"]}
}`)

	loader := NewConfigurationLoader()
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Rules.ForbiddenImports) != 2 {
		t.Errorf("ForbiddenImports = %v, want [fs child_process]", cfg.Rules.ForbiddenImports)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	loader := NewConfigurationLoader()
	_, err := loader.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}

	var de *domain.DomainError
	if !errors.As(err, &de) || de.Code != domain.ErrCodeConfig {
		t.Errorf("expected a CONFIG_ERROR, got %v", err)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeConfigFile(t, "rscan.yaml", `
rules:
  bundle_size_threshold_kb: -5
`)

	loader := NewConfigurationLoader()
	if _, err := loader.LoadConfig(path); err == nil {
		t.Fatal("expected a validation error for a negative threshold")
	}
}

func TestLoadDefaultConfigFallsBack(t *testing.T) {
	// Run from an empty directory so no config file is discovered.
	t.Chdir(t.TempDir())

	loader := NewConfigurationLoader()
	cfg := loader.LoadDefaultConfig()

	want := config.DefaultConfig()
	if cfg.Rules.BundleSizeThresholdKB != want.Rules.BundleSizeThresholdKB {
		t.Errorf("BundleSizeThresholdKB = %g, want default %g",
			cfg.Rules.BundleSizeThresholdKB, want.Rules.BundleSizeThresholdKB)
	}
	if cfg.Output.Format != want.Output.Format {
		t.Errorf("Format = %s, want default %s", cfg.Output.Format, want.Output.Format)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults are valid", func(*config.Config) {}, false},
		{"negative threshold", func(c *config.Config) { c.Rules.BundleSizeThresholdKB = -1 }, true},
		{"negative goroutines", func(c *config.Config) { c.Performance.MaxGoroutines = -1 }, true},
		{"negative timeout", func(c *config.Config) { c.Performance.TimeoutSeconds = -1 }, true},
		{"unknown format", func(c *config.Config) { c.Output.Format = "xml" }, true},
		{"empty format allowed", func(c *config.Config) { c.Output.Format = "" }, false},
	}

	loader := NewConfigurationLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := loader.ValidateConfig(cfg)
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
