package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TemplateKind selects one of the built-in config templates
type TemplateKind string

const (
	TemplateDefault TemplateKind = "default"
	TemplateStrict  TemplateKind = "strict"
	TemplateMinimal TemplateKind = "minimal"
)

// TemplateKinds lists the selectable templates in presentation order
func TemplateKinds() []TemplateKind {
	return []TemplateKind{TemplateDefault, TemplateStrict, TemplateMinimal}
}

// TemplateDescription returns a short human-readable summary for a template
func TemplateDescription(kind TemplateKind) string {
	switch kind {
	case TemplateStrict:
		return "all rules on, low bundle threshold, suggestions shown"
	case TemplateMinimal:
		return "boundary rules only, advisory rules disabled"
	default:
		return "balanced defaults for most projects"
	}
}

// BuildTemplate materializes a config for the given template kind
func BuildTemplate(kind TemplateKind) *Config {
	cfg := DefaultConfig()
	switch kind {
	case TemplateStrict:
		cfg.Rules.BundleSizeThresholdKB = 64
		cfg.Output.ShowSuggestions = true
	case TemplateMinimal:
		cfg.Rules.Disabled = []string{
			"bundle-size",
			"cache-opportunity",
			"suspense-boundary",
		}
		cfg.Output.ShowSuggestions = false
	}
	return cfg
}

// WriteTemplate writes the template as YAML to the given path.
// Refuses to overwrite an existing file unless force is set.
func WriteTemplate(kind TemplateKind, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(BuildTemplate(kind))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := "# rscan configuration\n# See https://github.com/ludo-technologies/rscan for documentation.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
