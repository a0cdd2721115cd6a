package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/rscan/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Rules holds rule-specific settings
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules"`

	// Performance holds concurrency and timeout settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Logging holds log file settings
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// RulesConfig holds the configurable inputs of the rule set
type RulesConfig struct {
	// ForbiddenImports is the denylist of server-only modules flagged in
	// client components. An empty list keeps the built-in default set.
	ForbiddenImports []string `json:"forbiddenImports" mapstructure:"forbidden_imports" yaml:"forbidden_imports"`

	// BundleSizeThresholdKB is the client bundle weight (kilobytes) above
	// which the bundle-size rule reports
	BundleSizeThresholdKB float64 `json:"bundleSizeThresholdKb" mapstructure:"bundle_size_threshold_kb" yaml:"bundle_size_threshold_kb"`

	// Disabled lists rule identifiers excluded from analysis
	Disabled []string `json:"disabled" mapstructure:"disabled" yaml:"disabled"`
}

// PerformanceConfig holds concurrency settings
type PerformanceConfig struct {
	// MaxGoroutines caps concurrent target analyses (0 = NumCPU)
	MaxGoroutines int `json:"maxGoroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole batch analysis (0 = default)
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format specifies the output format: text, json
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowSuggestions controls whether advisory findings are printed
	ShowSuggestions bool `json:"showSuggestions" mapstructure:"show_suggestions" yaml:"show_suggestions"`
}

// LoggingConfig holds log file settings
type LoggingConfig struct {
	// File is the log file path; empty logs to stderr
	File string `json:"file" mapstructure:"file" yaml:"file"`

	// Level is the minimum level: debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// MaxSizeMB rotates the log file once it exceeds this size
	MaxSizeMB int `json:"maxSizeMb" mapstructure:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept
	MaxBackups int `json:"maxBackups" mapstructure:"max_backups" yaml:"max_backups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			BundleSizeThresholdKB: constants.DefaultBundleSizeThresholdKB,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: 300,
		},
		Output: OutputConfig{
			Format:          constants.OutputFormatText,
			ShowSuggestions: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from the specified path, or discovers a
// config file when path is empty. Missing files fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		found := FindDefaultConfigFile()
		if found == "" {
			return DefaultConfig(), nil
		}
		v.SetConfigFile(found)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// FindDefaultConfigFile searches the current directory and its parents
// for a configuration file.
func FindDefaultConfigFile() string {
	configFiles := []string{
		constants.ConfigFileName,
		".rscanrc.json",
		".rscanrc",
		"rscan.yaml",
		"rscan.yml",
		".rscan.yaml",
		".rscan.json",
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, file := range configFiles {
			configPath := filepath.Join(currentDir, file)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}
