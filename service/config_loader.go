package service

import (
	"fmt"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/config"
	"github.com/ludo-technologies/rscan/internal/constants"
)

// ConfigurationLoaderImpl loads and validates analysis configuration
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	if err := c.ValidateConfig(cfg); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// LoadDefaultConfig discovers a config file near the working directory,
// falling back to built-in defaults.
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *config.Config {
	cfg, err := config.LoadConfig("")
	if err != nil || c.ValidateConfig(cfg) != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// ValidateConfig validates the configuration
func (c *ConfigurationLoaderImpl) ValidateConfig(cfg *config.Config) error {
	if cfg.Rules.BundleSizeThresholdKB < 0 {
		return fmt.Errorf("bundle_size_threshold_kb cannot be negative, got %g", cfg.Rules.BundleSizeThresholdKB)
	}

	if cfg.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("max_goroutines cannot be negative, got %d", cfg.Performance.MaxGoroutines)
	}

	if cfg.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative, got %d", cfg.Performance.TimeoutSeconds)
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
	}
	if cfg.Output.Format != "" && !validFormats[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json)", cfg.Output.Format)
	}

	return nil
}
