package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/rscan/app"
	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/logging"
	"github.com/ludo-technologies/rscan/service"
)

var (
	outputFormat    string
	jsonOutput      bool
	configPath      string
	bundleStatsPath string
	requestPath     string
	excludePatterns []string
	noProgress      bool
)

// AnalyzeExitError signals a non-zero exit code after findings were printed
type AnalyzeExitError struct {
	Code int
}

func (e *AnalyzeExitError) Error() string {
	return fmt.Sprintf("analysis found errors (exit %d)", e.Code)
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Analyze React Server Component files",
		Long: `Analyze JavaScript/TypeScript files for server/client boundary issues.

Examples:
  rscan analyze src/
  rscan analyze --format json app/
  rscan analyze --bundle-stats .next/bundle-stats.json app/
  rscan analyze --request batch.json`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format: text, json")
	cmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&bundleStatsPath, "bundle-stats", "",
		"Path to a bundler stats file providing client bundle context")
	cmd.Flags().StringVar(&requestPath, "request", "",
		"Read a JSON analysis request instead of scanning paths (- for stdin)")
	cmd.Flags().StringSliceVarP(&excludePatterns, "exclude", "e", nil,
		"File patterns to exclude")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false,
		"Disable the progress bar")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && requestPath == "" {
		return fmt.Errorf("no paths specified")
	}

	loader := service.NewConfigurationLoader()
	cfg := loader.LoadDefaultConfig()
	if configPath != "" {
		loaded, err := loader.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logging.Setup(cfg.Logging)

	format := cfg.Output.Format
	if outputFormat != "" {
		format = outputFormat
	}
	if jsonOutput {
		format = constants.OutputFormatJSON
	}

	uc := app.NewAnalyzeUseCase(cfg, noProgress, format == constants.OutputFormatJSON)
	resp, err := uc.Execute(cmd.Context(), app.AnalyzeConfig{
		Paths:           args,
		BundleStatsPath: bundleStatsPath,
		RequestPath:     requestPath,
		OutputFormat:    format,
		OutputWriter:    cmd.OutOrStdout(),
		ExcludePatterns: excludePatterns,
		NoProgress:      noProgress,
	})
	if err != nil {
		return err
	}

	if resp.Error != nil {
		return &AnalyzeExitError{Code: 2}
	}
	for _, d := range resp.Diagnostics {
		if d.Level == domain.SeverityError && !d.Suggestion {
			return &AnalyzeExitError{Code: 1}
		}
	}
	return nil
}
