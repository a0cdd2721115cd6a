package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/analyzer"
	"github.com/ludo-technologies/rscan/internal/config"
	"github.com/ludo-technologies/rscan/service"
)

// AnalyzeConfig holds configuration for the analyze use case
type AnalyzeConfig struct {
	// Paths are the files or directories to analyze
	Paths []string

	// BundleStatsPath points at a bundler stats file providing shared
	// client bundle context
	BundleStatsPath string

	// RequestPath reads a prebuilt JSON batch request instead of
	// scanning paths ("-" reads stdin)
	RequestPath string

	// Output options
	OutputFormat string
	OutputWriter io.Writer

	// ExcludePatterns filters collected files
	ExcludePatterns []string

	// NoProgress disables the progress bar
	NoProgress bool
}

// AnalyzeUseCase wires the scanner, the analysis service, and the
// formatter into the end-to-end analyze flow.
type AnalyzeUseCase struct {
	cfg        *config.Config
	svc        *service.AnalysisService
	formatter  *service.OutputFormatterImpl
	fileHelper *FileHelper
}

// NewAnalyzeUseCase creates a new analyze use case
func NewAnalyzeUseCase(cfg *config.Config, noProgress bool, jsonOutput bool) *AnalyzeUseCase {
	pm := service.NewProgressManager(!noProgress && !jsonOutput)
	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, pm)
	return &AnalyzeUseCase{
		cfg:        cfg,
		svc:        service.NewAnalysisServiceFromConfig(cfg, executor),
		formatter:  service.NewOutputFormatter(cfg.Output.ShowSuggestions),
		fileHelper: NewFileHelper(),
	}
}

// Execute runs the analysis and writes the response. The returned
// response lets callers derive an exit code from the error counts.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, acfg AnalyzeConfig) (*domain.AnalyzeResponse, error) {
	req, err := uc.buildRequest(acfg)
	if err != nil {
		return nil, err
	}

	resp := uc.svc.AnalyzeBatch(ctx, req)

	writer := acfg.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	format := acfg.OutputFormat
	if format == "" {
		format = uc.cfg.Output.Format
	}
	if err := uc.formatter.Write(resp, format, writer); err != nil {
		return resp, fmt.Errorf("failed to write output: %w", err)
	}
	return resp, nil
}

func (uc *AnalyzeUseCase) buildRequest(acfg AnalyzeConfig) (*domain.BatchAnalyzeRequest, error) {
	if acfg.RequestPath != "" {
		return readRequestFile(acfg.RequestPath)
	}

	files, err := uc.fileHelper.CollectSourceFiles(acfg.Paths, acfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to collect source files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no JavaScript/TypeScript files found in the specified paths")
	}

	root := ""
	if len(acfg.Paths) == 1 {
		if info, statErr := os.Stat(acfg.Paths[0]); statErr == nil && info.IsDir() {
			root = acfg.Paths[0]
		}
	}
	targets, err := uc.fileHelper.BuildTargets(files, root)
	if err != nil {
		return nil, err
	}

	shared := &domain.AnalysisContext{}
	if acfg.BundleStatsPath != "" {
		shared, err = uc.fileHelper.LoadBundleStats(acfg.BundleStatsPath)
		if err != nil {
			return nil, err
		}
	}
	shared.ClientComponentPaths = clientComponentPaths(targets)

	return &domain.BatchAnalyzeRequest{
		AnalysisTargets: targets,
		Context:         shared,
	}, nil
}

// clientComponentPaths pre-classifies every target so server files can
// check their imports against the project's client components.
func clientComponentPaths(targets []domain.SourceTarget) []string {
	var paths []string
	for _, t := range targets {
		if analyzer.Classify(t.FileName, t.Code) == domain.ComponentKindClient {
			paths = append(paths, t.Key())
		}
	}
	return paths
}

func readRequestFile(path string) (*domain.BatchAnalyzeRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}

	var req domain.BatchAnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	// Single-target request shape is accepted too
	if len(req.AnalysisTargets) == 0 {
		var single domain.AnalyzeRequest
		if err := json.Unmarshal(data, &single); err == nil && single.Code != "" && single.FileName != "" {
			req.AnalysisTargets = []domain.SourceTarget{{
				FileKey:  single.FileKey,
				FileName: single.FileName,
				Code:     single.Code,
			}}
			req.Context = single.Context
		}
	}
	return &req, nil
}
