package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/analyzer"
	"github.com/ludo-technologies/rscan/internal/config"
	"github.com/ludo-technologies/rscan/internal/version"
)

// importCacheSize bounds the number of parsed import tables kept for the
// detector and the expansion step.
const importCacheSize = 256

// AnalysisService orchestrates classification, the rule set, the
// duplicate-dependency detector, and aggregation.
type AnalysisService struct {
	rules    []analyzer.Rule
	detector *analyzer.DuplicateDepsDetector
	agg      *Aggregator
	executor domain.ParallelExecutor
}

// NewAnalysisService creates an analysis service with the default rule set
func NewAnalysisService() *AnalysisService {
	return NewAnalysisServiceFromConfig(config.DefaultConfig(), NewParallelExecutor())
}

// NewAnalysisServiceFromConfig builds the rule set and detector according
// to cfg and runs per-target analyses on the given executor.
func NewAnalysisServiceFromConfig(cfg *config.Config, executor domain.ParallelExecutor) *AnalysisService {
	opts := analyzer.DefaultOptions()
	if len(cfg.Rules.ForbiddenImports) > 0 {
		opts.ForbiddenImports = cfg.Rules.ForbiddenImports
	}
	if cfg.Rules.BundleSizeThresholdKB > 0 {
		opts.BundleSizeThresholdKB = cfg.Rules.BundleSizeThresholdKB
	}

	rules := DefaultRulesFiltered(opts, cfg.Rules.Disabled)

	cache, err := analyzer.NewImportCache(importCacheSize)
	if err != nil {
		// The only failure mode is a non-positive size, which the
		// constant rules out.
		panic(fmt.Sprintf("import cache: %v", err))
	}

	return &AnalysisService{
		rules:    rules,
		detector: analyzer.NewDuplicateDepsDetector(cache),
		agg:      NewAggregator(cache, version.GetVersion()),
		executor: executor,
	}
}

// DefaultRulesFiltered returns the default rule set minus disabled rule ids
func DefaultRulesFiltered(opts analyzer.Options, disabled []string) []analyzer.Rule {
	off := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		off[id] = true
	}
	all := analyzer.DefaultRules(opts)
	rules := make([]analyzer.Rule, 0, len(all))
	for _, r := range all {
		if !off[r.ID()] {
			rules = append(rules, r)
		}
	}
	return rules
}

// AnalyzeOne analyzes a single target against the merged context. Rule
// faults are swallowed: a failing rule contributes no diagnostics and is
// omitted from RulesExecuted.
func (s *AnalysisService) AnalyzeOne(target domain.SourceTarget, shared *domain.AnalysisContext) *domain.AnalyzedTarget {
	start := time.Now()

	effective := shared.Merge(target.Context)
	rt := analyzer.NewRuleTarget(target.FileName, target.Key(), target.Code, effective)

	diagnostics := []domain.Diagnostic{}
	rulesExecuted := make([]string, 0, len(s.rules))
	for _, rule := range s.rules {
		diags, err := analyzer.SafeRun(rule, rt)
		if err != nil {
			slog.Warn("rule execution fault",
				"rule", rule.ID(),
				"file", target.FileName,
				"error", err)
			continue
		}
		rulesExecuted = append(rulesExecuted, rule.ID())
		diagnostics = append(diagnostics, diags...)
	}

	return &domain.AnalyzedTarget{
		Key:           target.Key(),
		Diagnostics:   diagnostics,
		Duration:      float64(time.Since(start).Microseconds()) / 1000.0,
		RulesExecuted: rulesExecuted,
		Version:       version.GetVersion(),
	}
}

// Analyze handles a single-target request
func (s *AnalysisService) Analyze(ctx context.Context, req *domain.AnalyzeRequest) *domain.AnalyzeResponse {
	if req == nil || req.Code == "" || req.FileName == "" {
		return errorResponse(domain.NewInvalidRequestError("code and fileName are required"))
	}

	target := domain.SourceTarget{
		FileKey:  req.FileKey,
		FileName: req.FileName,
		Code:     req.Code,
	}
	batch := &domain.BatchAnalyzeRequest{
		AnalysisTargets: []domain.SourceTarget{target},
		Context:         req.Context,
	}
	return s.AnalyzeBatch(ctx, batch)
}

// AnalyzeBatch handles a multi-target request. The whole batch is rejected
// before any analysis when a target is structurally invalid. Per-target
// analyses run in parallel; the detector runs once over the full target
// set after the barrier; the aggregator consumes results in caller order.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, req *domain.BatchAnalyzeRequest) (resp *domain.AnalyzeResponse) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis panicked", "error", r)
			resp = errorResponse(domain.NewInternalError(fmt.Sprintf("analysis failed: %v", r), nil))
		}
	}()

	if req == nil || len(req.AnalysisTargets) == 0 {
		return errorResponse(domain.NewInvalidRequestError("at least one analysis target is required"))
	}
	for i, t := range req.AnalysisTargets {
		if t.Code == "" || t.FileName == "" {
			msg := fmt.Sprintf("target %d: code and fileName are required", i)
			return errorResponse(domain.NewInvalidRequestError(msg))
		}
	}

	targets := req.AnalysisTargets
	analyzed := make([]*domain.AnalyzedTarget, len(targets))

	var mu sync.Mutex
	tasks := make([]domain.ExecutableTask, 0, len(targets))
	for i := range targets {
		tasks = append(tasks, &analyzeTask{
			name: targets[i].Key(),
			run: func(context.Context) {
				at := s.AnalyzeOne(targets[i], req.Context)
				mu.Lock()
				analyzed[i] = at
				mu.Unlock()
			},
		})
	}
	if err := s.executor.Execute(ctx, tasks); err != nil {
		return errorResponse(domain.NewInternalError("analysis execution failed", err))
	}

	// An abandoned batch (timeout, cancellation) leaves gaps; fill them
	// so aggregation still sees every target.
	for i := range analyzed {
		if analyzed[i] == nil {
			analyzed[i] = &domain.AnalyzedTarget{
				Key:           targets[i].Key(),
				Diagnostics:   []domain.Diagnostic{},
				RulesExecuted: []string{},
				Version:       version.GetVersion(),
			}
		}
	}

	detectorDiags := s.detector.Detect(targets, req.Context)

	result := s.agg.Aggregate(targets, analyzed, detectorDiags)
	return &domain.AnalyzeResponse{AggregateResult: *result}
}

// analyzeTask adapts one per-target analysis to the executor interface
type analyzeTask struct {
	name string
	run  func(context.Context)
}

func (t *analyzeTask) Name() string { return t.name }

func (t *analyzeTask) IsEnabled() bool { return true }

func (t *analyzeTask) Execute(ctx context.Context) (any, error) {
	t.run(ctx)
	return nil, nil
}

// errorResponse builds a failure response that still carries the empty
// success shape.
func errorResponse(err error) *domain.AnalyzeResponse {
	return &domain.AnalyzeResponse{
		AggregateResult: domain.AggregateResult{
			Diagnostics:       []domain.Diagnostic{},
			DiagnosticsByFile: map[string][]domain.Diagnostic{},
			DurationsByFile:   map[string]float64{},
			RulesExecuted:     []string{},
			Version:           version.GetVersion(),
		},
		Error: &domain.ErrorInfo{
			Code:    domain.ErrorCode(err),
			Message: err.Error(),
		},
	}
}
