package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/analyzer"
)

const clientImportingFS = `"use client";
import fs from 'fs';
import path from 'path';

export function Widget() {
	return null;
}
`

func TestAnalyzeRejectsMissingFields(t *testing.T) {
	svc := NewAnalysisService()

	tests := []struct {
		name string
		req  *domain.AnalyzeRequest
	}{
		{"nil request", nil},
		{"missing code", &domain.AnalyzeRequest{FileName: "a.tsx"}},
		{"missing file name", &domain.AnalyzeRequest{Code: "const x = 1;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.Analyze(context.Background(), tt.req)
			if resp.Error == nil {
				t.Fatal("Expected an error response")
			}
			if resp.Error.Code != domain.ErrCodeInvalidRequest {
				t.Errorf("Error code = %s, want %s", resp.Error.Code, domain.ErrCodeInvalidRequest)
			}
			// Failure responses still carry the empty success shape.
			if resp.Diagnostics == nil || resp.DiagnosticsByFile == nil {
				t.Error("Expected empty collections on the error response")
			}
		})
	}
}

func TestAnalyzeBatchRejectsInvalidTarget(t *testing.T) {
	svc := NewAnalysisService()
	req := &domain.BatchAnalyzeRequest{
		AnalysisTargets: []domain.SourceTarget{
			{FileName: "a.tsx", Code: "const a = 1;"},
			{FileName: "b.tsx"},
		},
	}

	resp := svc.AnalyzeBatch(context.Background(), req)

	if resp.Error == nil || resp.Error.Code != domain.ErrCodeInvalidRequest {
		t.Fatalf("Expected INVALID_REQUEST, got %+v", resp.Error)
	}
	if !strings.Contains(resp.Error.Message, "target 1") {
		t.Errorf("Expected the message to identify target 1, got %q", resp.Error.Message)
	}
	// The whole batch is rejected; not even the valid target is analyzed.
	if len(resp.DiagnosticsByFile) != 0 {
		t.Errorf("Expected no per-file results, got %v", resp.DiagnosticsByFile)
	}
}

func TestAnalyzeBatchRejectsEmptyBatch(t *testing.T) {
	svc := NewAnalysisService()
	resp := svc.AnalyzeBatch(context.Background(), &domain.BatchAnalyzeRequest{})
	if resp.Error == nil || resp.Error.Code != domain.ErrCodeInvalidRequest {
		t.Fatalf("Expected INVALID_REQUEST, got %+v", resp.Error)
	}
}

func TestAnalyzeSingleTarget(t *testing.T) {
	svc := NewAnalysisService()
	resp := svc.Analyze(context.Background(), &domain.AnalyzeRequest{
		FileName: "widget.tsx",
		Code:     clientImportingFS,
	})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	diags := resp.DiagnosticsByFile["widget.tsx"]
	if len(diags) != 2 {
		t.Fatalf("Expected 2 forbidden-import errors, got %d: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Rule != "forbidden-import" || d.Level != domain.SeverityError {
			t.Errorf("Unexpected diagnostic: %+v", d)
		}
	}
	if resp.DurationsByFile["widget.tsx"] < 0 {
		t.Error("Expected a non-negative duration")
	}
	found := false
	for _, r := range resp.RulesExecuted {
		if r == "forbidden-import" {
			found = true
		}
	}
	if !found {
		t.Errorf("RulesExecuted = %v, missing forbidden-import", resp.RulesExecuted)
	}
}

func TestAnalyzeFileKeyGroupsOutput(t *testing.T) {
	svc := NewAnalysisService()
	resp := svc.Analyze(context.Background(), &domain.AnalyzeRequest{
		FileName: "widget.tsx",
		FileKey:  "src/components/widget.tsx",
		Code:     clientImportingFS,
	})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	if len(resp.DiagnosticsByFile["src/components/widget.tsx"]) != 2 {
		t.Errorf("Expected results keyed by the file key, got keys %v", mapKeys(resp.DiagnosticsByFile))
	}
}

func TestAnalyzeBatchDeterministic(t *testing.T) {
	buildRequest := func() *domain.BatchAnalyzeRequest {
		return &domain.BatchAnalyzeRequest{
			AnalysisTargets: []domain.SourceTarget{
				{FileName: "a.tsx", Code: "\"use client\";\nimport _ from 'lodash';\nexport const A = 1;\n"},
				{FileName: "b.tsx", Code: "\"use client\";\nimport _ from 'lodash';\nexport const B = 2;\n"},
				{FileName: "c.tsx", Code: clientImportingFS},
			},
			Context: &domain.AnalysisContext{
				ClientBundles: []domain.ClientBundle{
					{FilePath: "a.tsx", Chunks: []string{"lodash.js"}},
					{FilePath: "b.tsx", Chunks: []string{"lodash.js"}},
				},
			},
		}
	}

	svc := NewAnalysisService()
	first := svc.AnalyzeBatch(context.Background(), buildRequest())
	second := svc.AnalyzeBatch(context.Background(), buildRequest())

	if first.Error != nil || second.Error != nil {
		t.Fatalf("Unexpected errors: %+v / %+v", first.Error, second.Error)
	}
	if len(first.Diagnostics) == 0 {
		t.Fatal("Expected diagnostics from the batch")
	}
	if !reflect.DeepEqual(first.Diagnostics, second.Diagnostics) {
		t.Error("Flattened diagnostics differ between identical runs")
	}
	if !reflect.DeepEqual(first.DiagnosticsByFile, second.DiagnosticsByFile) {
		t.Error("Per-file diagnostics differ between identical runs")
	}
	if !reflect.DeepEqual(first.RulesExecuted, second.RulesExecuted) {
		t.Error("RulesExecuted differ between identical runs")
	}
}

// failingRule always errors; the orchestrator must swallow the fault and
// omit the rule from the executed set.
type failingRule struct{}

func (failingRule) ID() string { return "failing-rule" }

func (failingRule) Run(*analyzer.RuleTarget) ([]domain.Diagnostic, error) {
	return nil, errors.New("boom")
}

// panickingRule panics; the target's other rules must still run.
type panickingRule struct{}

func (panickingRule) ID() string { return "panicking-rule" }

func (panickingRule) Run(*analyzer.RuleTarget) ([]domain.Diagnostic, error) {
	panic("boom")
}

func TestAnalyzeOneOmitsFaultedRules(t *testing.T) {
	svc := NewAnalysisService()
	svc.rules = []analyzer.Rule{
		analyzer.NewForbiddenImportRule(analyzer.DefaultForbiddenImports()),
		failingRule{},
		panickingRule{},
	}

	at := svc.AnalyzeOne(domain.SourceTarget{FileName: "widget.tsx", Code: clientImportingFS}, nil)

	if !reflect.DeepEqual(at.RulesExecuted, []string{"forbidden-import"}) {
		t.Errorf("RulesExecuted = %v, want [forbidden-import]", at.RulesExecuted)
	}
	if len(at.Diagnostics) != 2 {
		t.Errorf("Expected the healthy rule's 2 diagnostics, got %d", len(at.Diagnostics))
	}
}

func mapKeys(m map[string][]domain.Diagnostic) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
