package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/config"
)

const clientWithServerImport = `"use client";
import fs from 'fs';

export function Widget() {
	return null;
}
`

func newTestUseCase() *AnalyzeUseCase {
	return NewAnalyzeUseCase(config.DefaultConfig(), true, true)
}

func TestExecuteAnalyzesDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"components/widget.tsx": clientWithServerImport,
		"lib/util.ts":           "export const x = 1;",
	})

	var buf bytes.Buffer
	resp, err := newTestUseCase().Execute(context.Background(), AnalyzeConfig{
		Paths:        []string{root},
		OutputFormat: "json",
		OutputWriter: &buf,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected response error: %+v", resp.Error)
	}

	// Output buckets key by root-relative slash paths.
	diags := resp.DiagnosticsByFile["components/widget.tsx"]
	if len(diags) != 1 || diags[0].Rule != "forbidden-import" {
		t.Errorf("expected one forbidden-import finding, got %v", diags)
	}
	if _, ok := resp.DiagnosticsByFile["lib/util.ts"]; !ok {
		t.Error("clean files still get an empty bucket")
	}

	var decoded domain.AnalyzeResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("written output is not valid JSON: %v", err)
	}
}

func TestExecuteNoSourceFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": "docs"})

	_, err := newTestUseCase().Execute(context.Background(), AnalyzeConfig{
		Paths:        []string{root},
		OutputWriter: &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "no JavaScript/TypeScript files") {
		t.Fatalf("expected a no-files error, got %v", err)
	}
}

func TestExecuteWithBundleStats(t *testing.T) {
	root := writeTree(t, map[string]string{
		"chart.tsx": "\"use client\";\nimport _ from 'lodash';\nexport const C = 1;\n",
		"table.tsx": "\"use client\";\nimport _ from 'lodash';\nexport const T = 1;\n",
		"stats.json": `{"clientBundles": [
			{"filePath": "chart.tsx", "chunks": ["lodash.js"]},
			{"filePath": "table.tsx", "chunks": ["lodash.js"]}
		]}`,
	})

	var buf bytes.Buffer
	resp, err := newTestUseCase().Execute(context.Background(), AnalyzeConfig{
		Paths:           []string{root},
		BundleStatsPath: filepath.Join(root, "stats.json"),
		OutputFormat:    "json",
		OutputWriter:    &buf,
		ExcludePatterns: []string{"stats.json"},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	found := false
	for _, d := range resp.Diagnostics {
		if d.Rule == "duplicate-dependencies" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duplicate-dependencies findings from the bundle stats, got %v", resp.Diagnostics)
	}
}

func TestExecuteRequestFile(t *testing.T) {
	request := domain.BatchAnalyzeRequest{
		AnalysisTargets: []domain.SourceTarget{
			{FileName: "widget.tsx", Code: clientWithServerImport},
		},
	}
	data, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var buf bytes.Buffer
	resp, err := newTestUseCase().Execute(context.Background(), AnalyzeConfig{
		RequestPath:  path,
		OutputFormat: "json",
		OutputWriter: &buf,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(resp.DiagnosticsByFile["widget.tsx"]) != 1 {
		t.Errorf("expected one finding for widget.tsx, got %v", resp.DiagnosticsByFile)
	}
}

func TestExecuteSingleTargetRequestShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	single := `{"fileName": "widget.tsx", "code": "\"use client\";\nimport fs from 'fs';\n"}`
	if err := os.WriteFile(path, []byte(single), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var buf bytes.Buffer
	resp, err := newTestUseCase().Execute(context.Background(), AnalyzeConfig{
		RequestPath:  path,
		OutputFormat: "json",
		OutputWriter: &buf,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(resp.DiagnosticsByFile["widget.tsx"]) != 1 {
		t.Errorf("expected the single-target shape to be accepted, got %v", resp.DiagnosticsByFile)
	}
}

func TestExecuteInvalidRequestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var buf bytes.Buffer
	resp, err := newTestUseCase().Execute(context.Background(), AnalyzeConfig{
		RequestPath:  path,
		OutputFormat: "json",
		OutputWriter: &buf,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	// An empty request flows through as INVALID_REQUEST in the response.
	if resp.Error == nil || resp.Error.Code != domain.ErrCodeInvalidRequest {
		t.Errorf("expected INVALID_REQUEST, got %+v", resp.Error)
	}
}
