package analyzer

import (
	"strings"
	"testing"

	"github.com/ludo-technologies/rscan/domain"
)

func runRule(t *testing.T, rule Rule, fileName, code string, ctx *domain.AnalysisContext) []domain.Diagnostic {
	t.Helper()
	target := NewRuleTarget(fileName, fileName, code, ctx)
	diags, err := rule.Run(target)
	if err != nil {
		t.Fatalf("rule %s failed: %v", rule.ID(), err)
	}
	return diags
}

func TestForbiddenImportFlagsClientImports(t *testing.T) {
	code := `'use client';
import fs from 'fs';
import path from 'path';
import React from 'react';
`
	diags := runRule(t, NewForbiddenImportRule(DefaultForbiddenImports()), "widget.tsx", code, nil)

	if len(diags) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", len(diags))
	}
	for _, d := range diags {
		if d.Level != domain.SeverityError {
			t.Errorf("Expected error level, got %s", d.Level)
		}
		if d.Loc == nil || d.Loc.Range == nil {
			t.Fatal("Expected a positioned diagnostic")
		}
	}

	// Each diagnostic is positioned at its own specifier literal
	utf16Code := code // pure ASCII, so UTF-16 offsets equal byte offsets
	first := utf16Code[diags[0].Loc.Range.From:diags[0].Loc.Range.To]
	second := utf16Code[diags[1].Loc.Range.From:diags[1].Loc.Range.To]
	if first != "'fs'" {
		t.Errorf("First diagnostic range covers %q, want \"'fs'\"", first)
	}
	if second != "'path'" {
		t.Errorf("Second diagnostic range covers %q, want \"'path'\"", second)
	}
}

func TestForbiddenImportIgnoresServerFiles(t *testing.T) {
	code := `import fs from 'fs';
export default function Page() { return null; }
`
	diags := runRule(t, NewForbiddenImportRule(DefaultForbiddenImports()), "page.tsx", code, nil)
	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics for a server file, got %d", len(diags))
	}
}

func TestForbiddenImportNodePrefix(t *testing.T) {
	code := `'use client';
import fs from 'node:fs';
`
	diags := runRule(t, NewForbiddenImportRule(DefaultForbiddenImports()), "widget.tsx", code, nil)
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic for node:fs, got %d", len(diags))
	}
	if !strings.Contains(diags[0].Message, "node:fs") {
		t.Errorf("Message should name the specifier as written: %s", diags[0].Message)
	}
}

func TestForbiddenImportRequireCall(t *testing.T) {
	code := `'use client';
const fs = require('fs');
`
	diags := runRule(t, NewForbiddenImportRule(DefaultForbiddenImports()), "widget.jsx", code, nil)
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic for require('fs'), got %d", len(diags))
	}
}

func TestForbiddenImportSkipsDynamicImports(t *testing.T) {
	code := `'use client';
const load = () => import('fs');
`
	diags := runRule(t, NewForbiddenImportRule(DefaultForbiddenImports()), "widget.tsx", code, nil)
	if len(diags) != 0 {
		t.Errorf("Dynamic imports should not be flagged, got %d diagnostics", len(diags))
	}
}

func TestForbiddenImportCustomDenylist(t *testing.T) {
	code := `'use client';
import secret from 'internal-secrets';
import fs from 'fs';
`
	diags := runRule(t, NewForbiddenImportRule([]string{"internal-secrets"}), "widget.tsx", code, nil)
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(diags))
	}
	if !strings.Contains(diags[0].Message, "internal-secrets") {
		t.Errorf("Unexpected message: %s", diags[0].Message)
	}
}
