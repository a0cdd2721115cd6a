package analyzer

import (
	"testing"

	"github.com/ludo-technologies/rscan/internal/parser"
)

func parseImports(t *testing.T, fileName, code string) *FileImports {
	t.Helper()
	ast, err := parser.ParseForLanguage(fileName, []byte(code))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return ExtractImports(ast, fileName)
}

func TestExtractImportsKinds(t *testing.T) {
	code := `import fs from 'fs';
import { join, resolve } from 'path';
const os = require('os');
const lazy = () => import('lodash');
`
	fi := parseImports(t, "a.ts", code)

	if len(fi.Imports) != 4 {
		t.Fatalf("Expected 4 imports, got %d", len(fi.Imports))
	}

	tests := []struct {
		specifier string
		kind      ImportKind
	}{
		{"fs", ImportKindStatic},
		{"path", ImportKindStatic},
		{"os", ImportKindRequire},
		{"lodash", ImportKindDynamic},
	}
	for i, tt := range tests {
		imp := fi.Imports[i]
		if imp.Specifier != tt.specifier {
			t.Errorf("Import %d specifier = %q, want %q", i, imp.Specifier, tt.specifier)
		}
		if imp.Kind != tt.kind {
			t.Errorf("Import %d kind = %s, want %s", i, imp.Kind, tt.kind)
		}
	}
}

func TestExtractImportsNames(t *testing.T) {
	code := `import Button, { Icon } from './button';
import * as utils from './utils';
`
	fi := parseImports(t, "a.tsx", code)
	if len(fi.Imports) != 2 {
		t.Fatalf("Expected 2 imports, got %d", len(fi.Imports))
	}

	names := fi.Imports[0].Names
	if len(names) != 2 || names[0] != "Button" || names[1] != "Icon" {
		t.Errorf("Expected [Button Icon], got %v", names)
	}
	if len(fi.Imports[1].Names) != 1 || fi.Imports[1].Names[0] != "utils" {
		t.Errorf("Expected namespace binding [utils], got %v", fi.Imports[1].Names)
	}
}

func TestExtractImportsSpecifierRange(t *testing.T) {
	code := `import fs from 'fs';`
	fi := parseImports(t, "a.ts", code)
	if len(fi.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(fi.Imports))
	}

	imp := fi.Imports[0]
	if got := code[imp.SpecifierRange.StartByte:imp.SpecifierRange.EndByte]; got != "'fs'" {
		t.Errorf("Specifier range covers %q, want \"'fs'\"", got)
	}
	if imp.StatementRange.StartByte != 0 {
		t.Errorf("Statement range should start at the import keyword, got %d", imp.StatementRange.StartByte)
	}
}

func TestImportCacheMemoizes(t *testing.T) {
	cache := newTestImportCache(t)

	first := cache.Get("a.ts", "import fs from 'fs';")
	second := cache.Get("a.ts", "import fs from 'fs';")
	if first != second {
		t.Error("Expected the cached FileImports instance on repeat lookups")
	}
	if len(first.Imports) != 1 {
		t.Fatalf("Expected 1 import, got %d", len(first.Imports))
	}
}

func TestImportCacheBrokenSource(t *testing.T) {
	cache := newTestImportCache(t)
	fi := cache.Get("broken.ts", "const = {")
	if fi == nil {
		t.Fatal("Expected a non-nil empty import set")
	}
}
