package analyzer

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./src/app.tsx", "src/app.tsx"},
		{"/src/app.tsx", "src/app.tsx"},
		{`src\app.tsx`, "src/app.tsx"},
		{"././a.ts", "a.ts"},
		{"a.ts", "a.ts"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPathsMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"app/page.tsx", "app/page.tsx", true},
		{"./app/page.tsx", "app/page.tsx", true},
		{"src/app/page.tsx", "app/page.tsx", true},
		{"app/page.tsx", "src/app/page.tsx", true},
		{"page.tsx", "app/page.tsx", true},
		{"app/page.tsx", "app/layout.tsx", false},
		// No partial segment matches
		{"subpage.tsx", "app/page.tsx", false},
		{"", "a.ts", false},
	}
	for _, tt := range tests {
		if got := PathsMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("PathsMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPathIndexPrecedence(t *testing.T) {
	ix := NewPathIndex()
	ix.Add("src/components/button.tsx", "button-key")
	ix.Add("app/dashboard/page.tsx", "page-key")

	tests := []struct {
		name   string
		lookup string
		want   string
		found  bool
	}{
		{"exact", "src/components/button.tsx", "button-key", true},
		{"leading dot stripped", "./src/components/button.tsx", "button-key", true},
		{"suffix", "components/button.tsx", "button-key", true},
		{"containing path", "repo/src/components/button.tsx", "button-key", true},
		{"basename", "button.tsx", "button-key", true},
		{"basename without extension", "button", "button-key", true},
		{"unknown", "header.tsx", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ix.Resolve(tt.lookup)
			if ok != tt.found {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.lookup, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.lookup, got, tt.want)
			}
		})
	}
}

func TestPathIndexFirstRegistrationWins(t *testing.T) {
	ix := NewPathIndex()
	ix.Add("a/button.tsx", "first")
	ix.Add("b/button.tsx", "second")

	// Exact lookups still resolve independently
	if got, _ := ix.Resolve("a/button.tsx"); got != "first" {
		t.Errorf("exact a = %q, want first", got)
	}
	if got, _ := ix.Resolve("b/button.tsx"); got != "second" {
		t.Errorf("exact b = %q, want second", got)
	}
	// Ambiguous basename resolves to the first registration
	if got, _ := ix.Resolve("button.tsx"); got != "first" {
		t.Errorf("basename = %q, want first", got)
	}
}

func TestDeriveAppRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"app/dashboard/settings/page.tsx", "/dashboard/settings"},
		{"app/page.tsx", "/"},
		{"src/app/blog/layout.tsx", "/blog"},
		{"components/button.tsx", ""},
		{"app", ""},
	}
	for _, tt := range tests {
		if got := DeriveAppRoute(tt.path); got != tt.want {
			t.Errorf("DeriveAppRoute(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRouteIndexLookup(t *testing.T) {
	ri := NewRouteIndex()
	ri.Add("app/dashboard/page.tsx", "/dashboard")

	if got := ri.Lookup("app/dashboard/page.tsx"); got != "/dashboard" {
		t.Errorf("registered path = %q, want /dashboard", got)
	}
	// Unregistered app paths derive a label from the path shape
	if got := ri.Lookup("app/blog/post/page.tsx"); got != "/blog/post" {
		t.Errorf("derived = %q, want /blog/post", got)
	}
	if got := ri.Lookup("lib/util.ts"); got != "" {
		t.Errorf("unknown = %q, want empty", got)
	}
}
