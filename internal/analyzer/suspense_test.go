package analyzer

import (
	"strings"
	"testing"

	"github.com/ludo-technologies/rscan/domain"
)

func TestSuspenseBoundaryFlagsAsyncComponent(t *testing.T) {
	code := `export default async function Page() {
	const data = await fetch('/api');
	return <div>{data}</div>;
}
`
	diags := runRule(t, NewSuspenseBoundaryRule(), "app/page.tsx", code, nil)

	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Level != domain.SeverityWarn {
		t.Errorf("Expected warn level, got %s", d.Level)
	}
	if !strings.Contains(d.Message, "Page") {
		t.Errorf("Message should name the component: %s", d.Message)
	}
}

func TestSuspenseBoundarySkipsWrappedComponents(t *testing.T) {
	code := `import { Suspense } from 'react';

export default async function Page() {
	const data = await fetch('/api');
	return <Suspense fallback={null}><div>{data}</div></Suspense>;
}
`
	diags := runRule(t, NewSuspenseBoundaryRule(), "app/page.tsx", code, nil)
	if len(diags) != 0 {
		t.Errorf("A rendered Suspense boundary should suppress the finding, got %d", len(diags))
	}
}

func TestSuspenseBoundaryNamespacedSuspense(t *testing.T) {
	code := `import React from 'react';

export default async function Page() {
	return <React.Suspense fallback={null}><Inner /></React.Suspense>;
}
`
	diags := runRule(t, NewSuspenseBoundaryRule(), "app/page.tsx", code, nil)
	if len(diags) != 0 {
		t.Errorf("React.Suspense counts as a boundary, got %d diagnostics", len(diags))
	}
}

func TestSuspenseBoundarySkipsLoadingSegment(t *testing.T) {
	code := `export default async function Loading() {
	return <div>loading</div>;
}
`
	diags := runRule(t, NewSuspenseBoundaryRule(), "app/dashboard/loading.tsx", code, nil)
	if len(diags) != 0 {
		t.Errorf("Loading segments are themselves boundaries, got %d", len(diags))
	}
}

func TestSuspenseBoundarySyncComponent(t *testing.T) {
	code := `export default function Page() {
	return <div>static</div>;
}
`
	diags := runRule(t, NewSuspenseBoundaryRule(), "app/page.tsx", code, nil)
	if len(diags) != 0 {
		t.Errorf("Sync components are fine, got %d", len(diags))
	}
}

func TestSuspenseBoundaryExportedArrowComponent(t *testing.T) {
	code := `export const Panel = async () => {
	const data = await fetch('/api');
	return <section>{data}</section>;
};
`
	diags := runRule(t, NewSuspenseBoundaryRule(), "app/panel.tsx", code, nil)
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic for exported async arrow, got %d", len(diags))
	}
	if diags[0].Level != domain.SeverityWarn {
		t.Errorf("Expected warn level, got %s", diags[0].Level)
	}
}
