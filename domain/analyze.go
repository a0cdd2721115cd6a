package domain

import "fmt"

// ComponentKind identifies whether a file's top-level code is shipped to
// the client runtime or stays on the server.
type ComponentKind string

const (
	// ComponentKindServer marks files that execute only on the server
	ComponentKindServer ComponentKind = "server"

	// ComponentKindClient marks files with a leading client directive
	ComponentKindClient ComponentKind = "client"
)

// Severity represents the severity level of a diagnostic
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityInfo  Severity = "info"
)

// Range is a half-open span of UTF-16 code-unit offsets into a file's
// source text.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Location anchors a diagnostic to a file and, optionally, a source range.
// A nil Range means the diagnostic applies to the whole file.
type Location struct {
	File  string `json:"file"`
	Range *Range `json:"range,omitempty"`
}

// Diagnostic is an immutable finding produced by a rule. Adjustments
// (message rewrites, position fixes) replace the record rather than
// mutating a shared instance.
type Diagnostic struct {
	// Rule is the identifier of the producing rule
	Rule string `json:"rule,omitempty"`

	// Suggestion marks advisory findings that are not rule violations
	Suggestion bool `json:"suggestion,omitempty"`

	// Level is the severity of the finding
	Level Severity `json:"level"`

	// Message is the human-readable description
	Message string `json:"message"`

	// Loc is the source location, if one could be determined
	Loc *Location `json:"loc,omitempty"`

	// Packages carries the structured list of shared package names for
	// duplicate-dependency findings, so consumers never need to recover
	// them from the prose message.
	Packages []string `json:"packages,omitempty"`
}

// DedupKey returns the identity used for deduplication: the tuple of
// rule (or "suggestion"), message, location file, and location range.
func (d Diagnostic) DedupKey() string {
	rule := d.Rule
	if d.Suggestion {
		rule = "suggestion"
	}
	file := ""
	from, to := -1, -1
	if d.Loc != nil {
		file = d.Loc.File
		if d.Loc.Range != nil {
			from, to = d.Loc.Range.From, d.Loc.Range.To
		}
	}
	return fmt.Sprintf("%s\x00%s\x00%s\x00%d:%d", rule, d.Message, file, from, to)
}

// ClientBundle associates a client component file with the chunks its
// bundle pulls in.
type ClientBundle struct {
	FilePath string   `json:"filePath"`
	Chunks   []string `json:"chunks"`

	// SizeKB is the bundle weight in kilobytes, when the bundler supplied it
	SizeKB float64 `json:"sizeKb,omitempty"`
}

// RouteConfig holds route segment export values supplied by the caller
// (for example dynamic = 'force-dynamic' or revalidate = 60).
type RouteConfig struct {
	Dynamic       string   `json:"dynamic,omitempty"`
	Revalidate    *float64 `json:"revalidate,omitempty"`
	FetchCache    string   `json:"fetchCache,omitempty"`
	Runtime       string   `json:"runtime,omitempty"`
	DynamicParams *bool    `json:"dynamicParams,omitempty"`
}

// AnalysisContext carries rule-specific inputs shared by a request or
// attached to a single target. The named fields are the interpreted
// surface; Extra preserves unknown keys opaquely for forward
// compatibility and is never interpreted.
type AnalysisContext struct {
	RouteConfig          *RouteConfig   `json:"routeConfig,omitempty"`
	ClientBundles        []ClientBundle `json:"clientBundles,omitempty"`
	ClientComponentPaths []string       `json:"clientComponentPaths,omitempty"`
	Route                string         `json:"route,omitempty"`
	Extra                map[string]any `json:"-"`
}

// Merge layers target-specific context over shared context. Fields set on
// the target win; Extra maps are merged key-wise with target keys winning.
// Both inputs are left untouched.
func (c *AnalysisContext) Merge(target *AnalysisContext) *AnalysisContext {
	if c == nil && target == nil {
		return nil
	}
	merged := &AnalysisContext{}
	if c != nil {
		*merged = *c
		merged.Extra = nil
	}
	if target != nil {
		if target.RouteConfig != nil {
			merged.RouteConfig = target.RouteConfig
		}
		if target.ClientBundles != nil {
			merged.ClientBundles = target.ClientBundles
		}
		if target.ClientComponentPaths != nil {
			merged.ClientComponentPaths = target.ClientComponentPaths
		}
		if target.Route != "" {
			merged.Route = target.Route
		}
	}
	if c != nil && len(c.Extra) > 0 {
		merged.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			merged.Extra[k] = v
		}
	}
	if target != nil && len(target.Extra) > 0 {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any, len(target.Extra))
		}
		for k, v := range target.Extra {
			merged.Extra[k] = v
		}
	}
	return merged
}

// SourceTarget is one file submitted for analysis. FileKey is the
// caller-chosen identity used for output grouping and defaults to
// FileName; FileName is the logical path used for parsing and positions.
type SourceTarget struct {
	FileKey  string           `json:"fileKey,omitempty"`
	FileName string           `json:"fileName"`
	Code     string           `json:"code"`
	Context  *AnalysisContext `json:"context,omitempty"`
}

// Key returns the output grouping key for the target
func (t SourceTarget) Key() string {
	if t.FileKey != "" {
		return t.FileKey
	}
	return t.FileName
}

// AnalyzedTarget is the per-target output before aggregation
type AnalyzedTarget struct {
	Key           string       `json:"key"`
	Diagnostics   []Diagnostic `json:"diagnostics"`
	Duration      float64      `json:"duration"`
	RulesExecuted []string     `json:"rulesExecuted"`
	Version       string       `json:"version"`
}

// AggregateResult merges per-target results into a single response
type AggregateResult struct {
	Diagnostics       []Diagnostic            `json:"diagnostics"`
	DiagnosticsByFile map[string][]Diagnostic `json:"diagnosticsByFile"`
	DurationsByFile   map[string]float64      `json:"durationsByFile"`
	Duration          float64                 `json:"duration"`
	RulesExecuted     []string                `json:"rulesExecuted"`
	Version           string                  `json:"version"`
}

// AnalyzeRequest is a single-target analysis request
type AnalyzeRequest struct {
	Code     string           `json:"code"`
	FileName string           `json:"fileName"`
	FileKey  string           `json:"fileKey,omitempty"`
	Context  *AnalysisContext `json:"context,omitempty"`
}

// BatchAnalyzeRequest is a multi-target analysis request
type BatchAnalyzeRequest struct {
	AnalysisTargets []SourceTarget   `json:"analysisTargets"`
	Context         *AnalysisContext `json:"context,omitempty"`
}

// ErrorInfo is the error payload of a failure response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalyzeResponse is the wire shape for both single and multi target
// requests. Failure responses still carry an empty diagnostics slice so
// consumers never need a separate code path.
type AnalyzeResponse struct {
	AggregateResult
	Error *ErrorInfo `json:"error,omitempty"`
}
