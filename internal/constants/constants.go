package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "rscan"

	// ConfigFileName is the default config file name
	ConfigFileName = "rscan.config.json"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "RSCAN"
)

// Rule identifier constants
const (
	RuleForbiddenImport    = "forbidden-import"
	RuleSerializableProps  = "serializable-props"
	RuleRouteSegmentConfig = "route-segment-config"
	RuleBundleSize         = "bundle-size"
	RuleCacheOpportunity   = "cache-opportunity"
	RuleSuspenseBoundary   = "suspense-boundary"
	RuleDuplicateDeps      = "duplicate-dependencies"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// React Server Component directives
const (
	// ClientDirective marks a module as client-scoped
	ClientDirective = "use client"

	// ServerDirective marks a module's exports as server actions
	ServerDirective = "use server"
)

// Bundle size threshold defaults
const (
	// DefaultBundleSizeThresholdKB is the client bundle weight above which
	// the bundle-size rule reports
	DefaultBundleSizeThresholdKB = 128
)
