package analyzer

import (
	"path"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/parser"
)

// routeSegmentNames are the conventional file roles that may carry route
// segment configuration. Matched against the basename without extension.
var routeSegmentNames = map[string]bool{
	"page":     true,
	"layout":   true,
	"default":  true,
	"template": true,
	"error":    true,
	"loading":  true,
	"route":    true,
}

// Classify determines whether a file is client or server scoped from its
// leading module directive. It never fails: syntactically odd input
// classifies as server.
func Classify(fileName, sourceText string) domain.ComponentKind {
	ast, err := parser.ParseForLanguage(fileName, []byte(sourceText))
	if err != nil || ast == nil {
		return domain.ComponentKindServer
	}
	return ClassifyAST(ast)
}

// ClassifyAST classifies an already parsed file. A file is client scoped
// iff the first statement is a string literal equal to the client
// directive; an importer of a client file is not itself client.
func ClassifyAST(ast *parser.Node) domain.ComponentKind {
	if ast == nil || ast.Type != parser.NodeProgram || len(ast.Body) == 0 {
		return domain.ComponentKindServer
	}
	first := ast.Body[0]
	if first.Type == parser.NodeStringLiteral && first.StringValue() == constants.ClientDirective {
		return domain.ComponentKindClient
	}
	return domain.ComponentKindServer
}

// IsRouteSegmentFile reports whether fileName is (or ends with) one of the
// recognized route segment file names, so nested route files are matched
// regardless of directory depth.
func IsRouteSegmentFile(fileName string) bool {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return routeSegmentNames[base]
}

// SanitizeContext strips route segment configuration from a target's
// effective context unless the file is a recognized route segment file.
// This keeps route-level configuration rules from firing against shared
// components that happen to inherit a route's context. The input context
// is never mutated.
func SanitizeContext(ctx *domain.AnalysisContext, fileName string) *domain.AnalysisContext {
	if ctx == nil || ctx.RouteConfig == nil || IsRouteSegmentFile(fileName) {
		return ctx
	}
	sanitized := *ctx
	sanitized.RouteConfig = nil
	return &sanitized
}
