package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/parser"
)

// SuspenseBoundaryRule flags an asynchronous server component that is
// reachable without an enclosing loading or suspense boundary: an async
// component blocks the whole response until its awaits settle unless a
// boundary shows fallback UI. Loading segment files are themselves
// boundaries and are skipped.
type SuspenseBoundaryRule struct{}

// NewSuspenseBoundaryRule creates the rule
func NewSuspenseBoundaryRule() *SuspenseBoundaryRule {
	return &SuspenseBoundaryRule{}
}

// ID returns the rule identifier
func (r *SuspenseBoundaryRule) ID() string {
	return constants.RuleSuspenseBoundary
}

// Run evaluates the rule
func (r *SuspenseBoundaryRule) Run(target *RuleTarget) ([]domain.Diagnostic, error) {
	if target.Kind != domain.ComponentKindServer || target.AST == nil {
		return nil, nil
	}
	if isLoadingSegment(target.FileName) || rendersSuspense(target.AST) {
		return nil, nil
	}

	var diags []domain.Diagnostic
	for _, component := range exportedAsyncComponents(target.AST) {
		name := component.Name
		if name == "" {
			name = "default export"
		}
		diags = append(diags, domain.Diagnostic{
			Rule:  r.ID(),
			Level: domain.SeverityWarn,
			Message: fmt.Sprintf(
				"Async server component %s renders without a suspense boundary. Wrap it in <Suspense> or add a loading file so streaming can show fallback UI.",
				name),
			Loc: target.Range(component.Location),
		})
	}

	return diags, nil
}

// exportedAsyncComponents finds exported async functions that render JSX
func exportedAsyncComponents(ast *parser.Node) []*parser.Node {
	var components []*parser.Node
	for _, stmt := range ast.Body {
		if stmt.Type != parser.NodeExportNamedDeclaration && stmt.Type != parser.NodeExportDefaultDeclaration {
			continue
		}
		decl := stmt.Declaration
		if decl == nil {
			continue
		}
		if decl.Type == parser.NodeVariableDeclaration {
			for _, d := range decl.Declarations {
				if d.Value != nil && d.Value.IsFunction() && d.Value.Async && returnsJSX(d.Value) {
					fn := d.Value
					if fn.Name == "" {
						fn.Name = d.Name
					}
					components = append(components, fn)
				}
			}
			continue
		}
		if decl.IsFunction() && decl.Async && returnsJSX(decl) {
			components = append(components, decl)
		}
	}
	return components
}

// returnsJSX reports whether a function body contains JSX
func returnsJSX(fn *parser.Node) bool {
	found := false
	for _, stmt := range fn.Body {
		stmt.Walk(func(n *parser.Node) bool {
			if n.IsJSX() {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

// rendersSuspense reports whether the file renders a Suspense element
// (bare or namespaced, e.g. React.Suspense).
func rendersSuspense(ast *parser.Node) bool {
	found := false
	ast.Walk(func(n *parser.Node) bool {
		if n.IsJSX() && (n.Name == "Suspense" || strings.HasSuffix(n.Name, ".Suspense")) {
			found = true
			return false
		}
		return true
	})
	return found
}

// isLoadingSegment reports whether the file is itself a loading boundary
func isLoadingSegment(fileName string) bool {
	return StripExt(BaseName(fileName)) == "loading"
}
