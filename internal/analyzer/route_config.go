package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
)

// requestTimeModules are module specifiers whose APIs force request-time
// rendering and therefore conflict with a fully static route.
var requestTimeModules = map[string]bool{
	"next/headers": true,
}

// RouteSegmentConfigRule flags mutually inconsistent combinations of
// route segment exports. It only sees a routeConfig that survived
// sanitization, so it never fires against files that are not route
// segment files.
type RouteSegmentConfigRule struct{}

// NewRouteSegmentConfigRule creates the rule
func NewRouteSegmentConfigRule() *RouteSegmentConfigRule {
	return &RouteSegmentConfigRule{}
}

// ID returns the rule identifier
func (r *RouteSegmentConfigRule) ID() string {
	return constants.RuleRouteSegmentConfig
}

// Run evaluates the rule
func (r *RouteSegmentConfigRule) Run(target *RuleTarget) ([]domain.Diagnostic, error) {
	if target.Context == nil || target.Context.RouteConfig == nil {
		return nil, nil
	}
	cfg := target.Context.RouteConfig

	var diags []domain.Diagnostic

	if cfg.Dynamic == "force-dynamic" && cfg.Revalidate != nil && *cfg.Revalidate > 0 {
		diags = append(diags, domain.Diagnostic{
			Rule:  r.ID(),
			Level: domain.SeverityError,
			Message: fmt.Sprintf(
				"Route config conflict: dynamic = 'force-dynamic' makes every request uncached, so revalidate = %v has no effect. Remove one of the two exports.",
				*cfg.Revalidate),
			Loc: target.WholeFile(),
		})
	}

	if cfg.Dynamic == "force-static" {
		for _, imp := range target.Imports.Imports {
			if imp.Kind == ImportKindStatic && requestTimeModules[imp.Specifier] {
				diags = append(diags, domain.Diagnostic{
					Rule:  r.ID(),
					Level: domain.SeverityError,
					Message: fmt.Sprintf(
						"Route config conflict: dynamic = 'force-static' but '%s' is imported, and its APIs only work at request time.",
						imp.Specifier),
					Loc: target.Range(imp.SpecifierRange),
				})
			}
		}

		if cfg.FetchCache == "force-no-store" {
			diags = append(diags, domain.Diagnostic{
				Rule:  r.ID(),
				Level: domain.SeverityWarn,
				Message: "Route config conflict: dynamic = 'force-static' together with fetchCache = 'force-no-store' requests both static rendering and uncached data.",
				Loc:   target.WholeFile(),
			})
		}
	}

	if cfg.Revalidate != nil && *cfg.Revalidate < 0 {
		diags = append(diags, domain.Diagnostic{
			Rule:    r.ID(),
			Level:   domain.SeverityWarn,
			Message: fmt.Sprintf("Route config: revalidate = %v is not a valid interval; use false, 0, or a positive number of seconds.", *cfg.Revalidate),
			Loc:     target.WholeFile(),
		})
	}

	return diags, nil
}
