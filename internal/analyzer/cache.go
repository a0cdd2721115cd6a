package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/parser"
)

// CacheOpportunityRule flags duplicate identical data-fetch calls within
// one server scope. Repeating the same fetch in a single render pass is a
// candidate for a request-scoped cache.
type CacheOpportunityRule struct{}

// NewCacheOpportunityRule creates the rule
func NewCacheOpportunityRule() *CacheOpportunityRule {
	return &CacheOpportunityRule{}
}

// ID returns the rule identifier
func (r *CacheOpportunityRule) ID() string {
	return constants.RuleCacheOpportunity
}

// Run evaluates the rule
func (r *CacheOpportunityRule) Run(target *RuleTarget) ([]domain.Diagnostic, error) {
	if target.Kind != domain.ComponentKindServer || target.AST == nil {
		return nil, nil
	}

	// Group fetch calls by their exact source text
	type callSite struct {
		loc   parser.Location
		count int
	}
	calls := make(map[string]*callSite)
	var order []string

	target.AST.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression || !isDataFetchCall(n) {
			return true
		}
		text := strings.TrimSpace(n.Raw)
		if site, ok := calls[text]; ok {
			site.count++
		} else {
			calls[text] = &callSite{loc: n.Location, count: 1}
			order = append(order, text)
		}
		return true
	})

	var diags []domain.Diagnostic
	for _, text := range order {
		site := calls[text]
		if site.count < 2 {
			continue
		}
		diags = append(diags, domain.Diagnostic{
			Rule:       r.ID(),
			Suggestion: true,
			Level:      domain.SeverityInfo,
			Message: fmt.Sprintf(
				"%s is called %d times with identical arguments in this server scope. Wrap the fetch in a request-scoped cache() so it runs once per request.",
				truncateCall(text), site.count),
			Loc: target.Range(site.loc),
		})
	}

	return diags, nil
}

// isDataFetchCall recognizes fetch(...) and <client>.get/post(...) style
// data calls with at least one argument.
func isDataFetchCall(n *parser.Node) bool {
	if len(n.Arguments) == 0 || n.Callee == nil {
		return false
	}
	switch n.Callee.Type {
	case parser.NodeIdentifier:
		return n.Callee.Name == "fetch"
	case parser.NodeMemberExpression:
		prop := n.Callee.Property
		return prop != nil && (prop.Name == "get" || prop.Name == "post" || prop.Name == "fetch")
	}
	return false
}

// truncateCall keeps messages readable for long call expressions
func truncateCall(text string) string {
	const max = 60
	if len(text) <= max {
		return text
	}
	return text[:max] + "…"
}
