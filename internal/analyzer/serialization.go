package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/parser"
)

// SerializablePropsRule flags props passed from a server scope into a
// client component that cannot cross the serialization boundary, such as
// inline functions. Client components are recognized through the
// clientComponentPaths supplied in context: local bindings imported from
// one of those paths are treated as client component tags.
type SerializablePropsRule struct{}

// NewSerializablePropsRule creates the rule
func NewSerializablePropsRule() *SerializablePropsRule {
	return &SerializablePropsRule{}
}

// ID returns the rule identifier
func (r *SerializablePropsRule) ID() string {
	return constants.RuleSerializableProps
}

// Run evaluates the rule
func (r *SerializablePropsRule) Run(target *RuleTarget) ([]domain.Diagnostic, error) {
	if target.Kind != domain.ComponentKindServer || target.AST == nil {
		return nil, nil
	}
	if target.Context == nil || len(target.Context.ClientComponentPaths) == 0 {
		return nil, nil
	}

	clientTags := r.clientComponentBindings(target)
	if len(clientTags) == 0 {
		return nil, nil
	}

	var diags []domain.Diagnostic
	target.AST.Walk(func(n *parser.Node) bool {
		if !n.IsJSX() || !clientTags[n.Name] {
			return true
		}
		for _, attr := range n.Attributes {
			value := attr.Value
			if value != nil && value.Type == parser.NodeJSXExpression {
				value = value.Value
			}
			if value == nil || !value.IsFunction() {
				continue
			}
			diags = append(diags, domain.Diagnostic{
				Rule:  r.ID(),
				Level: domain.SeverityError,
				Message: fmt.Sprintf(
					"Prop '%s' on client component <%s> is a function and cannot be serialized across the server/client boundary. Pass a server action or move the handler into the client component.",
					attr.Name, n.Name),
				Loc: target.Range(attr.Location),
			})
		}
		return true
	})

	return diags, nil
}

// clientComponentBindings maps local import bindings to whether they refer
// to a known client component path.
func (r *SerializablePropsRule) clientComponentBindings(target *RuleTarget) map[string]bool {
	index := NewPathIndex()
	for _, p := range target.Context.ClientComponentPaths {
		index.Add(p, p)
	}

	tags := make(map[string]bool)
	for _, imp := range target.Imports.Imports {
		if imp.Kind != ImportKindStatic {
			continue
		}
		if _, ok := index.Resolve(imp.Specifier); !ok {
			continue
		}
		for _, name := range imp.Names {
			tags[name] = true
		}
	}
	return tags
}
