package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
)

// DefaultForbiddenImports returns the default denylist of server-only
// modules: filesystem, process, and low-level networking primitives.
func DefaultForbiddenImports() []string {
	return []string{
		"fs",
		"fs/promises",
		"path",
		"os",
		"child_process",
		"process",
		"worker_threads",
		"cluster",
		"net",
		"tls",
		"dgram",
		"dns",
		"http2",
		"v8",
		"vm",
	}
}

// ForbiddenImportRule flags static imports and require() calls of
// server-only modules inside client-scoped files. One error is produced
// per offending specifier, positioned at the string literal itself.
type ForbiddenImportRule struct {
	denylist map[string]bool
}

// NewForbiddenImportRule creates the rule with the given denylist
func NewForbiddenImportRule(denylist []string) *ForbiddenImportRule {
	set := make(map[string]bool, len(denylist))
	for _, mod := range denylist {
		set[mod] = true
	}
	return &ForbiddenImportRule{denylist: set}
}

// ID returns the rule identifier
func (r *ForbiddenImportRule) ID() string {
	return constants.RuleForbiddenImport
}

// Run evaluates the rule
func (r *ForbiddenImportRule) Run(target *RuleTarget) ([]domain.Diagnostic, error) {
	if target.Kind != domain.ComponentKindClient {
		return nil, nil
	}

	var diags []domain.Diagnostic
	for _, imp := range target.Imports.Imports {
		if imp.Kind == ImportKindDynamic {
			continue
		}
		if !r.isForbidden(imp.Specifier) {
			continue
		}
		diags = append(diags, domain.Diagnostic{
			Rule:  r.ID(),
			Level: domain.SeverityError,
			Message: fmt.Sprintf(
				"Client component imports server-only module '%s'. Move this logic into a server component or a server action.",
				imp.Specifier),
			Loc: target.Range(imp.SpecifierRange),
		})
	}

	return diags, nil
}

// isForbidden matches a specifier against the denylist, normalizing the
// node: scheme prefix so both 'fs' and 'node:fs' are caught.
func (r *ForbiddenImportRule) isForbidden(specifier string) bool {
	spec := strings.TrimPrefix(specifier, "node:")
	return r.denylist[spec]
}
