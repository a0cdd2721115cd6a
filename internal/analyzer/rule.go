package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/parser"
)

// RuleTarget is one classified file handed to the rule set. It is built
// once per target so every rule shares the same parse tree, import
// extraction, and offset converter.
type RuleTarget struct {
	FileName string
	Key      string
	Code     string
	AST      *parser.Node
	Kind     domain.ComponentKind
	Context  *domain.AnalysisContext
	Imports  *FileImports
	Offsets  *parser.OffsetConverter
}

// Range converts a node location into a UTF-16 diagnostic location
func (t *RuleTarget) Range(loc parser.Location) *domain.Location {
	from, to := t.Offsets.UTF16Range(loc.StartByte, loc.EndByte)
	return &domain.Location{
		File:  t.FileName,
		Range: &domain.Range{From: from, To: to},
	}
}

// WholeFile returns a location covering the whole file
func (t *RuleTarget) WholeFile() *domain.Location {
	return &domain.Location{File: t.FileName}
}

// NewRuleTarget parses and classifies a source file. Parsing failures do
// not propagate: the worst case is a server-classified target with an
// empty parse tree, against which every rule produces nothing.
func NewRuleTarget(fileName, key, code string, ctx *domain.AnalysisContext) *RuleTarget {
	target := &RuleTarget{
		FileName: fileName,
		Key:      key,
		Code:     code,
		Kind:     domain.ComponentKindServer,
		Context:  SanitizeContext(ctx, fileName),
		Offsets:  parser.NewOffsetConverter([]byte(code)),
	}

	ast, err := parser.ParseForLanguage(fileName, []byte(code))
	if err == nil && ast != nil {
		target.AST = ast
		target.Kind = ClassifyAST(ast)
	}
	target.Imports = ExtractImports(target.AST, fileName)

	return target
}

// Rule is one independent diagnostic producer. Rules are pure: they never
// observe other rules' output and their only failure mode is returning an
// error, which the orchestrator treats as "no diagnostics from this rule".
type Rule interface {
	// ID returns the rule identifier used in diagnostics
	ID() string

	// Run evaluates the rule against one classified target
	Run(target *RuleTarget) ([]domain.Diagnostic, error)
}

// Options carries the configurable inputs of the rule set
type Options struct {
	// ForbiddenImports is the denylist of server-only module specifiers
	// flagged in client files
	ForbiddenImports []string

	// BundleSizeThresholdKB is the client bundle weight above which the
	// bundle-size rule reports
	BundleSizeThresholdKB float64
}

// DefaultOptions returns the default rule configuration
func DefaultOptions() Options {
	return Options{
		ForbiddenImports:      DefaultForbiddenImports(),
		BundleSizeThresholdKB: constants.DefaultBundleSizeThresholdKB,
	}
}

// DefaultRules returns the full rule set in its canonical execution order
func DefaultRules(opts Options) []Rule {
	return []Rule{
		NewForbiddenImportRule(opts.ForbiddenImports),
		NewSerializablePropsRule(),
		NewRouteSegmentConfigRule(),
		NewBundleSizeRule(opts.BundleSizeThresholdKB),
		NewCacheOpportunityRule(),
		NewSuspenseBoundaryRule(),
		NewDuplicateDepsRule(),
	}
}

// SafeRun evaluates a rule, converting panics from parser edge cases into
// ordinary errors so one rule can never abort the target's analysis.
func SafeRun(rule Rule, target *RuleTarget) (diags []domain.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.ID(), r)
		}
	}()
	return rule.Run(target)
}
