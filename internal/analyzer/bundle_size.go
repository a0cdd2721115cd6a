package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
)

// BundleSizeRule flags a client component whose associated bundle weight,
// taken from the clientBundles context, exceeds the configured threshold.
type BundleSizeRule struct {
	thresholdKB float64
}

// NewBundleSizeRule creates the rule with a threshold in kilobytes
func NewBundleSizeRule(thresholdKB float64) *BundleSizeRule {
	if thresholdKB <= 0 {
		thresholdKB = constants.DefaultBundleSizeThresholdKB
	}
	return &BundleSizeRule{thresholdKB: thresholdKB}
}

// ID returns the rule identifier
func (r *BundleSizeRule) ID() string {
	return constants.RuleBundleSize
}

// Run evaluates the rule
func (r *BundleSizeRule) Run(target *RuleTarget) ([]domain.Diagnostic, error) {
	if target.Kind != domain.ComponentKindClient || target.Context == nil {
		return nil, nil
	}

	bundle, ok := findBundle(target.Context.ClientBundles, target.FileName)
	if !ok || bundle.SizeKB <= r.thresholdKB {
		return nil, nil
	}

	chunks := strings.Join(bundle.Chunks, ", ")
	if chunks == "" {
		chunks = "no chunk metadata"
	}

	return []domain.Diagnostic{{
		Rule:  r.ID(),
		Level: domain.SeverityWarn,
		Message: fmt.Sprintf(
			"Client bundle for %s weighs %.0f kB (threshold %.0f kB; chunks: %s). Consider dynamic imports or moving logic to the server.",
			BaseName(target.FileName), bundle.SizeKB, r.thresholdKB, chunks),
		Loc: target.WholeFile(),
	}}, nil
}

// findBundle resolves the bundle record for a file, reconciling bundle
// paths against the target's file name.
func findBundle(bundles []domain.ClientBundle, fileName string) (domain.ClientBundle, bool) {
	for _, b := range bundles {
		if PathsMatch(b.FilePath, fileName) {
			return b, true
		}
	}
	// Second pass with the looser basename match
	index := NewPathIndex()
	for i := range bundles {
		index.Add(bundles[i].FilePath, bundles[i].FilePath)
	}
	if match, ok := index.Resolve(fileName); ok {
		for _, b := range bundles {
			if b.FilePath == match {
				return b, true
			}
		}
	}
	return domain.ClientBundle{}, false
}
