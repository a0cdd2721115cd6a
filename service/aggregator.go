package service

import (
	"sort"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/analyzer"
	"github.com/ludo-technologies/rscan/internal/constants"
)

// Aggregator merges per-target diagnostic lists into a single per-file
// grouping. It owns the bucketing, expansion, deduplication, and duration
// accounting semantics; it is a sequential reduction and consumes targets
// in caller order so its output is deterministic.
type Aggregator struct {
	cache   *analyzer.ImportCache
	version string
}

// NewAggregator creates an aggregator sharing the given import cache with
// the duplicate-dependency detector.
func NewAggregator(cache *analyzer.ImportCache, version string) *Aggregator {
	return &Aggregator{cache: cache, version: version}
}

// Aggregate merges the analyzed targets and the detector's cross-file
// diagnostics into one result. analyzed[i] corresponds to targets[i].
func (a *Aggregator) Aggregate(targets []domain.SourceTarget, analyzed []*domain.AnalyzedTarget, detectorDiags []domain.Diagnostic) *domain.AggregateResult {
	result := &domain.AggregateResult{
		Diagnostics:       []domain.Diagnostic{},
		DiagnosticsByFile: make(map[string][]domain.Diagnostic, len(targets)),
		DurationsByFile:   make(map[string]float64, len(targets)),
		Version:           a.version,
	}

	// Every input target gets a bucket, so callers can tell "analyzed,
	// clean" apart from "not analyzed".
	for _, t := range targets {
		result.DiagnosticsByFile[t.Key()] = []domain.Diagnostic{}
	}

	seen := make(map[string]map[string]bool)
	counted := make(map[string]map[string]bool)
	ruleSet := make(map[string]bool)

	countDuration := func(bucket, contributor string, duration float64) {
		if counted[bucket] == nil {
			counted[bucket] = make(map[string]bool)
		}
		if counted[bucket][contributor] {
			return
		}
		counted[bucket][contributor] = true
		result.DurationsByFile[bucket] += duration
	}

	accept := func(bucket string, diag domain.Diagnostic) bool {
		if seen[bucket] == nil {
			seen[bucket] = make(map[string]bool)
		}
		key := diag.DedupKey()
		if seen[bucket][key] {
			return false
		}
		seen[bucket][key] = true
		result.DiagnosticsByFile[bucket] = append(result.DiagnosticsByFile[bucket], diag)
		result.Diagnostics = append(result.Diagnostics, diag)
		return true
	}

	for i, at := range analyzed {
		target := targets[i]
		contributor := at.Key
		result.Duration += at.Duration
		for _, r := range at.RulesExecuted {
			ruleSet[r] = true
		}

		if len(at.Diagnostics) == 0 {
			countDuration(contributor, contributor, at.Duration)
			continue
		}

		for _, diag := range at.Diagnostics {
			for _, d := range a.expand(diag, target) {
				bucket := bucketFor(d, contributor)
				accept(bucket, d)
				// Duplicates are discarded above but the contributor's
				// duration still counts toward the bucket, once.
				countDuration(bucket, contributor, at.Duration)
			}
		}
	}

	// Detector diagnostics are cross-file: no single contributor owns
	// them, so they carry no duration.
	for _, diag := range detectorDiags {
		accept(detectorBucket(diag, targets), diag)
	}

	result.RulesExecuted = make([]string, 0, len(ruleSet))
	for r := range ruleSet {
		result.RulesExecuted = append(result.RulesExecuted, r)
	}
	sort.Strings(result.RulesExecuted)

	return result
}

// expand turns one coarse duplicate-dependency diagnostic from the
// single-file rule path into per-package positioned diagnostics. Applied
// before deduplication.
func (a *Aggregator) expand(diag domain.Diagnostic, target domain.SourceTarget) []domain.Diagnostic {
	if diag.Rule != constants.RuleDuplicateDeps {
		return []domain.Diagnostic{diag}
	}
	return analyzer.ExpandDuplicatePackages(diag, target.FileName, target.Code, a.cache)
}

// bucketFor determines the output bucket for a per-target diagnostic.
// Precedence: location file reconciles with the contributor's key (exact
// or suffix containment either way) wins; otherwise a divergent location
// basename; otherwise the contributor's own key.
func bucketFor(diag domain.Diagnostic, contributorKey string) string {
	if diag.Loc == nil || diag.Loc.File == "" {
		return contributorKey
	}
	if analyzer.PathsMatch(diag.Loc.File, contributorKey) {
		return contributorKey
	}
	base := analyzer.BaseName(diag.Loc.File)
	if base != "" && base != contributorKey {
		return base
	}
	return contributorKey
}

// detectorBucket attributes a cross-file diagnostic to the target whose
// key reconciles with its location, falling back to the location basename.
func detectorBucket(diag domain.Diagnostic, targets []domain.SourceTarget) string {
	if diag.Loc == nil || diag.Loc.File == "" {
		if len(targets) > 0 {
			return targets[0].Key()
		}
		return ""
	}
	for _, t := range targets {
		if analyzer.PathsMatch(diag.Loc.File, t.Key()) {
			return t.Key()
		}
	}
	return analyzer.BaseName(diag.Loc.File)
}
