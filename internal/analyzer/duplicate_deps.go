package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/parser"
)

// newTargetOffsets builds a fresh offset converter for a target's source
func newTargetOffsets(target domain.SourceTarget) *parser.OffsetConverter {
	return parser.NewOffsetConverter([]byte(target.Code))
}

// chunkPackageName derives a package-ish label from an opaque chunk
// identifier, e.g. "vendors/lodash.js" -> "lodash".
func chunkPackageName(chunk string) string {
	return StripExt(BaseName(chunk))
}

// DuplicateDepsRule is the single-file flavor of duplicate dependency
// detection: it only sees the bundles threaded through the target's own
// context and emits one coarse diagnostic listing every package this
// file shares with other client components. The aggregator's expansion
// step later splits the coarse diagnostic into one precisely positioned
// diagnostic per package.
type DuplicateDepsRule struct{}

// NewDuplicateDepsRule creates the rule
func NewDuplicateDepsRule() *DuplicateDepsRule {
	return &DuplicateDepsRule{}
}

// ID returns the rule identifier
func (r *DuplicateDepsRule) ID() string {
	return constants.RuleDuplicateDeps
}

// Run evaluates the rule
func (r *DuplicateDepsRule) Run(target *RuleTarget) ([]domain.Diagnostic, error) {
	if target.Context == nil || len(target.Context.ClientBundles) < 2 {
		return nil, nil
	}

	own, ok := findBundle(target.Context.ClientBundles, target.FileName)
	if !ok {
		return nil, nil
	}

	sharedSet := make(map[string]bool)
	for _, bundle := range target.Context.ClientBundles {
		if bundle.FilePath == own.FilePath {
			continue
		}
		for _, chunk := range bundle.Chunks {
			for _, ownChunk := range own.Chunks {
				if chunk == ownChunk {
					sharedSet[chunkPackageName(chunk)] = true
				}
			}
		}
	}
	if len(sharedSet) == 0 {
		return nil, nil
	}

	packages := make([]string, 0, len(sharedSet))
	for pkg := range sharedSet {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	return []domain.Diagnostic{{
		Rule:  r.ID(),
		Level: domain.SeverityWarn,
		Message: fmt.Sprintf(
			"%s shares the packages %s with other client components. Extract the shared dependencies or load them with dynamic imports.",
			BaseName(target.FileName), joinProse(packages)),
		Loc:      target.WholeFile(),
		Packages: packages,
	}}, nil
}

// joinProse renders a name list the way the coarse message format does:
// "a", "a and b", "a, b and c".
func joinProse(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// DuplicateDepsDetector is the cross-file detector. It consumes the
// union of bundle metadata from the shared context and every target's own
// context, re-derives exact source positions by re-parsing the implicated
// files, and emits diagnostics in a fixed lexicographic order.
type DuplicateDepsDetector struct {
	cache *ImportCache
}

// NewDuplicateDepsDetector creates a detector sharing the given import cache
func NewDuplicateDepsDetector(cache *ImportCache) *DuplicateDepsDetector {
	return &DuplicateDepsDetector{cache: cache}
}

// Detect runs the detector over the full target set
func (d *DuplicateDepsDetector) Detect(targets []domain.SourceTarget, shared *domain.AnalysisContext) []domain.Diagnostic {
	bundles := collectBundles(targets, shared)
	if len(bundles) < 2 {
		return nil
	}

	// Reverse index: chunk -> component file paths including it
	chunkComponents := make(map[string]map[string]bool)
	for _, bundle := range bundles {
		for _, chunk := range bundle.Chunks {
			if chunkComponents[chunk] == nil {
				chunkComponents[chunk] = make(map[string]bool)
			}
			chunkComponents[chunk][bundle.FilePath] = true
		}
	}

	chunks := make([]string, 0, len(chunkComponents))
	for chunk, comps := range chunkComponents {
		if len(comps) >= 2 {
			chunks = append(chunks, chunk)
		}
	}
	sort.Strings(chunks)

	targetIndex, targetsByKey := buildTargetIndex(targets)
	routeIndex := buildRouteIndex(targets)

	var diags []domain.Diagnostic
	for _, chunk := range chunks {
		components := sortedKeys(chunkComponents[chunk])
		for _, component := range components {
			diags = append(diags, d.detectForComponent(chunk, component, components, targetIndex, targetsByKey, routeIndex)...)
		}
	}

	return diags
}

// detectForComponent emits the diagnostics for one (chunk, component)
// pair: one per distinct resolved route label, or a single unlabeled
// diagnostic when no route is known.
func (d *DuplicateDepsDetector) detectForComponent(
	chunk, component string,
	components []string,
	targetIndex *PathIndex,
	targetsByKey map[string]domain.SourceTarget,
	routeIndex *RouteIndex,
) []domain.Diagnostic {
	key, ok := targetIndex.Resolve(component)
	if !ok {
		return nil
	}
	target, ok := targetsByKey[key]
	if !ok {
		return nil
	}

	var siblings []string
	for _, other := range components {
		if other != component {
			siblings = append(siblings, BaseName(other))
		}
	}
	sort.Strings(siblings)

	loc := d.resolveImportLocation(target, chunk)
	pkg := chunkPackageName(chunk)

	routes := resolveRoutes(target, component, routeIndex)
	if len(routes) == 0 {
		return []domain.Diagnostic{{
			Rule:  constants.RuleDuplicateDeps,
			Level: domain.SeverityWarn,
			Message: fmt.Sprintf(
				"Chunk '%s' is also bundled by %s. Extract the shared dependency into its own module or load it with a dynamic import.",
				chunk, joinProse(siblings)),
			Loc:      loc,
			Packages: []string{pkg},
		}}
	}

	diags := make([]domain.Diagnostic, 0, len(routes))
	for _, route := range routes {
		diags = append(diags, domain.Diagnostic{
			Rule:  constants.RuleDuplicateDeps,
			Level: domain.SeverityWarn,
			Message: fmt.Sprintf(
				"Chunk '%s' on route %s is also bundled by %s. Extract the shared dependency into its own module or load it with a dynamic import.",
				chunk, route, joinProse(siblings)),
			Loc:      loc,
			Packages: []string{pkg},
		})
	}
	return diags
}

// resolveImportLocation recovers the source position of the import that
// produced the shared chunk: exact specifier text first, then chunk
// basename heuristics, then the file's first import, so a diagnostic
// always has a position even when the match is inexact.
func (d *DuplicateDepsDetector) resolveImportLocation(target domain.SourceTarget, chunk string) *domain.Location {
	imports := d.cache.Get(target.FileName, target.Code)
	offsets := newTargetOffsets(target)

	pkg := chunkPackageName(chunk)
	var candidate *ImportRecord
	for i := range imports.Imports {
		imp := &imports.Imports[i]
		if imp.Specifier == chunk {
			candidate = imp
			break
		}
		if candidate == nil && (imp.Specifier == pkg || StripExt(BaseName(imp.Specifier)) == pkg) {
			candidate = imp
		}
	}
	if candidate == nil && len(imports.Imports) > 0 {
		candidate = &imports.Imports[0]
	}
	if candidate == nil {
		return &domain.Location{File: target.FileName}
	}

	from, to := offsets.UTF16Range(candidate.SpecifierRange.StartByte, candidate.SpecifierRange.EndByte)
	return &domain.Location{
		File:  target.FileName,
		Range: &domain.Range{From: from, To: to},
	}
}

// resolveRoutes returns the distinct sorted route labels known for a component
func resolveRoutes(target domain.SourceTarget, component string, routeIndex *RouteIndex) []string {
	set := make(map[string]bool)
	if target.Context != nil && target.Context.Route != "" {
		set[target.Context.Route] = true
	}
	if route := routeIndex.Lookup(component); route != "" {
		set[route] = true
	}
	if route := routeIndex.Lookup(target.FileName); route != "" {
		set[route] = true
	}
	return sortedKeys(set)
}

// collectBundles unions bundle records from the shared context and every
// target's own context, deduplicating by file path and merging chunk lists.
func collectBundles(targets []domain.SourceTarget, shared *domain.AnalysisContext) []domain.ClientBundle {
	merged := make(map[string]map[string]bool)
	sizes := make(map[string]float64)

	add := func(bundle domain.ClientBundle) {
		path := NormalizePath(bundle.FilePath)
		if path == "" {
			return
		}
		if merged[path] == nil {
			merged[path] = make(map[string]bool)
		}
		for _, chunk := range bundle.Chunks {
			merged[path][chunk] = true
		}
		if bundle.SizeKB > sizes[path] {
			sizes[path] = bundle.SizeKB
		}
	}

	if shared != nil {
		for _, bundle := range shared.ClientBundles {
			add(bundle)
		}
	}
	for _, target := range targets {
		if target.Context != nil {
			for _, bundle := range target.Context.ClientBundles {
				add(bundle)
			}
		}
	}

	paths := sortedBundlePaths(merged)
	bundles := make([]domain.ClientBundle, 0, len(paths))
	for _, path := range paths {
		bundles = append(bundles, domain.ClientBundle{
			FilePath: path,
			Chunks:   sortedKeys(merged[path]),
			SizeKB:   sizes[path],
		})
	}
	return bundles
}

// buildTargetIndex registers every target under its file name and key and
// returns the index plus the key -> target lookup map.
func buildTargetIndex(targets []domain.SourceTarget) (*PathIndex, map[string]domain.SourceTarget) {
	index := NewPathIndex()
	byKey := make(map[string]domain.SourceTarget, len(targets))
	for _, target := range targets {
		key := target.Key()
		byKey[key] = target
		index.Add(target.FileName, key)
		if target.FileKey != "" {
			index.Add(target.FileKey, key)
		}
	}
	return index, byKey
}

// buildRouteIndex maps target file paths and their bundle-path aliases to
// the route identifiers supplied in context.
func buildRouteIndex(targets []domain.SourceTarget) *RouteIndex {
	index := NewRouteIndex()
	for _, target := range targets {
		if target.Context == nil || target.Context.Route == "" {
			continue
		}
		index.Add(target.FileName, target.Context.Route)
		for _, bundle := range target.Context.ClientBundles {
			if PathsMatch(bundle.FilePath, target.FileName) {
				index.Add(bundle.FilePath, target.Context.Route)
			}
		}
	}
	return index
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedBundlePaths(set map[string]map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
