package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/rscan/domain"
	"github.com/ludo-technologies/rscan/internal/constants"
	"github.com/ludo-technologies/rscan/internal/parser"
)

// packageListPattern recovers the package-name list from a coarse
// duplicate-dependency message ("... shares the packages a, b and c with ...").
// Only used for externally supplied diagnostics that lack the typed
// Packages field.
var packageListPattern = regexp.MustCompile(`packages? ([^.]+?) with `)

// ExpandDuplicatePackages turns one coarse duplicate-dependency
// diagnostic into one precisely positioned diagnostic per listed package
// whose import specifier is found in the owning file. The package list is
// taken from the typed Packages field when present, falling back to
// re-parsing the prose message. Diagnostics that expand to nothing are
// kept as-is so no finding is lost.
func ExpandDuplicatePackages(diag domain.Diagnostic, fileName, code string, cache *ImportCache) []domain.Diagnostic {
	if diag.Rule != constants.RuleDuplicateDeps {
		return []domain.Diagnostic{diag}
	}

	packages := diag.Packages
	if len(packages) == 0 {
		packages = parsePackagesFromMessage(diag.Message)
	}
	if len(packages) < 1 {
		return []domain.Diagnostic{diag}
	}

	imports := cache.Get(fileName, code)
	offsets := parser.NewOffsetConverter([]byte(code))

	var expanded []domain.Diagnostic
	for _, pkg := range packages {
		imp := findImportForPackage(imports, pkg)
		if imp == nil {
			continue
		}
		from, to := offsets.UTF16Range(imp.SpecifierRange.StartByte, imp.SpecifierRange.EndByte)
		expanded = append(expanded, domain.Diagnostic{
			Rule:  diag.Rule,
			Level: diag.Level,
			Message: fmt.Sprintf(
				"Package '%s' is bundled by multiple client components. Extract it into a shared module or load it with a dynamic import.",
				pkg),
			Loc: &domain.Location{
				File:  fileName,
				Range: &domain.Range{From: from, To: to},
			},
			Packages: []string{pkg},
		})
	}

	if len(expanded) == 0 {
		return []domain.Diagnostic{diag}
	}
	return expanded
}

// findImportForPackage matches a package name against a file's import
// specifiers, exact text first, then basename heuristics.
func findImportForPackage(imports *FileImports, pkg string) *ImportRecord {
	for i := range imports.Imports {
		if imports.Imports[i].Specifier == pkg {
			return &imports.Imports[i]
		}
	}
	for i := range imports.Imports {
		spec := imports.Imports[i].Specifier
		if StripExt(BaseName(spec)) == pkg || strings.HasPrefix(spec, pkg+"/") {
			return &imports.Imports[i]
		}
	}
	return nil
}

// parsePackagesFromMessage extracts package names from the prose list in
// a coarse message.
func parsePackagesFromMessage(message string) []string {
	match := packageListPattern.FindStringSubmatch(message)
	if match == nil {
		return nil
	}

	list := strings.ReplaceAll(match[1], " and ", ", ")
	var packages []string
	for _, part := range strings.Split(list, ",") {
		name := strings.Trim(strings.TrimSpace(part), "'\"`")
		if name != "" {
			packages = append(packages, name)
		}
	}
	return packages
}
