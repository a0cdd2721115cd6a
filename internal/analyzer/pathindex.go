package analyzer

import (
	"path"
	"sort"
	"strings"
)

// NormalizePath brings bundle paths, route-relative paths, and on-disk
// paths into one comparable form: forward slashes, no leading "./" or "/".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimPrefix(p, "/")
}

// StripExt removes the final extension from a path
func StripExt(p string) string {
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext)
}

// BaseName returns the final path element after normalization
func BaseName(p string) string {
	return path.Base(NormalizePath(p))
}

// PathsMatch reports whether two paths refer to the same file under the
// aggregator's reconciliation contract: exact equality after
// normalization, or suffix containment in either direction.
func PathsMatch(a, b string) bool {
	na, nb := NormalizePath(a), NormalizePath(b)
	if na == "" || nb == "" {
		return na == nb
	}
	if na == nb {
		return true
	}
	return strings.HasSuffix(na, "/"+nb) || strings.HasSuffix(nb, "/"+na)
}

// PathIndex resolves a path written in one naming convention to a value
// registered under another. Lookup precedence is total-ordered and
// deterministic: exact normalized match, then suffix containment in
// either direction (lexicographically first registered key wins), then
// basename, then basename without extension.
type PathIndex struct {
	exact  map[string]string
	base   map[string]string
	noExt  map[string]string
	sorted []string
}

// NewPathIndex creates an empty index
func NewPathIndex() *PathIndex {
	return &PathIndex{
		exact: make(map[string]string),
		base:  make(map[string]string),
		noExt: make(map[string]string),
	}
}

// Add registers a path under every form it may be referenced by. The
// first registration of a given form wins, so callers control precedence
// by insertion order.
func (ix *PathIndex) Add(p, value string) {
	norm := NormalizePath(p)
	if norm == "" {
		return
	}
	if _, ok := ix.exact[norm]; !ok {
		ix.exact[norm] = value
		ix.sorted = append(ix.sorted, norm)
		sort.Strings(ix.sorted)
	}
	base := path.Base(norm)
	if _, ok := ix.base[base]; !ok {
		ix.base[base] = value
	}
	if stripped := StripExt(base); stripped != base {
		if _, ok := ix.noExt[stripped]; !ok {
			ix.noExt[stripped] = value
		}
	}
}

// Resolve looks up a path written in any supported form
func (ix *PathIndex) Resolve(p string) (string, bool) {
	norm := NormalizePath(p)
	if norm == "" {
		return "", false
	}

	if v, ok := ix.exact[norm]; ok {
		return v, true
	}

	for _, key := range ix.sorted {
		if strings.HasSuffix(key, "/"+norm) || strings.HasSuffix(norm, "/"+key) {
			return ix.exact[key], true
		}
	}

	base := path.Base(norm)
	if v, ok := ix.base[base]; ok {
		return v, true
	}
	if v, ok := ix.noExt[StripExt(base)]; ok {
		return v, true
	}
	if v, ok := ix.base[StripExt(base)]; ok {
		return v, true
	}

	return "", false
}

// RouteIndex maps file paths (and their bundle-path aliases) to the route
// identifiers supplied in context.
type RouteIndex struct {
	paths *PathIndex
}

// NewRouteIndex creates an empty route index
func NewRouteIndex() *RouteIndex {
	return &RouteIndex{paths: NewPathIndex()}
}

// Add associates a file path with a route label
func (ri *RouteIndex) Add(filePath, route string) {
	if route == "" {
		return
	}
	ri.paths.Add(filePath, route)
}

// Lookup resolves the route label for a file path, falling back to a
// label derived from an app/<segment>/... path shape.
func (ri *RouteIndex) Lookup(filePath string) string {
	if route, ok := ri.paths.Resolve(filePath); ok {
		return route
	}
	return DeriveAppRoute(filePath)
}

// DeriveAppRoute derives a route label from a conventional
// app-directory path, e.g. app/dashboard/settings/page.tsx -> /dashboard/settings.
// Returns the empty string when the path has no app/ segment.
func DeriveAppRoute(filePath string) string {
	segments := strings.Split(NormalizePath(filePath), "/")
	appIdx := -1
	for i, seg := range segments {
		if seg == "app" {
			appIdx = i
			break
		}
	}
	if appIdx < 0 || appIdx == len(segments)-1 {
		return ""
	}

	// Everything between app/ and the file itself is the route
	routeSegments := segments[appIdx+1 : len(segments)-1]
	route := "/" + strings.Join(routeSegments, "/")
	if route == "/" && len(routeSegments) == 0 {
		return "/"
	}
	return route
}
