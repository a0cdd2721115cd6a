package analyzer

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ludo-technologies/rscan/internal/parser"
)

// ImportKind distinguishes how a module specifier entered the file
type ImportKind string

const (
	ImportKindStatic  ImportKind = "static"
	ImportKindRequire ImportKind = "require"
	ImportKindDynamic ImportKind = "dynamic"
)

// ImportRecord is one module reference found in a file. SpecifierRange is
// the byte range of the string-literal specifier itself, not the whole
// statement.
type ImportRecord struct {
	Specifier      string
	Kind           ImportKind
	Names          []string
	SpecifierRange parser.Location
	StatementRange parser.Location
}

// FileImports is the import surface of a single parsed file
type FileImports struct {
	FileName string
	Imports  []ImportRecord
}

// ExtractImports walks an AST and collects static imports, require()
// calls, and dynamic import() expressions in source order.
func ExtractImports(ast *parser.Node, fileName string) *FileImports {
	fi := &FileImports{FileName: fileName}
	if ast == nil {
		return fi
	}

	ast.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeImportDeclaration:
			if n.Source != nil {
				rec := ImportRecord{
					Specifier:      n.Source.StringValue(),
					Kind:           ImportKindStatic,
					SpecifierRange: n.Source.Location,
					StatementRange: n.Location,
				}
				for _, spec := range n.Specifiers {
					if spec.Name != "" {
						rec.Names = append(rec.Names, spec.Name)
					}
				}
				fi.Imports = append(fi.Imports, rec)
			}
			return false

		case parser.NodeCallExpression:
			if n.Callee != nil && n.Callee.Type == parser.NodeIdentifier && len(n.Arguments) > 0 {
				arg := n.Arguments[0]
				if arg.Type == parser.NodeStringLiteral {
					switch n.Callee.Name {
					case "require":
						fi.Imports = append(fi.Imports, ImportRecord{
							Specifier:      arg.StringValue(),
							Kind:           ImportKindRequire,
							SpecifierRange: arg.Location,
							StatementRange: n.Location,
						})
					case "import":
						fi.Imports = append(fi.Imports, ImportRecord{
							Specifier:      arg.StringValue(),
							Kind:           ImportKindDynamic,
							SpecifierRange: arg.Location,
							StatementRange: n.Location,
						})
					}
				}
			}
		}
		return true
	})

	return fi
}

// ImportCache memoizes per-file import extraction so a file implicated by
// several shared chunks is re-parsed at most once per process.
type ImportCache struct {
	cache *lru.Cache[string, *FileImports]
}

// NewImportCache creates a cache bounded to size entries
func NewImportCache(size int) (*ImportCache, error) {
	c, err := lru.New[string, *FileImports](size)
	if err != nil {
		return nil, err
	}
	return &ImportCache{cache: c}, nil
}

// Get parses fileName's source and extracts its imports, serving repeated
// lookups from the cache. Unparseable sources yield an empty import set.
func (ic *ImportCache) Get(fileName, code string) *FileImports {
	if fi, ok := ic.cache.Get(fileName); ok {
		return fi
	}

	ast, err := parser.ParseForLanguage(fileName, []byte(code))
	var fi *FileImports
	if err != nil {
		fi = &FileImports{FileName: fileName}
	} else {
		fi = ExtractImports(ast, fileName)
	}
	ic.cache.Add(fileName, fi)
	return fi
}
