package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Parser wraps a tree-sitter parser for JavaScript/TypeScript
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	isTS     bool
}

// NewParser creates a new JavaScript parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := javascript.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		isTS:     false,
	}
}

// NewTypeScriptParser creates a new TypeScript (TSX) parser
func NewTypeScriptParser() *Parser {
	parser := sitter.NewParser()
	lang := tsx.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		isTS:     true,
	}
}

// ParseFile parses a JavaScript/TypeScript file
func (p *Parser) ParseFile(filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// ParseString parses JavaScript/TypeScript source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.ParseFile("<input>", []byte(source))
}

// IsTypeScript returns true if this parser is configured for TypeScript
func (p *Parser) IsTypeScript() bool {
	return p.isTS
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseForLanguage selects the JavaScript or TSX parser based on the file
// extension and parses the source. Unknown extensions fall back to TSX
// since it accepts both TypeScript and JSX syntax.
func ParseForLanguage(filename string, source []byte) (*Node, error) {
	var parser *Parser
	if isTypeScriptFile(filename) || strings.HasSuffix(filename, ".jsx") {
		parser = NewTypeScriptParser()
	} else if strings.HasSuffix(filename, ".js") || strings.HasSuffix(filename, ".mjs") || strings.HasSuffix(filename, ".cjs") {
		parser = NewParser()
	} else {
		parser = NewTypeScriptParser()
	}
	defer parser.Close()

	return parser.ParseFile(filename, source)
}

func isTypeScriptFile(filename string) bool {
	for _, ext := range []string{".ts", ".tsx", ".mts", ".cts"} {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
