package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildProgram(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "export_statement":
		return b.buildExportStatement(tsNode)
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "member_expression":
		return b.buildMemberExpression(tsNode)
	case "await_expression":
		return b.buildAwaitExpression(tsNode)
	case "function_declaration", "function", "generator_function_declaration":
		return b.buildFunction(tsNode, NodeFunction)
	case "function_expression":
		return b.buildFunction(tsNode, NodeFunctionExpression)
	case "arrow_function":
		return b.buildArrowFunction(tsNode)
	case "method_definition":
		return b.buildFunction(tsNode, NodeMethodDefinition)
	case "variable_declaration", "lexical_declaration":
		return b.buildVariableDeclaration(tsNode)
	case "variable_declarator":
		return b.buildVariableDeclarator(tsNode)
	case "return_statement":
		return b.buildReturnStatement(tsNode)
	case "statement_block":
		return b.buildBlockStatement(tsNode)
	case "identifier", "property_identifier", "shorthand_property_identifier", "type_identifier", "import":
		return b.buildIdentifier(tsNode)
	case "string", "number", "true", "false", "null":
		return b.buildLiteral(tsNode)
	case "jsx_element":
		return b.buildJSXElement(tsNode)
	case "jsx_self_closing_element":
		return b.buildJSXSelfClosingElement(tsNode)
	case "jsx_fragment":
		return b.buildJSXFragment(tsNode)
	case "jsx_attribute":
		return b.buildJSXAttribute(tsNode)
	case "jsx_expression":
		return b.buildJSXExpression(tsNode)
	default:
		return b.buildGenericNode(tsNode)
	}
}

func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := NewNode(NodeProgram)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.AddChild(childNode)
				node.Body = append(node.Body, childNode)
			}
		}
	}

	return node
}

// buildExpressionStatement unwraps the statement to its inner expression,
// so a directive prologue like "use client" surfaces as a string literal
// directly in the program body.
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != ";" {
			return b.buildNode(child)
		}
	}

	node := NewNode(NodeExpressionStatement)
	node.Location = b.getLocation(tsNode)
	return node
}

func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeImportDeclaration)
	node.Location = b.getLocation(tsNode)

	if sourceNode := b.getChildByFieldName(tsNode, "source"); sourceNode != nil {
		node.Source = b.buildNode(sourceNode)
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "import_clause":
			b.extractImportClause(child, node)
		case "namespace_import":
			node.Specifiers = append(node.Specifiers, b.buildNamespaceImport(child))
		case "named_imports":
			b.extractNamedImports(child, node)
		}
	}

	return node
}

// extractImportClause extracts specifiers from an import_clause node
func (b *ASTBuilder) extractImportClause(clauseNode *sitter.Node, node *Node) {
	for i := 0; i < int(clauseNode.ChildCount()); i++ {
		child := clauseNode.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "identifier":
			// Default import: import Button from './button'
			specNode := NewNode(NodeImportDefaultSpecifier)
			specNode.Location = b.getLocation(child)
			specNode.Name = child.Content(b.source)
			node.Specifiers = append(node.Specifiers, specNode)

		case "namespace_import":
			node.Specifiers = append(node.Specifiers, b.buildNamespaceImport(child))

		case "named_imports":
			b.extractNamedImports(child, node)
		}
	}
}

func (b *ASTBuilder) buildNamespaceImport(tsNode *sitter.Node) *Node {
	specNode := NewNode(NodeImportNamespaceSpecifier)
	specNode.Location = b.getLocation(tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "identifier" {
			specNode.Name = child.Content(b.source)
		}
	}
	return specNode
}

func (b *ASTBuilder) extractNamedImports(tsNode *sitter.Node, node *Node) {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "import_specifier" {
			specNode := NewNode(NodeImportSpecifier)
			specNode.Location = b.getLocation(child)

			// name, or name as alias; the local binding is the last identifier
			for j := 0; j < int(child.ChildCount()); j++ {
				grandchild := child.Child(j)
				if grandchild != nil && grandchild.Type() == "identifier" {
					specNode.Name = grandchild.Content(b.source)
				}
			}
			node.Specifiers = append(node.Specifiers, specNode)
		}
	}
}

func (b *ASTBuilder) buildExportStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeExportNamedDeclaration)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "default":
			node.Type = NodeExportDefaultDeclaration
			node.Default = true
		case "*":
			node.Type = NodeExportAllDeclaration
		}
	}

	if declNode := b.getChildByFieldName(tsNode, "declaration"); declNode != nil {
		node.Declaration = b.buildNode(declNode)
	}
	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Declaration = b.buildNode(valueNode)
	}
	if sourceNode := b.getChildByFieldName(tsNode, "source"); sourceNode != nil {
		node.Source = b.buildNode(sourceNode)
	}

	return node
}

func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCallExpression)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)

	if funcNode := b.getChildByFieldName(tsNode, "function"); funcNode != nil {
		node.Callee = b.buildNode(funcNode)
	}

	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		for i := 0; i < int(argsNode.ChildCount()); i++ {
			child := argsNode.Child(i)
			if child != nil && !b.isTrivia(child) &&
				child.Type() != "(" && child.Type() != ")" && child.Type() != "," {
				argNode := b.buildNode(child)
				if argNode != nil {
					node.Arguments = append(node.Arguments, argNode)
				}
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMemberExpression)
	node.Location = b.getLocation(tsNode)

	if objNode := b.getChildByFieldName(tsNode, "object"); objNode != nil {
		node.Object = b.buildNode(objNode)
	}
	if propNode := b.getChildByFieldName(tsNode, "property"); propNode != nil {
		node.Property = b.buildNode(propNode)
	}

	return node
}

func (b *ASTBuilder) buildAwaitExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAwaitExpression)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "await" {
			node.Argument = b.buildNode(child)
			break
		}
	}

	return node
}

func (b *ASTBuilder) buildFunction(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	node.Async = b.isAsync(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		bodyAST := b.buildNode(bodyNode)
		if bodyAST != nil {
			node.Body = bodyAST.Body
		}
	}

	return node
}

func (b *ASTBuilder) buildArrowFunction(tsNode *sitter.Node) *Node {
	node := NewNode(NodeArrowFunction)
	node.Location = b.getLocation(tsNode)
	node.Async = b.isAsync(tsNode)

	if paramNode := b.getChildByFieldName(tsNode, "parameter"); paramNode != nil {
		// Single parameter without parentheses
		param := b.buildNode(paramNode)
		if param != nil {
			node.Params = []*Node{param}
		}
	} else if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		bodyAST := b.buildNode(bodyNode)
		if bodyAST != nil {
			if bodyAST.Type == NodeBlockStatement {
				node.Body = bodyAST.Body
			} else {
				// Expression body
				node.Body = []*Node{bodyAST}
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclaration)
	node.Location = b.getLocation(tsNode)
	node.Kind = "var"

	if tsNode.Type() == "lexical_declaration" && tsNode.ChildCount() > 0 {
		firstChild := tsNode.Child(0)
		if firstChild != nil {
			kind := firstChild.Content(b.source)
			if kind == "let" || kind == "const" {
				node.Kind = kind
			}
		}
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "variable_declarator" {
			declNode := b.buildNode(child)
			if declNode != nil {
				node.Declarations = append(node.Declarations, declNode)
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclarator)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}
	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Value = b.buildNode(valueNode)
	}

	return node
}

func (b *ASTBuilder) buildReturnStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeReturnStatement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "return" && child.Type() != ";" {
			node.Argument = b.buildNode(child)
			break
		}
	}

	return node
}

func (b *ASTBuilder) buildBlockStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBlockStatement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "{" && child.Type() != "}" {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.Body = append(node.Body, childNode)
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.getLocation(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node) *Node {
	node := NewNode(NodeLiteral)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)

	switch tsNode.Type() {
	case "string":
		node.Type = NodeStringLiteral
	case "number":
		node.Type = NodeNumberLiteral
	case "true", "false":
		node.Type = NodeBooleanLiteral
	case "null":
		node.Type = NodeNullLiteral
	}

	return node
}

func (b *ASTBuilder) buildJSXElement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXElement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "jsx_opening_element":
			b.extractJSXOpeningElement(child, node)
		case "jsx_closing_element", "jsx_text":
			// skip
		default:
			if !b.isTrivia(child) {
				childNode := b.buildNode(child)
				if childNode != nil {
					node.AddChild(childNode)
					node.Body = append(node.Body, childNode)
				}
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildJSXSelfClosingElement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXSelfClosingElement)
	node.Location = b.getLocation(tsNode)
	b.extractJSXOpeningElement(tsNode, node)
	return node
}

// extractJSXOpeningElement pulls the tag name and attributes off an opening
// (or self-closing) element node.
func (b *ASTBuilder) extractJSXOpeningElement(tsNode *sitter.Node, node *Node) {
	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "jsx_attribute" {
			attrNode := b.buildNode(child)
			if attrNode != nil {
				node.Attributes = append(node.Attributes, attrNode)
			}
		}
	}
}

func (b *ASTBuilder) buildJSXFragment(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXFragment)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) &&
			child.Type() != "<" && child.Type() != ">" && child.Type() != "/" &&
			child.Type() != "jsx_text" {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.AddChild(childNode)
				node.Body = append(node.Body, childNode)
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildJSXAttribute(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXAttribute)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "property_identifier", "jsx_namespace_name", "identifier":
			if node.Name == "" {
				node.Name = child.Content(b.source)
			}
		case "=":
			// skip
		default:
			if !b.isTrivia(child) {
				node.Value = b.buildNode(child)
			}
		}
	}

	return node
}

func (b *ASTBuilder) buildJSXExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXExpression)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "{" && child.Type() != "}" {
			node.Value = b.buildNode(child)
			break
		}
	}

	return node
}

// buildGenericNode builds a generic node for types the analysis does not
// model explicitly, so traversal still reaches everything underneath.
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	node := NewNode(NodeType(tsNode.Type()))
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.AddChild(childNode)
			}
		}
	}

	return node
}

// buildParameters builds parameter list from a formal_parameters node
func (b *ASTBuilder) buildParameters(tsNode *sitter.Node) []*Node {
	var params []*Node

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) &&
			child.Type() != "(" && child.Type() != ")" && child.Type() != "," {
			paramNode := b.buildNode(child)
			if paramNode != nil {
				params = append(params, paramNode)
			}
		}
	}

	return params
}

// Helper methods

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
		StartByte: int(tsNode.StartByte()),
		EndByte:   int(tsNode.EndByte()),
	}
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// isAsync reports whether a function node carries the async modifier
func (b *ASTBuilder) isAsync(tsNode *sitter.Node) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "async" {
			return true
		}
		// Modifiers precede the parameter list
		if child.Type() == "formal_parameters" {
			break
		}
	}
	return false
}

// isTrivia checks if a node is trivia (whitespace, comments, etc.)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "block_comment" ||
		nodeType == ""
}
