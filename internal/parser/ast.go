package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// JavaScript/TypeScript AST node types relevant to RSC analysis
const (
	// Program and structure
	NodeProgram NodeType = "Program"

	// Module system (ESM)
	NodeImportDeclaration        NodeType = "ImportDeclaration"
	NodeImportSpecifier          NodeType = "ImportSpecifier"
	NodeImportDefaultSpecifier   NodeType = "ImportDefaultSpecifier"
	NodeImportNamespaceSpecifier NodeType = "ImportNamespaceSpecifier"
	NodeExportNamedDeclaration   NodeType = "ExportNamedDeclaration"
	NodeExportDefaultDeclaration NodeType = "ExportDefaultDeclaration"
	NodeExportAllDeclaration     NodeType = "ExportAllDeclaration"

	// Functions
	NodeFunction           NodeType = "FunctionDeclaration"
	NodeFunctionExpression NodeType = "FunctionExpression"
	NodeArrowFunction      NodeType = "ArrowFunctionExpression"
	NodeMethodDefinition   NodeType = "MethodDefinition"

	// Expressions
	NodeCallExpression   NodeType = "CallExpression"
	NodeMemberExpression NodeType = "MemberExpression"
	NodeAwaitExpression  NodeType = "AwaitExpression"
	NodeIdentifier       NodeType = "Identifier"

	// Statements
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableDeclarator  NodeType = "VariableDeclarator"

	// Literals
	NodeLiteral        NodeType = "Literal"
	NodeStringLiteral  NodeType = "StringLiteral"
	NodeNumberLiteral  NodeType = "NumberLiteral"
	NodeBooleanLiteral NodeType = "BooleanLiteral"
	NodeNullLiteral    NodeType = "NullLiteral"

	// JSX
	NodeJSXElement            NodeType = "JSXElement"
	NodeJSXSelfClosingElement NodeType = "JSXSelfClosingElement"
	NodeJSXFragment           NodeType = "JSXFragment"
	NodeJSXAttribute          NodeType = "JSXAttribute"
	NodeJSXExpression         NodeType = "JSXExpression"
)

// Location represents the position of a node in the source code.
// Byte offsets are kept alongside line/column so diagnostics can be
// anchored to exact source ranges.
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	StartByte int
	EndByte   int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name holds function/class/variable/attribute/tag names
	Name string

	// Function fields
	Params []*Node
	Body   []*Node
	Async  bool

	// Expression fields
	Arguments []*Node // Call arguments
	Callee    *Node   // Function being called
	Object    *Node   // Object in member expression
	Property  *Node   // Property in member expression
	Argument  *Node   // Await/return argument

	// Variable declaration fields
	Kind         string // var, let, const
	Declarations []*Node
	Value        *Node // Declarator initializer / JSX attribute value

	// Import/Export fields
	Source      *Node   // Import source string literal
	Specifiers  []*Node // Import/export specifiers
	Declaration *Node   // Export declaration
	Default     bool    // Default export

	// JSX fields
	Attributes []*Node // JSX element attributes

	// Raw holds the literal source text for literal nodes
	Raw string
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first and calls the visitor function for each
// node. If the visitor returns false, traversal of that branch is stopped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, param := range n.Params {
		param.Walk(visitor)
	}
	for _, stmt := range n.Body {
		stmt.Walk(visitor)
	}
	for _, arg := range n.Arguments {
		arg.Walk(visitor)
	}
	for _, decl := range n.Declarations {
		decl.Walk(visitor)
	}
	for _, spec := range n.Specifiers {
		spec.Walk(visitor)
	}
	for _, attr := range n.Attributes {
		attr.Walk(visitor)
	}

	if n.Callee != nil {
		n.Callee.Walk(visitor)
	}
	if n.Object != nil {
		n.Object.Walk(visitor)
	}
	if n.Property != nil {
		n.Property.Walk(visitor)
	}
	if n.Argument != nil {
		n.Argument.Walk(visitor)
	}
	if n.Value != nil {
		n.Value.Walk(visitor)
	}
	if n.Source != nil {
		n.Source.Walk(visitor)
	}
	if n.Declaration != nil {
		n.Declaration.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true if the node is a function
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunction, NodeFunctionExpression, NodeArrowFunction, NodeMethodDefinition:
		return true
	}
	return false
}

// IsJSX returns true if the node is a JSX element or fragment
func (n *Node) IsJSX() bool {
	switch n.Type {
	case NodeJSXElement, NodeJSXSelfClosingElement, NodeJSXFragment:
		return true
	}
	return false
}

// StringValue returns the unquoted value of a string literal node,
// or the empty string for any other node.
func (n *Node) StringValue() string {
	if n == nil || (n.Type != NodeStringLiteral && n.Type != NodeLiteral) {
		return ""
	}
	raw := n.Raw
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') ||
			(first == '\'' && last == '\'') ||
			(first == '`' && last == '`') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
