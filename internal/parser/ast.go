package parser

import (
	"fmt"
	"strings"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// NodeKind is the language-neutral category of an AST node
type NodeKind string

const (
	// Structure
	KindModule   NodeKind = "Module"
	KindFunction NodeKind = "Function"
	KindClass    NodeKind = "Class"
	KindBlock    NodeKind = "Block"

	// Statements
	KindStatement NodeKind = "Statement"
	KindCompound  NodeKind = "Compound"
	KindIf        NodeKind = "If"
	KindLoop      NodeKind = "Loop"
	KindSwitch    NodeKind = "Switch"
	KindCase      NodeKind = "Case"
	KindTry       NodeKind = "Try"
	KindCatch     NodeKind = "Catch"

	// Expressions
	KindTernary    NodeKind = "Ternary"
	KindBinary     NodeKind = "Binary"
	KindLambda     NodeKind = "Lambda"
	KindExpression NodeKind = "Expression"

	// Leaves
	KindIdentifier NodeKind = "Identifier"
	KindLiteral    NodeKind = "Literal"
	KindComment    NodeKind = "Comment"
	KindToken      NodeKind = "Token"
)

// LiteralType is the type class a literal collapses to in near-miss mode
type LiteralType string

const (
	LiteralString LiteralType = "STR"
	LiteralNumber LiteralType = "NUM"
	LiteralBool   LiteralType = "BOOL"
	LiteralNull   LiteralType = "NULL"
)

// Location represents the position of a node in the source code.
// Lines and columns are 1-based, byte offsets 0-based.
type Location struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	StartByte int
	EndByte   int
}

// Node represents a language-neutral AST node
type Node struct {
	Kind NodeKind
	// Type is the grammar-specific node type (e.g. "function_definition")
	Type string
	// Field is the grammar field this node occupies in its parent, if recorded
	Field string
	// Text holds the source text of leaves
	Text string
	// Op holds the operator of binary expressions
	Op string
	// Literal is set for KindLiteral nodes
	Literal LiteralType
	// Statement marks nodes that stand as statements in a block
	Statement bool
	// Declares marks identifiers that bind a name
	Declares bool

	Children []*Node
	Parent   *Node
	Location Location
}

// NewNode creates a new AST node
func NewNode(kind NodeKind, nodeType string) *Node {
	return &Node{Kind: kind, Type: nodeType}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

// IsLeaf reports whether the node produces a token
func (n *Node) IsLeaf() bool {
	switch n.Kind {
	case KindIdentifier, KindLiteral, KindToken, KindComment:
		return true
	}
	return false
}

// IsCompound reports whether a statement contains nested statements
func (n *Node) IsCompound() bool {
	switch n.Kind {
	case KindCompound, KindIf, KindLoop, KindSwitch, KindTry, KindFunction, KindClass, KindBlock:
		return true
	}
	return false
}

// IsDecision reports whether the node adds a path to the control flow.
// shortCircuit tells which binary operators count.
func (n *Node) IsDecision(shortCircuit map[string]bool) bool {
	switch n.Kind {
	case KindIf, KindLoop, KindCatch, KindTernary:
		return true
	case KindCase:
		return !strings.HasPrefix(strings.TrimSpace(n.Text), "default")
	case KindBinary:
		return shortCircuit[n.Op]
	}
	return false
}

// Lines returns the inclusive line span of the node
func (n *Node) Lines() domain.LineRange {
	return domain.LineRange{StartLine: n.Location.StartLine, EndLine: n.Location.EndLine}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Text != "" && n.IsLeaf() {
		return fmt.Sprintf("%s(%s)", n.Kind, n.Text)
	}
	return fmt.Sprintf("%s[%s]", n.Kind, n.Type)
}

// ChildByField returns the first child recorded under the given field
func (n *Node) ChildByField(field string) *Node {
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// Name returns the declared name of a function or class, or "" when anonymous
func (n *Node) Name() string {
	if name := n.ChildByField("name"); name != nil && name.Kind == KindIdentifier {
		return name.Text
	}
	return ""
}

// Body returns the block child of a function, class or compound statement
func (n *Node) Body() *Node {
	if body := n.ChildByField("body"); body != nil {
		return body
	}
	for _, child := range n.Children {
		if child.Kind == KindBlock {
			return child
		}
	}
	return nil
}

// Walk traverses the AST using depth-first search.
// Returning false from visitor skips the node's children.
func (n *Node) Walk(visitor func(*Node) bool) {
	n.Accept(NewFuncVisitor(visitor))
}

// Find finds all nodes matching a predicate
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	collector := NewCollectorVisitor(predicate)
	n.Accept(collector)
	return collector.GetNodes()
}

// FindByKind finds all nodes of a specific kind
func (n *Node) FindByKind(kind NodeKind) []*Node {
	return n.Find(func(node *Node) bool {
		return node.Kind == kind
	})
}

// Leaves returns the token-producing descendants in source order
func (n *Node) Leaves() []*Node {
	return n.Find(func(node *Node) bool {
		return node.IsLeaf()
	})
}

// EnclosingFunction returns the nearest function strictly above n
func (n *Node) EnclosingFunction() *Node {
	for current := n.Parent; current != nil; current = current.Parent {
		if current.Kind == KindFunction {
			return current
		}
	}
	return nil
}

// GetParentOfKind finds the nearest parent of a specific kind
func (n *Node) GetParentOfKind(kind NodeKind) *Node {
	for current := n.Parent; current != nil; current = current.Parent {
		if current.Kind == kind {
			return current
		}
	}
	return nil
}

// Size returns the number of nodes in the subtree
func (n *Node) Size() int {
	size := 0
	n.Walk(func(*Node) bool {
		size++
		return true
	})
	return size
}
