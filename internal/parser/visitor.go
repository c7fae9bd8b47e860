package parser

import (
	"fmt"
	"io"
	"strings"
)

// Visitor defines the interface for visiting AST nodes
type Visitor interface {
	// Visit is called for each node in the AST
	// Return false to skip the node's children
	Visit(node *Node) bool
}

// Accept implements the visitor pattern for AST nodes
func (n *Node) Accept(visitor Visitor) {
	if n == nil {
		return
	}

	if !visitor.Visit(n) {
		return
	}

	for _, child := range n.Children {
		child.Accept(visitor)
	}
}

// FuncVisitor is a visitor that uses a function
type FuncVisitor struct {
	fn func(*Node) bool
}

// NewFuncVisitor creates a visitor from a function
func NewFuncVisitor(fn func(*Node) bool) *FuncVisitor {
	return &FuncVisitor{fn: fn}
}

// Visit implements the Visitor interface
func (v *FuncVisitor) Visit(node *Node) bool {
	return v.fn(node)
}

// CollectorVisitor collects nodes matching a predicate
type CollectorVisitor struct {
	predicate func(*Node) bool
	nodes     []*Node
}

// NewCollectorVisitor creates a visitor that collects matching nodes
func NewCollectorVisitor(predicate func(*Node) bool) *CollectorVisitor {
	return &CollectorVisitor{
		predicate: predicate,
		nodes:     []*Node{},
	}
}

// Visit implements the Visitor interface
func (v *CollectorVisitor) Visit(node *Node) bool {
	if v.predicate(node) {
		v.nodes = append(v.nodes, node)
	}
	return true
}

// GetNodes returns the collected nodes
func (v *CollectorVisitor) GetNodes() []*Node {
	return v.nodes
}

// PrinterVisitor prints the AST structure, one node per line
type PrinterVisitor struct {
	writer io.Writer
	indent int
	prefix string
}

// NewPrinterVisitor creates a visitor that prints the AST
func NewPrinterVisitor(w io.Writer) *PrinterVisitor {
	return &PrinterVisitor{
		writer: w,
		prefix: "  ",
	}
}

// Visit implements the Visitor interface
func (v *PrinterVisitor) Visit(node *Node) bool {
	fmt.Fprint(v.writer, strings.Repeat(v.prefix, v.indent))

	switch {
	case node.IsLeaf():
		fmt.Fprintf(v.writer, "%s %q", node.Kind, node.Text)
	case node.Op != "":
		fmt.Fprintf(v.writer, "%s[%s] %s", node.Kind, node.Type, node.Op)
	default:
		fmt.Fprintf(v.writer, "%s[%s]", node.Kind, node.Type)
	}
	if node.Field != "" {
		fmt.Fprintf(v.writer, " (%s)", node.Field)
	}
	if node.Declares {
		fmt.Fprint(v.writer, " decl")
	}
	fmt.Fprintln(v.writer)

	v.indent++
	for _, child := range node.Children {
		child.Accept(v)
	}
	v.indent--

	return false
}
