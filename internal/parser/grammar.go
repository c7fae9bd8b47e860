package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// declRule marks identifiers that bind names.
// With Field set, only identifiers under that field bind; with Direct set,
// only identifier children of the node itself bind; otherwise every
// identifier in the subtree binds, except below skipped fields.
type declRule struct {
	Field  string
	Direct bool
}

// Grammar maps a tree-sitter grammar onto the language-neutral node kinds
type Grammar struct {
	Language   domain.Language
	Name       string
	Extensions []string

	language func() *sitter.Language

	kinds       map[string]NodeKind
	statements  map[string]bool
	literals    map[string]LiteralType
	identifiers map[string]bool
	comments    map[string]bool
	// fields lists, per node type, the grammar fields recorded on children
	fields map[string][]string
	decls  map[string][]declRule
	// nonBinding node types are never descended into when collecting bindings
	nonBinding map[string]bool
	// skipFields hold values rather than names inside binding contexts
	skipFields map[string]bool
	// ShortCircuit lists operators counted as decision points
	ShortCircuit map[string]bool
}

// KindOf returns the neutral kind for a grammar node type
func (g *Grammar) KindOf(nodeType string, named bool) NodeKind {
	if g.comments[nodeType] {
		return KindComment
	}
	if _, ok := g.literals[nodeType]; ok {
		return KindLiteral
	}
	if g.identifiers[nodeType] {
		return KindIdentifier
	}
	// keyword tokens such as "function" or "class" share their type with named nodes
	if !named {
		return KindToken
	}
	if kind, ok := g.kinds[nodeType]; ok {
		return kind
	}
	if g.statements[nodeType] {
		return KindStatement
	}
	return KindExpression
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, item := range items {
		m[item] = true
	}
	return m
}

func kindTable(groups map[NodeKind][]string) map[string]NodeKind {
	m := make(map[string]NodeKind)
	for kind, types := range groups {
		for _, t := range types {
			m[t] = kind
		}
	}
	return m
}

func literalTable(groups map[LiteralType][]string) map[string]LiteralType {
	m := make(map[string]LiteralType)
	for lit, types := range groups {
		for _, t := range types {
			m[t] = lit
		}
	}
	return m
}
