package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// TreeSitterFrontend validates and builds ASTs with a full tree-sitter grammar
type TreeSitterFrontend struct {
	grammar *Grammar
}

// NewTreeSitterFrontend creates a front-end for the given grammar
func NewTreeSitterFrontend(grammar *Grammar) *TreeSitterFrontend {
	return &TreeSitterFrontend{grammar: grammar}
}

// Language returns the language handled by this front-end
func (f *TreeSitterFrontend) Language() domain.Language {
	return f.grammar.Language
}

// Grammar returns the grammar tables of this front-end
func (f *TreeSitterFrontend) Grammar() *Grammar {
	return f.grammar
}

// Info describes the front-end
func (f *TreeSitterFrontend) Info() domain.LanguageInfo {
	return domain.LanguageInfo{
		Code:       f.grammar.Language,
		Name:       f.grammar.Name,
		Confidence: domain.ConfidenceValidated,
		Extensions: append([]string(nil), f.grammar.Extensions...),
	}
}

// Parse parses source code and returns the language-neutral unit.
// A tree containing ERROR or MISSING nodes is rejected with *domain.SyntaxError.
func (f *TreeSitterFrontend) Parse(ctx context.Context, source []byte, limits Limits) (*SourceUnit, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(f.grammar.language())

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, firstSyntaxError(rootNode, source)
	}

	b := &builder{ctx: ctx, grammar: f.grammar, source: source, limits: limits}
	root, err := b.build(rootNode)
	if err != nil {
		return nil, err
	}
	f.grammar.markDeclarations(root)

	return newSourceUnit(string(source), f.grammar.Language, root, domain.ConfidenceValidated, b.nodes, f.grammar.ShortCircuit), nil
}

// firstSyntaxError locates the earliest ERROR or MISSING node
func firstSyntaxError(root *sitter.Node, source []byte) *domain.SyntaxError {
	var found *sitter.Node
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if found != nil && n.StartByte() >= found.StartByte() {
			return
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(root)

	if found == nil {
		return &domain.SyntaxError{Message: "invalid syntax", Line: 1, Column: 1}
	}

	point := found.StartPoint()
	message := "unexpected input"
	if found.IsMissing() {
		message = fmt.Sprintf("missing %q", found.Type())
	} else if text := strings.TrimSpace(found.Content(source)); text != "" {
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			text = text[:idx]
		}
		if len(text) > 24 {
			text = text[:24] + "..."
		}
		message = fmt.Sprintf("unexpected %q", text)
	}
	return &domain.SyntaxError{
		Message: message,
		Line:    int(point.Row) + 1,
		Column:  int(point.Column) + 1,
	}
}

// builder converts tree-sitter nodes into language-neutral nodes
type builder struct {
	ctx     context.Context
	grammar *Grammar
	source  []byte
	limits  Limits
	nodes   int
}

type span struct {
	start, end uint32
	nodeType   string
}

func (b *builder) build(ts *sitter.Node) (*Node, error) {
	b.nodes++
	if b.limits.MaxNodes > 0 && b.nodes > b.limits.MaxNodes {
		return nil, &domain.TimeoutError{Nodes: b.nodes, NodeBudget: b.limits.MaxNodes}
	}
	if b.nodes%1024 == 0 {
		if err := b.ctx.Err(); err != nil {
			return nil, err
		}
	}

	nodeType := ts.Type()
	kind := b.grammar.KindOf(nodeType, ts.IsNamed())
	node := NewNode(kind, nodeType)
	node.Statement = ts.IsNamed() && b.grammar.statements[nodeType]
	node.Location = locationOf(ts)

	switch kind {
	case KindIdentifier, KindToken, KindComment:
		node.Text = ts.Content(b.source)
		return node, nil
	case KindLiteral:
		node.Text = ts.Content(b.source)
		node.Literal = b.grammar.literals[nodeType]
		return node, nil
	case KindBinary:
		if op := ts.ChildByFieldName("operator"); op != nil {
			node.Op = op.Type()
		}
	}

	var fieldSpans map[span]string
	if fields := b.grammar.fields[nodeType]; len(fields) > 0 {
		fieldSpans = make(map[span]string, len(fields))
		for _, field := range fields {
			if c := ts.ChildByFieldName(field); c != nil {
				fieldSpans[span{c.StartByte(), c.EndByte(), c.Type()}] = field
			}
		}
	}

	count := int(ts.ChildCount())
	for i := 0; i < count; i++ {
		c := ts.Child(i)
		if c == nil || (c.StartByte() == c.EndByte() && c.ChildCount() == 0) {
			continue
		}
		child, err := b.build(c)
		if err != nil {
			return nil, err
		}
		if fieldSpans != nil {
			child.Field = fieldSpans[span{c.StartByte(), c.EndByte(), c.Type()}]
		}
		node.AddChild(child)
	}

	if kind == KindCase && len(node.Children) > 0 {
		node.Text = node.Children[0].Text
	}
	return node, nil
}

func locationOf(ts *sitter.Node) Location {
	start, end := ts.StartPoint(), ts.EndPoint()
	loc := Location{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
		StartByte: int(ts.StartByte()),
		EndByte:   int(ts.EndByte()),
	}
	// A node ending at column 0 stops before that line.
	if end.Column == 0 && loc.EndLine > loc.StartLine {
		loc.EndLine--
	}
	return loc
}

// markDeclarations flags identifiers occupying binding positions
func (g *Grammar) markDeclarations(root *Node) {
	root.Walk(func(n *Node) bool {
		for _, rule := range g.decls[n.Type] {
			switch {
			case rule.Direct:
				for _, c := range n.Children {
					if c.Kind == KindIdentifier && c.Type == "identifier" {
						c.Declares = true
					}
				}
			case rule.Field != "":
				if c := n.ChildByField(rule.Field); c != nil {
					g.markBindings(c)
				}
			default:
				for _, c := range n.Children {
					g.markBindings(c)
				}
			}
		}
		return true
	})
}

func (g *Grammar) markBindings(n *Node) {
	if n.Kind == KindIdentifier {
		n.Declares = true
		return
	}
	if g.nonBinding[n.Type] || g.skipFields[n.Field] || n.Kind == KindFunction || n.Kind == KindLambda {
		return
	}
	for _, c := range n.Children {
		g.markBindings(c)
	}
}
