package analyzer

import (
	"context"
	"sort"
	"strconv"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// Block boundary markers
const (
	BlockOpen  = "{"
	BlockClose = "}"
)

// Token is one normalized token with its three renditions
type Token struct {
	// Policy is the rendition compared under the active mode
	Policy string
	// Renamed has identifiers replaced by placeholders and literal values kept
	Renamed string
	// Exact is the verbatim text
	Exact string
	Line  int
	// Leaf is nil for block markers
	Leaf *parser.Node
	// Placeholder is the 1-based placeholder index, 0 when the token is not renamed
	Placeholder int
}

// NormalizedBlock is a fragment of one unit at one granularity
type NormalizedBlock struct {
	ID          int
	Unit        *parser.SourceUnit
	Granularity domain.Granularity
	Kind        parser.NodeKind
	Tokens      []Token
	StartLine   int
	EndLine     int
	// Function is the function this block is or lies in; nil at module level
	Function *parser.Node
	// Nodes are the statements (or the single function) the block spans
	Nodes []*parser.Node
	// Placeholders maps placeholder index-1 to the original name
	Placeholders []string
}

// Lines returns the block's line range
func (b *NormalizedBlock) Lines() domain.LineRange {
	return domain.LineRange{StartLine: b.StartLine, EndLine: b.EndLine}
}

// PolicySequence returns the policy renditions
func (b *NormalizedBlock) PolicySequence() []string {
	out := make([]string, len(b.Tokens))
	for i, t := range b.Tokens {
		out[i] = t.Policy
	}
	return out
}

// RenamedSequence returns the renamed renditions
func (b *NormalizedBlock) RenamedSequence() []string {
	out := make([]string, len(b.Tokens))
	for i, t := range b.Tokens {
		out[i] = t.Renamed
	}
	return out
}

// ExactSequence returns the verbatim renditions
func (b *NormalizedBlock) ExactSequence() []string {
	out := make([]string, len(b.Tokens))
	for i, t := range b.Tokens {
		out[i] = t.Exact
	}
	return out
}

// Normalizer produces NormalizedBlocks from a SourceUnit
type Normalizer struct {
	config *Config
}

// NewNormalizer creates a normalizer
func NewNormalizer(config *Config) *Normalizer {
	return &Normalizer{config: config}
}

// Normalize extracts statement, basic-block and function fragments.
// Empty or comment-only units yield no blocks.
func (n *Normalizer) Normalize(ctx context.Context, unit *parser.SourceUnit) ([]*NormalizedBlock, error) {
	if unit == nil || unit.Root == nil {
		return nil, nil
	}
	scopes := buildScopes(unit.Root)
	var blocks []*NormalizedBlock
	visited := 0

	add := func(g domain.Granularity, kind parser.NodeKind, fn *parser.Node, nodes []*parser.Node) {
		block := n.newBlock(unit, scopes, g, kind, fn, nodes)
		if n.accept(block) {
			blocks = append(blocks, block)
		}
	}

	var walkErr error
	unit.Root.Walk(func(node *parser.Node) bool {
		visited++
		if visited%512 == 0 {
			if err := ctx.Err(); err != nil {
				walkErr = err
				return false
			}
		}
		if walkErr != nil {
			return false
		}

		if node.Kind == parser.KindFunction {
			add(domain.GranularityFunction, node.Kind, node, []*parser.Node{node})
		}
		if isStatementUnit(node) {
			add(domain.GranularityStatement, node.Kind, enclosingFunction(node), []*parser.Node{node})
		}
		if isContainer(node) {
			for _, run := range simpleRuns(node, n.config.MinBasicBlockStatements) {
				add(domain.GranularityBasicBlock, parser.KindBlock, enclosingFunction(run[0]), run)
			}
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].StartLine != blocks[j].StartLine {
			return blocks[i].StartLine < blocks[j].StartLine
		}
		if blocks[i].EndLine != blocks[j].EndLine {
			return blocks[i].EndLine > blocks[j].EndLine
		}
		return granularityRank(blocks[i].Granularity) < granularityRank(blocks[j].Granularity)
	})
	for i, b := range blocks {
		b.ID = i
	}
	return blocks, nil
}

func (n *Normalizer) accept(b *NormalizedBlock) bool {
	return len(b.Tokens) >= n.config.MinTokens && b.EndLine-b.StartLine+1 >= n.config.MinLines
}

func granularityRank(g domain.Granularity) int {
	switch g {
	case domain.GranularityFunction:
		return 0
	case domain.GranularityBasicBlock:
		return 1
	}
	return 2
}

func (n *Normalizer) newBlock(unit *parser.SourceUnit, scopes *scopeTable, g domain.Granularity, kind parser.NodeKind, fn *parser.Node, nodes []*parser.Node) *NormalizedBlock {
	e := &emitter{
		scopes:       scopes,
		nearMiss:     n.config.Mode == domain.ModeNearMiss,
		placeholders: make(map[string]int),
	}
	for _, node := range nodes {
		e.emit(node)
	}
	first, last := nodes[0], nodes[len(nodes)-1]
	return &NormalizedBlock{
		Unit:         unit,
		Granularity:  g,
		Kind:         kind,
		Tokens:       e.tokens,
		StartLine:    first.Location.StartLine,
		EndLine:      last.Location.EndLine,
		Function:     fn,
		Nodes:        nodes,
		Placeholders: e.names,
	}
}

// emitter renders a subtree as normalized tokens
type emitter struct {
	scopes       *scopeTable
	nearMiss     bool
	placeholders map[string]int
	names        []string
	tokens       []Token
}

func (e *emitter) emit(n *parser.Node) {
	switch n.Kind {
	case parser.KindComment:
		return
	case parser.KindBlock:
		e.marker(BlockOpen, n.Location.StartLine)
		for _, child := range n.Children {
			if child.Kind == parser.KindToken && (child.Text == "{" || child.Text == "}") {
				continue
			}
			e.emit(child)
		}
		e.marker(BlockClose, n.Location.EndLine)
		return
	case parser.KindIdentifier:
		tok := Token{Exact: n.Text, Renamed: n.Text, Policy: n.Text, Line: n.Location.StartLine, Leaf: n}
		if e.scopes.renamable(n) {
			idx, ok := e.placeholders[n.Text]
			if !ok {
				e.names = append(e.names, n.Text)
				idx = len(e.names)
				e.placeholders[n.Text] = idx
			}
			tok.Placeholder = idx
			tok.Renamed = "$" + strconv.Itoa(idx)
			tok.Policy = tok.Renamed
		}
		e.tokens = append(e.tokens, tok)
		return
	case parser.KindLiteral:
		tok := Token{Exact: n.Text, Renamed: n.Text, Policy: n.Text, Line: n.Location.StartLine, Leaf: n}
		if e.nearMiss {
			tok.Policy = "<" + string(n.Literal) + ">"
		}
		e.tokens = append(e.tokens, tok)
		return
	case parser.KindToken:
		e.tokens = append(e.tokens, Token{Exact: n.Text, Renamed: n.Text, Policy: n.Text, Line: n.Location.StartLine, Leaf: n})
		return
	}
	for _, child := range n.Children {
		e.emit(child)
	}
}

func (e *emitter) marker(text string, line int) {
	e.tokens = append(e.tokens, Token{Exact: text, Renamed: text, Policy: text, Line: line})
}

func enclosingFunction(n *parser.Node) *parser.Node {
	return n.EnclosingFunction()
}

// isContainer reports whether a node holds a statement sequence
func isContainer(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindBlock, parser.KindModule, parser.KindCase:
		return true
	}
	return false
}

// isDefinition reports whether a statement defines a function or class
func isDefinition(n *parser.Node) bool {
	if n.Kind == parser.KindFunction || n.Kind == parser.KindClass {
		return true
	}
	if n.Kind == parser.KindCompound {
		for _, child := range n.Children {
			if child.Kind == parser.KindFunction || child.Kind == parser.KindClass {
				return true
			}
		}
	}
	return false
}

func isStatementUnit(n *parser.Node) bool {
	return n.Statement && n.Parent != nil && isContainer(n.Parent) && !isDefinition(n)
}

// simpleRuns splits a container's statements into maximal runs of simple
// statements of at least minLen
func simpleRuns(container *parser.Node, minLen int) [][]*parser.Node {
	var runs [][]*parser.Node
	var current []*parser.Node
	closeRun := func() {
		if len(current) >= minLen {
			runs = append(runs, current)
		}
		current = nil
	}
	for _, child := range container.Children {
		if !child.Statement {
			continue
		}
		if child.IsCompound() || isDefinition(child) || child.Kind == parser.KindCase {
			closeRun()
			continue
		}
		current = append(current, child)
	}
	closeRun()
	return runs
}
