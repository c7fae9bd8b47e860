package parser

import (
	"context"
	"strings"
	"unicode"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// LexicalFrontend handles C-family or unknown syntax without a grammar.
// It never rejects input; its units carry ConfidenceAssumed.
type LexicalFrontend struct{}

// NewLexicalFrontend creates the generic front-end
func NewLexicalFrontend() *LexicalFrontend {
	return &LexicalFrontend{}
}

// Language returns domain.LanguageGeneric
func (f *LexicalFrontend) Language() domain.Language {
	return domain.LanguageGeneric
}

// Info describes the front-end
func (f *LexicalFrontend) Info() domain.LanguageInfo {
	return domain.LanguageInfo{
		Code:       domain.LanguageGeneric,
		Name:       "Generic (lexical, C-family)",
		Confidence: domain.ConfidenceAssumed,
		Extensions: []string{".c", ".h", ".cc", ".cpp", ".cs", ".kt", ".swift", ".rs", ".php", ".ts"},
	}
}

var lexicalShortCircuit = set("&&", "||", "and", "or", "??")

var lexicalKeywords = set(
	"if", "else", "elif", "for", "foreach", "while", "do", "switch", "case", "default", "break",
	"continue", "return", "try", "catch", "except", "finally", "throw", "throws", "raise", "new",
	"delete", "class", "struct", "interface", "enum", "union", "public", "private", "protected",
	"internal", "static", "final", "const", "let", "var", "function", "func", "fn", "def", "void",
	"import", "package", "using", "namespace", "extends", "implements", "this", "super", "self",
	"in", "of", "typeof", "instanceof", "sizeof", "goto", "yield", "async", "await", "lambda",
	"pub", "mut", "impl", "trait", "match", "where", "with", "as", "from", "is", "not", "and",
	"or", "virtual", "override", "abstract", "sealed", "readonly", "extern", "inline", "template",
	"typename", "operator", "when", "val", "fun", "object", "guard", "defer", "go", "select",
	"chan", "range", "type", "loop", "unsafe", "pass", "echo",
)

var lexicalLiterals = map[string]LiteralType{
	"true": LiteralBool, "false": LiteralBool, "True": LiteralBool, "False": LiteralBool,
	"null": LiteralNull, "nil": LiteralNull, "None": LiteralNull, "undefined": LiteralNull, "NULL": LiteralNull,
	"nullptr": LiteralNull,
}

var lexicalOperators = []string{
	">>>=", "<<=", ">>=", "===", "!==", "**=", "...", "->", "=>", "::", ":=", "==", "!=", "<=", ">=",
	"&&", "||", "??", "++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
}

// lexeme is a token with its position
type lexeme struct {
	text    string
	kind    NodeKind
	literal LiteralType
	loc     Location
}

// Parse tokenizes source and groups the tokens into statements and brace blocks
func (f *LexicalFrontend) Parse(ctx context.Context, source []byte, limits Limits) (*SourceUnit, error) {
	text := string(source)
	lexemes := lexSource(text)
	if limits.MaxNodes > 0 && len(lexemes) > limits.MaxNodes {
		return nil, &domain.TimeoutError{Nodes: len(lexemes), NodeBudget: limits.MaxNodes}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := NewNode(KindModule, "module")
	root.Location = Location{StartLine: 1, StartCol: 1, EndLine: max(1, len(SplitLines(text))), StartByte: 0, EndByte: len(text)}
	g := &lexicalGrouper{lexemes: lexemes}
	g.group(root)

	unit := newSourceUnit(text, domain.LanguageGeneric, root, domain.ConfidenceAssumed, root.Size(), lexicalShortCircuit)
	return unit, nil
}

func lexSource(text string) []lexeme {
	var out []lexeme
	runes := []rune(text)
	line, col, offset := 1, 1, 0

	advance := func(n int) {
		for k := 0; k < n; k++ {
			if runes[k] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			offset += len(string(runes[k]))
		}
		runes = runes[n:]
	}

	for len(runes) > 0 {
		c := runes[0]
		startLine, startCol, startByte := line, col, offset

		if unicode.IsSpace(c) {
			advance(1)
			continue
		}

		n, kind, lit := scanToken(runes)
		tok := string(runes[:n])
		advance(n)

		// Record where the token ends; multi-line tokens span rows.
		out = append(out, lexeme{
			text:    tok,
			kind:    kind,
			literal: lit,
			loc: Location{
				StartLine: startLine, StartCol: startCol,
				EndLine: line, EndCol: col,
				StartByte: startByte, EndByte: offset,
			},
		})
		if kind == KindComment && strings.HasSuffix(tok, "\n") {
			out[len(out)-1].loc.EndLine--
		}
	}
	return out
}

// scanToken returns the rune length, kind and literal class of the next token
func scanToken(runes []rune) (int, NodeKind, LiteralType) {
	c := runes[0]
	next := func(i int) rune {
		if i < len(runes) {
			return runes[i]
		}
		return 0
	}

	switch {
	case c == '/' && next(1) == '/', c == '#':
		n := 0
		for n < len(runes) && runes[n] != '\n' {
			n++
		}
		return n, KindComment, ""
	case c == '/' && next(1) == '*':
		n := 2
		for n < len(runes) && !(runes[n] == '*' && next(n+1) == '/') {
			n++
		}
		return min(n+2, len(runes)), KindComment, ""
	case c == '"' || c == '\'' || c == '`':
		n := 1
		for n < len(runes) && runes[n] != c {
			if runes[n] == '\\' {
				n++
			} else if runes[n] == '\n' && c != '`' {
				break
			}
			n++
		}
		return min(n+1, len(runes)), KindLiteral, LiteralString
	case unicode.IsDigit(c):
		n := 1
		for n < len(runes) && (unicode.IsDigit(runes[n]) || unicode.IsLetter(runes[n]) || runes[n] == '.' || runes[n] == '_') {
			n++
		}
		return n, KindLiteral, LiteralNumber
	case unicode.IsLetter(c) || c == '_' || c == '$':
		n := 1
		for n < len(runes) && (unicode.IsLetter(runes[n]) || unicode.IsDigit(runes[n]) || runes[n] == '_' || runes[n] == '$') {
			n++
		}
		word := string(runes[:n])
		if lit, ok := lexicalLiterals[word]; ok {
			return n, KindLiteral, lit
		}
		if lexicalKeywords[word] {
			return n, KindToken, ""
		}
		return n, KindIdentifier, ""
	}

	for _, op := range lexicalOperators {
		if strings.HasPrefix(string(runes[:min(len(runes), len(op))]), op) {
			return len([]rune(op)), KindToken, ""
		}
	}
	return 1, KindToken, ""
}

// lexicalGrouper turns a flat lexeme stream into statements and blocks
type lexicalGrouper struct {
	lexemes []lexeme
	pos     int
}

func (g *lexicalGrouper) group(container *Node) {
	var pending []*Node
	parenDepth := 0

	flush := func() {
		if len(pending) == 0 {
			return
		}
		container.AddChild(makeStatement(pending))
		pending = nil
		parenDepth = 0
	}

	for g.pos < len(g.lexemes) {
		lx := g.lexemes[g.pos]
		g.pos++

		if lx.kind == KindComment {
			flush()
			container.AddChild(leafFrom(lx))
			continue
		}

		leaf := leafFrom(lx)
		switch lx.text {
		case "(", "[":
			parenDepth++
		case ")", "]":
			if parenDepth > 0 {
				parenDepth--
			}
		case "{":
			if parenDepth == 0 && !isInitializer(pending) {
				header := pending
				pending = nil
				block := NewNode(KindBlock, "block")
				block.AddChild(leaf)
				g.group(block)
				spanLocation(block)
				container.AddChild(makeCompound(header, block))
				continue
			}
			parenDepth++
		case "}":
			if parenDepth == 0 {
				flush()
				if container.Kind == KindBlock {
					container.AddChild(leaf)
					return
				}
				// Unbalanced closing brace at module level is kept as a token.
				pending = append(pending, leaf)
				flush()
				continue
			}
			parenDepth--
		}

		if len(pending) > 0 && parenDepth == 0 && lx.loc.StartLine > pending[len(pending)-1].Location.EndLine &&
			!continuesStatement(pending[len(pending)-1].Text) && lx.text != ")" && lx.text != "]" && lx.text != "." {
			flush()
			if lx.text == "(" || lx.text == "[" {
				parenDepth = 1
			}
		}
		pending = append(pending, leaf)

		if parenDepth == 0 && (lx.text == ";" || (lx.text == ":" && startsCase(pending))) {
			flush()
		}
	}
	flush()
}

func leafFrom(lx lexeme) *Node {
	n := NewNode(lx.kind, "token")
	switch lx.kind {
	case KindIdentifier:
		n.Type = "identifier"
	case KindLiteral:
		n.Type = "literal"
		n.Literal = lx.literal
	case KindComment:
		n.Type = "comment"
	}
	n.Text = lx.text
	n.Location = lx.loc
	if lx.kind == KindToken && lexicalShortCircuit[lx.text] {
		wrapper := NewNode(KindBinary, "logical_operator")
		wrapper.Op = lx.text
		wrapper.Location = lx.loc
		wrapper.AddChild(n)
		return wrapper
	}
	if lx.kind == KindToken && lx.text == "?" {
		wrapper := NewNode(KindTernary, "conditional")
		wrapper.Location = lx.loc
		wrapper.AddChild(n)
		return wrapper
	}
	return n
}

func continuesStatement(last string) bool {
	switch last {
	case ",", "+", "-", "*", "/", "%", "=", "&&", "||", "(", "[", ".", "?", ":", "=>", "->", "<<", ">>":
		return true
	}
	return false
}

func isInitializer(pending []*Node) bool {
	if len(pending) == 0 {
		return false
	}
	switch pending[len(pending)-1].Text {
	case "=", ",", "(", "[", "return", ":":
		return true
	}
	return false
}

func startsCase(tokens []*Node) bool {
	first := leafText(tokens[0])
	return first == "case" || first == "default"
}

func leafText(n *Node) string {
	if n.IsLeaf() {
		return n.Text
	}
	if len(n.Children) > 0 {
		return leafText(n.Children[0])
	}
	return ""
}

// statementKind classifies a statement by its leading keywords
func statementKind(tokens []*Node) NodeKind {
	if len(tokens) == 0 {
		return KindStatement
	}
	first := leafText(tokens[0])
	second := ""
	if len(tokens) > 1 {
		second = leafText(tokens[1])
	}
	switch first {
	case "if", "elif":
		return KindIf
	case "else":
		if second == "if" {
			return KindIf
		}
		return KindCompound
	case "for", "foreach", "while", "loop":
		return KindLoop
	case "do":
		return KindLoop
	case "switch", "match", "select":
		return KindSwitch
	case "case", "default", "when":
		return KindCase
	case "try":
		return KindTry
	case "catch", "except":
		return KindCatch
	case "finally":
		return KindCompound
	}
	return KindStatement
}

func makeStatement(tokens []*Node) *Node {
	kind := statementKind(tokens)
	stmt := NewNode(kind, "statement")
	stmt.Statement = true
	if kind == KindCase {
		stmt.Text = leafText(tokens[0])
	}
	for _, t := range tokens {
		stmt.AddChild(t)
	}
	markLexicalBindings(tokens)
	spanLocation(stmt)
	return stmt
}

func makeCompound(header []*Node, block *Node) *Node {
	kind := statementKind(header)
	nodeType := "compound"
	if kind == KindCompound || kind == KindStatement {
		kind = KindCompound
		if name, params, ok := functionHeader(header); ok {
			kind = KindFunction
			nodeType = "function"
			name.Field = "name"
			name.Declares = true
			for _, p := range params {
				p.Declares = true
			}
		} else if isClassHeader(header) {
			kind = KindClass
			nodeType = "class"
		}
	}
	node := NewNode(kind, nodeType)
	node.Statement = true
	for _, t := range header {
		node.AddChild(t)
	}
	block.Field = "body"
	node.AddChild(block)
	if kind != KindFunction {
		markLexicalBindings(header)
	}
	spanLocation(node)
	return node
}

// functionHeader finds "name(params...)" in a brace header
func functionHeader(header []*Node) (*Node, []*Node, bool) {
	for _, t := range header {
		if t.Text == "=>" {
			return nil, nil, false
		}
	}
	for i := 1; i < len(header); i++ {
		if header[i].Text != "(" || header[i-1].Kind != KindIdentifier {
			continue
		}
		var params []*Node
		depth := 0
		for j := i; j < len(header); j++ {
			switch header[j].Text {
			case "(":
				depth++
			case ")":
				depth--
			}
			if depth == 0 {
				break
			}
			if j+1 < len(header) && header[j].Kind == KindIdentifier && depth == 1 {
				switch header[j+1].Text {
				case ",", ")", ":", "=":
					params = append(params, header[j])
				}
			}
		}
		return header[i-1], params, true
	}
	return nil, nil, false
}

func isClassHeader(header []*Node) bool {
	for _, t := range header {
		switch t.Text {
		case "class", "struct", "interface", "enum", "trait", "impl", "object":
			return true
		}
	}
	return false
}

// markLexicalBindings flags identifiers directly assigned in a statement
func markLexicalBindings(tokens []*Node) {
	for i, t := range tokens {
		if t.Kind != KindIdentifier || i+1 >= len(tokens) {
			continue
		}
		if i > 0 && (tokens[i-1].Text == "." || tokens[i-1].Text == "->") {
			continue
		}
		switch tokens[i+1].Text {
		case "=", ":=", "in", "of":
			t.Declares = true
		}
	}
}

func spanLocation(n *Node) {
	if len(n.Children) == 0 {
		return
	}
	first, last := n.Children[0].Location, n.Children[len(n.Children)-1].Location
	n.Location = Location{
		StartLine: first.StartLine, StartCol: first.StartCol,
		EndLine: last.EndLine, EndCol: last.EndCol,
		StartByte: first.StartByte, EndByte: last.EndByte,
	}
}
