package parser

import (
	"context"
	"strings"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// Limits bounds the work a front-end may do on one submission
type Limits struct {
	// MaxNodes caps the number of syntax nodes; 0 means unlimited
	MaxNodes int
}

// Frontend validates source text and builds its language-neutral AST
type Frontend interface {
	Language() domain.Language
	Info() domain.LanguageInfo
	Parse(ctx context.Context, source []byte, limits Limits) (*SourceUnit, error)
}

// SourceUnit is one validated submission. It is immutable after parsing.
type SourceUnit struct {
	Text       string
	Language   domain.Language
	Root       *Node
	Lines      []string
	Confidence domain.Confidence
	NodeCount  int
	// ShortCircuit lists the binary operators that count as decision points
	ShortCircuit map[string]bool
}

func newSourceUnit(text string, language domain.Language, root *Node, confidence domain.Confidence, nodes int, shortCircuit map[string]bool) *SourceUnit {
	return &SourceUnit{
		Text:         text,
		Language:     language,
		Root:         root,
		Lines:        SplitLines(text),
		Confidence:   confidence,
		NodeCount:    nodes,
		ShortCircuit: shortCircuit,
	}
}

// SplitLines splits text into lines without their terminators.
// A trailing newline does not start a new line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// LineCount returns the number of lines in the unit
func (u *SourceUnit) LineCount() int {
	return len(u.Lines)
}

// NonBlankLines returns the 1-based numbers of lines with visible content
func (u *SourceUnit) NonBlankLines() []int {
	var out []int
	for i, line := range u.Lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, i+1)
		}
	}
	return out
}

// Snippet returns the text of lines [start, end], 1-based and inclusive
func (u *SourceUnit) Snippet(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(u.Lines) {
		end = len(u.Lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(u.Lines[start-1:end], "\n")
}

// NodeText returns the exact source text of a node
func (u *SourceUnit) NodeText(n *Node) string {
	if n == nil || n.Location.StartByte < 0 || n.Location.EndByte > len(u.Text) || n.Location.StartByte > n.Location.EndByte {
		return ""
	}
	return u.Text[n.Location.StartByte:n.Location.EndByte]
}

// Functions returns every function node in source order
func (u *SourceUnit) Functions() []*Node {
	if u.Root == nil {
		return nil
	}
	return u.Root.FindByKind(KindFunction)
}
