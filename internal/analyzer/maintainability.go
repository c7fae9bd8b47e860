package analyzer

import (
	"math"

	"github.com/Gabzxcv/Syntaxy-FL/internal/constants"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// HalsteadMetrics represents Halstead software science metrics
type HalsteadMetrics struct {
	// Base metrics
	OperatorsUnique int `json:"n1"`
	OperandsUnique  int `json:"n2"`
	OperatorsTotal  int `json:"N1"`
	OperandsTotal   int `json:"N2"`

	// Derived metrics
	Vocabulary int     `json:"vocabulary"`
	Length     int     `json:"length"`
	Volume     float64 `json:"volume"`
}

// CalculateHalstead counts operator and operand tokens of a unit.
// Punctuation and keywords are operators; identifiers and literals are operands.
func CalculateHalstead(unit *parser.SourceUnit) HalsteadMetrics {
	var h HalsteadMetrics
	if unit == nil || unit.Root == nil {
		return h
	}
	operators := make(map[string]struct{})
	operands := make(map[string]struct{})
	for _, leaf := range unit.Root.Leaves() {
		switch leaf.Kind {
		case parser.KindToken:
			operators[leaf.Text] = struct{}{}
			h.OperatorsTotal++
		case parser.KindIdentifier, parser.KindLiteral:
			operands[leaf.Text] = struct{}{}
			h.OperandsTotal++
		}
	}
	h.OperatorsUnique = len(operators)
	h.OperandsUnique = len(operands)
	h.Vocabulary = h.OperatorsUnique + h.OperandsUnique
	h.Length = h.OperatorsTotal + h.OperandsTotal
	if h.Vocabulary > 0 {
		h.Volume = float64(h.Length) * math.Log2(float64(h.Vocabulary))
	}
	return h
}

// MaintainabilityInput carries the factors of the maintainability index
type MaintainabilityInput struct {
	Volume               float64
	CyclomaticComplexity float64
	LinesOfCode          int
	// CommentRatio is comment lines over non-blank lines, in [0, 1]
	CommentRatio float64
	// ClonePercentage is the duplicated share of the unit, in [0, 100]
	ClonePercentage float64
}

// MaintainabilityIndex computes the SEI maintainability index rescaled to
// [0, 100] and reduced in proportion to duplicated code.
// It never increases with complexity, size or duplication.
func MaintainabilityIndex(in MaintainabilityInput) float64 {
	if in.LinesOfCode <= 0 {
		return 100
	}
	volume := math.Max(1, in.Volume)
	cc := math.Max(1, in.CyclomaticComplexity)
	comments := math.Max(0, math.Min(1, in.CommentRatio))

	raw := 171 -
		5.2*math.Log(volume) -
		0.23*cc -
		16.2*math.Log(float64(in.LinesOfCode)) +
		50*math.Sin(math.Sqrt(2.4*comments))
	score := math.Max(0, raw) * 100 / 171

	dup := math.Max(0, math.Min(100, in.ClonePercentage))
	score *= 1 - constants.DuplicationPenaltyWeight*dup/100

	return roundTo(math.Max(0, math.Min(100, score)), 2)
}

// CommentRatio returns the share of non-blank lines holding a comment
func CommentRatio(unit *parser.SourceUnit) float64 {
	if unit == nil || unit.Root == nil {
		return 0
	}
	nonBlank := NonBlankLineSet(unit)
	if nonBlank.Len() == 0 {
		return 0
	}
	comments := NewLineSet()
	for _, c := range unit.Root.FindByKind(parser.KindComment) {
		comments.AddRange(c.Lines())
	}
	return float64(comments.IntersectionLen(nonBlank)) / float64(nonBlank.Len())
}
