package analyzer

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// ModulePseudoFunction names the top-level code of a unit in complexity results
const ModulePseudoFunction = "<module>"

// ComplexityResult holds McCabe complexity for one function
type ComplexityResult struct {
	// McCabe cyclomatic complexity
	Complexity int

	FunctionName string
	StartLine    int
	EndLine      int
	LinesOfCode  int

	// Decision points breakdown
	IfStatements      int
	LoopStatements    int
	ExceptionHandlers int
	SwitchCases       int
	LogicalOperators  int
	Ternaries         int
}

// String returns a human-readable representation of the complexity result
func (cr *ComplexityResult) String() string {
	return fmt.Sprintf("Function: %s, Complexity: %d, Lines: %d-%d",
		cr.FunctionName, cr.Complexity, cr.StartLine, cr.EndLine)
}

// Metrics converts the result to its report form
func (cr *ComplexityResult) Metrics() domain.FunctionMetrics {
	return domain.FunctionMetrics{
		Name:                 cr.FunctionName,
		StartLine:            cr.StartLine,
		EndLine:              cr.EndLine,
		LinesOfCode:          cr.LinesOfCode,
		CyclomaticComplexity: cr.Complexity,
	}
}

func (cr *ComplexityResult) count(n *parser.Node, shortCircuit map[string]bool) {
	if !n.IsDecision(shortCircuit) {
		return
	}
	cr.Complexity++
	switch n.Kind {
	case parser.KindIf:
		cr.IfStatements++
	case parser.KindLoop:
		cr.LoopStatements++
	case parser.KindCatch:
		cr.ExceptionHandlers++
	case parser.KindCase:
		cr.SwitchCases++
	case parser.KindBinary:
		cr.LogicalOperators++
	case parser.KindTernary:
		cr.Ternaries++
	}
}

// countDecisions walks a subtree without entering nested functions.
// Lambdas count toward the function they appear in.
func countDecisions(cr *ComplexityResult, root *parser.Node, shortCircuit map[string]bool) {
	for _, child := range root.Children {
		child.Walk(func(n *parser.Node) bool {
			if n.Kind == parser.KindFunction {
				return false
			}
			cr.count(n, shortCircuit)
			return true
		})
	}
}

// CalculateComplexity computes complexity for every function of a unit.
// Top-level code becomes a pseudo-function when the unit has no functions
// or when it has decision points of its own.
func CalculateComplexity(unit *parser.SourceUnit) []*ComplexityResult {
	if unit == nil || unit.Root == nil || len(unit.NonBlankLines()) == 0 {
		return nil
	}
	nonBlank := NonBlankLineSet(unit)
	codeLines := codeLineSet(unit, nonBlank)
	inFunctions := NewLineSet()
	owners := lineOwners(unit, codeLines)

	var results []*ComplexityResult
	for _, fn := range unit.Functions() {
		name := fn.Name()
		if name == "" {
			name = fmt.Sprintf("<anonymous:%d>", fn.Location.StartLine)
		}
		span := fn.Lines()
		cr := &ComplexityResult{
			Complexity:   1,
			FunctionName: name,
			StartLine:    span.StartLine,
			EndLine:      span.EndLine,
			LinesOfCode:  max(1, owners[fn]),
		}
		countDecisions(cr, fn, unit.ShortCircuit)
		inFunctions.AddRange(span)
		results = append(results, cr)
	}

	module := &ComplexityResult{
		Complexity:   1,
		FunctionName: ModulePseudoFunction,
		StartLine:    1,
		EndLine:      unit.LineCount(),
	}
	countDecisions(module, unit.Root, unit.ShortCircuit)
	module.LinesOfCode = codeLines.Len() - codeLines.IntersectionLen(inFunctions)

	if module.LinesOfCode > 0 && (len(results) == 0 || module.Complexity > 1) {
		results = append([]*ComplexityResult{module}, results...)
	}
	return results
}

// AggregateComplexity summarizes the functions of a unit
type AggregateComplexity struct {
	TotalFunctions int
	// WeightedComplexity is the mean complexity weighted by lines of code
	WeightedComplexity float64
	MaxComplexity      int
	MinComplexity      int
}

// CalculateAggregateComplexity computes the lines-of-code weighted mean.
// The result is never below 1.
func CalculateAggregateComplexity(results []*ComplexityResult) *AggregateComplexity {
	if len(results) == 0 {
		return &AggregateComplexity{WeightedComplexity: 1, MinComplexity: 1, MaxComplexity: 1}
	}

	agg := &AggregateComplexity{
		TotalFunctions: len(results),
		MinComplexity:  results[0].Complexity,
		MaxComplexity:  results[0].Complexity,
	}
	values := make([]float64, len(results))
	weights := make([]float64, len(results))
	for i, r := range results {
		values[i] = float64(r.Complexity)
		weights[i] = float64(max(1, r.LinesOfCode))
		agg.MaxComplexity = max(agg.MaxComplexity, r.Complexity)
		agg.MinComplexity = min(agg.MinComplexity, r.Complexity)
	}
	agg.WeightedComplexity = max(1, roundTo(stat.Mean(values, weights), 2))
	return agg
}

// codeLineSet returns non-blank lines that are not purely comments
func codeLineSet(unit *parser.SourceUnit, nonBlank *LineSet) *LineSet {
	code := NewLineSet()
	for _, leaf := range unit.Root.Leaves() {
		if leaf.Kind == parser.KindComment {
			continue
		}
		code.AddRange(leaf.Lines())
	}
	out := NewLineSet()
	for _, line := range unit.NonBlankLines() {
		if code.Contains(line) {
			out.Add(line)
		}
	}
	if out.Len() == 0 && nonBlank.Len() > 0 {
		return nonBlank
	}
	return out
}

// lineOwners counts, per function, the code lines it owns. A line belongs to
// the innermost function enclosing its first token, so lines of a nested
// function are not counted again for the function around it.
func lineOwners(unit *parser.SourceUnit, codeLines *LineSet) map[*parser.Node]int {
	assigned := NewLineSet()
	owned := make(map[*parser.Node]int)
	for _, leaf := range unit.Root.Leaves() {
		if leaf.Kind == parser.KindComment {
			continue
		}
		owner := leaf.EnclosingFunction()
		r := leaf.Lines()
		for line := r.StartLine; line <= r.EndLine; line++ {
			if assigned.Contains(line) || !codeLines.Contains(line) {
				continue
			}
			assigned.Add(line)
			if owner != nil {
				owned[owner]++
			}
		}
	}
	return owned
}
