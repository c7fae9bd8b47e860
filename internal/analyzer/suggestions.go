package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/constants"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// maxLiteralParameters bounds how many differing literals a parameterized
// function may take before plain extraction is suggested instead
const maxLiteralParameters = 4

// refactoringPlan is the mechanical transform chosen for one cluster
type refactoringPlan struct {
	kind   string
	helper string
	params []string
	after  string
}

// Suggest derives one refactoring suggestion per cluster that spans two or
// more whole functions, or two or more fragments of one function.
// Suggestions are ordered by descending priority.
func Suggest(unit *parser.SourceUnit, clusters []*Cluster) (suggestions []domain.RefactoringSuggestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			suggestions = nil
			err = domain.NewAnalysisError("suggestion generation failed", fmt.Errorf("panic: %v", r))
		}
	}()
	if unit == nil || unit.Root == nil || len(clusters) == 0 {
		return nil, nil
	}

	tmpl := templateFor(unit.Language)
	scopes := buildScopes(unit.Root)

	type ranked struct {
		suggestion domain.RefactoringSuggestion
		severity   int
		start      int
	}
	var out []ranked
	for _, c := range clusters {
		var plan *refactoringPlan
		switch {
		case wholeFunctions(c.Members):
			plan = planFunctions(unit, tmpl, c)
		case sameFunction(c.Members):
			plan = planFragment(unit, scopes, tmpl, c)
		}
		if plan == nil {
			continue
		}
		out = append(out, ranked{
			suggestion: buildSuggestion(c, plan),
			severity:   c.Type.Severity(),
			start:      c.Match.Locations[0].StartLine,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.suggestion.PriorityScore != b.suggestion.PriorityScore {
			return a.suggestion.PriorityScore > b.suggestion.PriorityScore
		}
		if a.severity != b.severity {
			return a.severity > b.severity
		}
		if a.start != b.start {
			return a.start < b.start
		}
		return a.suggestion.ID < b.suggestion.ID
	})

	suggestions = make([]domain.RefactoringSuggestion, len(out))
	for i, r := range out {
		suggestions[i] = r.suggestion
	}
	return suggestions, nil
}

// PriorityScore ranks a clone by similarity, number of copies and lines
// affected, saturating towards 1
func PriorityScore(match *domain.CloneMatch) float64 {
	raw := match.Similarity * float64(len(match.Locations)) * float64(match.LinesCovered())
	if raw <= 0 {
		return 0
	}
	return roundTo(clamp01(raw/(raw+constants.PrioritySaturation)), 4)
}

func buildSuggestion(c *Cluster, plan *refactoringPlan) domain.RefactoringSuggestion {
	match := &c.Match
	score := PriorityScore(match)
	return domain.RefactoringSuggestion{
		ID:              uuid.NewSHA1(cloneNamespace, []byte("suggestion|"+match.ID+"|"+plan.kind)).String(),
		Priority:        domain.PriorityLabel(score),
		PriorityScore:   score,
		RefactoringType: plan.kind,
		AffectedCloneID: match.ID,
		Explanation:     explain(match, plan),
		BeforeCode:      match.RepresentativeSnippet,
		AfterCode:       plan.after,
	}
}

func explain(match *domain.CloneMatch, plan *refactoringPlan) domain.Explanation {
	locs := make([]string, len(match.Locations))
	for i, loc := range match.Locations {
		locs[i] = fmt.Sprintf("%d-%d", loc.StartLine, loc.EndLine)
	}
	name := constants.CloneTypeNames[string(match.Type)]
	desc := constants.CloneTypeDescriptions[string(match.Type)]

	remember := fmt.Sprintf("This code is duplicated %d times (%s, %.0f%% similar) at lines %s.",
		len(match.Locations), strings.ToLower(name), match.Similarity*100, strings.Join(locs, ", "))
	understand := fmt.Sprintf("%s. Every fix or change must be repeated in each copy, and copies that are missed drift apart and keep their bugs.", desc)

	var apply string
	switch plan.kind {
	case domain.RefactoringParameterizeFunction:
		apply = fmt.Sprintf("Parameterize Function: keep one implementation named %s, pass the values that differ as parameters (%s), and let each copy delegate to it.",
			plan.helper, strings.Join(plan.params, ", "))
	case domain.RefactoringExtractMethod:
		apply = fmt.Sprintf("Extract Method: move the shared code into a method named %s and call it from each of the %d places.",
			plan.helper, len(match.Locations))
	default:
		apply = fmt.Sprintf("Extract Function: move the shared code into a function named %s and call it from each of the %d places.",
			plan.helper, len(match.Locations))
	}
	return domain.Explanation{Remember: remember, Understand: understand, Apply: apply}
}

func wholeFunctions(members []*NormalizedBlock) bool {
	for _, m := range members {
		if m.Granularity != domain.GranularityFunction || m.Function == nil {
			return false
		}
	}
	return len(members) >= 2
}

func sameFunction(members []*NormalizedBlock) bool {
	fn := members[0].Function
	if fn == nil {
		return false
	}
	for _, m := range members {
		if m.Granularity == domain.GranularityFunction || m.Function != fn {
			return false
		}
	}
	return len(members) >= 2
}

// isMethod reports whether a function belongs to a class or receiver type
func isMethod(fn *parser.Node) bool {
	return fn.GetParentOfKind(parser.KindClass) != nil || fn.ChildByField("receiver") != nil
}

// planFunctions keeps one implementation of a set of equivalent functions and
// turns the other copies into delegating wrappers
func planFunctions(unit *parser.SourceUnit, tmpl *codeTemplate, c *Cluster) *refactoringPlan {
	first := c.Members[0].Function
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.Function.Name()
	}
	prefix := commonPrefix(names)
	helper := tmpl.helperName(prefix)
	if len(prefix) < 3 || helper == tmpl.helperName(names[0]) {
		helper = tmpl.helperName(names[0], "shared")
	}

	kind := domain.RefactoringExtractFunction
	if isMethod(first) || unit.Language == domain.LanguageJava {
		kind = domain.RefactoringExtractMethod
	}

	positions := literalDiffs(c.Members)
	closeParen, hasParams, ok := paramListEnd(unit, first)
	if len(positions) > 0 && len(positions) <= maxLiteralParameters && ok {
		kind = domain.RefactoringParameterizeFunction
	} else {
		positions = nil
	}

	var edits []textEdit
	if name := first.ChildByField("name"); name != nil && name.Kind == parser.KindIdentifier {
		edits = append(edits, textEdit{start: name.Location.StartByte, end: name.Location.EndByte, text: helper})
	}
	var params []string
	var extra []string
	for i, pos := range positions {
		lit := c.Members[0].Tokens[pos].Leaf
		pname := "value"
		if i > 0 {
			pname = fmt.Sprintf("value%d", i+1)
		}
		params = append(params, pname)
		extra = append(extra, tmpl.param(pname, tmpl.paramType(lit.Literal, lit.Text)))
		edits = append(edits, textEdit{start: lit.Location.StartByte, end: lit.Location.EndByte, text: pname})
	}
	if len(extra) > 0 {
		sep := ""
		if hasParams {
			sep = ", "
		}
		edits = append(edits, textEdit{start: closeParen, end: closeParen, text: sep + strings.Join(extra, ", ")})
	}

	start := lineStart(unit.Text, first.Location.StartByte)
	helperText := reindent(applyEdits(unit.Text, start, first.Location.EndByte, edits), "")

	parts := []string{helperText}
	for _, m := range c.Members {
		args := functionParams(m.Function)
		prefix := callPrefix(unit.Language, m.Function, &args)
		for _, pos := range positions {
			args = append(args, m.Tokens[pos].Leaf.Text)
		}
		if wrapper := delegatingWrapper(unit, tmpl, m.Function, tmpl.call(prefix, helper, args)); wrapper != "" {
			parts = append(parts, wrapper)
		}
	}
	return &refactoringPlan{kind: kind, helper: helper, params: params, after: strings.Join(parts, "\n\n")}
}

// planFragment extracts repeated fragments of one function into a helper
// called from every location
func planFragment(unit *parser.SourceUnit, scopes *scopeTable, tmpl *codeTemplate, c *Cluster) *refactoringPlan {
	fn := c.Members[0].Function
	method := isMethod(fn) && unit.Language != domain.LanguageGo
	kind := domain.RefactoringExtractFunction
	if method || unit.Language == domain.LanguageJava {
		kind = domain.RefactoringExtractMethod
	}

	base := fn.Name()
	if base == "" {
		base = "block"
	}
	helper := tmpl.helperName(base, "common")

	free := freeVariables(scopes, c.Members[0])
	params := make([]string, len(free))
	decls := make([]string, len(free))
	for i, f := range free {
		params[i] = f.name
		decls[i] = tmpl.freeParam(f.name)
	}

	first := c.Match.Locations[0]
	body := reindent(unit.Snippet(first.StartLine, first.EndLine), tmpl.indent)
	parts := []string{tmpl.define(tmpl, helper, decls, body, method)}

	prefix := ""
	if method {
		switch unit.Language {
		case domain.LanguagePython:
			prefix = "self."
		case domain.LanguageJavaScript:
			prefix = "this."
		}
	}
	for i, m := range c.Members {
		args := make([]string, len(free))
		for j, f := range free {
			args[j] = f.name
			if f.placeholder > 0 && f.placeholder <= len(m.Placeholders) {
				args[j] = m.Placeholders[f.placeholder-1]
			}
		}
		loc := c.Match.Locations[i]
		parts = append(parts, fmt.Sprintf("%s lines %d-%d\n%s", tmpl.comment, loc.StartLine, loc.EndLine, tmpl.call(prefix, helper, args)))
	}
	return &refactoringPlan{kind: kind, helper: helper, params: params, after: strings.Join(parts, "\n\n")}
}

type freeVariable struct {
	name        string
	placeholder int
}

// freeVariables lists the names a fragment reads from its enclosing function,
// in placeholder order
func freeVariables(scopes *scopeTable, block *NormalizedBlock) []freeVariable {
	declared := make(map[string]bool)
	for _, n := range block.Nodes {
		n.Walk(func(node *parser.Node) bool {
			if node.Kind == parser.KindIdentifier && node.Declares {
				declared[node.Text] = true
			}
			return true
		})
	}
	seen := make(map[string]bool)
	var out []freeVariable
	for _, t := range block.Tokens {
		if t.Placeholder == 0 || t.Leaf == nil {
			continue
		}
		name := t.Leaf.Text
		if seen[name] || declared[name] || scopes.boundIn(nil, name) {
			continue
		}
		seen[name] = true
		out = append(out, freeVariable{name: name, placeholder: t.Placeholder})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].placeholder < out[j].placeholder })
	return out
}

// literalDiffs returns the token positions where aligned members differ only
// in a literal value of the same type. It returns nil when the members are
// not aligned token for token.
func literalDiffs(members []*NormalizedBlock) []int {
	n := len(members[0].Tokens)
	for _, m := range members[1:] {
		if len(m.Tokens) != n {
			return nil
		}
	}
	var positions []int
	for i := 0; i < n; i++ {
		t0 := members[0].Tokens[i]
		differs := false
		for _, m := range members[1:] {
			t := m.Tokens[i]
			if t.Renamed == t0.Renamed {
				continue
			}
			if t0.Leaf == nil || t.Leaf == nil ||
				t0.Leaf.Kind != parser.KindLiteral || t.Leaf.Kind != parser.KindLiteral ||
				t0.Leaf.Literal != t.Leaf.Literal {
				return nil
			}
			differs = true
		}
		if differs {
			positions = append(positions, i)
		}
	}
	return positions
}

// functionParams returns the parameter names of a function in order
func functionParams(fn *parser.Node) []string {
	body := fn.Body()
	var params []string
	for _, child := range fn.Children {
		if child == body || child.Field == "name" || child.Field == "receiver" || child.Field == "result" {
			continue
		}
		child.Walk(func(n *parser.Node) bool {
			if n.Kind == parser.KindFunction || n.Kind == parser.KindLambda {
				return false
			}
			if n.Kind == parser.KindIdentifier && n.Declares {
				params = append(params, n.Text)
			}
			return true
		})
	}
	return params
}

// callPrefix returns the receiver expression used to call a sibling helper.
// For Python methods the explicit self parameter moves into the prefix.
func callPrefix(lang domain.Language, fn *parser.Node, args *[]string) string {
	switch lang {
	case domain.LanguagePython:
		if fn.GetParentOfKind(parser.KindClass) != nil && len(*args) > 0 {
			self := (*args)[0]
			*args = (*args)[1:]
			return self + "."
		}
	case domain.LanguageJavaScript:
		if fn.GetParentOfKind(parser.KindClass) != nil {
			return "this."
		}
	case domain.LanguageGo:
		if recv := fn.ChildByField("receiver"); recv != nil {
			for _, leaf := range recv.Leaves() {
				if leaf.Kind == parser.KindIdentifier && leaf.Declares {
					return leaf.Text + "."
				}
			}
		}
	}
	return ""
}

// delegatingWrapper rewrites a function so that its body only calls the helper
func delegatingWrapper(unit *parser.SourceUnit, tmpl *codeTemplate, fn *parser.Node, call string) string {
	body := fn.Body()
	if body == nil {
		return ""
	}
	header := strings.TrimRight(unit.Text[lineStart(unit.Text, fn.Location.StartByte):body.Location.StartByte], " \t\r\n")
	header = reindent(header, "")

	stmt := call
	if returnsValue(unit.Language, fn, header) {
		stmt = "return " + call
	}
	if unit.Language == domain.LanguagePython {
		return header + "\n" + tmpl.indent + stmt
	}
	return header + " {\n" + tmpl.indent + stmt + "\n}"
}

func returnsValue(lang domain.Language, fn *parser.Node, header string) bool {
	switch lang {
	case domain.LanguageJava:
		return !strings.Contains(" "+header+" ", " void ") && fn.Type != "constructor_declaration"
	case domain.LanguageGo:
		return fn.ChildByField("result") != nil
	case domain.LanguageGeneric:
		return !strings.Contains(" "+header+" ", " void ")
	}
	return true
}

// paramListEnd returns the byte offset of the closing parenthesis of a
// function's parameter list and whether the list is non-empty
func paramListEnd(unit *parser.SourceUnit, fn *parser.Node) (int, bool, bool) {
	if p := fn.ChildByField("parameters"); p != nil {
		start, end := p.Location.StartByte, p.Location.EndByte
		if end > start && end <= len(unit.Text) && unit.Text[end-1] == ')' && unit.Text[start] == '(' {
			return end - 1, strings.TrimSpace(unit.Text[start+1:end-1]) != "", true
		}
		return 0, false, false
	}

	body := fn.Body()
	var header []*parser.Node
	for _, child := range fn.Children {
		if child == body {
			break
		}
		header = append(header, child.Leaves()...)
	}
	depth, open := 0, -1
	for i, leaf := range header {
		switch leaf.Text {
		case "(":
			if depth == 0 {
				open = i
			}
			depth++
		case ")":
			depth--
			if depth == 0 && open >= 0 {
				return leaf.Location.StartByte, i > open+1, true
			}
		}
	}
	return 0, false, false
}

type textEdit struct {
	start, end int
	text       string
}

// applyEdits returns text[from:to] with non-overlapping edits applied
func applyEdits(text string, from, to int, edits []textEdit) string {
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		return edits[i].end < edits[j].end
	})
	var b strings.Builder
	pos := from
	for _, e := range edits {
		if e.start < pos || e.end > to {
			continue
		}
		b.WriteString(text[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(text[pos:to])
	return b.String()
}

func lineStart(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

func commonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return strings.TrimRight(prefix, "_")
}
