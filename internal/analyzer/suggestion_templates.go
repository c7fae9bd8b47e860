package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// codeTemplate renders helper definitions and calls in one language
type codeTemplate struct {
	indent  string
	comment string
	// terminator ends a call statement
	terminator string
	// snakeCase selects helper naming style
	snakeCase bool
	// paramType returns the declared type of a parameter, "" when untyped
	paramType func(lit parser.LiteralType, value string) string
	// typeFirst puts the type before the name ("int x" rather than "x int")
	typeFirst bool
	define    func(t *codeTemplate, name string, params []string, body string, method bool) string
}

var codeTemplates = map[domain.Language]*codeTemplate{
	domain.LanguagePython: {
		indent:    "    ",
		comment:   "#",
		snakeCase: true,
		paramType: func(parser.LiteralType, string) string { return "" },
		define: func(t *codeTemplate, name string, params []string, body string, method bool) string {
			if method {
				params = append([]string{"self"}, params...)
			}
			return fmt.Sprintf("def %s(%s):\n%s", name, strings.Join(params, ", "), body)
		},
	},
	domain.LanguageJava: {
		indent:     "    ",
		comment:    "//",
		terminator: ";",
		typeFirst:  true,
		paramType:  javaType,
		define: func(t *codeTemplate, name string, params []string, body string, _ bool) string {
			return fmt.Sprintf("private void %s(%s) {\n%s\n}", name, strings.Join(params, ", "), body)
		},
	},
	domain.LanguageJavaScript: {
		indent:     "  ",
		comment:    "//",
		terminator: ";",
		paramType:  func(parser.LiteralType, string) string { return "" },
		define: func(t *codeTemplate, name string, params []string, body string, method bool) string {
			if method {
				return fmt.Sprintf("%s(%s) {\n%s\n}", name, strings.Join(params, ", "), body)
			}
			return fmt.Sprintf("function %s(%s) {\n%s\n}", name, strings.Join(params, ", "), body)
		},
	},
	domain.LanguageGo: {
		indent:    "\t",
		comment:   "//",
		paramType: goType,
		define: func(t *codeTemplate, name string, params []string, body string, _ bool) string {
			return fmt.Sprintf("func %s(%s) {\n%s\n}", name, strings.Join(params, ", "), body)
		},
	},
	domain.LanguageGeneric: {
		indent:     "    ",
		comment:    "//",
		terminator: ";",
		paramType:  func(parser.LiteralType, string) string { return "" },
		define: func(t *codeTemplate, name string, params []string, body string, _ bool) string {
			return fmt.Sprintf("function %s(%s) {\n%s\n}", name, strings.Join(params, ", "), body)
		},
	},
}

func templateFor(lang domain.Language) *codeTemplate {
	if t, ok := codeTemplates[lang]; ok {
		return t
	}
	return codeTemplates[domain.LanguageGeneric]
}

func javaType(lit parser.LiteralType, value string) string {
	switch lit {
	case parser.LiteralString:
		if strings.HasPrefix(value, "'") {
			return "char"
		}
		return "String"
	case parser.LiteralNumber:
		if isFloatLiteral(value) {
			return "double"
		}
		return "int"
	case parser.LiteralBool:
		return "boolean"
	}
	return "Object"
}

func goType(lit parser.LiteralType, value string) string {
	switch lit {
	case parser.LiteralString:
		if strings.HasPrefix(value, "'") {
			return "rune"
		}
		return "string"
	case parser.LiteralNumber:
		if isFloatLiteral(value) {
			return "float64"
		}
		return "int"
	case parser.LiteralBool:
		return "bool"
	}
	return "any"
}

func isFloatLiteral(v string) bool {
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		return false
	}
	return strings.ContainsAny(v, ".eE")
}

// param renders one parameter declaration
func (t *codeTemplate) param(name, typ string) string {
	switch {
	case typ == "":
		return name
	case t.typeFirst:
		return typ + " " + name
	}
	return name + " " + typ
}

// freeParam renders a parameter whose type is not known from a literal
func (t *codeTemplate) freeParam(name string) string {
	return t.param(name, t.paramType(parser.LiteralNull, ""))
}

func (t *codeTemplate) call(prefix, name string, args []string) string {
	return fmt.Sprintf("%s%s(%s)%s", prefix, name, strings.Join(args, ", "), t.terminator)
}

// helperName joins words in the template's naming style
func (t *codeTemplate) helperName(words ...string) string {
	var parts []string
	for _, w := range words {
		for _, p := range splitIdentifier(w) {
			parts = append(parts, strings.ToLower(p))
		}
	}
	if len(parts) == 0 {
		parts = []string{"shared"}
	}
	if t.snakeCase {
		return strings.Join(parts, "_")
	}
	var b strings.Builder
	for i, p := range parts {
		if i == 0 {
			b.WriteString(p)
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// splitIdentifier splits snake_case and camelCase names into words
func splitIdentifier(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '$' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// reindent strips the common leading whitespace of text and prefixes every
// non-blank line with indent
func reindent(text, indent string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common < 0 {
		common = 0
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		out[i] = indent + line[common:]
	}
	return strings.Join(out, "\n")
}
