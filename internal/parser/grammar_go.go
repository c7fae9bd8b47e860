package parser

import (
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func goGrammar() *Grammar {
	return &Grammar{
		Language:   domain.LanguageGo,
		Name:       "Go",
		Extensions: []string{".go"},
		language:   golang.GetLanguage,
		kinds: kindTable(map[NodeKind][]string{
			KindModule:   {"source_file"},
			KindFunction: {"function_declaration", "method_declaration", "func_literal"},
			KindBlock:    {"block", "statement_list"},
			KindIf:       {"if_statement"},
			KindLoop:     {"for_statement"},
			KindSwitch:   {"expression_switch_statement", "type_switch_statement", "select_statement"},
			KindCase:     {"expression_case", "type_case", "communication_case", "default_case"},
			KindBinary:   {"binary_expression"},
			KindCompound: {"labeled_statement"},
		}),
		statements: set(
			"expression_statement", "short_var_declaration", "assignment_statement", "inc_statement",
			"dec_statement", "var_declaration", "const_declaration", "return_statement", "if_statement",
			"for_statement", "expression_switch_statement", "type_switch_statement", "select_statement",
			"go_statement", "defer_statement", "break_statement", "continue_statement", "goto_statement",
			"labeled_statement", "send_statement", "fallthrough_statement", "type_declaration",
		),
		literals: literalTable(map[LiteralType][]string{
			LiteralString: {"interpreted_string_literal", "raw_string_literal", "rune_literal"},
			LiteralNumber: {"int_literal", "float_literal", "imaginary_literal"},
			LiteralBool:   {"true", "false"},
			LiteralNull:   {"nil"},
		}),
		identifiers: set("identifier", "field_identifier", "type_identifier", "package_identifier"),
		comments:    set("comment"),
		fields: map[string][]string{
			"function_declaration":  {"name", "parameters", "result", "body"},
			"method_declaration":    {"receiver", "name", "parameters", "result", "body"},
			"func_literal":          {"parameters", "result", "body"},
			"short_var_declaration": {"left", "right"},
			"range_clause":          {"left", "right"},
			"type_spec":             {"name", "type"},
			"for_statement":         {"body"},
		},
		decls: map[string][]declRule{
			"function_declaration":             {{Field: "name"}},
			"method_declaration":               {{Field: "name"}},
			"type_spec":                        {{Field: "name"}},
			"parameter_declaration":            {{Direct: true}},
			"variadic_parameter_declaration":   {{Direct: true}},
			"short_var_declaration":            {{Field: "left"}},
			"var_spec":                         {{Direct: true}},
			"const_spec":                       {{Direct: true}},
			"range_clause":                     {{Field: "left"}},
		},
		nonBinding:   set("selector_expression", "index_expression", "call_expression"),
		skipFields:   set("type", "value", "right"),
		ShortCircuit: set("&&", "||"),
	}
}
