package parser

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func javascriptGrammar() *Grammar {
	functionFields := []string{"name", "parameters", "body"}
	return &Grammar{
		Language:   domain.LanguageJavaScript,
		Name:       "JavaScript",
		Extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
		language:   javascript.GetLanguage,
		kinds: kindTable(map[NodeKind][]string{
			KindModule: {"program"},
			KindFunction: {
				"function_declaration", "function_expression", "function",
				"generator_function_declaration", "generator_function",
				"arrow_function", "method_definition",
			},
			KindClass:    {"class_declaration", "class"},
			KindBlock:    {"statement_block", "class_body", "switch_body"},
			KindIf:       {"if_statement"},
			KindLoop:     {"for_statement", "for_in_statement", "while_statement", "do_statement"},
			KindSwitch:   {"switch_statement"},
			KindCase:     {"switch_case", "switch_default"},
			KindTry:      {"try_statement"},
			KindCatch:    {"catch_clause"},
			KindTernary:  {"ternary_expression"},
			KindBinary:   {"binary_expression"},
			KindCompound: {"labeled_statement", "finally_clause", "else_clause"},
		}),
		statements: set(
			"expression_statement", "variable_declaration", "lexical_declaration", "return_statement",
			"if_statement", "for_statement", "for_in_statement", "while_statement", "do_statement",
			"try_statement", "switch_statement", "throw_statement", "break_statement",
			"continue_statement", "labeled_statement", "function_declaration",
			"generator_function_declaration", "class_declaration", "empty_statement",
			"debugger_statement", "import_statement", "export_statement",
		),
		literals: literalTable(map[LiteralType][]string{
			LiteralString: {"string", "template_string", "regex"},
			LiteralNumber: {"number"},
			LiteralBool:   {"true", "false"},
			LiteralNull:   {"null", "undefined"},
		}),
		identifiers: set(
			"identifier", "property_identifier", "shorthand_property_identifier",
			"shorthand_property_identifier_pattern", "private_property_identifier",
		),
		comments: set("comment"),
		fields: map[string][]string{
			"function_declaration":           functionFields,
			"function_expression":            functionFields,
			"function":                       functionFields,
			"generator_function_declaration": functionFields,
			"generator_function":             functionFields,
			"method_definition":              functionFields,
			"arrow_function":                 {"parameter", "parameters", "body"},
			"class_declaration":              {"name", "body"},
			"variable_declarator":            {"name", "value"},
			"for_in_statement":               {"left", "right", "body"},
			"catch_clause":                   {"parameter", "body"},
			"assignment_pattern":             {"left", "right"},
		},
		decls: map[string][]declRule{
			"function_declaration":           {{Field: "name"}},
			"function_expression":            {{Field: "name"}},
			"function":                       {{Field: "name"}},
			"generator_function_declaration": {{Field: "name"}},
			"class_declaration":              {{Field: "name"}},
			"method_definition":              {{Field: "name"}},
			"formal_parameters":              {{}},
			"arrow_function":                 {{Field: "parameter"}},
			"variable_declarator":            {{Field: "name"}},
			"for_in_statement":               {{Field: "left"}},
			"catch_clause":                   {{Field: "parameter"}},
		},
		nonBinding:   set("member_expression", "subscript_expression", "call_expression"),
		skipFields:   set("value", "right"),
		ShortCircuit: set("&&", "||", "??"),
	}
}
