package parser

import (
	"github.com/smacker/go-tree-sitter/java"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func javaGrammar() *Grammar {
	return &Grammar{
		Language:   domain.LanguageJava,
		Name:       "Java",
		Extensions: []string{".java"},
		language:   java.GetLanguage,
		kinds: kindTable(map[NodeKind][]string{
			KindModule:   {"program"},
			KindFunction: {"method_declaration", "constructor_declaration", "compact_constructor_declaration"},
			KindClass:    {"class_declaration", "interface_declaration", "enum_declaration", "record_declaration"},
			KindBlock: {
				"block", "constructor_body", "class_body", "interface_body", "enum_body",
				"switch_block", "switch_block_statement_group",
			},
			KindIf:       {"if_statement"},
			KindLoop:     {"for_statement", "enhanced_for_statement", "while_statement", "do_statement"},
			KindSwitch:   {"switch_expression", "switch_statement"},
			KindCase:     {"switch_label"},
			KindTry:      {"try_statement", "try_with_resources_statement"},
			KindCatch:    {"catch_clause"},
			KindTernary:  {"ternary_expression"},
			KindBinary:   {"binary_expression"},
			KindLambda:   {"lambda_expression"},
			KindCompound: {"synchronized_statement", "labeled_statement", "finally_clause"},
		}),
		statements: set(
			"local_variable_declaration", "expression_statement", "return_statement", "if_statement",
			"for_statement", "enhanced_for_statement", "while_statement", "do_statement",
			"try_statement", "try_with_resources_statement", "switch_expression", "switch_statement",
			"throw_statement", "break_statement", "continue_statement", "yield_statement",
			"synchronized_statement", "labeled_statement", "assert_statement",
			"field_declaration", "local_class_declaration",
		),
		literals: literalTable(map[LiteralType][]string{
			LiteralString: {"string_literal", "character_literal", "text_block"},
			LiteralNumber: {
				"decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
				"binary_integer_literal", "decimal_floating_point_literal", "hex_floating_point_literal",
			},
			LiteralBool: {"true", "false"},
			LiteralNull: {"null_literal"},
		}),
		identifiers: set("identifier", "type_identifier"),
		comments:    set("line_comment", "block_comment", "comment"),
		fields: map[string][]string{
			"method_declaration":      {"name", "parameters", "body", "type"},
			"constructor_declaration": {"name", "parameters", "body"},
			"class_declaration":       {"name", "body"},
			"interface_declaration":   {"name", "body"},
			"enum_declaration":        {"name", "body"},
			"record_declaration":      {"name", "body"},
			"formal_parameter":        {"name", "type"},
			"catch_formal_parameter":  {"name"},
			"variable_declarator":     {"name", "value"},
			"enhanced_for_statement":  {"name", "type", "value", "body"},
			"lambda_expression":       {"parameters", "body"},
			"resource":                {"name", "value"},
		},
		decls: map[string][]declRule{
			"method_declaration":      {{Field: "name"}},
			"constructor_declaration": {{Field: "name"}},
			"class_declaration":       {{Field: "name"}},
			"interface_declaration":   {{Field: "name"}},
			"enum_declaration":        {{Field: "name"}},
			"record_declaration":      {{Field: "name"}},
			"formal_parameter":        {{Field: "name"}},
			"catch_formal_parameter":  {{Field: "name"}},
			"variable_declarator":     {{Field: "name"}},
			"enhanced_for_statement":  {{Field: "name"}},
			"resource":                {{Field: "name"}},
			"inferred_parameters":     {{}},
			"lambda_expression":       {{Field: "parameters"}},
		},
		nonBinding:   set("field_access", "method_invocation", "array_access"),
		skipFields:   set("value", "type"),
		ShortCircuit: set("&&", "||"),
	}
}
