package parser

import (
	"github.com/smacker/go-tree-sitter/python"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func pythonGrammar() *Grammar {
	return &Grammar{
		Language:   domain.LanguagePython,
		Name:       "Python",
		Extensions: []string{".py", ".pyw"},
		language:   python.GetLanguage,
		kinds: kindTable(map[NodeKind][]string{
			KindModule:   {"module"},
			KindFunction: {"function_definition"},
			KindClass:    {"class_definition"},
			KindBlock:    {"block"},
			KindIf:       {"if_statement", "elif_clause", "if_clause"},
			KindLoop:     {"for_statement", "while_statement", "for_in_clause"},
			KindSwitch:   {"match_statement"},
			KindCase:     {"case_clause"},
			KindTry:      {"try_statement"},
			KindCatch:    {"except_clause", "except_group_clause"},
			KindTernary:  {"conditional_expression"},
			KindBinary:   {"boolean_operator"},
			KindLambda:   {"lambda"},
			KindCompound: {"with_statement", "decorated_definition", "else_clause", "finally_clause"},
		}),
		statements: set(
			"expression_statement", "return_statement", "pass_statement", "break_statement",
			"continue_statement", "raise_statement", "assert_statement", "delete_statement",
			"global_statement", "nonlocal_statement", "import_statement", "import_from_statement",
			"future_import_statement", "print_statement", "exec_statement", "type_alias_statement",
			"if_statement", "for_statement", "while_statement", "try_statement", "with_statement",
			"match_statement", "function_definition", "class_definition", "decorated_definition",
		),
		literals: literalTable(map[LiteralType][]string{
			LiteralString: {"string", "concatenated_string"},
			LiteralNumber: {"integer", "float"},
			LiteralBool:   {"true", "false"},
			LiteralNull:   {"none", "ellipsis"},
		}),
		identifiers: set("identifier"),
		comments:    set("comment"),
		fields: map[string][]string{
			"function_definition":     {"name", "parameters", "body"},
			"class_definition":        {"name", "body"},
			"lambda":                  {"parameters", "body"},
			"assignment":              {"left", "right", "type"},
			"augmented_assignment":    {"left", "right"},
			"for_statement":           {"left", "right", "body"},
			"for_in_clause":           {"left", "right"},
			"named_expression":        {"name", "value"},
			"default_parameter":       {"name", "value"},
			"typed_default_parameter": {"name", "type", "value"},
			"typed_parameter":         {"type"},
			"while_statement":         {"body"},
			"with_statement":          {"body"},
		},
		decls: map[string][]declRule{
			"function_definition":  {{Field: "name"}},
			"class_definition":     {{Field: "name"}},
			"parameters":           {{}},
			"lambda_parameters":    {{}},
			"assignment":           {{Field: "left"}},
			"augmented_assignment": {{Field: "left"}},
			"for_statement":        {{Field: "left"}},
			"for_in_clause":        {{Field: "left"}},
			"named_expression":     {{Field: "name"}},
			"as_pattern_target":    {{}},
		},
		nonBinding:   set("attribute", "subscript", "call"),
		skipFields:   set("value", "type"),
		ShortCircuit: set("and", "or"),
	}
}
