// Package parser turns submissions into language-neutral syntax trees.
//
// Each supported language is served by a Frontend held in a Registry.
// Python, Java, JavaScript and Go use tree-sitter grammars and reject
// input containing syntax errors. The generic front-end tokenizes
// C-family or unknown syntax and never rejects; its units are marked
// with domain.ConfidenceAssumed.
//
// Basic usage:
//
//	registry := parser.DefaultRegistry()
//	unit, err := registry.Validate(ctx, "def hello(): pass", domain.LanguagePython, parser.Limits{})
//	if err != nil {
//	    // *domain.SyntaxError or *domain.UnsupportedLanguageError
//	}
//	// unit.Root is the module node
package parser
