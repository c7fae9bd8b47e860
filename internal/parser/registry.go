package parser

import (
	"context"
	"sort"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

// Registry maps languages to front-ends. It is populated once and only read
// afterwards, so a single registry may serve concurrent analyses.
type Registry struct {
	frontends map[domain.Language]Frontend
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{frontends: make(map[domain.Language]Frontend)}
}

// DefaultRegistry returns a registry with every built-in front-end
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewTreeSitterFrontend(pythonGrammar()))
	r.Register(NewTreeSitterFrontend(javaGrammar()))
	r.Register(NewTreeSitterFrontend(javascriptGrammar()))
	r.Register(NewTreeSitterFrontend(goGrammar()))
	r.Register(NewLexicalFrontend())
	return r
}

// Register adds or replaces the front-end for its language
func (r *Registry) Register(f Frontend) {
	r.frontends[f.Language()] = f
}

// Lookup returns the front-end for a language
func (r *Registry) Lookup(language domain.Language) (Frontend, error) {
	f, ok := r.frontends[domain.NormalizeLanguage(string(language))]
	if !ok {
		return nil, &domain.UnsupportedLanguageError{Language: string(language)}
	}
	return f, nil
}

// Languages describes the registered front-ends sorted by code
func (r *Registry) Languages() []domain.LanguageInfo {
	infos := make([]domain.LanguageInfo, 0, len(r.frontends))
	for _, f := range r.frontends {
		infos = append(infos, f.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Code < infos[j].Code
	})
	return infos
}

// LanguageForExtension returns the language registered for a file extension
func (r *Registry) LanguageForExtension(ext string) (domain.Language, bool) {
	for _, info := range r.Languages() {
		for _, e := range info.Extensions {
			if e == ext {
				return info.Code, true
			}
		}
	}
	return "", false
}

// Validate parses text with the front-end registered for language
func (r *Registry) Validate(ctx context.Context, text string, language domain.Language, limits Limits) (*SourceUnit, error) {
	f, err := r.Lookup(language)
	if err != nil {
		return nil, err
	}
	return f.Parse(ctx, []byte(text), limits)
}
