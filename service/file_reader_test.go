package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestFileCollectorCollect(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"alice/main.py":               singleFunction,
		"bob/Main.java":               "class Main {}",
		"carol/app.js":                "const a = 1;",
		"carol/node_modules/lib/x.js": "const b = 2;",
		"dave/notes.txt":              "not code",
		"erin/pkg/server.go":          "package pkg",
		"vendor/dep/dep.go":           "package dep",
		".git/hooks/pre-commit.py":    "x = 1",
	})

	collector := NewFileCollector(nil, []string{"**/*.py", "**/*.java", "**/*.js", "**/*.go"}, []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"}, 0)
	files, skipped, err := collector.Collect([]string{root})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"alice/main.py", "bob/Main.java", "carol/app.js", "erin/pkg/server.go"}, rel)
}

func TestFileCollectorDefaultsToKnownExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.py": "x = 1", "b.rs": "fn main() {}", "c.md": "# title"})

	files, _, err := NewFileCollector(nil, nil, nil, 0).Collect([]string{root})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files[0], "a.py"))
	assert.True(t, strings.HasSuffix(files[1], "b.rs"))
}

func TestFileCollectorSizeLimit(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"big.py": strings.Repeat("x = 1\n", 400), "small.py": "x = 1\n"})

	files, skipped, err := NewFileCollector(nil, nil, nil, 1).Collect([]string{root})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], "small.py"))
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Reason, "1 KB")
}

func TestFileCollectorExplicitFileAndMissingPath(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"script.txt": "x = 1"})
	explicit := filepath.Join(root, "script.txt")

	files, _, err := NewFileCollector(nil, []string{"**/*.py"}, nil, 0).Collect([]string{explicit, explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, _, err = NewFileCollector(nil, nil, nil, 0).Collect([]string{filepath.Join(root, "missing")})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
}

func TestFileCollectorBatchItems(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.py": singleFunction, "b.java": "class B {}", "c.txt": "plain"})
	paths := []string{filepath.Join(root, "a.py"), filepath.Join(root, "b.java"), filepath.Join(root, "c.txt")}

	collector := NewFileCollector(nil, nil, nil, 0)
	items, skipped := collector.BatchItems(paths, "", domain.AnalysisOptions{Mode: domain.ModeExact})
	require.Len(t, items, 2)
	assert.Equal(t, domain.LanguagePython, items[0].Request.Language)
	assert.Equal(t, domain.LanguageJava, items[1].Request.Language)
	assert.Equal(t, paths[0], items[0].CorrelationID)
	assert.Equal(t, singleFunction, items[0].Request.Source)
	assert.Equal(t, domain.ModeExact, items[0].Request.Options.Mode)
	assert.Equal(t, paths[0], items[0].Request.Metadata["path"])
	require.Len(t, skipped, 1)
	assert.Equal(t, paths[2], skipped[0].Path)

	forced, skipped := collector.BatchItems(paths[2:], domain.LanguageGeneric, domain.AnalysisOptions{})
	assert.Empty(t, skipped)
	require.Len(t, forced, 1)
	assert.Equal(t, domain.LanguageGeneric, forced[0].Request.Language)
}
