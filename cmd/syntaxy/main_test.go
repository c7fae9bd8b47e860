package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/version"
)

const duplicatedPython = `def compute_total(items):
    total = 0
    for item in items:
        if item > 0:
            total += item
    return total


def compute_total_copy(items):
    total = 0
    for item in items:
        if item > 0:
            total += item
    return total
`

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs the command tree inside a fresh working directory
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	res := runCLI(t, "", "version", "--short")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, version.Short()+"\n", res.stdout)

	res = runCLI(t, "", "version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "syntaxy "+version.Short())
}

func TestAnalyzeFileJSON(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "submission.py", duplicatedPython)

	res := runCLI(t, "", "analyze", "--format", "json", path)
	require.Equal(t, 0, res.code, res.stderr)

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, domain.LanguagePython, report.Language)
	assert.NotEmpty(t, report.Clones)
	assert.Equal(t, path, report.Metadata["path"])
}

func TestAnalyzeStdin(t *testing.T) {
	isolate(t)

	res := runCLI(t, duplicatedPython, "analyze", "--language", "Python", "--format", "json", "-")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"language": "python"`)
}

func TestAnalyzeTextOutput(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "submission.py", duplicatedPython)

	res := runCLI(t, "", "analyze", "--no-color", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Clone Analysis Report")
	assert.Contains(t, res.stdout, "1-6, 9-14")
}

func TestAnalyzeRejectedInputs(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) []string
		stdin string
	}{
		{
			name: "syntax error",
			setup: func(t *testing.T, dir string) []string {
				return []string{"analyze", writeFile(t, dir, "broken.py", "def f(: pass\n")}
			},
		},
		{
			name: "stdin without language",
			setup: func(t *testing.T, dir string) []string {
				return []string{"analyze", "-"}
			},
			stdin: duplicatedPython,
		},
		{
			name: "unknown extension",
			setup: func(t *testing.T, dir string) []string {
				return []string{"analyze", writeFile(t, dir, "notes.unknownext", "hello")}
			},
		},
		{
			name: "unsupported language",
			setup: func(t *testing.T, dir string) []string {
				return []string{"analyze", "--language", "cobol", writeFile(t, dir, "prog.py", "x = 1\n")}
			},
		},
		{
			name: "missing file",
			setup: func(t *testing.T, dir string) []string {
				return []string{"analyze", filepath.Join(dir, "missing.py")}
			},
		},
		{
			name: "invalid mode",
			setup: func(t *testing.T, dir string) []string {
				return []string{"analyze", "--mode", "fuzzy", writeFile(t, dir, "ok.py", "x = 1\n")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			res := runCLI(t, tt.stdin, tt.setup(t, dir)...)
			assert.Equal(t, exitInputRejected, res.code, res.stderr)
			assert.Contains(t, res.stderr, "Error:")
		})
	}
}

func TestAnalyzeOutputFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "submission.py", duplicatedPython)
	out := filepath.Join(dir, "reports", "report.yaml")

	res := runCLI(t, "", "analyze", "--format", "yaml", "--output", out, path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Report written:")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "analysis_id:")
}

func TestStoreAndReports(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "submission.py", duplicatedPython)
	db := filepath.Join(dir, "store", "reports.db")

	res := runCLI(t, "", "analyze", "--format", "json", "--store", db, path)
	require.Equal(t, 0, res.code, res.stderr)
	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))

	res = runCLI(t, "", "reports", "list", "--store", db, "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)
	var summaries []domain.ReportSummary
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, report.AnalysisID, summaries[0].AnalysisID)

	res = runCLI(t, "", "reports", "show", "--store", db, "--format", "json", report.AnalysisID)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, report.AnalysisID)

	res = runCLI(t, "", "reports", "delete", "--store", db, report.AnalysisID)
	require.Equal(t, 0, res.code, res.stderr)

	res = runCLI(t, "", "reports", "show", "--store", db, report.AnalysisID)
	assert.Equal(t, exitInputRejected, res.code)
	assert.Contains(t, res.stderr, "not found")
}

func TestBatchCommand(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "roster/alice.py", duplicatedPython)
	writeFile(t, dir, "roster/bob.py", "def f(: pass\n")
	writeFile(t, dir, "roster/carol.java", "class Main {\n    int one() { return 1; }\n}\n")
	writeFile(t, dir, "roster/node_modules/lib.js", "function x() { return 1; }\n")

	res := runCLI(t, "", "batch", "--format", "json", "--no-progress", filepath.Join(dir, "roster"))
	require.Equal(t, 0, res.code, res.stderr)

	var results []domain.BatchResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
	require.Len(t, results, 3)

	byName := make(map[string]domain.BatchResult)
	for _, r := range results {
		byName[filepath.Base(r.CorrelationID)] = r
	}
	require.NotNil(t, byName["alice.py"].Report)
	assert.NotEmpty(t, byName["alice.py"].Report.Clones)
	assert.Nil(t, byName["bob.py"].Report)
	assert.Equal(t, domain.ErrCodeSyntaxError, byName["bob.py"].ErrorCode)
	require.NotNil(t, byName["carol.java"].Report)
}

func TestBatchRequiresSubmissions(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	res := runCLI(t, "", "batch", "--no-progress", filepath.Join(dir, "empty"))
	assert.Equal(t, exitInputRejected, res.code)
}

func TestParseCommand(t *testing.T) {
	isolate(t)

	res := runCLI(t, "def f(x):\n    return x\n", "parse", "--language", "python", "-")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Function[")
	assert.Contains(t, res.stdout, `Identifier "x"`)
	assert.Contains(t, res.stderr, "python:")

	res = runCLI(t, "def f(: pass\n", "parse", "--language", "python", "-")
	assert.Equal(t, exitInputRejected, res.code)
}

func TestLanguagesCommand(t *testing.T) {
	isolate(t)

	res := runCLI(t, "", "languages", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	var languages []domain.LanguageInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &languages))
	codes := make([]domain.Language, len(languages))
	for i, l := range languages {
		codes[i] = l.Code
	}
	assert.Equal(t, []domain.Language{"generic", "go", "java", "javascript", "python"}, codes)

	res = runCLI(t, "", "languages")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "assumed")
}

func TestInitCommand(t *testing.T) {
	dir := isolate(t)

	res := runCLI(t, "", "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, filepath.Join(dir, ".syntaxy.toml"))

	res = runCLI(t, "", "init")
	assert.Equal(t, exitInputRejected, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = runCLI(t, "", "init", "--force")
	assert.Equal(t, 0, res.code, res.stderr)

	// The generated file is picked up by later commands.
	path := writeFile(t, dir, "submission.py", duplicatedPython)
	res = runCLI(t, "", "analyze", "--format", "json", path)
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestConfigFileOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".syntaxy.toml", "[analysis]\nmode = \"exact\"\n\n[output]\nformat = \"json\"\n")
	path := writeFile(t, dir, "submission.py", duplicatedPython)

	res := runCLI(t, "", "analyze", path)
	require.Equal(t, 0, res.code, res.stderr)
	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, domain.ModeExact, report.Mode)

	res = runCLI(t, "", "analyze", "--mode", "near_miss", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, domain.ModeNearMiss, report.Mode)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitInputRejected, exitCode(&domain.SyntaxError{Line: 1}))
	assert.Equal(t, exitInputRejected, exitCode(newUsageError("bad flag")))
	assert.Equal(t, exitInternal, exitCode(domain.NewInvariantViolation("broken")))
	assert.Equal(t, exitInternal, exitCode(domain.NewStoreError("disk", nil)))
}
