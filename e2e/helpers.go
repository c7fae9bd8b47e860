package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
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

// buildSyntaxyBinary builds the CLI into a temporary directory
func buildSyntaxyBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "syntaxy")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/syntaxy")

	// Build from the project root (one level up from e2e directory)
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build syntaxy binary: %v\n%s", err, out)
	}
	return binaryPath
}

// writeSubmission creates a source file under dir
func writeSubmission(t *testing.T, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", filename, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}
	return path
}

type runResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runSyntaxy runs the binary in workDir, feeding stdin
func runSyntaxy(t *testing.T, binary, workDir, stdin string, args ...string) runResult {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Dir = workDir
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{stdout: stdout.String(), stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.exitCode = exitErr.ExitCode()
	default:
		t.Fatalf("Failed to run syntaxy: %v", err)
	}
	return res
}
