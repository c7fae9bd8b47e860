package e2e

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestBatchE2ERoster tests a roster with a rejected submission
func TestBatchE2ERoster(t *testing.T) {
	binary := buildSyntaxyBinary(t)
	dir := t.TempDir()
	writeSubmission(t, dir, "roster/alice.py", duplicatedPython)
	writeSubmission(t, dir, "roster/bob.py", "def f(: pass\n")
	writeSubmission(t, dir, "roster/carol.js", "function add(a, b) {\n  return a + b;\n}\n")

	res := runSyntaxy(t, binary, dir, "", "batch", "--format", "json", "--workers", "2", "roster")
	if res.exitCode != 0 {
		t.Fatalf("Command failed with exit code %d: %s", res.exitCode, res.stderr)
	}

	var results []map[string]interface{}
	if err := json.Unmarshal([]byte(res.stdout), &results); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, res.stdout)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Results are ordered by correlation id, which is the file path.
	if results[1]["error_code"] != "SYNTAX_ERROR" {
		t.Errorf("Expected bob.py to be rejected, got %v", results[1])
	}
	for _, i := range []int{0, 2} {
		if _, ok := results[i]["report"]; !ok {
			t.Errorf("Expected a report for %v", results[i]["correlation_id"])
		}
	}
}

// TestBatchE2ECSVToFile tests CSV output written to a file
func TestBatchE2ECSVToFile(t *testing.T) {
	binary := buildSyntaxyBinary(t)
	dir := t.TempDir()
	writeSubmission(t, dir, "roster/alice.py", duplicatedPython)
	out := filepath.Join(dir, "out", "clones.csv")

	res := runSyntaxy(t, binary, dir, "", "batch", "--format", "csv", "--output", out, "roster")
	if res.exitCode != 0 {
		t.Fatalf("Command failed with exit code %d: %s", res.exitCode, res.stderr)
	}
	if !strings.Contains(res.stderr, "Report written:") {
		t.Errorf("Expected a status line on stderr, got %q", res.stderr)
	}

	file, err := os.Open(out)
	if err != nil {
		t.Fatalf("Failed to open CSV output: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV output: %v", err)
	}
	if len(rows) < 3 {
		t.Fatalf("Expected a header and one row per clone location, got %d rows", len(rows))
	}
	if rows[0][0] != "correlation_id" {
		t.Errorf("Unexpected CSV header: %v", rows[0])
	}
}

// TestBatchE2EStoreAndReports tests persisting batch reports
func TestBatchE2EStoreAndReports(t *testing.T) {
	binary := buildSyntaxyBinary(t)
	dir := t.TempDir()
	writeSubmission(t, dir, "roster/alice.py", duplicatedPython)
	writeSubmission(t, dir, "roster/dave.go", "package main\n\nfunc main() {}\n")

	res := runSyntaxy(t, binary, dir, "", "batch", "--store", "reports.db", "roster")
	if res.exitCode != 0 {
		t.Fatalf("batch failed with exit code %d: %s", res.exitCode, res.stderr)
	}

	res = runSyntaxy(t, binary, dir, "", "reports", "list", "--store", "reports.db", "--format", "json")
	if res.exitCode != 0 {
		t.Fatalf("reports list failed: %s", res.stderr)
	}
	var summaries []map[string]interface{}
	if err := json.Unmarshal([]byte(res.stdout), &summaries); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, res.stdout)
	}
	if len(summaries) != 2 {
		t.Errorf("Expected 2 stored reports, got %d", len(summaries))
	}
}

// TestInitE2E tests that a generated config file is picked up
func TestInitE2E(t *testing.T) {
	binary := buildSyntaxyBinary(t)
	dir := t.TempDir()

	res := runSyntaxy(t, binary, dir, "", "init")
	if res.exitCode != 0 {
		t.Fatalf("init failed: %s", res.stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, ".syntaxy.toml")); err != nil {
		t.Fatalf("Expected .syntaxy.toml to exist: %v", err)
	}

	res = runSyntaxy(t, binary, dir, "", "init")
	if res.exitCode != 2 {
		t.Errorf("Expected init without --force to fail with exit code 2, got %d", res.exitCode)
	}
}
