package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skelly-dev/lint8/internal/cli"
)

var fixturesDir = filepath.Join("..", "..", "fixtures", "python")

func runLint(t *testing.T, args ...string) (string, int) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), ".lint8.toml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write empty config: %v", err)
	}
	cmd := cli.NewRootCommand("test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-engines", "--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String() + stderr.String(), cli.ExitCode(err)
}

func headers(output string) []string {
	var out []string
	lines := strings.Split(output, "\n")
	for i := 0; i+2 < len(lines); i += 3 {
		out = append(out, lines[i])
	}
	return out
}

func TestLintFixtures(t *testing.T) {
	views := filepath.Join(fixturesDir, "app", "views.py")
	broken := filepath.Join(fixturesDir, "broken.py")

	output, status := runLint(t, fixturesDir)
	got := headers(output)
	want := []string{
		views + ":1:0: L001 file missing \"from __future__ import absolute_import\"",
		views + ":3:20: L002 use of import *",
		views + ":10:20: L003 use of empty/broad except",
		views + ":17:10: L003 use of empty/broad except",
		views + ":6:4: L006 function name \"renderPage\" is not lower_case_with_underscores",
	}
	if len(got) != len(want)+1 {
		t.Fatalf("expected %d records, got %d:\n%s", len(want)+1, len(got), output)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: expected\n%s\ngot\n%s", i, want[i], got[i])
		}
	}
	if !strings.HasPrefix(got[len(want)], broken+":") || !strings.Contains(got[len(want)], " L000 ") {
		t.Fatalf("expected a parse failure for broken.py last, got %q", got[len(want)])
	}
	if status != 6 {
		t.Fatalf("expected exit status 6, got %d", status)
	}
}

func TestLintFixturesWebMode(t *testing.T) {
	output, status := runLint(t, "--web", "--ignore", "L000", fixturesDir)

	var codes []string
	for _, h := range headers(output) {
		codes = append(codes, strings.Fields(h)[1])
	}
	if strings.Join(codes, " ") != "L001 L002 L003 L003 L004 L005 L006" {
		t.Fatalf("unexpected codes %v\n%s", codes, output)
	}
	if status != 7 {
		t.Fatalf("expected exit status 7, got %d", status)
	}
}

func TestLintFixturesDeterministicAcrossJobs(t *testing.T) {
	serial, _ := runLint(t, "--web", "--format", "json", "-j", "1", fixturesDir)
	parallel, _ := runLint(t, "--web", "--format", "json", "-j", "8", fixturesDir)
	again, _ := runLint(t, "--web", "--format", "json", "-j", "8", fixturesDir)

	if serial != parallel || parallel != again {
		t.Fatalf("expected byte-identical JSON output across runs")
	}
}

func TestLintCleanFixture(t *testing.T) {
	output, status := runLint(t, "--web", filepath.Join(fixturesDir, "clean.py"))
	if status != 0 || output != "" {
		t.Fatalf("expected clean.py to pass, got status %d:\n%s", status, output)
	}
}
