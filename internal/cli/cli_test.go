package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

type runOutput struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, args ...string) runOutput {
	t.Helper()
	cmd := NewRootCommand("1.2.3")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return runOutput{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRunLintTextOutput(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "mod.py"), "from __future__ import absolute_import\nfrom os.path import *\n")

	withWorkingDir(t, root, func() {
		out := runCLI(t, "--no-engines", "mod.py")

		var findings *FindingsError
		if !errors.As(out.err, &findings) || findings.Count != 1 {
			t.Fatalf("expected one finding, got %v", out.err)
		}
		if ExitCode(out.err) != 1 {
			t.Fatalf("expected exit status 1, got %d", ExitCode(out.err))
		}
		want := "mod.py:2:20: L002 use of import *\nfrom os.path import *\n                    ^\n"
		if out.stderr != want {
			t.Fatalf("expected text record on stderr:\n%q\ngot\n%q", want, out.stderr)
		}
		if out.stdout != "" {
			t.Fatalf("expected nothing on stdout, got %q", out.stdout)
		}
	})
}

func TestRunLintIgnoreAndWebFlags(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "pkg", "views.py"), "import pprint\n\ndef showAll():\n    print('x')\n")

	withWorkingDir(t, root, func() {
		out := runCLI(t, "--no-engines", "pkg")
		if got := codesIn(out.stderr); got != "L001 L006" {
			t.Fatalf("expected default checks only, got %q", got)
		}

		out = runCLI(t, "--no-engines", "-w", "--ignore", "l001,L005", "--ignore", "L006", "pkg")
		if got := codesIn(out.stderr); got != "L004" {
			t.Fatalf("expected only L004 with --web and ignores, got %q", got)
		}
	})
}

func TestRunLintConfigFileAndOverrides(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, ".lint8.toml"), "ignore = [\"L001\"]\nweb = true\nexclude = [\"generated/\"]\n")
	mustWriteFile(t, filepath.Join(root, ".lint8ignore"), "# vendored\nthird_party/\n")
	mustWriteFile(t, filepath.Join(root, "app.py"), "print('x')\n")
	mustWriteFile(t, filepath.Join(root, "generated", "gen.py"), "print('x')\n")
	mustWriteFile(t, filepath.Join(root, "third_party", "lib.py"), "print('x')\n")

	withWorkingDir(t, root, func() {
		out := runCLI(t, "--no-engines", ".")
		if got := codesIn(out.stderr); got != "L004" {
			t.Fatalf("expected L004 from app.py only, got %q\n%s", got, out.stderr)
		}

		out = runCLI(t, "--no-engines", "--web=false", ".")
		if out.err != nil {
			t.Fatalf("expected --web=false to override the config, got %v\n%s", out.err, out.stderr)
		}
	})
}

func TestRunLintJSONOutput(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.py"), "import os\n")
	mustWriteFile(t, filepath.Join(root, "notes.txt"), "ignored\n")

	withWorkingDir(t, root, func() {
		out := runCLI(t, "--no-engines", "--format", "json", ".")
		if ExitCode(out.err) != 1 {
			t.Fatalf("expected exit status 1, got %v", out.err)
		}

		var decoded struct {
			Count       int `json:"count"`
			Files       int `json:"files"`
			Diagnostics []struct {
				Path string `json:"path"`
				Code string `json:"code"`
			} `json:"diagnostics"`
		}
		if err := json.Unmarshal([]byte(out.stdout), &decoded); err != nil {
			t.Fatalf("invalid JSON on stdout: %v\n%s", err, out.stdout)
		}
		if decoded.Count != 1 || decoded.Files != 1 || decoded.Diagnostics[0].Code != "L001" {
			t.Fatalf("unexpected JSON report %#v", decoded)
		}
	})
}

func TestRunLintWritesSARIFToFile(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.py"), "import os\n")

	withWorkingDir(t, root, func() {
		out := runCLI(t, "--no-engines", "--format", "sarif", "-o", filepath.Join("reports", "lint8.sarif"), "a.py")
		if ExitCode(out.err) != 1 {
			t.Fatalf("expected findings exit status, got %v", out.err)
		}
		if out.stdout != "" || out.stderr != "" {
			t.Fatalf("expected report only in the file, got %q / %q", out.stdout, out.stderr)
		}
		data, err := os.ReadFile(filepath.Join(root, "reports", "lint8.sarif"))
		if err != nil {
			t.Fatalf("expected SARIF file: %v", err)
		}
		if !strings.Contains(string(data), `"ruleId": "L001"`) || !strings.Contains(string(data), `"version": "1.2.3"`) {
			t.Fatalf("unexpected SARIF content:\n%s", data)
		}
	})
}

func TestRunLintCleanFileExitsZero(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "ok.py"), "from __future__ import absolute_import\n\ndef run():\n    return 1\n")

	withWorkingDir(t, root, func() {
		out := runCLI(t, "--no-engines", "ok.py")
		if out.err != nil || ExitCode(out.err) != 0 {
			t.Fatalf("expected clean run, got %v", out.err)
		}
		if out.stderr != "" {
			t.Fatalf("expected no output, got %q", out.stderr)
		}
	})
}

func TestRunLintReportsUnparsableFileAndContinues(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a_broken.py"), "def broken(:\n")
	mustWriteFile(t, filepath.Join(root, "b_ok.py"), "import os\n")

	withWorkingDir(t, root, func() {
		out := runCLI(t, "--no-engines", ".")
		if got := codesIn(out.stderr); got != "L000 L001" {
			t.Fatalf("expected L000 for the broken file then L001, got %q", got)
		}
		if ExitCode(out.err) != 2 {
			t.Fatalf("expected exit status 2, got %d", ExitCode(out.err))
		}
	})
}

func TestRunLintWithFakePyflakes(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	root := t.TempDir()
	fake := filepath.Join(root, "bin", "fake-pyflakes")
	mustWriteFile(t, fake, "#!/bin/sh\ncat >/dev/null\necho \"<stdin>:1:1: 'os' imported but unused\"\necho \"<stdin>:2:1: 'from sys import *' used; unable to detect undefined names\"\nexit 1\n")
	if err := os.Chmod(fake, 0755); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	mustWriteFile(t, filepath.Join(root, "src", "m.py"), "import os\nfrom sys import *\n")
	mustWriteFile(t, filepath.Join(root, ".lint8.yaml"), "ignore: [L001]\nstyle:\n  enabled: false\n")
	t.Setenv("LINT8_PYFLAKES", fake)

	withWorkingDir(t, root, func() {
		out := runCLI(t, "src")
		if got := codesIn(out.stderr); got != "L002 F401" {
			t.Fatalf("expected L002 then F401 (F403 dropped), got %q\n%s", got, out.stderr)
		}

		out = runCLI(t, "--ignore", "F401", "src")
		if got := codesIn(out.stderr); got != "L002" {
			t.Fatalf("expected F401 suppressed, got %q", got)
		}
	})
}

func TestRunLintMissingConfiguredEngineFails(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "m.py"), "import os\n")
	t.Setenv("LINT8_PYCODESTYLE", filepath.Join(root, "nope"))

	withWorkingDir(t, root, func() {
		out := runCLI(t, "m.py")
		var findings *FindingsError
		if out.err == nil || errors.As(out.err, &findings) {
			t.Fatalf("expected configuration error, got %v", out.err)
		}
		if ExitCode(out.err) != 1 {
			t.Fatalf("expected exit status 1, got %d", ExitCode(out.err))
		}
	})
}

func TestRunLintUsageErrors(t *testing.T) {
	withWorkingDir(t, t.TempDir(), func() {
		for _, args := range [][]string{
			{},
			{"--format", "xml", "a.py"},
			{"--color", "sometimes", "a.py"},
			{"--log-level", "chatty", "a.py"},
			{"--jobs", "-1", "a.py"},
		} {
			out := runCLI(t, args...)
			if out.err == nil || ExitCode(out.err) != 1 {
				t.Fatalf("args %v: expected usage error with exit 1, got %v", args, out.err)
			}
		}
	})
}

func TestRunLintListCodesAndVersion(t *testing.T) {
	out := runCLI(t, "--list-codes")
	if out.err != nil {
		t.Fatalf("--list-codes failed: %v", out.err)
	}
	for _, want := range []string{"L000", "NoWildcardImport", "F401", "F999", "pycodestyle"} {
		if !strings.Contains(out.stdout, want) {
			t.Fatalf("expected code listing to contain %q, got:\n%s", want, out.stdout)
		}
	}

	out = runCLI(t, "--version")
	if out.err != nil || out.stdout != "lint8 1.2.3\n" {
		t.Fatalf("unexpected version output %q (%v)", out.stdout, out.err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{&FindingsError{Count: 3}, 3},
		{&FindingsError{Count: 255}, 255},
		{&FindingsError{Count: 256}, 255},
		{&FindingsError{Count: 10000}, 255},
		{errors.New("boom"), 1},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v): expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

// codesIn returns the codes of every text record header, space separated.
func codesIn(text string) string {
	var codes []string
	lines := strings.Split(text, "\n")
	for i := 0; i+2 < len(lines); i += 3 {
		fields := strings.Fields(lines[i])
		if len(fields) >= 2 {
			codes = append(codes, fields[1])
		}
	}
	return strings.Join(codes, " ")
}

func withWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()

	originalWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get cwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer func() {
		_ = os.Chdir(originalWD)
	}()

	fn()
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}
