package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/parser"
	"go.uber.org/zap/zaptest"
)

func TestParseStyleOutput(t *testing.T) {
	out := "stdin:1:1: E265 block comment should start with '# '\r\n" +
		"    #bad\n" +
		"stdin:12:80: E501 line too long (88 > 79 characters)\n" +
		"stdin:3:1: W391 blank line at end of file\n"

	got := ParseStyleOutput(out)
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %#v", got)
	}
	if got[0].Line != 1 || got[0].Column != 0 || got[0].Code != "E265" {
		t.Fatalf("unexpected first message %#v", got[0])
	}
	if got[1].Column != 79 || got[1].Text != "line too long (88 > 79 characters)" {
		t.Fatalf("expected 0-based column 79, got %#v", got[1])
	}
	if got[2].Code != "W391" {
		t.Fatalf("expected W391, got %s", got[2].Code)
	}
}

func TestParseReferenceOutput(t *testing.T) {
	out := "<stdin>:1:1: 'os' imported but unused\n" +
		"<stdin>:4: undefined name 'foo'\n" +
		"<stdin>:5:5: something pyflakes added later\n"

	got := ParseReferenceOutput(out)
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %#v", got)
	}
	if got[0].Code != diag.UnusedImport || got[0].Column != 0 {
		t.Fatalf("unexpected first message %#v", got[0])
	}
	if got[1].Line != 4 || got[1].Column != 0 || got[1].Code != diag.UndefinedName {
		t.Fatalf("expected column-less undefined name on line 4, got %#v", got[1])
	}
	if got[2].Code != diag.UnknownReference || got[2].Column != 4 {
		t.Fatalf("expected unknown kind at column 4, got %#v", got[2])
	}
}

func TestClassifyReference(t *testing.T) {
	cases := []struct {
		text string
		want diag.Code
	}{
		{"'sys' imported but unused", diag.UnusedImport},
		{"'from os import *' used; unable to detect undefined names", diag.ImportStarUsed},
		{"'path' may be undefined, or defined from star imports: os", diag.ImportStarUsage},
		{"undefined name 'missing' in __all__", diag.UndefinedExport},
		{"undefined name 'missing'", diag.UndefinedName},
		{"redefinition of unused 'run' from line 3", diag.RedefinedWhileUnused},
		{"local variable 'x' is assigned to but never used", diag.UnusedVariable},
		{"local variable 'x' defined in enclosing scope on line 2 referenced before assignment", diag.UndefinedLocal},
		{"duplicate argument 'a' in function definition", diag.DuplicateArgument},
		{"'return' outside function", diag.ReturnOutsideFunction},
		{"import 'os' from line 1 shadowed by loop variable", diag.ImportShadowedByLoopVar},
		{"f-string is missing placeholders", diag.FStringMissingPlaceholders},
		{"local variable 'x' is annotated but never used", diag.UnusedAnnotation},
		{"'...' % ... has invalid format string: incomplete format", diag.PercentFormatInvalid},
		{"'...' % ... expected mapping but got tuple", diag.PercentFormatMapping},
		{"'...' % ... has 2 placeholder(s) but 1 substitution(s)", diag.PercentFormatCountMismatch},
		{"'...' % ... `*` specifier requires sequence", diag.PercentFormatStarSequence},
		{"'...' % ... has unsupported format character 'y'", diag.PercentFormatUnsupported},
		{"'...'.format(...) has unused arguments at position(s): 1", diag.DotFormatExtraPositional},
		{"'...'.format(...) is missing argument(s) for placeholder(s): name", diag.DotFormatMissingArg},
		{"'...'.format(...) mixes automatic and manual numbering", diag.DotFormatMixedNumbering},
		{"dictionary key variable key repeated with different values", diag.MultiValueRepeatedVariable},
		{"dictionary key 'a' repeated with different values", diag.MultiValueRepeatedKey},
		{"'yield' outside function", diag.YieldOutsideFunction},
		{"syntax error in forward annotation 'List['", diag.ForwardAnnotationSyntax},
		{"no such message", diag.UnknownReference},
	}
	for _, tc := range cases {
		if got := ClassifyReference(tc.text); got != tc.want {
			t.Fatalf("ClassifyReference(%q): expected %s, got %s", tc.text, tc.want, got)
		}
	}
}

func TestReferenceKindsAreRegisteredCodes(t *testing.T) {
	seen := map[diag.Code]bool{}
	for _, kind := range referenceKinds {
		if _, ok := diag.Lookup(kind.code); !ok {
			t.Fatalf("kind %s missing from the code table", kind.code)
		}
		if seen[kind.code] {
			t.Fatalf("kind %s listed twice", kind.code)
		}
		seen[kind.code] = true
	}
}

func TestNewPycodestyleArgs(t *testing.T) {
	cmd := NewPycodestyle(Config{MaxLineLength: 100, Args: []string{"--hang-closing"}},
		[]diag.Code{"E501", "L002", "F401", "W291"}, nil)

	got := strings.Join(cmd.Args(), " ")
	want := "--max-line-length=100 --ignore=" + strings.Join(DefaultStyleIgnore, ",") + ",E501,W291 --hang-closing -"
	if got != want {
		t.Fatalf("expected args %q, got %q", want, got)
	}

	plain := NewPycodestyle(Config{}, []diag.Code{"L003"}, nil)
	if args := plain.Args(); len(args) != 1 || args[0] != "-" {
		t.Fatalf("expected only stdin marker without style ignores, got %v", args)
	}
}

func TestCommandRunWithFakeEngine(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()
	file := &parser.SourceFile{Path: "mod.py", Content: []byte("import os\n")}

	findings := writeScript(t, dir, "findings.sh", "cat >/dev/null\necho \"<stdin>:1:1: 'os' imported but unused\"\nexit 1\n")
	cmd := NewCommand(PyflakesName, sh, []string{findings}, ParseReferenceOutput, zaptest.NewLogger(t))
	msgs, err := cmd.Run(context.Background(), file)
	if err != nil {
		t.Fatalf("expected exit 1 with findings to succeed, got %v", err)
	}
	if len(msgs) != 1 || msgs[0].Code != diag.UnusedImport {
		t.Fatalf("expected one unused import, got %#v", msgs)
	}

	clean := writeScript(t, dir, "clean.sh", "cat >/dev/null\nexit 0\n")
	msgs, err = NewCommand(PyflakesName, sh, []string{clean}, ParseReferenceOutput, nil).Run(context.Background(), file)
	if err != nil || len(msgs) != 0 {
		t.Fatalf("expected clean run, got %v / %#v", err, msgs)
	}
}

func TestCommandRunFailures(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()
	file := &parser.SourceFile{Path: "mod.py", Content: []byte("def broken(:\n")}

	syntax := writeScript(t, dir, "syntax.sh", "cat >/dev/null\necho '<stdin>:1:12: invalid syntax' >&2\nexit 1\n")
	_, err := NewCommand(PyflakesName, sh, []string{syntax}, ParseReferenceOutput, nil).Run(context.Background(), file)
	var engErr *Error
	if !errors.As(err, &engErr) {
		t.Fatalf("expected *Error for stderr-only exit 1, got %v", err)
	}
	if engErr.Status != 1 || engErr.Stderr != "<stdin>:1:12: invalid syntax" || engErr.Path != "mod.py" {
		t.Fatalf("unexpected error detail %#v", engErr)
	}

	crash := writeScript(t, dir, "crash.sh", "cat >/dev/null\nexit 3\n")
	_, err = NewCommand(PycodestyleName, sh, []string{crash}, ParseStyleOutput, nil).Run(context.Background(), file)
	if !errors.As(err, &engErr) || engErr.Status != 3 {
		t.Fatalf("expected exit 3 failure, got %v", err)
	}

	_, err = NewCommand(PycodestyleName, filepath.Join(dir, "does-not-exist"), nil, ParseStyleOutput, nil).Run(context.Background(), file)
	if !errors.As(err, &engErr) || engErr.Status != -1 {
		t.Fatalf("expected missing binary failure, got %v", err)
	}
}

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
