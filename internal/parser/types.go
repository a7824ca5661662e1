package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skelly-dev/lint8/internal/pyast"
)

// ErrSyntax marks source the language front end rejected.
var ErrSyntax = errors.New("invalid syntax")

// SourceFile is the parsed, read-only view of one file shared by all checks.
type SourceFile struct {
	Path     string
	Language string
	Content  []byte
	Lines    []string // without line terminators
	Module   *pyast.Module
}

// Line returns the 1-based line, or "" when out of range.
func (f *SourceFile) Line(n int) string {
	if f == nil || n < 1 || n > len(f.Lines) {
		return ""
	}
	return f.Lines[n-1]
}

// ParseError is returned when a file cannot be read or parsed.
type ParseError struct {
	Path   string
	Line   int    // 1-based, 0 when unknown
	Column int    // 0-based
	Source string // offending line, if known
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SplitLines splits content into lines, dropping "\n" and "\r\n" terminators.
// A trailing newline does not produce an extra empty line.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
