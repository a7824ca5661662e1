package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Diagnostic is one reported finding for a single source line.
type Diagnostic struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`   // 1-based
	Column  int    `json:"column"` // 0-based byte offset into Source
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// New builds a diagnostic, falling back to column 0 when the offset does not
// fit the source line.
func New(path string, line, column int, code Code, message, source string) Diagnostic {
	if line < 1 {
		line = 1
	}
	if column < 0 || column > len(source) {
		column = 0
	}
	return Diagnostic{
		Path:    path,
		Line:    line,
		Column:  column,
		Code:    code,
		Message: message,
		Source:  source,
	}
}

// AtLine builds a diagnostic whose source excerpt is taken from lines.
// Lines outside the file yield an empty excerpt.
func AtLine(path string, lines []string, line, column int, code Code, message string) Diagnostic {
	return New(path, line, column, code, message, LineAt(lines, line))
}

// LineAt returns the 1-based line from lines, or "" when out of range.
func LineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Header is the "path:line:column: code message" part of a record.
func (d Diagnostic) Header() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", d.Path, d.Line, d.Column, d.Code, d.Message)
}

// Caret returns the marker line aligned under Column.
func (d Diagnostic) Caret() string {
	return strings.Repeat(" ", d.Column) + "^"
}

// Render formats the diagnostic as a three-line text record without a
// trailing newline.
func (d Diagnostic) Render() string {
	return d.Header() + "\n" + d.Source + "\n" + d.Caret()
}

// SortByPosition orders diagnostics of one file by line, then column, then code.
// The sort is stable so equal positions keep their emission order.
func SortByPosition(items []Diagnostic) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Line != items[j].Line {
			return items[i].Line < items[j].Line
		}
		if items[i].Column != items[j].Column {
			return items[i].Column < items[j].Column
		}
		return items[i].Code < items[j].Code
	})
}
