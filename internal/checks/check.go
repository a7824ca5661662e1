// Package checks holds the lint rules and the static table that assigns
// each of them its diagnostic code.
package checks

import (
	"context"
	"strings"

	"github.com/skelly-dev/lint8/internal/diag"
	"github.com/skelly-dev/lint8/internal/parser"
)

// Check inspects one parsed file. Implementations must not modify the file;
// it is shared with every other check.
type Check interface {
	Evaluate(ctx context.Context, file *parser.SourceFile) ([]diag.Diagnostic, error)
}

// MatchResult is the outcome of matching one node against a rule.
type MatchResult uint8

const (
	NoMatch MatchResult = iota
	Match
	// Unsupported means the node has a shape the rule does not handle.
	// It is reported as no finding.
	Unsupported
)

func (r MatchResult) String() string {
	switch r {
	case NoMatch:
		return "no-match"
	case Match:
		return "match"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// columnOf returns the byte offset of substr in line, or 0 when absent.
func columnOf(line, substr string) int {
	if i := strings.Index(line, substr); i >= 0 {
		return i
	}
	return 0
}
